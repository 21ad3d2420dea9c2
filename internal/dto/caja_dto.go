package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"min=0"`
}

type GastoRequest struct {
	Monto       decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=3"`
}

// CerrarCajaRequest carries the blind count: the cashier declares what was
// counted without seeing the expected totals.
type CerrarCajaRequest struct {
	ContadoEfectivo      decimal.Decimal `json:"contado_efectivo"      validate:"min=0"`
	ContadoTarjeta       decimal.Decimal `json:"contado_tarjeta"       validate:"min=0"`
	ContadoTransferencia decimal.Decimal `json:"contado_transferencia" validate:"min=0"`
	Observaciones        *string         `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TotalesEsperados struct {
	Efectivo      decimal.Decimal `json:"efectivo"` // monto_inicial + ventas efectivo - gastos
	Tarjeta       decimal.Decimal `json:"tarjeta"`
	Transferencia decimal.Decimal `json:"transferencia"`
	// CuentaCorriente suma las ventas fiadas: cuentan en el total vendido
	// pero no en la expectativa de plata contable del cajón.
	CuentaCorriente decimal.Decimal `json:"cuenta_corriente"`
	Gastos          decimal.Decimal `json:"gastos"`
	// Total es la suma de ventas de todos los métodos, sin monto inicial
	// ni gastos.
	Total decimal.Decimal `json:"total"`
}

type DiferenciaCierre struct {
	Efectivo      decimal.Decimal `json:"efectivo"`
	Tarjeta       decimal.Decimal `json:"tarjeta"`
	Transferencia decimal.Decimal `json:"transferencia"`
	Total         decimal.Decimal `json:"total"`
	Clasificacion string          `json:"clasificacion"` // normal | advertencia | critico
}

type CierreCajaResponse struct {
	SesionID    string           `json:"sesion_id"`
	Esperado    TotalesEsperados `json:"esperado"`
	Contado     TotalesEsperados `json:"contado"`
	Diferencias DiferenciaCierre `json:"diferencias"`
}

type SesionCajaResponse struct {
	ID           string          `json:"id"`
	UsuarioID    string          `json:"usuario_id"`
	MontoInicial decimal.Decimal `json:"monto_inicial"`
	Estado       string          `json:"estado"`
	OpenedAt     string          `json:"opened_at"`
	ClosedAt     *string         `json:"closed_at"`
}

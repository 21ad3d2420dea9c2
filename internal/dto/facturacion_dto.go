package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

type FacturaFilter struct {
	ClienteID *uuid.UUID `form:"cliente_id"`
	Estado    string     `form:"estado" validate:"omitempty,oneof=pendiente pagada anulada vencida"`
	Page      int        `form:"page,default=1"   validate:"min=1"`
	Limit     int        `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// GenerarFacturaRequest agrupa ítems facturables pendientes de UN cliente
// en una factura. El lote es todo-o-nada.
type GenerarFacturaRequest struct {
	ClienteID string   `json:"cliente_id" validate:"required,uuid"`
	Tipo      string   `json:"tipo"       validate:"required,oneof=A B C ticket"`
	ItemIDs   []string `json:"item_ids"   validate:"required,min=1,dive,uuid"`
	// Fecha y Vencimiento permiten fechar la factura explícitamente; si se
	// omiten, la fecha es hoy y el vencimiento corre los días configurados.
	Fecha       *time.Time `json:"fecha"`
	Vencimiento *time.Time `json:"vencimiento"`
	// EnviarEmail encola el PDF al cliente tras emitir.
	EnviarEmail bool `json:"enviar_email"`
}

type RegistrarPagoRequest struct {
	Monto  decimal.Decimal `json:"monto"  validate:"required,gt=0"`
	Metodo string          `json:"metodo" validate:"required,oneof=efectivo tarjeta transferencia"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FacturaResponse struct {
	ID            string          `json:"id"`
	Numero        string          `json:"numero"` // %08d
	Tipo          string          `json:"tipo"`
	ClienteID     string          `json:"cliente_id"`
	ClienteNombre string          `json:"cliente_nombre"`
	Fecha         string          `json:"fecha"`
	Vencimiento   string          `json:"vencimiento"`
	Total         decimal.Decimal `json:"total"`
	Pagado        decimal.Decimal `json:"pagado"`
	Saldo         decimal.Decimal `json:"saldo"`
	// Estado efectivo: incluye el overlay "vencida".
	Estado string `json:"estado"`
}

type SaldoClienteResponse struct {
	ClienteID string          `json:"cliente_id"`
	Saldo     decimal.Decimal `json:"saldo"`
	// FacturasPendientes incluye vencidas.
	FacturasPendientes int `json:"facturas_pendientes"`
	ItemsSinFacturar   int `json:"items_sin_facturar"`
}

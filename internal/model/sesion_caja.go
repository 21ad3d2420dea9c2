package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados en todo el sistema.
const (
	MetodoEfectivo        = "efectivo"
	MetodoTarjeta         = "tarjeta"
	MetodoTransferencia   = "transferencia"
	MetodoCuentaCorriente = "cuenta_corriente"
)

// Estados de sesión y tipos de movimiento de caja.
const (
	SesionAbierta = "abierta"
	SesionCerrada = "cerrada"

	MovimientoVenta = "venta"
	MovimientoGasto = "gasto"
)

// SesionCaja representa el ciclo de vida de una caja.
// Estado: "abierta" | "cerrada". A nivel de base hay un índice único parcial
// sobre estado='abierta': nunca puede haber más de una sesión abierta.
type SesionCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'abierta'"`
	// Campos de cierre — nil mientras la sesión está abierta.
	ContadoEfectivo      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ContadoTarjeta       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ContadoTransferencia *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// ClasificacionDiferencia: "normal" | "advertencia" | "critico"
	ClasificacionDiferencia *string `gorm:"type:varchar(20)"`
	Observaciones           *string
	OpenedAt                time.Time
	ClosedAt                *time.Time

	Movimientos []MovimientoCaja `gorm:"foreignKey:SesionCajaID"`
}

func (SesionCaja) TableName() string { return "sesiones_caja" }

// MovimientoCaja es un evento inmutable del libro de caja.
// Tipo: "venta" | "gasto"
// Los movimientos NUNCA se modifican ni eliminan — cada alta es un INSERT
// atómico, no una reescritura del arreglo de la sesión.
type MovimientoCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo         string          `gorm:"type:varchar(20);not null"`
	MetodoPago   *string         `gorm:"type:varchar(20)"` // nil para gastos
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion  string          `gorm:"not null"`
	ReferenciaID *uuid.UUID      `gorm:"type:uuid"` // venta o pedido de origen
	CreatedAt    time.Time
}

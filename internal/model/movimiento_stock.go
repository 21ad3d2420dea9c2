package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StockVenta              = "venta"
	StockPedido             = "pedido"
	StockCancelacionPedido  = "cancelacion_pedido"
	StockAsignacionVendedor = "asignacion_vendedor"
	StockDevolucionVendedor = "devolucion_vendedor"
	StockFraccionamiento    = "fraccionamiento"
	StockAjusteManual       = "ajuste_manual"
)

// MovimientoStock registra cada cambio de stock de un producto.
// Se crea automáticamente al vender, asignar a vendedor, recibir mercadería,
// fraccionar o ajustar manualmente.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"not null"` // "venta" | "pedido" | "cancelacion_pedido" | "asignacion_vendedor" | "devolucion_vendedor" | "fraccionamiento" | "ajuste_manual"
	Cantidad      int       `gorm:"not null"` // positivo = entrada, negativo = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid"` // venta, pedido, asignacion u orden segun Tipo
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization.
func (MovimientoStock) TableName() string { return "movimientos_stock" }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PedidoPendiente = "pendiente"
	PedidoEnReparto = "en_reparto"
	PedidoEntregado = "entregado"
	PedidoCancelado = "cancelado"
)

// Pedido es una orden de entrega a domicilio.
// Estado: "pendiente" | "en_reparto" | "entregado" | "cancelado"
// El stock se descuenta al CREAR el pedido (reserva); la cancelación
// lo restaura con un movimiento inverso.
type Pedido struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteNombre   string          `gorm:"not null"`
	DireccionEntrega string         `gorm:"not null"`
	ClienteID       *uuid.UUID      `gorm:"type:uuid;index"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// MetodoPago se fija recién al cobrar (transición a entregado).
	MetodoPago *string `gorm:"type:varchar(20)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []PedidoItem `gorm:"foreignKey:PedidoID"`
}

type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     *uuid.UUID      `gorm:"type:uuid"`
	ComboID        *uuid.UUID      `gorm:"type:uuid"`
	Nombre         string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	Precio         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioOriginal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoPct   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

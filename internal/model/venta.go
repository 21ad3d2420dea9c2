package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta es un comprobante interno de venta ya finalizada.
// Origen: "pos" | "pedido" | "vendedor". Inmutable una vez registrada:
// los items son un snapshot de nombre y precio al momento de la venta,
// desacoplado del catálogo vivo.
type Venta struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	Origen       string          `gorm:"type:varchar(20);not null;default:'pos'"`
	MetodoPago   string          `gorm:"type:varchar(20);not null"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Ahorro       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ClienteID    *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt    time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
}

// VentaItem es el snapshot de una línea vendida.
// PrecioOriginal conserva el precio de lista; Precio es el precio final
// con descuento aplicado.
type VentaItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID     *uuid.UUID      `gorm:"type:uuid"` // nil cuando la línea es un combo
	ComboID        *uuid.UUID      `gorm:"type:uuid"`
	Nombre         string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	Precio         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioOriginal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoPct   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendedor con stock en consignación. El stock consignado por producto y el
// balance NO se persisten: se derivan plegando asignaciones − ventas −
// devoluciones sobre los registros hijos.
type Vendedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Direccion *string
	Telefono  *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Asignaciones []AsignacionStock    `gorm:"foreignKey:VendedorID"`
	Ventas       []VentaVendedor      `gorm:"foreignKey:VendedorID"`
	Devoluciones []DevolucionVendedor `gorm:"foreignKey:VendedorID"`
}

func (Vendedor) TableName() string { return "vendedores" }

// AsignacionStock mueve stock del depósito central a la consignación del
// vendedor. Inmutable.
type AsignacionStock struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductoID uuid.UUID `gorm:"type:uuid;index;not null"`
	Nombre     string    `gorm:"not null"`
	Cantidad   int       `gorm:"not null"`
	CreatedAt  time.Time
}

func (AsignacionStock) TableName() string { return "asignaciones_stock" }

// VentaVendedor es una venta hecha por el vendedor desde su consignación.
type VentaVendedor struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID uuid.UUID       `gorm:"type:uuid;index;not null"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Items []VentaVendedorItem `gorm:"foreignKey:VentaVendedorID"`
}

func (VentaVendedor) TableName() string { return "ventas_vendedor" }

type VentaVendedorItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaVendedorID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID      uuid.UUID       `gorm:"type:uuid;not null"`
	Nombre          string          `gorm:"not null"`
	Cantidad        int             `gorm:"not null"`
	Precio          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (VentaVendedorItem) TableName() string { return "ventas_vendedor_items" }

// DevolucionVendedor devuelve stock consignado al depósito central.
type DevolucionVendedor struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendedorID uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductoID uuid.UUID `gorm:"type:uuid;index;not null"`
	Cantidad   int       `gorm:"not null"`
	Motivo     *string
	CreatedAt  time.Time
}

func (DevolucionVendedor) TableName() string { return "devoluciones_vendedor" }

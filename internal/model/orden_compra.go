package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrdenBorrador        = "borrador"
	OrdenConfirmada      = "confirmado"
	OrdenEnTransito      = "en_transito"
	OrdenRecibida        = "recibido"
	OrdenRecibidaParcial = "recibido_parcial"
)

// OrdenCompra a un proveedor.
// Estado: "borrador" → "confirmado" → "en_transito" → "recibido" | "recibido_parcial"
// Los dos estados de recepción son terminales.
type OrdenCompra struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero          int64           `gorm:"uniqueIndex;not null"` // secuencia de Postgres
	ProveedorID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProveedorNombre string          `gorm:"not null"`
	FechaOrden      time.Time       `gorm:"not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'borrador'"`
	FechaRecepcion  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items       []OrdenCompraItem      `gorm:"foreignKey:OrdenCompraID"`
	Recepciones []OrdenCompraRecepcion `gorm:"foreignKey:OrdenCompraID"`
}

func (OrdenCompra) TableName() string { return "ordenes_compra" }

type OrdenCompraItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdenCompraID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Nombre        string          `gorm:"not null"`
	Cantidad      int             `gorm:"not null"`
	UnidadMedida  string          `gorm:"not null;default:'unidad'"`
	Precio        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Categoria destino en stock_general al recibir: "insumo" | "envase" | "etiqueta"
	Categoria string `gorm:"type:varchar(20);not null;default:'insumo'"`
}

func (OrdenCompraItem) TableName() string { return "ordenes_compra_items" }

// OrdenCompraRecepcion es el snapshot inmutable de lo efectivamente recibido,
// una fila por línea de la orden.
type OrdenCompraRecepcion struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdenCompraID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Nombre            string    `gorm:"not null"`
	CantidadPedida    int       `gorm:"not null"`
	CantidadRecibida  int       `gorm:"not null"`
	CreatedAt         time.Time
}

func (OrdenCompraRecepcion) TableName() string { return "ordenes_compra_recepciones" }

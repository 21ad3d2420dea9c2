package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipo de producto: "propio" (elaborado en planta) | "tercero" (reventa).
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"index;not null"`
	Tipo        string    `gorm:"type:varchar(20);not null;default:'propio'"`
	Marca       *string
	StockActual int             `gorm:"not null;default:0"`
	UnidadMedida string         `gorm:"not null;default:'unidad'"`
	Precio      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Combo agrupa productos simples bajo un precio fijo.
// No tiene stock propio: su disponibilidad se deriva de los componentes.
type Combo struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"not null"`
	Precio    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Componentes []ComboComponente `gorm:"foreignKey:ComboID"`
}

type ComboComponente struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComboID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_combo_producto;not null"`
	ProductoID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_combo_producto;not null"`
	Cantidad   int       `gorm:"not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

const (
	PromoBuyXGetY          = "buy_x_get_y"
	PromoPorcentajeSegunda = "percentage_on_second"
)

// Promocion es una regla declarativa de descuento sobre un producto simple.
// Tipo: "buy_x_get_y" | "percentage_on_second"
// Invariante: exactamente uno de CantidadPaga / PorcentajeDescuento segun Tipo.
type Promocion struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID          uuid.UUID `gorm:"type:uuid;index;not null"`
	Tipo                string    `gorm:"type:varchar(30);not null"`
	CantidadCompra      int       `gorm:"not null"`
	CantidadPaga        *int
	PorcentajeDescuento *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Activa              bool             `gorm:"not null;default:true"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Promocion) TableName() string { return "promociones" }

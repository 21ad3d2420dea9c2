package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor de insumos y mercadería.
type Proveedor struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial   string    `gorm:"not null"`
	CUIT          string    `gorm:"column:cuit;uniqueIndex;not null"`
	Telefono      *string
	Email         *string
	Direccion     *string
	CondicionPago *string
	Activo        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Proveedor) TableName() string { return "proveedores" }

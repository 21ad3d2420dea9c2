package model

import (
	"time"

	"github.com/google/uuid"
)

// StockGeneral es el depósito de materia prima y material de empaque.
// Categoria: "insumo" | "envase" | "etiqueta"
// Las recepciones de órdenes de compra crean SIEMPRE un registro nuevo
// (no se fusionan partidas del mismo nombre): cada fila es una partida
// con su fecha de ingreso.
type StockGeneral struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"index;not null"`
	Categoria    string    `gorm:"type:varchar(20);not null"`
	Cantidad     int       `gorm:"not null;default:0"`
	UnidadMedida string    `gorm:"not null;default:'unidad'"`
	ProveedorID  *uuid.UUID `gorm:"type:uuid;index"`
	FechaIngreso time.Time  `gorm:"not null"`
	Notas        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (StockGeneral) TableName() string { return "stock_general" }

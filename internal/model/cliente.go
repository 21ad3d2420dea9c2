package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente de cuenta corriente. El saldo NO se persiste: se deriva en
// lectura de las facturas pendientes/vencidas (ver FacturacionService).
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	CUIT      *string   `gorm:"type:varchar(20);column:cuit"`
	Telefono  *string
	Email     *string
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

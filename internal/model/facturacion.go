package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FacturaPendiente = "pendiente"
	FacturaPagada    = "pagada"
	FacturaAnulada   = "anulada"
	// FacturaVencida existe sólo como overlay de lectura.
	FacturaVencida = "vencida"

	OrigenVentaPOS = "venta_pos"
	OrigenPedido   = "pedido"
)

// ItemFacturable es una venta o pedido cobrado a cuenta corriente que espera
// ser agregado a una factura formal.
// Origen: "venta_pos" | "pedido"
// Inmutable salvo el par Facturado/FacturaID, que se voltea en el MISMO batch
// atómico que crea la factura (nunca por separado: evita doble facturación).
type ItemFacturable struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ClienteNombre string          `gorm:"not null"`
	Origen        string          `gorm:"type:varchar(20);not null"`
	Fecha         time.Time       `gorm:"not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Facturado     bool            `gorm:"not null;default:false;index"`
	FacturaID     *uuid.UUID      `gorm:"type:uuid;index"`
	ReferenciaID  *uuid.UUID      `gorm:"type:uuid"` // venta o pedido de origen
	CreatedAt     time.Time

	Lineas []ItemFacturableLinea `gorm:"foreignKey:ItemFacturableID"`
}

func (ItemFacturable) TableName() string { return "items_facturables" }

type ItemFacturableLinea struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemFacturableID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Nombre           string          `gorm:"not null"`
	Cantidad         int             `gorm:"not null"`
	Precio           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioOriginal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoPct     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

func (ItemFacturableLinea) TableName() string { return "items_facturables_lineas" }

// Factura emitida contra la cuenta corriente de un cliente.
// Tipo: "A" | "B" | "C" | "ticket"
// Estado persistido: "pendiente" | "pagada" | "anulada".
// "vencida" es un overlay de lectura (pendiente + vencimiento pasado) y
// nunca se escribe a la base.
type Factura struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero        int64           `gorm:"uniqueIndex;not null"` // asignado por secuencia de Postgres
	Tipo          string          `gorm:"type:varchar(10);not null"`
	ClienteID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	ClienteNombre string          `gorm:"not null"`
	Fecha         time.Time       `gorm:"not null"`
	Vencimiento   time.Time       `gorm:"not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []FacturaItem `gorm:"foreignKey:FacturaID"`
	Pagos []PagoFactura `gorm:"foreignKey:FacturaID"`
}

type FacturaItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Nombre       string          `gorm:"not null"`
	Cantidad     int             `gorm:"not null"`
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DescuentoPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// PagoFactura es un pago parcial o total aplicado a una factura.
// Inmutable una vez registrado.
type PagoFactura struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Metodo    string          `gorm:"type:varchar(20);not null"`
	Fecha     time.Time       `gorm:"not null"`
	CreatedAt time.Time
}

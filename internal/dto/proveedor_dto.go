package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required,min=2"`
	CUIT        string  `json:"cuit"         validate:"required,min=11,max=13"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Direccion   *string `json:"direccion"`
}

type ItemOrdenCompraRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2"`
	Cantidad     int             `json:"cantidad"      validate:"required,min=1"`
	UnidadMedida string          `json:"unidad_medida" validate:"required"`
	Precio       decimal.Decimal `json:"precio"        validate:"required"`
	Categoria    string          `json:"categoria"     validate:"required,oneof=insumo envase etiqueta"`
}

type CrearOrdenCompraRequest struct {
	ProveedorID string                   `json:"proveedor_id" validate:"required,uuid"`
	Items       []ItemOrdenCompraRequest `json:"items"        validate:"required,min=1,dive"`
}

// LineaRecepcionRequest declara lo recibido por línea de la orden.
// 0 <= cantidad_recibida <= cantidad pedida; el faltante queda registrado.
type LineaRecepcionRequest struct {
	ItemID           string `json:"item_id"           validate:"required,uuid"`
	CantidadRecibida int    `json:"cantidad_recibida" validate:"min=0"`
}

type RecibirOrdenRequest struct {
	Lineas []LineaRecepcionRequest `json:"lineas" validate:"required,min=1,dive"`
}

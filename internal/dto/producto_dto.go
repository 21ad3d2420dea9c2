package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Codigo string `form:"codigo"`
	Nombre string `form:"nombre"`
	Tipo   string `form:"tipo"   validate:"omitempty,oneof=propio tercero"`
	Activo string `form:"activo"` // "" = activos, "false" = inactivos, "all" = todos
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo       string          `json:"codigo"        validate:"required,min=1"`
	Nombre       string          `json:"nombre"        validate:"required,min=2"`
	Tipo         string          `json:"tipo"          validate:"required,oneof=propio tercero"`
	Marca        *string         `json:"marca"`
	StockInicial int             `json:"stock_inicial" validate:"min=0"`
	UnidadMedida string          `json:"unidad_medida" validate:"required"`
	Precio       decimal.Decimal `json:"precio"        validate:"required"`
}

type ActualizarProductoRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2"`
	Marca        *string         `json:"marca"`
	UnidadMedida string          `json:"unidad_medida" validate:"required"`
	Precio       decimal.Decimal `json:"precio"        validate:"required"`
}

type ComponenteComboRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type CrearComboRequest struct {
	Nombre      string                   `json:"nombre"      validate:"required,min=2"`
	Precio      decimal.Decimal          `json:"precio"      validate:"required"`
	Componentes []ComponenteComboRequest `json:"componentes" validate:"required,min=1,dive"`
}

type CrearPromocionRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Tipo       string `json:"tipo"        validate:"required,oneof=buy_x_get_y percentage_on_second"`
	// buy_x_get_y: se cobran cantidad_paga de cada cantidad_compra unidades.
	CantidadCompra int  `json:"cantidad_compra" validate:"required,min=2"`
	CantidadPaga   *int `json:"cantidad_paga"   validate:"omitempty,min=1"`
	// percentage_on_second: descuento sobre la segunda unidad de cada par.
	PorcentajeDescuento *decimal.Decimal `json:"porcentaje_descuento"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ComboResponse adds the derived stock: how many units the weakest
// component allows.
type ComboResponse struct {
	ID              string                     `json:"id"`
	Nombre          string                     `json:"nombre"`
	Precio          decimal.Decimal            `json:"precio"`
	Activo          bool                       `json:"activo"`
	StockDisponible int                        `json:"stock_disponible"`
	Componentes     []ComponenteComboResponse  `json:"componentes"`
}

type ComponenteComboResponse struct {
	ProductoID string `json:"producto_id"`
	Nombre     string `json:"nombre"`
	Cantidad   int    `json:"cantidad"`
	Stock      int    `json:"stock"`
}

// ConsultaPrecioResponse is served from the Redis cache when warm.
type ConsultaPrecioResponse struct {
	ProductoID string          `json:"producto_id"`
	Codigo     string          `json:"codigo"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Stock      int             `json:"stock"`
}

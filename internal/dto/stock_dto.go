package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AjusteStockRequest aplica un delta manual con motivo obligatorio.
type AjusteStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// ConsumoStockGeneralRequest descuenta una fila de stock general (envases,
// etiquetas, insumos) gastada al fraccionar.
type ConsumoStockGeneralRequest struct {
	StockGeneralID string `json:"stock_general_id" validate:"required,uuid"`
	Cantidad       int    `json:"cantidad"         validate:"required,min=1"`
}

// FraccionarRequest convierte unidades a granel de un producto origen en
// unidades fraccionadas de un producto destino ya existente en el catálogo,
// consumiendo los envases y etiquetas declarados en la misma operación.
type FraccionarRequest struct {
	ProductoOrigenID  string                       `json:"producto_origen_id"  validate:"required,uuid"`
	ProductoDestinoID string                       `json:"producto_destino_id" validate:"required,uuid"`
	CantidadOrigen    int                          `json:"cantidad_origen"     validate:"required,min=1"`
	CantidadDestino   int                          `json:"cantidad_destino"    validate:"required,min=1"`
	Consumos          []ConsumoStockGeneralRequest `json:"consumos"            validate:"omitempty,dive"`
}

type CrearStockGeneralRequest struct {
	Nombre       string  `json:"nombre"        validate:"required,min=2"`
	Categoria    string  `json:"categoria"     validate:"required,oneof=insumo envase etiqueta"`
	Cantidad     int     `json:"cantidad"      validate:"required,min=1"`
	UnidadMedida string  `json:"unidad_medida" validate:"required"`
	ProveedorID  *string `json:"proveedor_id"  validate:"omitempty,uuid"`
	Notas        *string `json:"notas"`
}

type AjustarStockGeneralRequest struct {
	Delta int `json:"delta" validate:"required"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearVendedorRequest struct {
	Nombre    string  `json:"nombre"   validate:"required,min=2"`
	Direccion *string `json:"direccion"`
	Telefono  *string `json:"telefono"`
}

type LineaStockVendedorRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// AsignarStockRequest debita el stock principal y lo pone en consignación.
type AsignarStockRequest struct {
	Items []LineaStockVendedorRequest `json:"items" validate:"required,min=1,dive"`
}

type VentaVendedorRequest struct {
	Items      []LineaStockVendedorRequest `json:"items"       validate:"required,min=1,dive"`
	MetodoPago string                      `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
}

// DevolucionVendedorRequest reingresa unidades consignadas al stock principal.
type DevolucionVendedorRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// StockVendedorLinea: asignado - vendido - devuelto, plegado al leer.
type StockVendedorLinea struct {
	ProductoID string `json:"producto_id"`
	Nombre     string `json:"nombre"`
	Asignado   int    `json:"asignado"`
	Vendido    int    `json:"vendido"`
	Devuelto   int    `json:"devuelto"`
	EnPoder    int    `json:"en_poder"`
}

type StockVendedorResponse struct {
	VendedorID string               `json:"vendedor_id"`
	Nombre     string               `json:"nombre"`
	Lineas     []StockVendedorLinea `json:"lineas"`
	// TotalVendido es el acumulado monetario de sus ventas.
	TotalVendido decimal.Decimal `json:"total_vendido"`
	// Balance valoriza lo que el vendedor tiene en poder a precio de
	// catálogo vigente: Σ en_poder × precio. Derivado al leer, nunca
	// se persiste.
	Balance decimal.Decimal `json:"balance"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

type VentaFilter struct {
	Origen     string     `form:"origen"      validate:"omitempty,oneof=pos pedido vendedor"`
	MetodoPago string     `form:"metodo_pago" validate:"omitempty,oneof=efectivo tarjeta transferencia cuenta_corriente"`
	Desde      *time.Time `form:"desde" time_format:"2006-01-02"`
	Hasta      *time.Time `form:"hasta" time_format:"2006-01-02"`
	Page       int        `form:"page,default=1"   validate:"min=1"`
	Limit      int        `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemCarritoRequest references either a product or a combo, never both.
type ItemCarritoRequest struct {
	ProductoID *string `json:"producto_id" validate:"omitempty,uuid"`
	ComboID    *string `json:"combo_id"    validate:"omitempty,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"required,min=1"`
}

type RegistrarVentaRequest struct {
	Items      []ItemCarritoRequest `json:"items"       validate:"required,min=1,dive"`
	MetodoPago string               `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia cuenta_corriente"`
	// ClienteID es obligatorio para cuenta_corriente.
	ClienteID *string `json:"cliente_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// LineaVentaResponse is the priced snapshot of one cart line.
type LineaVentaResponse struct {
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	Precio         decimal.Decimal `json:"precio"`
	PrecioOriginal decimal.Decimal `json:"precio_original"`
	DescuentoPct   decimal.Decimal `json:"descuento_pct"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type ResumenVentaResponse struct {
	Subtotal decimal.Decimal      `json:"subtotal"`
	Ahorro   decimal.Decimal      `json:"ahorro"`
	Total    decimal.Decimal      `json:"total"`
	Items    []LineaVentaResponse `json:"items"`
}

type VentaResponse struct {
	ID         string               `json:"id"`
	Origen     string               `json:"origen"`
	MetodoPago string               `json:"metodo_pago"`
	Subtotal   decimal.Decimal      `json:"subtotal"`
	Ahorro     decimal.Decimal      `json:"ahorro"`
	Total      decimal.Decimal      `json:"total"`
	ClienteID  *string              `json:"cliente_id,omitempty"`
	Items      []LineaVentaResponse `json:"items"`
	CreatedAt  string               `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

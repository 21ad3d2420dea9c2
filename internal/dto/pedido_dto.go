package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPedidoRequest struct {
	ClienteNombre    string               `json:"cliente_nombre"    validate:"required,min=2"`
	DireccionEntrega string               `json:"direccion_entrega" validate:"required,min=5"`
	ClienteID        *string              `json:"cliente_id"        validate:"omitempty,uuid"`
	Items            []ItemCarritoRequest `json:"items"             validate:"required,min=1,dive"`
}

// CobrarPedidoRequest fixes the payment method at delivery time.
type CobrarPedidoRequest struct {
	MetodoPago string `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia cuenta_corriente"`
}

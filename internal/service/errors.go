package service

import "errors"

// Errores de dominio compartidos entre servicios. Los handlers los mapean
// a códigos HTTP: conflicto → 409, no encontrado → 404, validación → 422.
var (
	ErrCajaYaAbierta    = errors.New("ya existe una sesión de caja abierta")
	ErrSinSesionAbierta = errors.New("no hay una sesión de caja abierta")
	ErrSesionCerrada    = errors.New("la sesión de caja ya está cerrada")

	ErrStockInsuficiente          = errors.New("stock insuficiente")
	ErrStockConsignadoInsuficiente = errors.New("el vendedor no tiene stock consignado suficiente")

	ErrClienteRequerido  = errors.New("cuenta corriente requiere un cliente asociado")
	ErrProductoInactivo  = errors.New("el producto está inactivo")
	ErrLineaAmbigua      = errors.New("cada línea debe referir a un producto o a un combo, no ambos")

	ErrItemsDeOtroCliente = errors.New("todos los ítems deben pertenecer al mismo cliente")
	ErrFacturaNoPendiente = errors.New("la factura no está pendiente")
	ErrPagoExcedeSaldo    = errors.New("el pago excede el saldo de la factura")

	ErrCredencialesInvalidas = errors.New("usuario o contraseña inválidos")
	ErrUsuarioInactivo       = errors.New("el usuario está inactivo")
)

package handler

import (
	"net/http"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/service"

	"github.com/gin-gonic/gin"
)

type VendedorHandler struct{ svc service.VendedorService }

func NewVendedorHandler(svc service.VendedorService) *VendedorHandler {
	return &VendedorHandler{svc: svc}
}

func (h *VendedorHandler) Crear(c *gin.Context) {
	var req dto.CrearVendedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	v, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *VendedorHandler) List(c *gin.Context) {
	soloActivos := c.DefaultQuery("activos", "true") == "true"
	vendedores, err := h.svc.List(c.Request.Context(), soloActivos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendedores)
}

func (h *VendedorHandler) Baja(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Baja(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Asignar godoc
// @Summary Asigna stock en consignación a un vendedor, debitando el depósito
// @Tags vendedores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del vendedor"
// @Param body body dto.AsignarStockRequest true "Líneas a consignar"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} apierror.APIError
// @Router /v1/vendedores/{id}/asignaciones [post]
func (h *VendedorHandler) Asignar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AsignarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Asignar(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "stock asignado"})
}

// RegistrarVenta godoc
// @Summary Registra una venta en la calle contra el stock consignado
// @Tags vendedores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del vendedor"
// @Param body body dto.VentaVendedorRequest true "Venta"
// @Success 201 {object} model.VentaVendedor
// @Failure 409 {object} apierror.APIError
// @Router /v1/vendedores/{id}/ventas [post]
func (h *VendedorHandler) RegistrarVenta(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.VentaVendedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	venta, err := h.svc.RegistrarVenta(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, venta)
}

// RegistrarDevolucion reingresa unidades consignadas al depósito central.
func (h *VendedorHandler) RegistrarDevolucion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.DevolucionVendedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RegistrarDevolucion(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "devolución registrada"})
}

// Balance godoc
// @Summary Tenencia por producto del vendedor, derivada de sus eventos
// @Tags vendedores
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del vendedor"
// @Success 200 {object} dto.StockVendedorResponse
// @Router /v1/vendedores/{id}/balance [get]
func (h *VendedorHandler) Balance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	balance, err := h.svc.Balance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

package handler

import (
	"net/http"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FacturacionHandler struct{ svc service.FacturacionService }

func NewFacturacionHandler(svc service.FacturacionService) *FacturacionHandler {
	return &FacturacionHandler{svc: svc}
}

// ItemsPendientes godoc
// @Summary Lista ítems de cuenta corriente aún no facturados
// @Tags facturacion
// @Produce json
// @Security BearerAuth
// @Param cliente_id query string false "Filtrar por cliente"
// @Success 200 {array} model.ItemFacturable
// @Router /v1/facturas/items-pendientes [get]
func (h *FacturacionHandler) ItemsPendientes(c *gin.Context) {
	var clienteID *uuid.UUID
	if raw := c.Query("cliente_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "cliente_id inválido"})
			return
		}
		clienteID = &id
	}
	items, err := h.svc.ItemsPendientes(c.Request.Context(), clienteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Generar godoc
// @Summary Emite una factura sobre ítems pendientes de un cliente
// @Tags facturacion
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerarFacturaRequest true "Cliente, tipo e ítems"
// @Success 201 {object} model.Factura
// @Failure 409 {object} apierror.APIError
// @Router /v1/facturas [post]
func (h *FacturacionHandler) Generar(c *gin.Context) {
	var req dto.GenerarFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	factura, err := h.svc.Generar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, factura)
}

// RegistrarPago godoc
// @Summary Registra un pago parcial o total sobre una factura pendiente
// @Tags facturacion
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la factura"
// @Param body body dto.RegistrarPagoRequest true "Pago"
// @Success 200 {object} model.Factura
// @Failure 409 {object} apierror.APIError
// @Router /v1/facturas/{id}/pagos [post]
func (h *FacturacionHandler) RegistrarPago(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.RegistrarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	factura, err := h.svc.RegistrarPago(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, factura)
}

// Anular libera los ítems de la factura para refacturarlos.
func (h *FacturacionHandler) Anular(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Anular(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "factura anulada"})
}

// SaldoCliente godoc
// @Summary Saldo de cuenta corriente derivado de facturas e ítems sin facturar
// @Tags facturacion
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del cliente"
// @Success 200 {object} dto.SaldoClienteResponse
// @Router /v1/clientes/{id}/saldo [get]
func (h *FacturacionHandler) SaldoCliente(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	saldo, err := h.svc.SaldoCliente(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saldo)
}

func (h *FacturacionHandler) Detalle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	factura, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"factura": factura, "estado_efectivo": h.svc.EstadoEfectivo(factura)})
}

func (h *FacturacionHandler) List(c *gin.Context) {
	var filter dto.FacturaFilter
	if !bindQuery(c, &filter) {
		return
	}
	facturas, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": facturas, "total": total, "page": filter.Page, "limit": filter.Limit})
}

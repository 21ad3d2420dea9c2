package handler

import (
	"net/http"
	"strconv"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/service"

	"github.com/gin-gonic/gin"
)

type CompraHandler struct{ svc service.ComprasService }

func NewCompraHandler(svc service.ComprasService) *CompraHandler { return &CompraHandler{svc: svc} }

// Crear godoc
// @Summary Crea una orden de compra en borrador
// @Tags compras
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearOrdenCompraRequest true "Orden de compra"
// @Success 201 {object} model.OrdenCompra
// @Router /v1/ordenes-compra [post]
func (h *CompraHandler) Crear(c *gin.Context) {
	var req dto.CrearOrdenCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	orden, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orden)
}

func (h *CompraHandler) Confirmar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Confirmar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "orden confirmada"})
}

func (h *CompraHandler) MarcarEnTransito(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.MarcarEnTransito(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "orden en tránsito"})
}

// Recibir godoc
// @Summary Registra la recepción de una orden, total o parcial
// @Tags compras
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la orden"
// @Param body body dto.RecibirOrdenRequest true "Cantidades recibidas por línea"
// @Success 200 {object} model.OrdenCompra
// @Failure 409 {object} apierror.APIError
// @Router /v1/ordenes-compra/{id}/recepcion [post]
func (h *CompraHandler) Recibir(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.RecibirOrdenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	orden, err := h.svc.Recibir(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orden)
}

func (h *CompraHandler) Detalle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	orden, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orden)
}

func (h *CompraHandler) List(c *gin.Context) {
	estado := c.Query("estado")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	ordenes, total, err := h.svc.List(c.Request.Context(), estado, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ordenes, "total": total, "page": page, "limit": limit})
}

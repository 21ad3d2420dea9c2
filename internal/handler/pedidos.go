package handler

import (
	"net/http"
	"strconv"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/middleware"
	"github.com/chris1983admin/quimexar/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PedidoHandler struct{ svc service.PedidoService }

func NewPedidoHandler(svc service.PedidoService) *PedidoHandler { return &PedidoHandler{svc: svc} }

// Crear godoc
// @Summary Crea un pedido de entrega a domicilio, descontando stock
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearPedidoRequest true "Pedido"
// @Success 201 {object} model.Pedido
// @Failure 409 {object} apierror.APIError
// @Router /v1/pedidos [post]
func (h *PedidoHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	pedido, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pedido)
}

func (h *PedidoHandler) MarcarEnReparto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.MarcarEnReparto(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "pedido en reparto"})
}

// Cobrar godoc
// @Summary Cobra un pedido y lo marca entregado, registrando la venta
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del pedido"
// @Param body body dto.CobrarPedidoRequest true "Método de pago"
// @Success 200 {object} model.Venta
// @Failure 409 {object} apierror.APIError
// @Router /v1/pedidos/{id}/cobrar [post]
func (h *PedidoHandler) Cobrar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CobrarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	venta, err := h.svc.Cobrar(c.Request.Context(), id, usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venta)
}

// Cancelar reingresa el stock reservado del pedido.
func (h *PedidoHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "pedido cancelado"})
}

func (h *PedidoHandler) Detalle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pedido, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pedido)
}

func (h *PedidoHandler) List(c *gin.Context) {
	estado := c.Query("estado")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	pedidos, total, err := h.svc.List(c.Request.Context(), estado, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pedidos, "total": total, "page": page, "limit": limit})
}

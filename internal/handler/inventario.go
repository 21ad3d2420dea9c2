package handler

import (
	"net/http"
	"strconv"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct {
	svc      service.InventarioService
	stockGen service.StockGeneralService
}

func NewInventarioHandler(svc service.InventarioService, stockGen service.StockGeneralService) *InventarioHandler {
	return &InventarioHandler{svc: svc, stockGen: stockGen}
}

// AjusteManual godoc
// @Summary Ajuste manual de stock con motivo obligatorio
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Param body body dto.AjusteStockRequest true "Delta y motivo"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} apierror.APIError
// @Router /v1/productos/{id}/ajuste [post]
func (h *InventarioHandler) AjusteManual(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AjusteManual(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "ajuste registrado"})
}

// Fraccionar godoc
// @Summary Fracciona un producto a granel en unidades de otro producto
// @Tags inventario
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FraccionarRequest true "Origen, destino, cantidades y consumos de stock general"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} apierror.APIError
// @Router /v1/inventario/fraccionar [post]
func (h *InventarioHandler) Fraccionar(c *gin.Context) {
	var req dto.FraccionarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Fraccionar(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "fraccionamiento registrado"})
}

// Movimientos lista el historial de un producto, más reciente primero.
func (h *InventarioHandler) Movimientos(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 500 {
		limit = 100
	}
	movs, err := h.svc.Movimientos(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movs)
}

// ── Stock general (insumos, envases, etiquetas) ───────────────────────────────

func (h *InventarioHandler) CrearStockGeneral(c *gin.Context) {
	var req dto.CrearStockGeneralRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.stockGen.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *InventarioHandler) ListStockGeneral(c *gin.Context) {
	categoria := c.Query("categoria")
	items, err := h.stockGen.List(c.Request.Context(), categoria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *InventarioHandler) AjustarStockGeneral(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AjustarStockGeneralRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.stockGen.Ajustar(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "stock ajustado"})
}

func (h *InventarioHandler) EliminarStockGeneral(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.stockGen.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

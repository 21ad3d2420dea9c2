package handler

import (
	"net/http"

	"github.com/chris1983admin/quimexar/internal/dto"
	"github.com/chris1983admin/quimexar/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// ── Productos ─────────────────────────────────────────────────────────────────

// CrearProducto godoc
// @Summary Da de alta un producto
// @Tags catalogo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearProductoRequest true "Producto"
// @Success 201 {object} model.Producto
// @Failure 409 {object} apierror.APIError
// @Router /v1/productos [post]
func (h *CatalogoHandler) CrearProducto(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.CrearProducto(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *CatalogoHandler) ActualizarProducto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.ActualizarProducto(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogoHandler) BajaProducto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.BajaProducto(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogoHandler) ReactivarProducto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.ReactivarProducto(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogoHandler) DetalleProducto(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.svc.DetalleProducto(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListProductos godoc
// @Summary Lista productos con filtros de código, nombre, tipo y estado
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param codigo query string false "Código exacto"
// @Param nombre query string false "Nombre parcial"
// @Param tipo query string false "Tipo de producto"
// @Success 200 {object} map[string]interface{}
// @Router /v1/productos [get]
func (h *CatalogoHandler) ListProductos(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	productos, total, err := h.svc.ListProductos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": productos, "total": total, "page": filter.Page, "limit": filter.Limit})
}

// ConsultarPrecio godoc
// @Summary Consulta rápida de precio y stock por código de barras
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param codigo path string true "Código del producto"
// @Success 200 {object} dto.ConsultaPrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precios/{codigo} [get]
func (h *CatalogoHandler) ConsultarPrecio(c *gin.Context) {
	codigo := c.Param("codigo")
	resp, err := h.svc.ConsultarPrecio(c.Request.Context(), codigo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Combos ────────────────────────────────────────────────────────────────────

// CrearCombo godoc
// @Summary Crea un combo con precio propio y componentes
// @Tags catalogo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearComboRequest true "Combo"
// @Success 201 {object} model.Combo
// @Router /v1/combos [post]
func (h *CatalogoHandler) CrearCombo(c *gin.Context) {
	var req dto.CrearComboRequest
	if !bindAndValidate(c, &req) {
		return
	}
	combo, err := h.svc.CrearCombo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, combo)
}

// ListCombos incluye el stock disponible derivado de los componentes.
func (h *CatalogoHandler) ListCombos(c *gin.Context) {
	soloActivos := c.DefaultQuery("activos", "true") == "true"
	combos, err := h.svc.ListCombos(c.Request.Context(), soloActivos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combos)
}

func (h *CatalogoHandler) BajaCombo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.BajaCombo(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Promociones ───────────────────────────────────────────────────────────────

// CrearPromocion godoc
// @Summary Crea una promoción buy_x_get_y o percentage_on_second
// @Tags catalogo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearPromocionRequest true "Promoción"
// @Success 201 {object} model.Promocion
// @Failure 422 {object} apierror.APIError
// @Router /v1/promociones [post]
func (h *CatalogoHandler) CrearPromocion(c *gin.Context) {
	var req dto.CrearPromocionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	promo, err := h.svc.CrearPromocion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promo)
}

func (h *CatalogoHandler) ListPromociones(c *gin.Context) {
	promos, err := h.svc.ListPromociones(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, promos)
}

func (h *CatalogoHandler) DesactivarPromocion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DesactivarPromocion(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

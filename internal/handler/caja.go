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

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre la sesión de caja del día
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Monto inicial"
// @Success 201 {object} model.SesionCaja
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	sesion, err := h.svc.Abrir(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sesion)
}

// Actual devuelve la sesión abierta, si existe.
func (h *CajaHandler) Actual(c *gin.Context) {
	sesion, err := h.svc.SesionAbierta(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sesion)
}

// RegistrarGasto godoc
// @Summary Registra un gasto pagado desde el efectivo de caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GastoRequest true "Gasto"
// @Success 201 {object} model.MovimientoCaja
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/gastos [post]
func (h *CajaHandler) RegistrarGasto(c *gin.Context) {
	var req dto.GastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	mov, err := h.svc.RegistrarGasto(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mov)
}

// Cerrar godoc
// @Summary Cierra la sesión con arqueo a ciegas
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Montos contados"
// @Success 200 {object} dto.CierreCajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Detalle incluye los movimientos de la sesión en orden cronológico.
func (h *CajaHandler) Detalle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sesion, err := h.svc.Detalle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sesion)
}

func (h *CajaHandler) ListSesiones(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	sesiones, total, err := h.svc.ListSesiones(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sesiones, "total": total, "page": page, "limit": limit})
}

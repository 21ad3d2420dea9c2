package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/chris1983admin/quimexar/internal/apierror"
	"github.com/chris1983admin/quimexar/internal/repository"
	"github.com/chris1983admin/quimexar/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQuery binds query-string filters and validates them.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parámetros inválidos: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID extrae y valida el path param "id".
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError traduce errores de dominio a códigos HTTP de forma uniforme.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))

	case errors.Is(err, service.ErrCredencialesInvalidas),
		errors.Is(err, service.ErrUsuarioInactivo):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))

	case errors.Is(err, service.ErrCajaYaAbierta),
		errors.Is(err, service.ErrSinSesionAbierta),
		errors.Is(err, service.ErrSesionCerrada),
		errors.Is(err, service.ErrStockInsuficiente),
		errors.Is(err, service.ErrStockConsignadoInsuficiente),
		errors.Is(err, service.ErrEfectivoInsuficiente),
		errors.Is(err, service.ErrFacturaNoPendiente),
		errors.Is(err, service.ErrPagoExcedeSaldo),
		errors.Is(err, service.ErrPedidoNoCobrable),
		errors.Is(err, service.ErrOrdenNoRecibible),
		errors.Is(err, repository.ErrItemsYaFacturados),
		errors.Is(err, repository.ErrTransicionInvalida):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))

	case errors.Is(err, service.ErrClienteRequerido),
		errors.Is(err, service.ErrLineaAmbigua),
		errors.Is(err, service.ErrItemsDeOtroCliente),
		errors.Is(err, service.ErrRecepcionInvalida),
		errors.Is(err, service.ErrProductoInactivo):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))

	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}

package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Gmarm-org/gmarm-sub002/internal/apierror"
	"github.com/Gmarm-org/gmarm-sub002/internal/service"

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
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
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

// respondError maps domain errors to HTTP status + machine-readable codes.
// Conflicts over finite resources (quota, serials) are 409 so clients can
// distinguish "retry with fresh data" from plain bad requests.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCupoExcedido):
		c.JSON(http.StatusConflict, apierror.NewCoded("CUPO_EXCEDIDO", err.Error()))
	case errors.Is(err, service.ErrLicenciaSinCupo):
		c.JSON(http.StatusConflict, apierror.NewCoded("LICENCIA_SIN_CUPO", err.Error()))
	case errors.Is(err, service.ErrConflictoSerie):
		c.JSON(http.StatusConflict, apierror.NewCoded("SERIE_CONFLICTO", err.Error()))
	case errors.Is(err, service.ErrSerieNoDisponible):
		c.JSON(http.StatusConflict, apierror.NewCoded("SERIE_NO_DISPONIBLE", err.Error()))
	case errors.Is(err, service.ErrSerieVendida):
		c.JSON(http.StatusConflict, apierror.NewCoded("SERIE_VENDIDA", err.Error()))
	case errors.Is(err, service.ErrSerieDuplicada):
		c.JSON(http.StatusConflict, apierror.NewCoded("SERIE_DUPLICADA", err.Error()))
	case errors.Is(err, service.ErrGrupoCerrado):
		c.JSON(http.StatusConflict, apierror.NewCoded("GRUPO_CERRADO", err.Error()))
	case errors.Is(err, service.ErrGrupoAnulado):
		c.JSON(http.StatusConflict, apierror.NewCoded("GRUPO_ANULADO", err.Error()))
	case errors.Is(err, service.ErrGrupoSinPedido):
		c.JSON(http.StatusConflict, apierror.NewCoded("GRUPO_SIN_PEDIDO", err.Error()))
	case errors.Is(err, service.ErrTransicionInvalida):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewCoded("TRANSICION_INVALIDA", err.Error()))
	case errors.Is(err, service.ErrSerieNoEncontrada),
		errors.Is(err, service.ErrReservaNoEncontrada),
		errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.NewCoded("NO_ENCONTRADO", err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}

// parseUsuarioOpcional parses an optional usuario_id field.
func parseUsuarioOpcional(c *gin.Context, raw *string) (*uuid.UUID, bool) {
	if raw == nil {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("usuario_id invalido"))
		return nil, false
	}
	return &id, true
}

// parseUUIDParam reads a :param path segment as UUID, writing the 400 itself.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

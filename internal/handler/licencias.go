package handler

import (
	"net/http"

	"github.com/Gmarm-org/gmarm-sub002/internal/dto"
	"github.com/Gmarm-org/gmarm-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type LicenciasHandler struct{ svc service.LicenciaService }

func NewLicenciasHandler(svc service.LicenciaService) *LicenciasHandler {
	return &LicenciasHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar licencia de importación
// @Description  Registra una licencia con sus cupos por categoría de cliente. La capacidad disponible nace igual a la total.
// @Tags         licencias
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearLicenciaRequest true "Datos de la licencia"
// @Success      201  {object} dto.LicenciaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/licencias [post]
func (h *LicenciasHandler) Crear(c *gin.Context) {
	var req dto.CrearLicenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar licencias
// @Tags         licencias
// @Produce      json
// @Success      200 {array} dto.LicenciaResponse
// @Router       /v1/licencias [get]
func (h *LicenciasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener licencia
// @Tags         licencias
// @Produce      json
// @Param        id path string true "UUID de la licencia"
// @Success      200 {object} dto.LicenciaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/licencias/{id} [get]
func (h *LicenciasHandler) Obtener(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

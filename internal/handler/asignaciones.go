package handler

import (
	"bytes"
	"net/http"

	"github.com/Gmarm-org/gmarm-sub002/internal/apierror"
	"github.com/Gmarm-org/gmarm-sub002/internal/dto"
	"github.com/Gmarm-org/gmarm-sub002/internal/infra"
	"github.com/Gmarm-org/gmarm-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type AsignacionesHandler struct {
	svc    service.AsignacionService
	grupos service.GrupoService
}

func NewAsignacionesHandler(svc service.AsignacionService, grupos service.GrupoService) *AsignacionesHandler {
	return &AsignacionesHandler{svc: svc, grupos: grupos}
}

// Crear godoc
// @Summary      Asignar arma a cliente
// @Description  Operación coordinada: debita cupo por categoría de cliente (y de arma si aplica), ata la serie si se indicó una, y persiste la reserva. Ante conflicto de serie compensa el cupo y responde 409 SERIE_CONFLICTO.
// @Tags         asignaciones
// @Accept       json
// @Produce      json
// @Param        body body dto.AsignarArmaClienteRequest true "Datos de la asignación"
// @Success      201  {object} dto.ReservaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/asignaciones [post]
func (h *AsignacionesHandler) Crear(c *gin.Context) {
	var req dto.AsignarArmaClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarArmaCliente(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// FinalizarSerie godoc
// @Summary      Asignar serie a una reserva existente
// @Description  Camino diferido: la reserva nació sin serie y ahora se le ata una concreta. Ante carrera perdida responde 409 SERIE_CONFLICTO.
// @Tags         asignaciones
// @Accept       json
// @Produce      json
// @Param        body body dto.AsignarSerieRequest true "Reserva y número de serie"
// @Success      200  {object} dto.ReservaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/arma-serie/asignar [post]
func (h *AsignacionesHandler) FinalizarSerie(c *gin.Context) {
	var req dto.AsignarSerieRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.FinalizarSerie(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Liberar godoc
// @Summary      Liberar asignación
// @Description  Devuelve la serie al pool y restaura el cupo. Idempotente ante reintentos.
// @Tags         asignaciones
// @Produce      json
// @Param        id path string true "UUID de la reserva"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/asignaciones/{id} [delete]
func (h *AsignacionesHandler) Liberar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.LiberarAsignacion(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Comprobante godoc
// @Summary      Comprobante PDF de la asignación
// @Tags         asignaciones
// @Produce      application/pdf
// @Param        id path string true "UUID de la reserva"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/asignaciones/{id}/comprobante [get]
func (h *AsignacionesHandler) Comprobante(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	reserva, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	grupo, err := h.grupos.Obtener(c.Request.Context(), reserva.GrupoID)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := infra.GenerateComprobantePDF(reserva, grupo.Codigo, &buf); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("no se pudo generar el comprobante"))
		return
	}
	c.Header("Content-Disposition", `inline; filename="comprobante_`+id.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

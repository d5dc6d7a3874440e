package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Gmarm-org/gmarm-sub002/internal/dto"
	"github.com/Gmarm-org/gmarm-sub002/internal/model"
	"github.com/Gmarm-org/gmarm-sub002/internal/service"
	"github.com/Gmarm-org/gmarm-sub002/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type GruposHandler struct {
	grupos       service.GrupoService
	asignaciones service.AsignacionService
	rdb          *redis.Client
	cacheTTL     time.Duration
}

func NewGruposHandler(grupos service.GrupoService, asignaciones service.AsignacionService, rdb *redis.Client, cacheTTL time.Duration) *GruposHandler {
	return &GruposHandler{grupos: grupos, asignaciones: asignaciones, rdb: rdb, cacheTTL: cacheTTL}
}

// Crear godoc
// @Summary      Crear grupo de importación
// @Description  Crea un grupo EN_PREPARACION debitando la capacidad disponible de la licencia por categoría.
// @Tags         grupos
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearGrupoRequest true "Datos del grupo"
// @Success      201  {object} dto.GrupoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/grupos-importacion [post]
func (h *GruposHandler) Crear(c *gin.Context) {
	var req dto.CrearGrupoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.grupos.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar grupos de importación
// @Tags         grupos
// @Produce      json
// @Success      200 {array} dto.GrupoResponse
// @Router       /v1/grupos-importacion [get]
func (h *GruposHandler) Listar(c *gin.Context) {
	resp, err := h.grupos.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary      Obtener grupo
// @Tags         grupos
// @Produce      json
// @Param        id path string true "UUID del grupo"
// @Success      200 {object} dto.GrupoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/grupos-importacion/{id} [get]
func (h *GruposHandler) Obtener(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.grupos.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary      Resumen consolidado del grupo
// @Description  Snapshot de cupos restantes, clientes por categoría y checklist de procesos. Cacheado en Redis; recalcula en un cache miss.
// @Tags         grupos
// @Produce      json
// @Param        id path string true "UUID del grupo"
// @Success      200 {object} dto.ResumenGrupoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/grupos-importacion/{id}/resumen [get]
func (h *GruposHandler) Resumen(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if h.rdb != nil {
		cached, err := h.rdb.Get(c.Request.Context(), worker.ResumenCacheKey(id.String())).Bytes()
		if err == nil {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

	resp, err := h.grupos.Resumen(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := h.rdb.Set(c.Request.Context(), worker.ResumenCacheKey(id.String()), data, h.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("no se pudo cachear el resumen")
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Avanzar godoc
// @Summary      Avanzar etapa del grupo
// @Description  Transición de etapa; sólo se acepta el estado inmediatamente siguiente en el grafo.
// @Tags         grupos
// @Accept       json
// @Produce      json
// @Param        id   path string true "UUID del grupo"
// @Param        body body dto.AvanzarGrupoRequest true "Estado destino"
// @Success      204
// @Failure      422  {object} apierror.APIError
// @Router       /v1/grupos-importacion/{id}/avanzar [post]
func (h *GruposHandler) Avanzar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AvanzarGrupoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := parseUsuarioOpcional(c, req.UsuarioID)
	if !ok {
		return
	}
	if err := h.grupos.Avanzar(c.Request.Context(), id, req.EstadoDestino, usuarioID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// NotificarAgenteAduanero godoc
// @Summary      Notificar al agente aduanero
// @Description  Atajo de transición a NOTIFICAR_AGENTE_ADUANERO. Exige todos los documentos obligatorios aprobados.
// @Tags         grupos
// @Produce      json
// @Param        id path string true "UUID del grupo"
// @Success      204
// @Failure      422 {object} apierror.APIError
// @Router       /v1/grupos-importacion/{id}/notificar-agente-aduanero [post]
func (h *GruposHandler) NotificarAgenteAduanero(c *gin.Context) {
	h.avanzarA(c, model.EstadoNotificarAgenteAduanero)
}

// NotificarPagoFabrica godoc
// @Summary      Notificar pago a fábrica
// @Description  Atajo de transición a EN_PROCESO_OPERACIONES una vez confirmado el pago de la proforma.
// @Tags         grupos
// @Produce      json
// @Param        id path string true "UUID del grupo"
// @Success      204
// @Failure      422 {object} apierror.APIError
// @Router       /v1/grupos-importacion/{id}/notificar-pago-fabrica [post]
func (h *GruposHandler) NotificarPagoFabrica(c *gin.Context) {
	h.avanzarA(c, model.EstadoEnProcesoOperaciones)
}

func (h *GruposHandler) avanzarA(c *gin.Context, estadoDestino string) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.grupos.Avanzar(c.Request.Context(), id, estadoDestino, nil); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Anular godoc
// @Summary      Anular grupo
// @Description  Libera todas las reservas activas, devuelve la capacidad a la licencia y marca el grupo anulado. Idempotente.
// @Tags         grupos
// @Produce      json
// @Param        id path string true "UUID del grupo"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/grupos-importacion/{id}/anular [post]
func (h *GruposHandler) Anular(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.asignaciones.AnularGrupo(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AgregarCliente godoc
// @Summary      Agregar cliente al grupo
// @Tags         grupos
// @Produce      json
// @Param        id        path string true "UUID del grupo"
// @Param        clienteId path string true "UUID del cliente"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/grupos-importacion/{id}/clientes/{clienteId} [post]
func (h *GruposHandler) AgregarCliente(c *gin.Context) {
	grupoID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	clienteID, ok := parseUUIDParam(c, "clienteId")
	if !ok {
		return
	}
	if err := h.grupos.AgregarCliente(c.Request.Context(), grupoID, clienteID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// QuitarCliente godoc
// @Summary      Quitar cliente del grupo
// @Description  Libera las reservas activas del cliente en el grupo antes de quitarlo.
// @Tags         grupos
// @Produce      json
// @Param        id        path string true "UUID del grupo"
// @Param        clienteId path string true "UUID del cliente"
// @Success      204
// @Router       /v1/grupos-importacion/{id}/clientes/{clienteId} [delete]
func (h *GruposHandler) QuitarCliente(c *gin.Context) {
	grupoID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	clienteID, ok := parseUUIDParam(c, "clienteId")
	if !ok {
		return
	}
	if err := h.asignaciones.QuitarClienteDeGrupo(c.Request.Context(), grupoID, clienteID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActualizarProcesos godoc
// @Summary      Actualizar procesos del grupo
// @Description  Upsert en lote de hitos de importación con fecha planificada y completado.
// @Tags         grupos
// @Accept       json
// @Produce      json
// @Param        id   path string true "UUID del grupo"
// @Param        body body dto.ActualizarProcesosRequest true "Procesos"
// @Success      204
// @Router       /v1/grupos-importacion/{id}/procesos [put]
func (h *GruposHandler) ActualizarProcesos(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProcesosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.grupos.ActualizarProcesos(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActualizarDocumentos godoc
// @Summary      Actualizar documentos del grupo
// @Description  Marca documentos del checklist como pendientes o aprobados.
// @Tags         grupos
// @Accept       json
// @Produce      json
// @Param        id   path string true "UUID del grupo"
// @Param        body body dto.ActualizarDocumentosRequest true "Documentos"
// @Success      204
// @Router       /v1/grupos-importacion/{id}/documentos [put]
func (h *GruposHandler) ActualizarDocumentos(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarDocumentosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.grupos.ActualizarDocumentos(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

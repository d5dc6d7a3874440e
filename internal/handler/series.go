package handler

import (
	"net/http"

	"github.com/Gmarm-org/gmarm-sub002/internal/apierror"
	"github.com/Gmarm-org/gmarm-sub002/internal/dto"
	"github.com/Gmarm-org/gmarm-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SeriesHandler struct {
	series  service.SerieService
	ingesta service.IngestaService
}

func NewSeriesHandler(series service.SerieService, ingesta service.IngestaService) *SeriesHandler {
	return &SeriesHandler{series: series, ingesta: ingesta}
}

// Disponibles godoc
// @Summary      Listar series disponibles de un modelo
// @Description  Lectura deliberadamente sin lock: dos vendedores pueden ver la misma serie. El conflicto se resuelve al asignar.
// @Tags         series
// @Produce      json
// @Param        armaId path string true "UUID del modelo de arma"
// @Success      200 {array} dto.SerieResponse
// @Router       /v1/arma-serie/disponibles/{armaId} [get]
func (h *SeriesHandler) Disponibles(c *gin.Context) {
	armaID, ok := parseUUIDParam(c, "armaId")
	if !ok {
		return
	}
	resp, err := h.series.ListarDisponibles(c.Request.Context(), armaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reservar godoc
// @Summary      Reservar una serie
// @Description  DISPONIBLE → RESERVADA mientras el vendedor concreta la venta. La reserva vence según RESERVA_LEASE_MINUTES.
// @Tags         series
// @Accept       json
// @Produce      json
// @Param        body body dto.ReservarSerieRequest true "Número de serie"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/arma-serie/reservar [post]
func (h *SeriesHandler) Reservar(c *gin.Context) {
	var req dto.ReservarSerieRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.series.Reservar(c.Request.Context(), req.NumeroSerie); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Liberar godoc
// @Summary      Liberar una serie
// @Description  RESERVADA/ASIGNADA → DISPONIBLE. Idempotente; VENDIDA es terminal y se rechaza.
// @Tags         series
// @Accept       json
// @Produce      json
// @Param        body body dto.LiberarSerieRequest true "Número de serie"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/arma-serie/liberar [post]
func (h *SeriesHandler) Liberar(c *gin.Context) {
	var req dto.LiberarSerieRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.series.Liberar(c.Request.Context(), req.NumeroSerie); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarcarVendida godoc
// @Summary      Marcar serie como vendida
// @Description  ASIGNADA → VENDIDA (terminal). Idempotente si ya estaba vendida.
// @Tags         series
// @Accept       json
// @Produce      json
// @Param        body body dto.MarcarVendidaRequest true "Número de serie"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/arma-serie/vendida [post]
func (h *SeriesHandler) MarcarVendida(c *gin.Context) {
	var req dto.MarcarVendidaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.series.MarcarVendida(c.Request.Context(), req.NumeroSerie); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkUpload godoc
// @Summary      Carga masiva de series (JSON)
// @Description  Carga por fila con éxito parcial: las filas válidas entran, duplicados y errores se reportan individualmente.
// @Tags         series
// @Accept       json
// @Produce      json
// @Param        body body dto.BulkUploadRequest true "Lote de series"
// @Success      200 {object} dto.BulkUploadResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/arma-serie/bulk-upload [post]
func (h *SeriesHandler) BulkUpload(c *gin.Context) {
	var req dto.BulkUploadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	grupoID, err := uuid.Parse(req.GrupoImportacionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("grupo_importacion_id invalido"))
		return
	}
	armaID, err := uuid.Parse(req.ArmaModeloID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("arma_modelo_id invalido"))
		return
	}
	resp, err := h.ingesta.CargarFilas(c.Request.Context(), grupoID, armaID, req.Series)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BulkUploadXLSX godoc
// @Summary      Carga masiva de series (XLSX)
// @Description  Acepta el archivo que manda la fábrica; los encabezados se normalizan por alias (serie, nro_serie, serial...).
// @Tags         series
// @Accept       multipart/form-data
// @Produce      json
// @Param        grupo_importacion_id formData string true "UUID del grupo"
// @Param        arma_modelo_id       formData string true "UUID del modelo"
// @Param        archivo              formData file   true "Archivo .xlsx"
// @Success      200 {object} dto.BulkUploadResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/arma-serie/bulk-upload-xlsx [post]
func (h *SeriesHandler) BulkUploadXLSX(c *gin.Context) {
	grupoID, err := uuid.Parse(c.PostForm("grupo_importacion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("grupo_importacion_id invalido"))
		return
	}
	armaID, err := uuid.Parse(c.PostForm("arma_modelo_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("arma_modelo_id invalido"))
		return
	}
	fileHeader, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("falta el archivo"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("no se pudo leer el archivo"))
		return
	}
	defer file.Close()

	resp, err := h.ingesta.CargarDesdeArchivo(c.Request.Context(), grupoID, armaID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

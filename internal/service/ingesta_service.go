package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Gmarm-org/gmarm-sub002/internal/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// IngestaService is the bulk entry point for serial numbers: it gates the
// load on the group stage (series can only arrive once the factory order is
// defined) and normalizes spreadsheet input before handing the rows to
// SerieService.CargaMasiva.
type IngestaService interface {
	CargarFilas(ctx context.Context, grupoID, armaModeloID uuid.UUID, filas []dto.SerieFilaRequest) (*dto.BulkUploadResponse, error)
	CargarDesdeArchivo(ctx context.Context, grupoID, armaModeloID uuid.UUID, r io.Reader) (*dto.BulkUploadResponse, error)
}

type ingestaService struct {
	grupos GrupoService
	series SerieService
}

func NewIngestaService(grupos GrupoService, series SerieService) IngestaService {
	return &ingestaService{grupos: grupos, series: series}
}

func (s *ingestaService) CargarFilas(ctx context.Context, grupoID, armaModeloID uuid.UUID, filas []dto.SerieFilaRequest) (*dto.BulkUploadResponse, error) {
	puede, err := s.grupos.PuedeCargarSeries(ctx, grupoID)
	if err != nil {
		return nil, err
	}
	if !puede {
		return nil, ErrGrupoSinPedido
	}
	return s.series.CargaMasiva(ctx, armaModeloID, filas)
}

// Encabezados aceptados en los archivos que mandan las fábricas. Cada
// proveedor usa su propio formato, el alias normaliza todos a uno.
var aliasEncabezado = map[string]string{
	"numero_serie":    "numero_serie",
	"numero de serie": "numero_serie",
	"nro_serie":       "numero_serie",
	"nro. serie":      "numero_serie",
	"serie":           "numero_serie",
	"serial":          "numero_serie",
	"serial number":   "numero_serie",
	"lote":            "lote",
	"batch":           "lote",
	"notas":           "notas",
	"observaciones":   "notas",
	"remarks":         "notas",
}

func (s *ingestaService) CargarDesdeArchivo(ctx context.Context, grupoID, armaModeloID uuid.UUID, r io.Reader) (*dto.BulkUploadResponse, error) {
	filas, err := parseXLSX(r)
	if err != nil {
		return nil, err
	}
	log.Info().Int("filas", len(filas)).
		Str("grupo_id", grupoID.String()).
		Msg("archivo de series recibido")
	return s.CargarFilas(ctx, grupoID, armaModeloID, filas)
}

// parseXLSX lee la primera hoja: fila 1 encabezados, resto datos. Filas
// completamente vacías se ignoran en silencio.
func parseXLSX(r io.Reader) ([]dto.SerieFilaRequest, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el archivo: %w", err)
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, fmt.Errorf("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(hojas[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("el archivo esta vacio")
	}

	columnas := make(map[int]string, len(rows[0]))
	for i, celda := range rows[0] {
		nombre := strings.ToLower(strings.TrimSpace(celda))
		if campo, ok := aliasEncabezado[nombre]; ok {
			columnas[i] = campo
		}
	}
	if !contieneCampo(columnas, "numero_serie") {
		return nil, fmt.Errorf("falta la columna de numero de serie")
	}

	filas := make([]dto.SerieFilaRequest, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var fila dto.SerieFilaRequest
		vacia := true
		for i, celda := range row {
			valor := strings.TrimSpace(celda)
			if valor == "" {
				continue
			}
			vacia = false
			switch columnas[i] {
			case "numero_serie":
				fila.NumeroSerie = valor
			case "lote":
				fila.Lote = valor
			case "notas":
				fila.Notas = valor
			}
		}
		if vacia {
			continue
		}
		filas = append(filas, fila)
	}
	return filas, nil
}

func contieneCampo(columnas map[int]string, campo string) bool {
	for _, c := range columnas {
		if c == campo {
			return true
		}
	}
	return false
}

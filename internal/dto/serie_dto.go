package dto

// SerieResponse is one physical unit as listed to vendors.
type SerieResponse struct {
	ID           string `json:"id"`
	NumeroSerie  string `json:"numero_serie"`
	ArmaModeloID string `json:"arma_modelo_id"`
	Estado       string `json:"estado"`
	Lote         string `json:"lote,omitempty"`
}

// SerieFilaRequest is one normalized bulk-load row.
type SerieFilaRequest struct {
	NumeroSerie string `json:"numero_serie" validate:"required"`
	Lote        string `json:"lote,omitempty"`
	Notas       string `json:"notas,omitempty"`
}

// BulkUploadRequest loads a batch of serials against a group's purchase order.
type BulkUploadRequest struct {
	GrupoImportacionID string             `json:"grupo_importacion_id" validate:"required,uuid"`
	ArmaModeloID       string             `json:"arma_modelo_id" validate:"required,uuid"`
	Series             []SerieFilaRequest `json:"series" validate:"required,min=1,dive"`
}

// BulkUploadResponse is the per-row partial-success report: valid rows load,
// duplicates and malformed rows are reported, nothing is rolled back globally.
type BulkUploadResponse struct {
	Cargadas   int      `json:"cargadas"`
	Duplicadas []string `json:"duplicadas"`
	Errores    []string `json:"errores"`
}

// ReservarSerieRequest pins one serial while a vendor walks a client through
// the sale (DISPONIBLE → RESERVADA).
type ReservarSerieRequest struct {
	NumeroSerie string `json:"numero_serie" validate:"required"`
}

// AsignarSerieRequest finalizes the sale: binds the serial to an existing
// client-weapon reservation.
type AsignarSerieRequest struct {
	ClienteArmaID      string `json:"cliente_arma_id" validate:"required,uuid"`
	NumeroSerie        string `json:"numero_serie" validate:"required"`
	UsuarioAsignadorID string `json:"usuario_asignador_id" validate:"required,uuid"`
}

type LiberarSerieRequest struct {
	NumeroSerie string `json:"numero_serie" validate:"required"`
}

type MarcarVendidaRequest struct {
	NumeroSerie string `json:"numero_serie" validate:"required"`
}

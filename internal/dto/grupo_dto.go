package dto

import "time"

// CrearGrupoRequest crea un grupo a partir de una licencia. Las capacidades
// por categoría de cliente se copian de la licencia al momento de crear;
// los cupos por categoría de arma son opcionales.
type CrearGrupoRequest struct {
	Codigo     string         `json:"codigo" validate:"required"`
	LicenciaID string         `json:"licencia_id" validate:"required,uuid"`
	CuposArma  map[string]int `json:"cupos_arma,omitempty"` // categoría de arma → capacidad
}

type GrupoResponse struct {
	ID         string `json:"id"`
	Codigo     string `json:"codigo"`
	LicenciaID string `json:"licencia_id"`
	Estado     string `json:"estado"`
	Anulado    bool   `json:"anulado"`
	CreatedAt  string `json:"created_at"`
}

// AvanzarGrupoRequest pide una transición de etapa. La transición sólo se
// acepta si estado_destino es adyacente al estado actual en el grafo.
type AvanzarGrupoRequest struct {
	EstadoDestino string  `json:"estado_destino" validate:"required"`
	UsuarioID     *string `json:"usuario_id,omitempty" validate:"omitempty,uuid"`
}

// ResumenGrupoResponse is the consistent point-in-time snapshot the UI polls.
type ResumenGrupoResponse struct {
	GrupoID    string                   `json:"grupo_id"`
	Codigo     string                   `json:"codigo"`
	Estado     string                   `json:"estado"`
	Cupos      []ResumenCupoItem        `json:"cupos"`
	Clientes   map[string]int           `json:"clientes_por_categoria"`
	Procesos   []ProcesoImportacionItem `json:"procesos"`
	GeneradoEn time.Time                `json:"generado_en"`
}

type ResumenCupoItem struct {
	Tipo      string `json:"tipo"` // cliente | arma
	Categoria string `json:"categoria"`
	Capacidad int    `json:"capacidad"`
	Restante  int    `json:"restante"`
}

// ProcesoImportacionItem is one customs checklist row.
type ProcesoImportacionItem struct {
	Nombre           string     `json:"nombre" validate:"required"`
	FechaPlanificada *time.Time `json:"fecha_planificada,omitempty"`
	Completado       bool       `json:"completado"`
	EnAlerta         bool       `json:"en_alerta"`
}

// ActualizarProcesosRequest is the batch milestone update.
type ActualizarProcesosRequest struct {
	Procesos []ProcesoImportacionItem `json:"procesos" validate:"required,min=1,dive"`
}

// DocumentoItem marks the state of one document of the group checklist.
type DocumentoItem struct {
	Tipo        string `json:"tipo" validate:"required"`
	Obligatorio bool   `json:"obligatorio"`
	Estado      string `json:"estado" validate:"required,oneof=pendiente aprobado"`
}

type ActualizarDocumentosRequest struct {
	Documentos []DocumentoItem `json:"documentos" validate:"required,min=1,dive"`
}

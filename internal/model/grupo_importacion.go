package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados del ciclo de vida de un grupo de importación. El orden de este
// slice ES el grafo de transiciones: cada avance válido mueve exactamente
// una posición hacia adelante, sin saltos ni regresiones.
const (
	EstadoEnPreparacion             = "EN_PREPARACION"
	EstadoEnProcesoAsignacion       = "EN_PROCESO_ASIGNACION_CLIENTES"
	EstadoSolicitarProformaFabrica  = "SOLICITAR_PROFORMA_FABRICA"
	EstadoEnProcesoOperaciones      = "EN_PROCESO_OPERACIONES"
	EstadoNotificarAgenteAduanero   = "NOTIFICAR_AGENTE_ADUANERO"
	EstadoEnEsperaDocumentosCliente = "EN_ESPERA_DOCUMENTOS_CLIENTE"
	EstadoCompletado                = "COMPLETADO"
)

// EstadosGrupo is the ordered transition graph.
var EstadosGrupo = []string{
	EstadoEnPreparacion,
	EstadoEnProcesoAsignacion,
	EstadoSolicitarProformaFabrica,
	EstadoEnProcesoOperaciones,
	EstadoNotificarAgenteAduanero,
	EstadoEnEsperaDocumentosCliente,
	EstadoCompletado,
}

// IndiceEstado returns the position of an estado in the graph, or -1.
func IndiceEstado(estado string) int {
	for i, e := range EstadosGrupo {
		if e == estado {
			return i
		}
	}
	return -1
}

// GrupoImportacion is a batch of clients sharing one import license and
// moving through customs stages together. Never hard-deleted: administrative
// cancellation sets Anulado and releases its resources.
type GrupoImportacion struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo     string    `gorm:"uniqueIndex;not null"`
	LicenciaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Estado     string    `gorm:"not null;default:'EN_PREPARACION'"`
	Anulado    bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Licencia *Licencia `gorm:"foreignKey:LicenciaID"`
}

func (GrupoImportacion) TableName() string { return "grupos_importacion" }

// HistorialEstadoGrupo is the append-only audit trail of stage transitions.
type HistorialEstadoGrupo struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GrupoID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	EstadoAnterior string     `gorm:"not null"`
	EstadoNuevo    string     `gorm:"not null"`
	UsuarioID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
}

func (HistorialEstadoGrupo) TableName() string { return "historial_estados_grupo" }

// GrupoCliente registra la pertenencia de un cliente a un grupo.
type GrupoCliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GrupoID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_grupo_cliente"`
	ClienteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_grupo_cliente"`
	CreatedAt time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (GrupoCliente) TableName() string { return "grupos_clientes" }

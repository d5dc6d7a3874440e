package model

import (
	"time"

	"github.com/google/uuid"
)

// ProcesoImportacion is one customs milestone (AWB, AFORO, LIQUIDACION, ...)
// tracked in parallel with the primary stage machine. It never drives stage
// transitions; it only feeds the alert checklist.
type ProcesoImportacion struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GrupoID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_proceso_grupo_nombre"`
	Nombre           string    `gorm:"not null;uniqueIndex:idx_proceso_grupo_nombre"`
	FechaPlanificada *time.Time
	Completado       bool `gorm:"not null;default:false"`
	// EnAlerta se recalcula periódicamente: fecha planificada vencida sin completar.
	EnAlerta  bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProcesoImportacion) TableName() string { return "procesos_importacion" }

// Estados de documento.
const (
	DocumentoPendiente = "pendiente"
	DocumentoAprobado  = "aprobado"
)

// DocumentoGrupo tracks the paperwork checklist of a group. Advancing to
// NOTIFICAR_AGENTE_ADUANERO requires every obligatory document aprobado.
// The files themselves live in an external store; only the state is tracked.
type DocumentoGrupo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GrupoID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_documento_grupo_tipo"`
	Tipo        string    `gorm:"not null;uniqueIndex:idx_documento_grupo_tipo"`
	Obligatorio bool      `gorm:"not null;default:true"`
	Estado      string    `gorm:"not null;default:'pendiente'"` // pendiente | aprobado
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DocumentoGrupo) TableName() string { return "documentos_grupo" }

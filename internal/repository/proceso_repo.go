package repository

import (
	"context"
	"time"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProcesoRepository tracks the customs milestone checklist and the document
// checklist. Both run beside the stage machine without driving it.
type ProcesoRepository interface {
	Upsert(ctx context.Context, p *model.ProcesoImportacion) error
	ListarPorGrupo(ctx context.Context, grupoID uuid.UUID) ([]model.ProcesoImportacion, error)
	// MarcarAlertas flags every non-completed milestone whose planned date has
	// passed. One bulk conditional UPDATE; returns how many rows changed.
	MarcarAlertas(ctx context.Context, ahora time.Time) (int64, error)

	UpsertDocumento(ctx context.Context, d *model.DocumentoGrupo) error
	ListarDocumentos(ctx context.Context, grupoID uuid.UUID) ([]model.DocumentoGrupo, error)
	ContarObligatoriosPendientes(ctx context.Context, grupoID uuid.UUID) (int64, error)
}

type procesoRepo struct{ db *gorm.DB }

func NewProcesoRepository(db *gorm.DB) ProcesoRepository { return &procesoRepo{db: db} }

func (r *procesoRepo) Upsert(ctx context.Context, p *model.ProcesoImportacion) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "grupo_id"}, {Name: "nombre"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"fecha_planificada", "completado", "en_alerta", "updated_at",
		}),
	}).Create(p).Error
}

func (r *procesoRepo) ListarPorGrupo(ctx context.Context, grupoID uuid.UUID) ([]model.ProcesoImportacion, error) {
	var procesos []model.ProcesoImportacion
	err := r.db.WithContext(ctx).
		Where("grupo_id = ?", grupoID).
		Order("created_at ASC").
		Find(&procesos).Error
	return procesos, err
}

func (r *procesoRepo) MarcarAlertas(ctx context.Context, ahora time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.ProcesoImportacion{}).
		Where("completado = false AND en_alerta = false AND fecha_planificada IS NOT NULL AND fecha_planificada < ?", ahora).
		Update("en_alerta", true)
	return res.RowsAffected, res.Error
}

func (r *procesoRepo) UpsertDocumento(ctx context.Context, d *model.DocumentoGrupo) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "grupo_id"}, {Name: "tipo"}},
		DoUpdates: clause.AssignmentColumns([]string{"obligatorio", "estado", "updated_at"}),
	}).Create(d).Error
}

func (r *procesoRepo) ListarDocumentos(ctx context.Context, grupoID uuid.UUID) ([]model.DocumentoGrupo, error) {
	var docs []model.DocumentoGrupo
	err := r.db.WithContext(ctx).
		Where("grupo_id = ?", grupoID).
		Order("tipo ASC").
		Find(&docs).Error
	return docs, err
}

func (r *procesoRepo) ContarObligatoriosPendientes(ctx context.Context, grupoID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.DocumentoGrupo{}).
		Where("grupo_id = ? AND obligatorio = true AND estado <> ?", grupoID, model.DocumentoAprobado).
		Count(&total).Error
	return total, err
}

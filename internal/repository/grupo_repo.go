package repository

import (
	"context"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GrupoRepository is the data access contract for import groups, their stage
// history, and their client membership.
type GrupoRepository interface {
	CrearTx(tx *gorm.DB, g *model.GrupoImportacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.GrupoImportacion, error)
	Listar(ctx context.Context) ([]model.GrupoImportacion, error)
	ListarActivos(ctx context.Context) ([]model.GrupoImportacion, error)

	// ActualizarEstadoTx is the conditional stage advance: the UPDATE only
	// fires when the row still holds the expected current estado, so a
	// transition can never be evaluated against a stale stage value.
	ActualizarEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hacia string) (bool, error)
	AnularTx(tx *gorm.DB, id uuid.UUID) (bool, error)
	CrearHistorialTx(tx *gorm.DB, h *model.HistorialEstadoGrupo) error
	ListarHistorial(ctx context.Context, grupoID uuid.UUID) ([]model.HistorialEstadoGrupo, error)

	AgregarCliente(ctx context.Context, gc *model.GrupoCliente) error
	QuitarClienteTx(tx *gorm.DB, grupoID, clienteID uuid.UUID) error
	ContarClientesPorCategoria(ctx context.Context, grupoID uuid.UUID) (map[string]int, error)

	DB() *gorm.DB
}

type grupoRepo struct{ db *gorm.DB }

func NewGrupoRepository(db *gorm.DB) GrupoRepository { return &grupoRepo{db: db} }

func (r *grupoRepo) CrearTx(tx *gorm.DB, g *model.GrupoImportacion) error {
	return tx.Create(g).Error
}

func (r *grupoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GrupoImportacion, error) {
	var g model.GrupoImportacion
	err := r.db.WithContext(ctx).Preload("Licencia").First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *grupoRepo) Listar(ctx context.Context) ([]model.GrupoImportacion, error) {
	var grupos []model.GrupoImportacion
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&grupos).Error
	return grupos, err
}

func (r *grupoRepo) ListarActivos(ctx context.Context) ([]model.GrupoImportacion, error) {
	var grupos []model.GrupoImportacion
	err := r.db.WithContext(ctx).
		Where("anulado = false AND estado <> ?", model.EstadoCompletado).
		Find(&grupos).Error
	return grupos, err
}

func (r *grupoRepo) ActualizarEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hacia string) (bool, error) {
	res := tx.Model(&model.GrupoImportacion{}).
		Where("id = ? AND estado = ? AND anulado = false", id, desde).
		Update("estado", hacia)
	return res.RowsAffected == 1, res.Error
}

func (r *grupoRepo) AnularTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := tx.Model(&model.GrupoImportacion{}).
		Where("id = ? AND anulado = false", id).
		Update("anulado", true)
	return res.RowsAffected == 1, res.Error
}

func (r *grupoRepo) CrearHistorialTx(tx *gorm.DB, h *model.HistorialEstadoGrupo) error {
	return tx.Create(h).Error
}

func (r *grupoRepo) ListarHistorial(ctx context.Context, grupoID uuid.UUID) ([]model.HistorialEstadoGrupo, error) {
	var hist []model.HistorialEstadoGrupo
	err := r.db.WithContext(ctx).
		Where("grupo_id = ?", grupoID).
		Order("created_at ASC").
		Find(&hist).Error
	return hist, err
}

func (r *grupoRepo) AgregarCliente(ctx context.Context, gc *model.GrupoCliente) error {
	return r.db.WithContext(ctx).Create(gc).Error
}

func (r *grupoRepo) QuitarClienteTx(tx *gorm.DB, grupoID, clienteID uuid.UUID) error {
	return tx.Where("grupo_id = ? AND cliente_id = ?", grupoID, clienteID).
		Delete(&model.GrupoCliente{}).Error
}

func (r *grupoRepo) ContarClientesPorCategoria(ctx context.Context, grupoID uuid.UUID) (map[string]int, error) {
	type fila struct {
		Categoria string
		Total     int
	}
	var filas []fila
	err := r.db.WithContext(ctx).
		Table("grupos_clientes").
		Select("clientes.categoria AS categoria, COUNT(*) AS total").
		Joins("JOIN clientes ON clientes.id = grupos_clientes.cliente_id").
		Where("grupos_clientes.grupo_id = ?", grupoID).
		Group("clientes.categoria").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	conteo := make(map[string]int, len(filas))
	for _, f := range filas {
		conteo[f.Categoria] = f.Total
	}
	return conteo, nil
}

func (r *grupoRepo) DB() *gorm.DB { return r.db }

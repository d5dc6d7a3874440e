package repository

import (
	"context"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CupoRepository is the data access contract for quota counters and their
// reservation tokens. Restante is never mutated read-then-write: every
// decrement/restore is a single conditional UPDATE so concurrent reserves
// can never drive it negative.
type CupoRepository interface {
	CrearTx(tx *gorm.DB, c *model.CupoAsignacion) error
	FindPorCategoria(ctx context.Context, grupoID uuid.UUID, tipo, categoria string) (*model.CupoAsignacion, error)
	ListarPorGrupo(ctx context.Context, grupoID uuid.UUID) ([]model.CupoAsignacion, error)

	// DescontarRestanteTx performs the atomic decrement. Returns false when
	// remaining capacity was insufficient (no row updated).
	DescontarRestanteTx(tx *gorm.DB, cupoID uuid.UUID, cantidad int) (bool, error)
	RestaurarRestanteTx(tx *gorm.DB, cupoID uuid.UUID, cantidad int) error

	CrearReservaTx(tx *gorm.DB, r *model.CupoReserva) error
	FindReserva(ctx context.Context, token uuid.UUID) (*model.CupoReserva, error)
	// MarcarReservaLiberadaTx flips activa → liberada. Returns false when the
	// token was already released — the caller must NOT restore again.
	MarcarReservaLiberadaTx(tx *gorm.DB, token uuid.UUID) (bool, error)
	VincularReservasTx(tx *gorm.DB, tokens []uuid.UUID, reservaID uuid.UUID) error
	ListarReservasPorVinculo(ctx context.Context, reservaID uuid.UUID) ([]model.CupoReserva, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type cupoRepo struct{ db *gorm.DB }

func NewCupoRepository(db *gorm.DB) CupoRepository { return &cupoRepo{db: db} }

func (r *cupoRepo) CrearTx(tx *gorm.DB, c *model.CupoAsignacion) error {
	return tx.Create(c).Error
}

func (r *cupoRepo) FindPorCategoria(ctx context.Context, grupoID uuid.UUID, tipo, categoria string) (*model.CupoAsignacion, error) {
	var c model.CupoAsignacion
	err := r.db.WithContext(ctx).
		Where("grupo_id = ? AND tipo = ? AND categoria = ?", grupoID, tipo, categoria).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cupoRepo) ListarPorGrupo(ctx context.Context, grupoID uuid.UUID) ([]model.CupoAsignacion, error) {
	var cupos []model.CupoAsignacion
	err := r.db.WithContext(ctx).
		Where("grupo_id = ?", grupoID).
		Order("tipo ASC, categoria ASC").
		Find(&cupos).Error
	return cupos, err
}

func (r *cupoRepo) DescontarRestanteTx(tx *gorm.DB, cupoID uuid.UUID, cantidad int) (bool, error) {
	res := tx.Model(&model.CupoAsignacion{}).
		Where("id = ? AND restante >= ?", cupoID, cantidad).
		Update("restante", gorm.Expr("restante - ?", cantidad))
	return res.RowsAffected == 1, res.Error
}

func (r *cupoRepo) RestaurarRestanteTx(tx *gorm.DB, cupoID uuid.UUID, cantidad int) error {
	return tx.Model(&model.CupoAsignacion{}).
		Where("id = ?", cupoID).
		Update("restante", gorm.Expr("restante + ?", cantidad)).Error
}

func (r *cupoRepo) CrearReservaTx(tx *gorm.DB, res *model.CupoReserva) error {
	return tx.Create(res).Error
}

func (r *cupoRepo) FindReserva(ctx context.Context, token uuid.UUID) (*model.CupoReserva, error) {
	var res model.CupoReserva
	err := r.db.WithContext(ctx).First(&res, "id = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *cupoRepo) MarcarReservaLiberadaTx(tx *gorm.DB, token uuid.UUID) (bool, error) {
	res := tx.Model(&model.CupoReserva{}).
		Where("id = ? AND estado = ?", token, model.CupoReservaActiva).
		Update("estado", model.CupoReservaLiberada)
	return res.RowsAffected == 1, res.Error
}

func (r *cupoRepo) VincularReservasTx(tx *gorm.DB, tokens []uuid.UUID, reservaID uuid.UUID) error {
	if len(tokens) == 0 {
		return nil
	}
	return tx.Model(&model.CupoReserva{}).
		Where("id IN ?", tokens).
		Update("reserva_id", reservaID).Error
}

func (r *cupoRepo) ListarReservasPorVinculo(ctx context.Context, reservaID uuid.UUID) ([]model.CupoReserva, error) {
	var reservas []model.CupoReserva
	err := r.db.WithContext(ctx).Where("reserva_id = ?", reservaID).Find(&reservas).Error
	return reservas, err
}

func (r *cupoRepo) DB() *gorm.DB { return r.db }

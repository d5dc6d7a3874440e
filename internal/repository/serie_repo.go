package repository

import (
	"context"
	"time"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SerieRepository owns the serial pool. All state transitions are single
// conditional UPDATEs ("set estado=X where estado=Y") — two vendors racing
// for the same serial hit the same row and exactly one UPDATE wins.
type SerieRepository interface {
	Crear(ctx context.Context, s *model.ArmaSerie) error
	FindPorNumero(ctx context.Context, numero string) (*model.ArmaSerie, error)
	FindPorReserva(ctx context.Context, reservaID uuid.UUID) (*model.ArmaSerie, error)
	// ListarDisponibles returns DISPONIBLE serials oldest-lot-first. The
	// snapshot is consistent at call time but may be stale by assignment
	// time — callers must treat Asignar as the only source of truth.
	ListarDisponibles(ctx context.Context, armaModeloID uuid.UUID) ([]model.ArmaSerie, error)

	Reservar(ctx context.Context, numero string, ahora time.Time) (bool, error)
	Asignar(ctx context.Context, numero string, reservaID uuid.UUID) (bool, error)
	Liberar(ctx context.Context, numero string) (bool, error)
	MarcarVendida(ctx context.Context, numero string) (bool, error)

	ListarReservadasAntesDe(ctx context.Context, cutoff time.Time) ([]model.ArmaSerie, error)

	DB() *gorm.DB
}

type serieRepo struct{ db *gorm.DB }

func NewSerieRepository(db *gorm.DB) SerieRepository { return &serieRepo{db: db} }

func (r *serieRepo) Crear(ctx context.Context, s *model.ArmaSerie) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *serieRepo) FindPorNumero(ctx context.Context, numero string) (*model.ArmaSerie, error) {
	var s model.ArmaSerie
	err := r.db.WithContext(ctx).Where("numero_serie = ?", numero).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serieRepo) FindPorReserva(ctx context.Context, reservaID uuid.UUID) (*model.ArmaSerie, error) {
	var s model.ArmaSerie
	err := r.db.WithContext(ctx).Where("reserva_id = ?", reservaID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serieRepo) ListarDisponibles(ctx context.Context, armaModeloID uuid.UUID) ([]model.ArmaSerie, error) {
	var series []model.ArmaSerie
	err := r.db.WithContext(ctx).
		Where("arma_modelo_id = ? AND estado = ?", armaModeloID, model.SerieDisponible).
		Order("created_at ASC").
		Find(&series).Error
	return series, err
}

func (r *serieRepo) Reservar(ctx context.Context, numero string, ahora time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ArmaSerie{}).
		Where("numero_serie = ? AND estado = ?", numero, model.SerieDisponible).
		Updates(map[string]interface{}{
			"estado":       model.SerieReservada,
			"reservada_en": ahora,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *serieRepo) Asignar(ctx context.Context, numero string, reservaID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ArmaSerie{}).
		Where("numero_serie = ? AND estado IN ?", numero,
			[]string{model.SerieDisponible, model.SerieReservada}).
		Updates(map[string]interface{}{
			"estado":       model.SerieAsignada,
			"reserva_id":   reservaID,
			"reservada_en": nil,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *serieRepo) Liberar(ctx context.Context, numero string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ArmaSerie{}).
		Where("numero_serie = ? AND estado IN ?", numero,
			[]string{model.SerieReservada, model.SerieAsignada}).
		Updates(map[string]interface{}{
			"estado":       model.SerieDisponible,
			"reserva_id":   nil,
			"reservada_en": nil,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *serieRepo) MarcarVendida(ctx context.Context, numero string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ArmaSerie{}).
		Where("numero_serie = ? AND estado = ?", numero, model.SerieAsignada).
		Update("estado", model.SerieVendida)
	return res.RowsAffected == 1, res.Error
}

func (r *serieRepo) ListarReservadasAntesDe(ctx context.Context, cutoff time.Time) ([]model.ArmaSerie, error) {
	var series []model.ArmaSerie
	err := r.db.WithContext(ctx).
		Where("estado = ? AND reservada_en < ?", model.SerieReservada, cutoff).
		Find(&series).Error
	return series, err
}

func (r *serieRepo) DB() *gorm.DB { return r.db }

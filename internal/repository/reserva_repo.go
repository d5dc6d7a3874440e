package repository

import (
	"context"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservaRepository interface {
	CrearTx(tx *gorm.DB, r *model.ReservaClienteArma) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReservaClienteArma, error)
	ActualizarSerieTx(tx *gorm.DB, id uuid.UUID, serieID uuid.UUID, asignadaPor *uuid.UUID) error
	// MarcarLiberadaTx flips activa → liberada; false means it was already
	// released (idempotent cancellation support).
	MarcarLiberadaTx(tx *gorm.DB, id uuid.UUID) (bool, error)
	ListarActivasPorGrupo(ctx context.Context, grupoID uuid.UUID) ([]model.ReservaClienteArma, error)
	ListarActivasPorCliente(ctx context.Context, grupoID, clienteID uuid.UUID) ([]model.ReservaClienteArma, error)

	DB() *gorm.DB
}

type reservaRepo struct{ db *gorm.DB }

func NewReservaRepository(db *gorm.DB) ReservaRepository { return &reservaRepo{db: db} }

func (r *reservaRepo) CrearTx(tx *gorm.DB, res *model.ReservaClienteArma) error {
	return tx.Create(res).Error
}

func (r *reservaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ReservaClienteArma, error) {
	var res model.ReservaClienteArma
	err := r.db.WithContext(ctx).
		Preload("Cliente").Preload("ArmaModelo").Preload("ArmaSerie").
		First(&res, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservaRepo) ActualizarSerieTx(tx *gorm.DB, id uuid.UUID, serieID uuid.UUID, asignadaPor *uuid.UUID) error {
	return tx.Model(&model.ReservaClienteArma{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"arma_serie_id": serieID,
			"asignada_por":  asignadaPor,
		}).Error
}

func (r *reservaRepo) MarcarLiberadaTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := tx.Model(&model.ReservaClienteArma{}).
		Where("id = ? AND estado = ?", id, model.ReservaActiva).
		Update("estado", model.ReservaLiberada)
	return res.RowsAffected == 1, res.Error
}

func (r *reservaRepo) ListarActivasPorGrupo(ctx context.Context, grupoID uuid.UUID) ([]model.ReservaClienteArma, error) {
	var reservas []model.ReservaClienteArma
	err := r.db.WithContext(ctx).
		Where("grupo_id = ? AND estado = ?", grupoID, model.ReservaActiva).
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) ListarActivasPorCliente(ctx context.Context, grupoID, clienteID uuid.UUID) ([]model.ReservaClienteArma, error) {
	var reservas []model.ReservaClienteArma
	err := r.db.WithContext(ctx).
		Where("grupo_id = ? AND cliente_id = ? AND estado = ?", grupoID, clienteID, model.ReservaActiva).
		Find(&reservas).Error
	return reservas, err
}

func (r *reservaRepo) DB() *gorm.DB { return r.db }

package repository

import (
	"context"
	"fmt"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LicenciaRepository interface {
	Crear(ctx context.Context, l *model.Licencia) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Licencia, error)
	Listar(ctx context.Context) ([]model.Licencia, error)

	// DebitarDisponibleTx atomically debits license capacity for a category
	// when a group is created. Returns false when the license has less
	// remaining capacity than requested.
	DebitarDisponibleTx(tx *gorm.DB, id uuid.UUID, categoria string, cantidad int) (bool, error)
	RestaurarDisponibleTx(tx *gorm.DB, id uuid.UUID, categoria string, cantidad int) error

	DB() *gorm.DB
}

type licenciaRepo struct{ db *gorm.DB }

func NewLicenciaRepository(db *gorm.DB) LicenciaRepository { return &licenciaRepo{db: db} }

func (r *licenciaRepo) Crear(ctx context.Context, l *model.Licencia) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *licenciaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Licencia, error) {
	var l model.Licencia
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *licenciaRepo) Listar(ctx context.Context) ([]model.Licencia, error) {
	var licencias []model.Licencia
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&licencias).Error
	return licencias, err
}

// columnaDisponible maps a client category to its disponible_* column.
func columnaDisponible(categoria string) (string, error) {
	switch categoria {
	case model.CategoriaCivil:
		return "disponible_civil", nil
	case model.CategoriaUniformado:
		return "disponible_uniformado", nil
	case model.CategoriaEmpresa:
		return "disponible_empresa", nil
	case model.CategoriaDeportista:
		return "disponible_deportista", nil
	}
	return "", fmt.Errorf("categoria desconocida: %s", categoria)
}

func (r *licenciaRepo) DebitarDisponibleTx(tx *gorm.DB, id uuid.UUID, categoria string, cantidad int) (bool, error) {
	col, err := columnaDisponible(categoria)
	if err != nil {
		return false, err
	}
	res := tx.Model(&model.Licencia{}).
		Where(fmt.Sprintf("id = ? AND %s >= ?", col), id, cantidad).
		Update(col, gorm.Expr(col+" - ?", cantidad))
	return res.RowsAffected == 1, res.Error
}

func (r *licenciaRepo) RestaurarDisponibleTx(tx *gorm.DB, id uuid.UUID, categoria string, cantidad int) error {
	col, err := columnaDisponible(categoria)
	if err != nil {
		return err
	}
	return tx.Model(&model.Licencia{}).
		Where("id = ?", id).
		Update(col, gorm.Expr(col+" + ?", cantidad)).Error
}

func (r *licenciaRepo) DB() *gorm.DB { return r.db }

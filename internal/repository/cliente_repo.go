package repository

import (
	"context"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Crear(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Crear(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type ArmaRepository interface {
	Crear(ctx context.Context, a *model.ArmaModelo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ArmaModelo, error)
	Listar(ctx context.Context) ([]model.ArmaModelo, error)
}

type armaRepo struct{ db *gorm.DB }

func NewArmaRepository(db *gorm.DB) ArmaRepository { return &armaRepo{db: db} }

func (r *armaRepo) Crear(ctx context.Context, a *model.ArmaModelo) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *armaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ArmaModelo, error) {
	var a model.ArmaModelo
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *armaRepo) Listar(ctx context.Context) ([]model.ArmaModelo, error) {
	var armas []model.ArmaModelo
	err := r.db.WithContext(ctx).Where("activo = true").Order("nombre ASC").Find(&armas).Error
	return armas, err
}

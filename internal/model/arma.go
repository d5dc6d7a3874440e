package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ArmaModelo is a catalog entry: one weapon model whose physical units are
// tracked individually in ArmaSerie.
type ArmaModelo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null;index"`
	Marca     string    `gorm:"not null"`
	Calibre   string
	Categoria string          `gorm:"not null"` // categoría de arma (cupo tipo 'arma')
	Precio    decimal.Decimal `gorm:"type:decimal(12,2)"`
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ArmaModelo) TableName() string { return "armas_modelo" }

package model

import (
	"time"

	"github.com/google/uuid"
)

// Categorías de cliente amparadas por una licencia de importación.
const (
	CategoriaCivil      = "CIVIL"
	CategoriaUniformado = "UNIFORMADO"
	CategoriaEmpresa    = "EMPRESA"
	CategoriaDeportista = "DEPORTISTA"
)

// CategoriasCliente lists every client category in display order.
var CategoriasCliente = []string{
	CategoriaCivil, CategoriaUniformado, CategoriaEmpresa, CategoriaDeportista,
}

// Licencia is the legal import authorization carrying finite per-category
// quota capacity. Disponible* counters track how much capacity remains for
// new import groups; creating a group debits them and annulling a group
// restores them.
type Licencia struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero string    `gorm:"uniqueIndex;not null"`

	CupoCivil      int `gorm:"not null;default:0"`
	CupoUniformado int `gorm:"not null;default:0"`
	CupoEmpresa    int `gorm:"not null;default:0"`
	CupoDeportista int `gorm:"not null;default:0"`

	DisponibleCivil      int `gorm:"not null;default:0"`
	DisponibleUniformado int `gorm:"not null;default:0"`
	DisponibleEmpresa    int `gorm:"not null;default:0"`
	DisponibleDeportista int `gorm:"not null;default:0"`

	Activa    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CupoTotal is derived: the sum of the per-category capacities.
func (l *Licencia) CupoTotal() int {
	return l.CupoCivil + l.CupoUniformado + l.CupoEmpresa + l.CupoDeportista
}

// Capacidad returns the capacity for a client category.
func (l *Licencia) Capacidad(categoria string) int {
	switch categoria {
	case CategoriaCivil:
		return l.CupoCivil
	case CategoriaUniformado:
		return l.CupoUniformado
	case CategoriaEmpresa:
		return l.CupoEmpresa
	case CategoriaDeportista:
		return l.CupoDeportista
	}
	return 0
}

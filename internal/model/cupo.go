package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de cupo: por categoría de cliente o por categoría de arma.
const (
	CupoTipoCliente = "cliente"
	CupoTipoArma    = "arma"
)

// Estados de una reserva de cupo (token).
const (
	CupoReservaActiva   = "activa"
	CupoReservaLiberada = "liberada"
)

// CupoAsignacion tracks remaining quota for one (grupo, tipo, categoria)
// triple. Restante is only ever mutated through conditional UPDATEs
// ("restante = restante - ? WHERE restante >= ?") so it can never go negative
// under concurrent reserves.
type CupoAsignacion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GrupoID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cupo_grupo_tipo_cat"`
	Tipo      string    `gorm:"not null;uniqueIndex:idx_cupo_grupo_tipo_cat"` // cliente | arma
	Categoria string    `gorm:"not null;uniqueIndex:idx_cupo_grupo_tipo_cat"`
	Capacidad int       `gorm:"not null"`
	Restante  int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CupoAsignacion) TableName() string { return "cupos_asignacion" }

// CupoReserva is the reservation token handed out by a successful reserve.
// Releasing flips Estado activa → liberada exactly once; the row itself is
// what makes release idempotent (a second call finds estado=liberada and
// does not restore again).
type CupoReserva struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CupoAsignacionID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Cantidad         int        `gorm:"not null"`
	Estado           string     `gorm:"not null;default:'activa'"` // activa | liberada
	ReservaID        *uuid.UUID `gorm:"type:uuid;index"`           // ReservaClienteArma que la consumió
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (CupoReserva) TableName() string { return "cupos_reservas" }

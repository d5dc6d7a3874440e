package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de una serie física. VENDIDA es terminal: ninguna transición sale
// de ella.
const (
	SerieDisponible = "DISPONIBLE"
	SerieReservada  = "RESERVADA"
	SerieAsignada   = "ASIGNADA"
	SerieVendida    = "VENDIDA"
)

// ArmaSerie is one physical unit identified by a globally unique serial
// number. Estado and ReservaID always change together, in a single
// conditional UPDATE, so a serial can never point at a reservation while
// marked DISPONIBLE (or vice versa).
type ArmaSerie struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroSerie  string    `gorm:"uniqueIndex;not null"`
	ArmaModeloID uuid.UUID `gorm:"type:uuid;not null;index"`
	Estado       string    `gorm:"not null;default:'DISPONIBLE';index"`
	Lote         string
	Notas        string
	// ReservaID references the ReservaClienteArma that holds this serial.
	ReservaID *uuid.UUID `gorm:"type:uuid;index"`
	// ReservadaEn stamps when the serial entered RESERVADA; the lease cron
	// uses it to expire abandoned in-progress sales.
	ReservadaEn *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ArmaModelo *ArmaModelo `gorm:"foreignKey:ArmaModeloID"`
}

func (ArmaSerie) TableName() string { return "armas_series" }

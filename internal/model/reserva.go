package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una reserva cliente-arma.
const (
	ReservaActiva   = "activa"
	ReservaLiberada = "liberada"
)

// ReservaClienteArma binds a client, a weapon model, and an import group —
// and eventually a concrete serial. It is created when a vendor selects a
// weapon for a client (before a serial exists) and finalized when a serial
// is attached. Releasing it restores the quota tokens and returns the
// serial to DISPONIBLE.
type ReservaClienteArma struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GrupoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ArmaModeloID uuid.UUID       `gorm:"type:uuid;not null"`
	ArmaSerieID  *uuid.UUID      `gorm:"type:uuid;index"` // nil hasta que se asigna una serie
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cantidad     int             `gorm:"not null;default:1"`
	Estado       string          `gorm:"not null;default:'activa';index"` // activa | liberada
	AsignadaPor  *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Cliente    *Cliente    `gorm:"foreignKey:ClienteID"`
	ArmaModelo *ArmaModelo `gorm:"foreignKey:ArmaModeloID"`
	ArmaSerie  *ArmaSerie  `gorm:"foreignKey:ArmaSerieID"`
}

func (ReservaClienteArma) TableName() string { return "reservas_cliente_arma" }

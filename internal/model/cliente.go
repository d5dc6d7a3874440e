package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is intentionally minimal: client onboarding lives in another
// subsystem and feeds validated records in. The engine only needs identity
// and the quota category the client consumes.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Documento string    `gorm:"uniqueIndex;not null"`
	Categoria string    `gorm:"not null"` // CIVIL | UNIFORMADO | EMPRESA | DEPORTISTA
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }

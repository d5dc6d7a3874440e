package infra

import (
	"fmt"

	"github.com/Gmarm-org/gmarm-sub002/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for the full schema. TranslateError is required: the bulk
// serial load distinguishes duplicates from other failures by matching
// gorm.ErrDuplicatedKey on the unique index violation.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Licencia{},
		&model.Cliente{},
		&model.ArmaModelo{},
		&model.ArmaSerie{},
		&model.GrupoImportacion{},
		&model.HistorialEstadoGrupo{},
		&model.GrupoCliente{},
		&model.CupoAsignacion{},
		&model.CupoReserva{},
		&model.ReservaClienteArma{},
		&model.ProcesoImportacion{},
		&model.DocumentoGrupo{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}

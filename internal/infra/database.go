package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate, then applies the SQL bits AutoMigrate cannot express
// (the comanda numbering sequence).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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
		&model.Usuario{},
		&model.Cliente{},
		&model.Produto{},
		&model.Comanda{},
		&model.ComandaItem{},
		&model.ComandaPagamento{},
		&model.ContaMensal{},
		&model.ItemMensal{},
		&model.PagamentoMensal{},
		&model.MovimentoEstoque{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	// Sequence keeps comanda numbering atomic across concurrent opens.
	if err := db.Exec(`CREATE SEQUENCE IF NOT EXISTS comandas_numero_seq START 1`).Error; err != nil {
		return nil, fmt.Errorf("create sequence: %w", err)
	}

	return db, nil
}

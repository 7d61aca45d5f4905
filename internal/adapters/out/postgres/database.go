package postgres

import (
	"fmt"

	"takeout/internal/adapters/out/postgres/addressrepo"
	"takeout/internal/adapters/out/postgres/orderrepo"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config gives GORM the settings every connection here needs. TranslateError
// turns unique violations into gorm.ErrDuplicatedKey, which the order
// repository maps to ports.ErrDuplicateOrderNumber.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
}

// Open connects to PostgreSQL and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the adapters own.
func Migrate(db *gorm.DB) error {
	models := append(orderrepo.Models(), &addressrepo.AddressDTO{})
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

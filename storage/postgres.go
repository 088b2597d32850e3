package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"skill-hand/config"
	"skill-hand/models"
)

// OpenPostgres verbindet sich mit der Datenbank und migriert die Termtabelle.
func OpenPostgres(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&models.ReferenceTerm{}); err != nil {
		return nil, fmt.Errorf("migrate reference terms: %w", err)
	}
	return db, nil
}

package database

import (
	"fmt"

	"github.com/justsurfingit/SalaryIQ/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the cache database. When migrate is set the analysis_cache
// table is created or updated.
func Connect(dsn string, migrate bool, log logrus.FieldLogger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to cache database: %w", err)
	}
	log.Info("database connection established")

	if !migrate {
		return db, nil
	}

	log.Info("running migrations")
	if err := db.AutoMigrate(&models.AnalysisCache{}); err != nil {
		return nil, fmt.Errorf("migrate analysis_cache: %w", err)
	}
	return db, nil
}

package db

import (
	"fmt"
	"os"

	"chansync/internal/services"
	"chansync/pkg/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection
func NewDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		os.Getenv("DB_TIMEZONE"),
	)

	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// RunMigrations runs GORM AutoMigrate plus custom indexes and seed data
func RunMigrations(db *gorm.DB) error {
	log.Info().Msg("Running GORM AutoMigrate")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Warn().Err(err).Msg("Could not create uuid-ossp extension")
	}

	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		return fmt.Errorf("failed to run GORM AutoMigrate: %w", err)
	}

	if err := createCustomIndexes(db); err != nil {
		log.Warn().Err(err).Msg("Failed to create some custom indexes")
	}

	if err := services.SeedAllTenantDefaults(db); err != nil {
		log.Warn().Err(err).Msg("Failed to seed tenant defaults")
	}

	log.Info().Msg("Migrations completed")
	return nil
}

// createCustomIndexes creates indexes GORM does not handle automatically
func createCustomIndexes(db *gorm.DB) error {
	indexes := []string{
		// A channel identity maps to at most one product per account, once known
		`CREATE UNIQUE INDEX IF NOT EXISTS uni_mappings_account_external ON mappings(account_id, external_id) WHERE external_id != '' AND deleted_at IS NULL`,

		// Sweep query: due work per status
		`CREATE INDEX IF NOT EXISTS idx_mappings_due ON mappings(status, next_retry_at) WHERE status IN ('pending_sync', 'sync_error')`,

		// Audit trail is read newest-first per mapping
		`CREATE INDEX IF NOT EXISTS idx_sync_log_entries_mapping_started ON sync_log_entries(mapping_id, started_at DESC)`,
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			log.Warn().Err(err).Str("index", idx).Msg("Failed to create index")
		}
	}

	return nil
}

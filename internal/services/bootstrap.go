package services

import (
	"fmt"

	"chansync/internal/repo"
	"chansync/internal/validation"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SeedTenantDefaults installs the default completeness rules and channel
// requirement sets for a tenant that has none yet. Idempotent: a tenant with
// any rules is left alone.
func SeedTenantDefaults(db *gorm.DB, tenantID uuid.UUID) error {
	requirementRepo := repo.NewRequirementRepository(db)

	count, err := requirementRepo.CountRules(tenantID)
	if err != nil {
		return fmt.Errorf("count completeness rules: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, rule := range validation.DefaultCompletenessRules() {
			rule.TenantID = tenantID
			if err := tx.Create(&rule).Error; err != nil {
				return fmt.Errorf("seed rule %s: %w", rule.Field, err)
			}
		}
		for _, set := range validation.DefaultRequirementSets() {
			set.TenantID = tenantID
			set.RulesVersion = 1
			if err := tx.Create(&set).Error; err != nil {
				return fmt.Errorf("seed requirement set %s: %w", set.ChannelCode, err)
			}
		}
		log.Info().Str("tenant_id", tenantID.String()).Msg("Seeded default validation configuration")
		return nil
	})
}

// SeedAllTenantDefaults seeds any tenant still missing validation
// configuration, run once at startup
func SeedAllTenantDefaults(db *gorm.DB) error {
	var tenants []models.Tenant
	if err := db.Find(&tenants).Error; err != nil {
		return err
	}
	for _, t := range tenants {
		if err := SeedTenantDefaults(db, t.ID); err != nil {
			log.Error().Err(err).Str("tenant_id", t.ID.String()).Msg("Failed to seed tenant defaults")
		}
	}
	return nil
}

package repo

import (
	"errors"

	"chansync/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequirementRepository handles requirement set and completeness rule access
type RequirementRepository struct {
	db *gorm.DB
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(db *gorm.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

// GetRequirementSet resolves the requirement set for a channel, preferring a
// family-specific set over the channel-wide one
func (r *RequirementRepository) GetRequirementSet(tenantID uuid.UUID, channel models.ChannelCode, familyCode string) (*models.ChannelRequirementSet, error) {
	var set models.ChannelRequirementSet
	if familyCode != "" {
		err := r.db.Where("tenant_id = ? AND channel_code = ? AND family_code = ?", tenantID, channel, familyCode).First(&set).Error
		if err == nil {
			return &set, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if err := r.db.Where("tenant_id = ? AND channel_code = ? AND family_code = ''", tenantID, channel).First(&set).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

// ListRequirementSets gets all requirement sets for a tenant
func (r *RequirementRepository) ListRequirementSets(tenantID uuid.UUID) ([]models.ChannelRequirementSet, error) {
	var sets []models.ChannelRequirementSet
	if err := r.db.Where("tenant_id = ?", tenantID).Order("channel_code ASC, family_code ASC").Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

// UpsertRequirementSet creates or replaces the set for (channel, family),
// bumping RulesVersion so cached copies can be detected as stale
func (r *RequirementRepository) UpsertRequirementSet(set *models.ChannelRequirementSet) error {
	var existing models.ChannelRequirementSet
	err := r.db.Where("tenant_id = ? AND channel_code = ? AND family_code = ?", set.TenantID, set.ChannelCode, set.FamilyCode).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		set.RulesVersion = 1
		return r.db.Create(set).Error
	}
	if err != nil {
		return err
	}
	existing.ChannelName = set.ChannelName
	existing.RequiredFields = set.RequiredFields
	existing.RecommendedFields = set.RecommendedFields
	existing.MinCompletenessScore = set.MinCompletenessScore
	existing.RulesVersion++
	if err := r.db.Save(&existing).Error; err != nil {
		return err
	}
	*set = existing
	return nil
}

// ListRules gets all completeness rules for a tenant
func (r *RequirementRepository) ListRules(tenantID uuid.UUID) ([]models.CompletenessRule, error) {
	var rules []models.CompletenessRule
	if err := r.db.Where("tenant_id = ?", tenantID).Order("field ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// CreateRule adds a completeness rule
func (r *RequirementRepository) CreateRule(rule *models.CompletenessRule) error {
	return r.db.Create(rule).Error
}

// UpdateRule updates a completeness rule
func (r *RequirementRepository) UpdateRule(rule *models.CompletenessRule) error {
	return r.db.Save(rule).Error
}

// DeleteRule soft deletes a completeness rule
func (r *RequirementRepository) DeleteRule(tenantID, id uuid.UUID) error {
	return r.db.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&models.CompletenessRule{}).Error
}

// CountRules counts a tenant's rules, used to decide whether to seed defaults
func (r *RequirementRepository) CountRules(tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.CompletenessRule{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

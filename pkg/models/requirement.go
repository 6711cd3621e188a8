package models

import (
	"github.com/google/uuid"
)

// ChannelRequirementSet describes what a channel requires from a product
// before it may be published. Keyed by channel code plus an optional product
// family for family-specific overrides.
type ChannelRequirementSet struct {
	BaseTenantModel
	ChannelCode ChannelCode `gorm:"not null;uniqueIndex:uni_requirement_channel_family" json:"channel_code" validate:"required"`
	FamilyCode  string      `gorm:"uniqueIndex:uni_requirement_channel_family;default:''" json:"family_code"`
	ChannelName string      `json:"channel_name"`

	RequiredFields    StringList `gorm:"type:jsonb" json:"required_fields"`
	RecommendedFields StringList `gorm:"type:jsonb" json:"recommended_fields"`

	MinCompletenessScore int `gorm:"default:0;check:min_completeness_score >= 0 AND min_completeness_score <= 100" json:"min_completeness_score" validate:"min=0,max=100"`

	// RulesVersion is bumped on every edit so cached copies can be detected
	// as stale by consumers.
	RulesVersion int64 `gorm:"default:1" json:"rules_version"`
}

// CompletenessRule is one weighted readiness check. Rules are configuration:
// created and edited by operators, read-only at evaluation time.
type CompletenessRule struct {
	BaseTenantModel
	Field         string     `gorm:"not null" json:"field" validate:"required"`
	Label         string     `gorm:"not null" json:"label" validate:"required"`
	IsRequired    bool       `gorm:"default:false" json:"is_required"`
	Weight        int        `gorm:"default:1;check:weight >= 0" json:"weight" validate:"min=0"`
	CategoryScope *uuid.UUID `gorm:"type:uuid" json:"category_scope,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
}

// AppliesTo reports whether the rule is in scope for a product snapshot
func (r *CompletenessRule) AppliesTo(p *ProductSnapshot) bool {
	if !r.IsActive {
		return false
	}
	if r.CategoryScope == nil {
		return true
	}
	return p.InCategory(*r.CategoryScope)
}

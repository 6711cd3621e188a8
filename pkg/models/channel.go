package models

// ChannelCode identifies a marketplace or storefront integration
type ChannelCode string

const (
	ChannelAmazon       ChannelCode = "amazon"
	ChannelMercadoLivre ChannelCode = "mercadolivre"
	ChannelShopify      ChannelCode = "shopify"
	ChannelGeneric      ChannelCode = "generic"
)

// SyncDirection controls which side is authoritative for a mapping
type SyncDirection string

const (
	SyncDirectionPIMToChannel SyncDirection = "pim_to_channel"
	SyncDirectionChannelToPIM SyncDirection = "channel_to_pim"
	SyncDirectionBidirectional SyncDirection = "bidirectional"
)

// ConflictPolicy decides what happens when both sides changed since the last sync
type ConflictPolicy string

const (
	// ConflictPolicyManualReview queues the conflict for an operator decision.
	// Default: silent data loss is unacceptable.
	ConflictPolicyManualReview ConflictPolicy = "manual_review"
	// ConflictPolicyLastWriterWins resolves by comparing local and remote
	// change timestamps. Explicit opt-in per account or mapping.
	ConflictPolicyLastWriterWins ConflictPolicy = "lww_timestamp"
)

// ChannelAccount represents a tenant's connection to one marketplace account/store
type ChannelAccount struct {
	BaseTenantModel
	ChannelCode    ChannelCode    `gorm:"not null;index" json:"channel_code" validate:"required,oneof=amazon mercadolivre shopify generic"`
	Name           string         `gorm:"not null" json:"name" validate:"required"`
	ExternalSellerID string       `json:"external_seller_id"` // seller/store id on the marketplace
	CredentialsRef string         `json:"credentials_ref"`    // reference into the secrets store, never the secret itself
	SyncDirection  SyncDirection  `gorm:"default:'pim_to_channel'" json:"sync_direction" validate:"omitempty,oneof=pim_to_channel channel_to_pim bidirectional"`
	ConflictPolicy ConflictPolicy `gorm:"default:'manual_review'" json:"conflict_policy" validate:"omitempty,oneof=manual_review lww_timestamp"`

	// Throttling configuration, enforced by the sync worker
	MaxConcurrentSyncs int `gorm:"default:4" json:"max_concurrent_syncs" validate:"omitempty,min=1,max=64"`
	RequestsPerMinute  int `gorm:"default:60" json:"requests_per_minute" validate:"omitempty,min=1"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

// EffectiveDirection returns the account default unless the mapping overrides it
func (a *ChannelAccount) EffectiveDirection(m *Mapping) SyncDirection {
	if m != nil && m.SyncDirection != "" {
		return m.SyncDirection
	}
	if a.SyncDirection == "" {
		return SyncDirectionPIMToChannel
	}
	return a.SyncDirection
}

// EffectiveConflictPolicy returns the account default unless the mapping overrides it
func (a *ChannelAccount) EffectiveConflictPolicy(m *Mapping) ConflictPolicy {
	if m != nil && m.ConflictPolicy != "" {
		return m.ConflictPolicy
	}
	if a.ConflictPolicy == "" {
		return ConflictPolicyManualReview
	}
	return a.ConflictPolicy
}

package models

import "github.com/google/uuid"

// PaginationResult represents paginated results
type PaginationResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// GetAllModels returns all models for GORM AutoMigrate
func GetAllModels() []interface{} {
	return []interface{}{
		// Core models
		&Tenant{},

		// Channel configuration
		&ChannelAccount{},
		&ChannelRequirementSet{},
		&CompletenessRule{},

		// Synchronization
		&Mapping{},
		&SyncLogEntry{},
		&WebhookEvent{},
	}
}

// CreateChannelAccountRequest is the payload for registering a channel account
type CreateChannelAccountRequest struct {
	ChannelCode        ChannelCode    `json:"channel_code" validate:"required,oneof=amazon mercadolivre shopify generic"`
	Name               string         `json:"name" validate:"required"`
	ExternalSellerID   string         `json:"external_seller_id"`
	CredentialsRef     string         `json:"credentials_ref"`
	SyncDirection      SyncDirection  `json:"sync_direction" validate:"omitempty,oneof=pim_to_channel channel_to_pim bidirectional"`
	ConflictPolicy     ConflictPolicy `json:"conflict_policy" validate:"omitempty,oneof=manual_review lww_timestamp"`
	MaxConcurrentSyncs int            `json:"max_concurrent_syncs" validate:"omitempty,min=1,max=64"`
	RequestsPerMinute  int            `json:"requests_per_minute" validate:"omitempty,min=1"`
}

// UpdateChannelAccountRequest is the payload for editing a channel account
type UpdateChannelAccountRequest struct {
	Name               *string         `json:"name"`
	CredentialsRef     *string         `json:"credentials_ref"`
	SyncDirection      *SyncDirection  `json:"sync_direction" validate:"omitempty,oneof=pim_to_channel channel_to_pim bidirectional"`
	ConflictPolicy     *ConflictPolicy `json:"conflict_policy" validate:"omitempty,oneof=manual_review lww_timestamp"`
	MaxConcurrentSyncs *int            `json:"max_concurrent_syncs" validate:"omitempty,min=1,max=64"`
	RequestsPerMinute  *int            `json:"requests_per_minute" validate:"omitempty,min=1"`
	IsActive           *bool           `json:"is_active"`
}

// CreateMappingRequest targets a product at a channel account
type CreateMappingRequest struct {
	AccountID      uuid.UUID      `json:"account_id" validate:"required"`
	ProductID      uuid.UUID      `json:"product_id" validate:"required"`
	SyncDirection  SyncDirection  `json:"sync_direction" validate:"omitempty,oneof=pim_to_channel channel_to_pim bidirectional"`
	ConflictPolicy ConflictPolicy `json:"conflict_policy" validate:"omitempty,oneof=manual_review lww_timestamp"`
}

// UpsertRequirementSetRequest creates or replaces a channel requirement set
type UpsertRequirementSetRequest struct {
	ChannelCode          ChannelCode `json:"channel_code" validate:"required"`
	FamilyCode           string      `json:"family_code"`
	ChannelName          string      `json:"channel_name"`
	RequiredFields       []string    `json:"required_fields"`
	RecommendedFields    []string    `json:"recommended_fields"`
	MinCompletenessScore int         `json:"min_completeness_score" validate:"min=0,max=100"`
}

// CreateCompletenessRuleRequest adds a weighted readiness rule
type CreateCompletenessRuleRequest struct {
	Field         string     `json:"field" validate:"required"`
	Label         string     `json:"label" validate:"required"`
	IsRequired    bool       `json:"is_required"`
	Weight        int        `json:"weight" validate:"min=0"`
	CategoryScope *uuid.UUID `json:"category_scope"`
}

// ProductChangeNotification is sent by the catalog service when a product
// changed in a way that may affect channel listings
type ProductChangeNotification struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	ChangedFields []string  `json:"changed_fields"`
}

// ResolveConflictRequest is the operator decision for a conflicted mapping
type ResolveConflictRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=push pull ignore"`
}

// WebhookEventRequest is the inbound marketplace event payload
type WebhookEventRequest struct {
	EventID    string `json:"event_id" validate:"required"`
	EventType  string `json:"event_type" validate:"required"`
	ExternalID string `json:"external_id"`
	Payload    string `json:"payload"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncOperation is the kind of synchronization work performed
type SyncOperation string

const (
	SyncOperationFull        SyncOperation = "full"
	SyncOperationIncremental SyncOperation = "incremental"
	SyncOperationSingle      SyncOperation = "single"
	SyncOperationPrice       SyncOperation = "price"
	SyncOperationInventory   SyncOperation = "inventory"
	SyncOperationWebhook     SyncOperation = "webhook"
	SyncOperationManualPush  SyncOperation = "manual_push"
	SyncOperationManualPull  SyncOperation = "manual_pull"
)

// SyncLogStatus is the outcome recorded for a sync attempt
type SyncLogStatus string

const (
	SyncLogStatusRunning   SyncLogStatus = "running"
	SyncLogStatusSuccess   SyncLogStatus = "success"
	SyncLogStatusNoop      SyncLogStatus = "noop"
	SyncLogStatusRejected  SyncLogStatus = "rejected" // failed validation, adapter never called
	SyncLogStatusError     SyncLogStatus = "error"
	SyncLogStatusConflict  SyncLogStatus = "conflict"
	SyncLogStatusCancelled SyncLogStatus = "cancelled"
)

// TriggerSource records what initiated a sync attempt
type TriggerSource string

const (
	TriggerManual    TriggerSource = "manual"
	TriggerScheduled TriggerSource = "scheduled"
	TriggerWebhook   TriggerSource = "webhook"
	TriggerRetry     TriggerSource = "retry"
)

// SyncLogEntry is the append-only audit record of one sync attempt.
// Never mutated after CompletedAt is set.
type SyncLogEntry struct {
	BaseTenantModel
	MappingID uuid.UUID     `gorm:"type:uuid;not null;index;constraint:OnDelete:RESTRICT" json:"mapping_id"`
	AccountID uuid.UUID     `gorm:"type:uuid;not null;index" json:"account_id"`
	Operation SyncOperation `gorm:"not null" json:"operation"`
	Status    SyncLogStatus `gorm:"not null;default:'running';index" json:"status"`
	Direction SyncDirection `json:"direction"`
	Trigger   TriggerSource `gorm:"not null" json:"trigger"`

	ProcessedCount int `gorm:"default:0" json:"processed_count"`
	CreatedCount   int `gorm:"default:0" json:"created_count"`
	UpdatedCount   int `gorm:"default:0" json:"updated_count"`
	FailedCount    int `gorm:"default:0" json:"failed_count"`
	SkippedCount   int `gorm:"default:0" json:"skipped_count"`

	Message     string  `json:"message"`
	ErrorDetail *string `gorm:"type:text" json:"error_detail,omitempty"`
	ErrorClass  string  `json:"error_class,omitempty"`
	Retryable   bool    `gorm:"default:false" json:"retryable"`

	// Payload snapshots for diagnosis and replay
	RequestPayload  *string `gorm:"type:jsonb" json:"request_payload,omitempty"`
	ResponsePayload *string `gorm:"type:jsonb" json:"response_payload,omitempty"`

	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Duration of the attempt, zero while still running
func (e *SyncLogEntry) Duration() time.Duration {
	if e.CompletedAt == nil {
		return 0
	}
	return e.CompletedAt.Sub(e.StartedAt)
}

// WebhookEvent records one inbound marketplace event for idempotent
// processing. The (account_id, event_id) pair is unique so redeliveries
// are detected and skipped.
type WebhookEvent struct {
	BaseTenantModel
	AccountID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uni_webhook_events_account_event" json:"account_id"`
	EventID     string     `gorm:"not null;uniqueIndex:uni_webhook_events_account_event" json:"event_id"`
	EventType   string     `gorm:"not null" json:"event_type"` // price_drift, stock_drift, listing_suppressed, listing_deleted, order_placed
	ExternalID  string     `json:"external_id"`
	Payload     *string    `gorm:"type:jsonb" json:"payload,omitempty"`
	ProcessedAt *time.Time `json:"processed_at"`
}

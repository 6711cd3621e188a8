package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// MappingStatus is the synchronization state of a product/channel mapping
type MappingStatus string

const (
	MappingStatusPendingSync      MappingStatus = "pending_sync"
	MappingStatusActive           MappingStatus = "active"
	MappingStatusSyncError        MappingStatus = "sync_error"
	MappingStatusSuppressed       MappingStatus = "suppressed"
	MappingStatusInactive         MappingStatus = "inactive"
	MappingStatusDeletedInChannel MappingStatus = "deleted_in_channel"
	MappingStatusDeletedInPIM     MappingStatus = "deleted_in_pim"
)

// IsTerminal reports whether the status allows no further transitions except
// deletion markers
func (s MappingStatus) IsTerminal() bool {
	return s == MappingStatusDeletedInChannel || s == MappingStatusDeletedInPIM
}

// mappingTransitions holds the legal non-deletion transitions
var mappingTransitions = map[MappingStatus][]MappingStatus{
	MappingStatusPendingSync: {MappingStatusActive, MappingStatusSyncError, MappingStatusSuppressed, MappingStatusInactive},
	MappingStatusActive:      {MappingStatusPendingSync, MappingStatusSyncError, MappingStatusSuppressed, MappingStatusInactive},
	MappingStatusSyncError:   {MappingStatusPendingSync, MappingStatusActive, MappingStatusSuppressed, MappingStatusInactive},
	MappingStatusSuppressed:  {MappingStatusPendingSync, MappingStatusInactive},
	MappingStatusInactive:    {MappingStatusPendingSync},
}

// CanTransition reports whether moving from s to target is legal.
// Deletion markers are reachable from every non-terminal state so that a
// product or listing removal is never lost.
func (s MappingStatus) CanTransition(target MappingStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == MappingStatusDeletedInPIM || target == MappingStatusDeletedInChannel {
		return true
	}
	for _, t := range mappingTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// RemoteStatusDetail is the structured remote listing state reported by an
// adapter, replacing ad-hoc vendor status strings.
type RemoteStatusDetail struct {
	Code   string `json:"code,omitempty"`   // normalized: live, under_review, suppressed, rejected, deleted
	Reason string `json:"reason,omitempty"` // human-readable reason from the channel
	Raw    string `json:"raw,omitempty"`    // vendor vocabulary as received
}

func (d RemoteStatusDetail) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *RemoteStatusDetail) Scan(value interface{}) error {
	if value == nil {
		*d = RemoteStatusDetail{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for RemoteStatusDetail")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, d)
}

func (RemoteStatusDetail) GormDataType() string {
	return "jsonb"
}

// Mapping links one PIM product to its representation on one channel account.
// One row per (account, product); logically deleted via terminal statuses,
// never physically removed, to preserve audit history.
type Mapping struct {
	BaseTenantModel
	AccountID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uni_mappings_account_product;constraint:OnDelete:RESTRICT" json:"account_id" validate:"required"`
	ProductID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uni_mappings_account_product;index" json:"product_id" validate:"required"`
	ChannelCode ChannelCode `gorm:"not null;index" json:"channel_code"`

	// ExternalID is the channel-side identity (ASIN, MLB item id, Shopify
	// product id). Empty until the first successful create on the channel.
	// Unique per account once known (partial index in internal/db).
	ExternalID         string       `gorm:"index" json:"external_id"`
	ExternalAttributes AttributeBag `gorm:"type:jsonb" json:"external_attributes"`

	Status             MappingStatus      `gorm:"not null;default:'pending_sync';index" json:"status"`
	RemoteStatusDetail RemoteStatusDetail `gorm:"type:jsonb" json:"remote_status_detail"`

	// Version counters. LocalVersion is bumped on every relevant local change;
	// RemoteVersion mirrors the last observed channel-side marker. The
	// LastSynced* pair records what the last successful sync covered.
	LocalVersion            int64      `gorm:"default:0" json:"local_version"`
	LocalUpdatedAt          *time.Time `json:"local_updated_at"`
	RemoteVersion           int64      `gorm:"default:0" json:"remote_version"`
	RemoteUpdatedAt         *time.Time `json:"remote_updated_at"`
	LastSyncedLocalVersion  int64      `gorm:"default:0" json:"last_synced_local_version"`
	LastSyncedRemoteVersion int64      `gorm:"default:0" json:"last_synced_remote_version"`

	LastSyncedAt      *time.Time    `json:"last_synced_at"`
	LastSyncDirection SyncDirection `json:"last_sync_direction"`
	LastSyncError     *string       `json:"last_sync_error"`

	// Retry bookkeeping for transient failures
	RetryCount  int        `gorm:"default:0" json:"retry_count"`
	NextRetryAt *time.Time `gorm:"index" json:"next_retry_at"`
	Retryable   bool       `gorm:"default:true" json:"retryable"`

	// Optional per-mapping overrides of the account defaults
	SyncDirection  SyncDirection  `gorm:"default:''" json:"sync_direction"`
	ConflictPolicy ConflictPolicy `gorm:"default:''" json:"conflict_policy"`
}

// LocalAdvanced reports whether the local side changed since the last sync
func (m *Mapping) LocalAdvanced() bool {
	return m.LocalVersion > m.LastSyncedLocalVersion
}

// RemoteAdvanced reports whether the remote side changed since the last sync
func (m *Mapping) RemoteAdvanced() bool {
	return m.RemoteVersion > m.LastSyncedRemoteVersion
}

// NeverSynced reports whether no sync has completed yet for this mapping
func (m *Mapping) NeverSynced() bool {
	return m.LastSyncedAt == nil
}

// Transition moves the mapping to the target status, enforcing the state
// machine. The caller persists the change.
func (m *Mapping) Transition(target MappingStatus) error {
	if m.Status == target {
		return nil
	}
	if !m.Status.CanTransition(target) {
		return &IllegalTransitionError{From: m.Status, To: target}
	}
	m.Status = target
	return nil
}

// IllegalTransitionError is returned when a status change violates the
// mapping state machine
type IllegalTransitionError struct {
	From MappingStatus
	To   MappingStatus
}

func (e *IllegalTransitionError) Error() string {
	return "illegal mapping status transition from " + string(e.From) + " to " + string(e.To)
}

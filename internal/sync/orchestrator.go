package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chansync/internal/adapters"
	"chansync/internal/repo"
	"chansync/internal/validation"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SnapshotProvider supplies read-only product snapshots from the external
// catalog service
type SnapshotProvider interface {
	GetProductSnapshot(ctx context.Context, tenantID, productID uuid.UUID) (*models.ProductSnapshot, error)
}

// RequirementProvider supplies requirement sets and completeness rules,
// normally through a versioned cache
type RequirementProvider interface {
	RequirementSet(ctx context.Context, tenantID uuid.UUID, channel models.ChannelCode, familyCode string) (*models.ChannelRequirementSet, error)
	Rules(ctx context.Context, tenantID uuid.UUID) ([]models.CompletenessRule, error)
}

// Event is a sync lifecycle notification for operator dashboards
type Event struct {
	MappingID uuid.UUID            `json:"mapping_id"`
	AccountID uuid.UUID            `json:"account_id"`
	Status    models.SyncLogStatus `json:"status"`
	Mapping   models.MappingStatus `json:"mapping_status"`
	Message   string               `json:"message"`
	At        time.Time            `json:"at"`
}

// EventPublisher fans sync events out to connected operator clients
type EventPublisher interface {
	PublishSyncEvent(tenantID uuid.UUID, event Event)
}

// ErrSyncInProgress is returned when another sync holds the mapping lock
var ErrSyncInProgress = errors.New("a sync for this mapping is already in progress")

// Request describes one sync attempt
type Request struct {
	TenantID  uuid.UUID
	MappingID uuid.UUID
	Operation models.SyncOperation
	Trigger   models.TriggerSource
}

// Orchestrator drives the synchronization state machine for one mapping at a
// time: validate, classify, call the adapter, update the mapping, write the
// audit log entry. Every exit path after the mapping is loaded produces
// exactly one SyncLogEntry.
type Orchestrator struct {
	db           *gorm.DB
	mappings     *repo.MappingRepository
	logs         *repo.SyncLogRepository
	accounts     *repo.ChannelAccountRepository
	snapshots    SnapshotProvider
	requirements RequirementProvider
	registry     *adapters.Registry
	locks        *mappingLocks
	limiters     *accountLimiters
	events       EventPublisher

	adapterTimeout time.Duration
	maxRetries     int
}

// Option tunes an Orchestrator
type Option func(*Orchestrator)

// WithAdapterTimeout bounds each adapter call
func WithAdapterTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.adapterTimeout = d }
}

// WithMaxRetries bounds the transient-failure retry loop
func WithMaxRetries(n int) Option {
	return func(o *Orchestrator) { o.maxRetries = n }
}

// WithEventPublisher attaches a sync event sink
func WithEventPublisher(p EventPublisher) Option {
	return func(o *Orchestrator) { o.events = p }
}

// NewOrchestrator creates a sync orchestrator
func NewOrchestrator(db *gorm.DB, snapshots SnapshotProvider, requirements RequirementProvider, registry *adapters.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		db:             db,
		mappings:       repo.NewMappingRepository(db),
		logs:           repo.NewSyncLogRepository(db),
		accounts:       repo.NewChannelAccountRepository(db),
		snapshots:      snapshots,
		requirements:   requirements,
		registry:       registry,
		locks:          newMappingLocks(),
		limiters:       newAccountLimiters(),
		adapterTimeout: 30 * time.Second,
		maxRetries:     DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Limiters exposes the per-account limiter registry, shared with the worker
func (o *Orchestrator) Limiters() *accountLimiters { return o.limiters }

// MaxRetries returns the configured retry bound
func (o *Orchestrator) MaxRetries() int { return o.maxRetries }

// RunSync executes one sync attempt for a mapping. At most one attempt per
// mapping runs at any time; a second caller gets ErrSyncInProgress.
func (o *Orchestrator) RunSync(ctx context.Context, req Request) (*models.SyncLogEntry, error) {
	if !o.locks.TryAcquire(req.MappingID) {
		return nil, ErrSyncInProgress
	}
	defer o.locks.Release(req.MappingID)

	mapping, err := o.mappings.GetByID(req.TenantID, req.MappingID)
	if err != nil {
		// Nothing to attach a log entry to; fail fast, no retry.
		return nil, fmt.Errorf("load mapping: %w", err)
	}
	if mapping.Status.IsTerminal() {
		return nil, fmt.Errorf("mapping %s is %s and cannot be synced", mapping.ID, mapping.Status)
	}

	entry := &models.SyncLogEntry{
		BaseTenantModel: models.BaseTenantModel{TenantID: req.TenantID},
		MappingID:       mapping.ID,
		AccountID:       mapping.AccountID,
		Operation:       req.Operation,
		Status:          models.SyncLogStatusRunning,
		Trigger:         req.Trigger,
		StartedAt:       time.Now().UTC(),
	}
	if err := o.logs.Create(entry); err != nil {
		return nil, fmt.Errorf("create sync log entry: %w", err)
	}

	entry = o.run(ctx, mapping, entry, req)
	o.publish(req.TenantID, mapping, entry)
	return entry, nil
}

// run performs the orchestration steps. It always finalizes the log entry
// exactly once and returns it.
func (o *Orchestrator) run(ctx context.Context, mapping *models.Mapping, entry *models.SyncLogEntry, req Request) *models.SyncLogEntry {
	account, err := o.accounts.GetByID(mapping.TenantID, mapping.AccountID)
	if err != nil {
		return o.fail(mapping, entry, newConfigurationError(fmt.Errorf("load channel account %s: %w", mapping.AccountID, err)))
	}
	if !account.IsActive {
		return o.fail(mapping, entry, newConfigurationError(fmt.Errorf("channel account %s is inactive", account.Name)))
	}

	if err := ctx.Err(); err != nil {
		return o.cancel(mapping, entry)
	}

	product, err := o.snapshots.GetProductSnapshot(ctx, mapping.TenantID, mapping.ProductID)
	if err != nil {
		return o.fail(mapping, entry, newConfigurationError(fmt.Errorf("load product snapshot %s: %w", mapping.ProductID, err)))
	}
	if product.Status == models.ProductStatusDeleted {
		return o.markDeletedInPIM(mapping, entry)
	}

	direction := account.EffectiveDirection(mapping)
	entry.Direction = direction

	// Step 2: validation guards every push-capable direction. Pull-only
	// mappings mirror remote state and need no local fitness check.
	if direction != models.SyncDirectionChannelToPIM {
		result, verr := o.validate(ctx, mapping, product)
		if verr != nil {
			return o.fail(mapping, entry, verr)
		}
		if !result.IsValid {
			attachJSON(&entry.ResponsePayload, result)
			return o.fail(mapping, entry, newValidationError(*result))
		}
	}

	if err := ctx.Err(); err != nil {
		return o.cancel(mapping, entry)
	}

	// Step 3: conflict classification
	classification := o.classify(mapping, account, req.Operation, direction)
	switch classification {
	case StaleNoop:
		return o.noop(mapping, entry)
	case Conflict:
		policy := account.EffectiveConflictPolicy(mapping)
		if policy == models.ConflictPolicyLastWriterWins {
			classification = ResolveByTimestamp(mapping)
			entry.Message = fmt.Sprintf("conflict resolved by last-writer-wins: %s", classification)
			if classification == StaleNoop {
				return o.noop(mapping, entry)
			}
		} else {
			return o.conflict(mapping, entry, product)
		}
	}

	if err := ctx.Err(); err != nil {
		return o.cancel(mapping, entry)
	}

	adapter, err := o.registry.Get(mapping.ChannelCode)
	if err != nil {
		return o.fail(mapping, entry, newConfigurationError(err))
	}

	// Step 4: bounded adapter call behind the account's rate limiter
	limiter := o.limiters.For(account)
	if err := limiter.rate.Wait(ctx); err != nil {
		return o.cancel(mapping, entry)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.adapterTimeout)
	defer cancel()

	switch classification {
	case ProceedPush:
		return o.push(callCtx, adapter, mapping, product, entry, direction)
	case ProceedPull:
		return o.pull(callCtx, adapter, mapping, entry, direction)
	}
	return o.noop(mapping, entry)
}

// classify wraps the resolver, forcing the direction for operator-forced
// operations
func (o *Orchestrator) classify(mapping *models.Mapping, account *models.ChannelAccount, op models.SyncOperation, direction models.SyncDirection) Classification {
	switch op {
	case models.SyncOperationManualPush:
		return ProceedPush
	case models.SyncOperationManualPull, models.SyncOperationWebhook:
		return ProceedPull
	}
	return Classify(mapping, direction)
}

func (o *Orchestrator) validate(ctx context.Context, mapping *models.Mapping, product *models.ProductSnapshot) (*models.ChannelValidationResult, *SyncError) {
	reqSet, err := o.requirements.RequirementSet(ctx, mapping.TenantID, mapping.ChannelCode, product.FamilyCode)
	if err != nil {
		return nil, newConfigurationError(fmt.Errorf("no requirement set for channel %s: %w", mapping.ChannelCode, err))
	}
	rules, err := o.requirements.Rules(ctx, mapping.TenantID)
	if err != nil {
		return nil, newConfigurationError(fmt.Errorf("load completeness rules: %w", err))
	}
	result := validation.Validate(product, reqSet, rules)
	return &result, nil
}

func (o *Orchestrator) push(ctx context.Context, adapter adapters.Adapter, mapping *models.Mapping, product *models.ProductSnapshot, entry *models.SyncLogEntry, direction models.SyncDirection) *models.SyncLogEntry {
	attachJSON(&entry.RequestPayload, product)

	result, err := adapter.Push(ctx, mapping, product)
	if err != nil {
		return o.fail(mapping, entry, classifyAdapterError(err))
	}
	attachJSON(&entry.ResponsePayload, result)

	now := time.Now().UTC()
	created := mapping.ExternalID == ""
	if result.ExternalID != "" {
		mapping.ExternalID = result.ExternalID
	}
	if len(result.ExternalAttributes) > 0 {
		if mapping.ExternalAttributes == nil {
			mapping.ExternalAttributes = models.AttributeBag{}
		}
		for k, v := range result.ExternalAttributes {
			mapping.ExternalAttributes[k] = v
		}
	}
	mapping.RemoteStatusDetail = result.RemoteStatus
	mapping.RemoteVersion = result.RemoteVersion
	if !result.RemoteUpdatedAt.IsZero() {
		t := result.RemoteUpdatedAt
		mapping.RemoteUpdatedAt = &t
	}
	mapping.LastSyncedLocalVersion = mapping.LocalVersion
	mapping.LastSyncedRemoteVersion = mapping.RemoteVersion
	mapping.LastSyncedAt = &now
	mapping.LastSyncDirection = models.SyncDirectionPIMToChannel
	mapping.LastSyncError = nil
	mapping.RetryCount = 0
	mapping.NextRetryAt = nil
	mapping.Retryable = true
	if err := mapping.Transition(models.MappingStatusActive); err != nil {
		return o.fail(mapping, entry, newConfigurationError(err))
	}

	entry.Status = models.SyncLogStatusSuccess
	entry.ProcessedCount = 1
	if created {
		entry.CreatedCount = 1
		entry.Message = fmt.Sprintf("listing created on %s as %s", mapping.ChannelCode, mapping.ExternalID)
	} else {
		entry.UpdatedCount = 1
		entry.Message = fmt.Sprintf("listing %s updated on %s", mapping.ExternalID, mapping.ChannelCode)
	}
	return o.finalize(mapping, entry)
}

func (o *Orchestrator) pull(ctx context.Context, adapter adapters.Adapter, mapping *models.Mapping, entry *models.SyncLogEntry, direction models.SyncDirection) *models.SyncLogEntry {
	remote, err := adapter.Pull(ctx, mapping)
	if err != nil {
		var aerr *adapters.Error
		if errors.As(err, &aerr) && aerr.Class == adapters.ErrorClassNotFound {
			// the listing no longer exists on the channel
			return o.markDeletedInChannel(mapping, entry)
		}
		return o.fail(mapping, entry, classifyAdapterError(err))
	}
	attachJSON(&entry.ResponsePayload, remote)

	if remote.Deleted {
		return o.markDeletedInChannel(mapping, entry)
	}

	now := time.Now().UTC()
	mapping.RemoteStatusDetail = remote.RemoteStatus
	mapping.RemoteVersion = remote.RemoteVersion
	if !remote.RemoteUpdatedAt.IsZero() {
		t := remote.RemoteUpdatedAt
		mapping.RemoteUpdatedAt = &t
	}
	mapping.LastSyncedLocalVersion = mapping.LocalVersion
	mapping.LastSyncedRemoteVersion = mapping.RemoteVersion
	mapping.LastSyncedAt = &now
	mapping.LastSyncDirection = models.SyncDirectionChannelToPIM
	mapping.LastSyncError = nil
	mapping.RetryCount = 0
	mapping.NextRetryAt = nil
	mapping.Retryable = true

	target := models.MappingStatusActive
	if remote.Suppressed {
		// channel-side moderation or quality block; needs remediation
		target = models.MappingStatusSuppressed
	}
	if err := mapping.Transition(target); err != nil {
		return o.fail(mapping, entry, newConfigurationError(err))
	}

	entry.Status = models.SyncLogStatusSuccess
	entry.ProcessedCount = 1
	entry.UpdatedCount = 1
	entry.Message = fmt.Sprintf("remote state of %s pulled from %s", mapping.ExternalID, mapping.ChannelCode)
	if remote.Suppressed {
		entry.Message = fmt.Sprintf("listing %s is suppressed on %s: %s", mapping.ExternalID, mapping.ChannelCode, remote.RemoteStatus.Reason)
	}
	return o.finalize(mapping, entry)
}

// DeleteListing removes the channel listing for a mapping whose product was
// deleted in the PIM. The mapping always ends DELETED_IN_PIM; the adapter
// delete is best-effort and its failure is recorded, not retried.
func (o *Orchestrator) DeleteListing(ctx context.Context, tenantID, mappingID uuid.UUID, trigger models.TriggerSource) (*models.SyncLogEntry, error) {
	if !o.locks.TryAcquire(mappingID) {
		return nil, ErrSyncInProgress
	}
	defer o.locks.Release(mappingID)

	mapping, err := o.mappings.GetByID(tenantID, mappingID)
	if err != nil {
		return nil, fmt.Errorf("load mapping: %w", err)
	}

	entry := &models.SyncLogEntry{
		BaseTenantModel: models.BaseTenantModel{TenantID: tenantID},
		MappingID:       mapping.ID,
		AccountID:       mapping.AccountID,
		Operation:       models.SyncOperationSingle,
		Status:          models.SyncLogStatusRunning,
		Trigger:         trigger,
		StartedAt:       time.Now().UTC(),
	}
	if err := o.logs.Create(entry); err != nil {
		return nil, fmt.Errorf("create sync log entry: %w", err)
	}

	if adapter, aerr := o.registry.Get(mapping.ChannelCode); aerr == nil && mapping.ExternalID != "" {
		callCtx, cancel := context.WithTimeout(ctx, o.adapterTimeout)
		defer cancel()
		if _, derr := adapter.Delete(callCtx, mapping); derr != nil {
			msg := derr.Error()
			entry.ErrorDetail = &msg
			log.Warn().Err(derr).Str("mapping_id", mapping.ID.String()).Msg("channel delete failed; mapping still marked deleted in PIM")
		}
	}

	entry.Message = "product deleted in PIM; mapping retired"
	return o.markDeletedInPIM(mapping, entry), nil
}

// --- exit paths -----------------------------------------------------------

func (o *Orchestrator) noop(mapping *models.Mapping, entry *models.SyncLogEntry) *models.SyncLogEntry {
	entry.Status = models.SyncLogStatusNoop
	entry.SkippedCount = 1
	if entry.Message == "" {
		entry.Message = "nothing changed since last sync"
	}
	// no mapping state change on a stale no-op
	now := time.Now().UTC()
	entry.CompletedAt = &now
	if err := o.logs.Finish(entry); err != nil {
		log.Error().Err(err).Str("entry_id", entry.ID.String()).Msg("failed to finalize sync log entry")
	}
	return entry
}

func (o *Orchestrator) conflict(mapping *models.Mapping, entry *models.SyncLogEntry, product *models.ProductSnapshot) *models.SyncLogEntry {
	// both snapshots are attached; the mapping's authoritative fields stay
	// untouched until an operator resolves the clash
	attachJSON(&entry.RequestPayload, product)
	attachJSON(&entry.ResponsePayload, map[string]interface{}{
		"remote_version":    mapping.RemoteVersion,
		"remote_updated_at": mapping.RemoteUpdatedAt,
		"remote_status":     mapping.RemoteStatusDetail,
		"external_id":       mapping.ExternalID,
	})
	entry.Status = models.SyncLogStatusConflict
	entry.Message = fmt.Sprintf("both local (v%d) and remote (v%d) changed since last sync; queued for manual review", mapping.LocalVersion, mapping.RemoteVersion)
	now := time.Now().UTC()
	entry.CompletedAt = &now
	if err := o.logs.Finish(entry); err != nil {
		log.Error().Err(err).Str("entry_id", entry.ID.String()).Msg("failed to finalize sync log entry")
	}
	return entry
}

func (o *Orchestrator) cancel(mapping *models.Mapping, entry *models.SyncLogEntry) *models.SyncLogEntry {
	entry.Status = models.SyncLogStatusCancelled
	entry.Message = "sync cancelled before the next side-effecting step"
	now := time.Now().UTC()
	entry.CompletedAt = &now
	if err := o.logs.Finish(entry); err != nil {
		log.Error().Err(err).Str("entry_id", entry.ID.String()).Msg("failed to finalize sync log entry")
	}
	return entry
}

func (o *Orchestrator) markDeletedInPIM(mapping *models.Mapping, entry *models.SyncLogEntry) *models.SyncLogEntry {
	if err := mapping.Transition(models.MappingStatusDeletedInPIM); err != nil {
		return o.fail(mapping, entry, newConfigurationError(err))
	}
	entry.Status = models.SyncLogStatusSuccess
	entry.ProcessedCount = 1
	if entry.Message == "" {
		entry.Message = "local product deleted; mapping retired"
	}
	return o.finalize(mapping, entry)
}

func (o *Orchestrator) markDeletedInChannel(mapping *models.Mapping, entry *models.SyncLogEntry) *models.SyncLogEntry {
	if err := mapping.Transition(models.MappingStatusDeletedInChannel); err != nil {
		return o.fail(mapping, entry, newConfigurationError(err))
	}
	entry.Status = models.SyncLogStatusSuccess
	entry.ProcessedCount = 1
	entry.Message = fmt.Sprintf("remote listing no longer exists on %s", mapping.ChannelCode)
	return o.finalize(mapping, entry)
}

// fail records a classified failure: mapping moves to SYNC_ERROR (validation
// failures keep PENDING_SYNC when still unpublished), retry bookkeeping is
// updated, and the log entry is finalized.
func (o *Orchestrator) fail(mapping *models.Mapping, entry *models.SyncLogEntry, serr *SyncError) *models.SyncLogEntry {
	msg := serr.Err.Error()
	mapping.LastSyncError = &msg

	retryable := serr.Retryable
	if serr.Kind == FailureTransient {
		mapping.RetryCount++
		if mapping.RetryCount >= o.maxRetries {
			// retry budget exhausted; operator intervention required
			retryable = false
			mapping.NextRetryAt = nil
		} else {
			next := time.Now().UTC().Add(nextRetryDelay(mapping.RetryCount - 1))
			mapping.NextRetryAt = &next
		}
	} else {
		mapping.NextRetryAt = nil
	}
	mapping.Retryable = retryable

	if !mapping.Status.IsTerminal() && mapping.Status != models.MappingStatusSyncError {
		if err := mapping.Transition(models.MappingStatusSyncError); err != nil {
			log.Error().Err(err).Str("mapping_id", mapping.ID.String()).Msg("illegal transition on failure path")
		}
	}

	if serr.Kind == FailureValidation {
		entry.Status = models.SyncLogStatusRejected
	} else {
		entry.Status = models.SyncLogStatusError
	}
	entry.FailedCount = 1
	entry.ErrorDetail = &msg
	entry.ErrorClass = string(serr.Class)
	entry.Retryable = retryable
	if entry.Message == "" {
		entry.Message = fmt.Sprintf("%s failure", serr.Kind)
	}
	return o.finalize(mapping, entry)
}

// finalize persists the mapping state and the completed log entry in one
// transaction: a single mapping update is the unit of consistency, and the
// log write is never skipped.
func (o *Orchestrator) finalize(mapping *models.Mapping, entry *models.SyncLogEntry) *models.SyncLogEntry {
	now := time.Now().UTC()
	entry.CompletedAt = &now
	err := o.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(mapping).Error; err != nil {
			return err
		}
		return tx.Save(entry).Error
	})
	if err != nil {
		log.Error().Err(err).Str("mapping_id", mapping.ID.String()).Msg("failed to persist sync outcome")
	}
	return entry
}

func (o *Orchestrator) publish(tenantID uuid.UUID, mapping *models.Mapping, entry *models.SyncLogEntry) {
	if o.events == nil || entry == nil {
		return
	}
	o.events.PublishSyncEvent(tenantID, Event{
		MappingID: mapping.ID,
		AccountID: mapping.AccountID,
		Status:    entry.Status,
		Mapping:   mapping.Status,
		Message:   entry.Message,
		At:        time.Now().UTC(),
	})
}

func attachJSON(dst **string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s := string(b)
	*dst = &s
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chansync/internal/repo"
	"chansync/internal/sync"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SyncService is the operator-facing surface over mappings and the
// orchestrator: create mappings, trigger and cancel syncs, resolve conflicts,
// and feed product change notifications into the state machine.
type SyncService struct {
	db           *gorm.DB
	orchestrator *sync.Orchestrator
	mappings     *repo.MappingRepository
	accounts     *repo.ChannelAccountRepository
	logs         *repo.SyncLogRepository
}

// NewSyncService creates a sync service
func NewSyncService(db *gorm.DB, orchestrator *sync.Orchestrator) *SyncService {
	return &SyncService{
		db:           db,
		orchestrator: orchestrator,
		mappings:     repo.NewMappingRepository(db),
		accounts:     repo.NewChannelAccountRepository(db),
		logs:         repo.NewSyncLogRepository(db),
	}
}

// CreateMapping targets a product at a channel account. New mappings start in
// pending_sync and are picked up by the next worker sweep.
func (s *SyncService) CreateMapping(tenantID uuid.UUID, req models.CreateMappingRequest) (*models.Mapping, error) {
	account, err := s.accounts.GetByID(tenantID, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("channel account not found: %w", err)
	}

	if existing, err := s.mappings.GetByProductAndAccount(tenantID, req.AccountID, req.ProductID); err == nil {
		return nil, fmt.Errorf("product already mapped to this account (mapping %s, status %s)", existing.ID, existing.Status)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	mapping := &models.Mapping{
		BaseTenantModel: models.BaseTenantModel{TenantID: tenantID},
		AccountID:       req.AccountID,
		ProductID:       req.ProductID,
		ChannelCode:     account.ChannelCode,
		Status:          models.MappingStatusPendingSync,
		LocalVersion:    1,
		LocalUpdatedAt:  &now,
		Retryable:       true,
		SyncDirection:   req.SyncDirection,
		ConflictPolicy:  req.ConflictPolicy,
	}
	if err := s.mappings.Create(mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// GetMappingStatus returns the mapping of a product on a channel
func (s *SyncService) GetMappingStatus(tenantID, productID uuid.UUID, channel models.ChannelCode) (*models.Mapping, error) {
	mappings, err := s.mappings.ListByProduct(tenantID, productID)
	if err != nil {
		return nil, err
	}
	for i := range mappings {
		if mappings[i].ChannelCode == channel {
			return &mappings[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// TriggerSync runs a sync for one mapping now. Suppressed mappings must be
// remediated first: the manual trigger is the remediation path, so it moves
// them back to pending_sync before the attempt.
func (s *SyncService) TriggerSync(ctx context.Context, tenantID, mappingID uuid.UUID, operation models.SyncOperation) (*models.SyncLogEntry, error) {
	mapping, err := s.mappings.GetByID(tenantID, mappingID)
	if err != nil {
		return nil, err
	}

	if mapping.Status == models.MappingStatusSuppressed || mapping.Status == models.MappingStatusInactive {
		if err := mapping.Transition(models.MappingStatusPendingSync); err != nil {
			return nil, err
		}
		if err := s.mappings.Update(mapping); err != nil {
			return nil, err
		}
	}

	return s.orchestrator.RunSync(ctx, sync.Request{
		TenantID:  tenantID,
		MappingID: mappingID,
		Operation: operation,
		Trigger:   models.TriggerManual,
	})
}

// CancelRetries takes a failing mapping out of the retry loop: sync_error
// becomes inactive until an operator re-enables it.
func (s *SyncService) CancelRetries(tenantID, mappingID uuid.UUID) (*models.Mapping, error) {
	mapping, err := s.mappings.GetByID(tenantID, mappingID)
	if err != nil {
		return nil, err
	}
	if mapping.Status != models.MappingStatusSyncError {
		return nil, fmt.Errorf("mapping %s is %s, only sync_error mappings can be cancelled", mappingID, mapping.Status)
	}
	if err := mapping.Transition(models.MappingStatusInactive); err != nil {
		return nil, err
	}
	mapping.NextRetryAt = nil
	mapping.Retryable = false
	if err := s.mappings.Update(mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// ResolveConflict applies the operator's decision to a conflicted mapping:
// push (local wins), pull (remote wins), or ignore (mark both sides as seen
// without writing anywhere).
func (s *SyncService) ResolveConflict(ctx context.Context, tenantID, mappingID uuid.UUID, resolution string) (*models.SyncLogEntry, error) {
	mapping, err := s.mappings.GetByID(tenantID, mappingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.logs.LatestConflict(tenantID, mappingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("mapping %s has no recorded conflict", mappingID)
		}
		return nil, err
	}

	switch resolution {
	case "push":
		return s.orchestrator.RunSync(ctx, sync.Request{
			TenantID:  tenantID,
			MappingID: mappingID,
			Operation: models.SyncOperationManualPush,
			Trigger:   models.TriggerManual,
		})
	case "pull":
		return s.orchestrator.RunSync(ctx, sync.Request{
			TenantID:  tenantID,
			MappingID: mappingID,
			Operation: models.SyncOperationManualPull,
			Trigger:   models.TriggerManual,
		})
	case "ignore":
		mapping.LastSyncedLocalVersion = mapping.LocalVersion
		mapping.LastSyncedRemoteVersion = mapping.RemoteVersion
		if err := s.mappings.Update(mapping); err != nil {
			return nil, err
		}
		log.Info().Str("mapping_id", mappingID.String()).Msg("Conflict dismissed by operator")
		return nil, nil
	}
	return nil, fmt.Errorf("unknown resolution %q", resolution)
}

// NotifyProductChange is called when the catalog reports a product edit. Every
// live mapping of the product gets its local version bumped and falls back to
// pending_sync so the next sweep republishes it.
func (s *SyncService) NotifyProductChange(tenantID uuid.UUID, notification models.ProductChangeNotification) (int64, error) {
	affected, err := s.mappings.MarkProductChanged(tenantID, notification.ProductID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		log.Info().
			Str("product_id", notification.ProductID.String()).
			Int64("mappings", affected).
			Msg("Product change queued for channel re-sync")
	}
	return affected, nil
}

// NotifyProductDeleted retires every mapping of a deleted product. The channel
// delete is best-effort; the mapping always ends deleted_in_pim.
func (s *SyncService) NotifyProductDeleted(ctx context.Context, tenantID, productID uuid.UUID) error {
	mappings, err := s.mappings.ListByProduct(tenantID, productID)
	if err != nil {
		return err
	}
	for _, m := range mappings {
		if m.Status.IsTerminal() {
			continue
		}
		if _, err := s.orchestrator.DeleteListing(ctx, tenantID, m.ID, models.TriggerManual); err != nil {
			log.Error().Err(err).Str("mapping_id", m.ID.String()).Msg("Failed to retire mapping of deleted product")
		}
	}
	return nil
}

// ListSyncLogs pages through a mapping's audit trail
func (s *SyncService) ListSyncLogs(tenantID, mappingID uuid.UUID, page, perPage int) (*models.PaginationResult[models.SyncLogEntry], error) {
	return s.logs.ListByMapping(tenantID, mappingID, page, perPage)
}

// ListMappings pages through an account's mappings
func (s *SyncService) ListMappings(tenantID, accountID uuid.UUID, status models.MappingStatus, page, perPage int) (*models.PaginationResult[models.Mapping], error) {
	return s.mappings.ListByAccount(tenantID, accountID, status, page, perPage)
}

// AccountStats aggregates mapping counts per status for a channel account
func (s *SyncService) AccountStats(tenantID, accountID uuid.UUID) (map[models.MappingStatus]int64, error) {
	return s.mappings.CountByStatus(tenantID, accountID)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"chansync/internal/repo"
	"chansync/internal/sync"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// WebhookService turns inbound marketplace events into pull-classified sync
// triggers. Processing is idempotent under redelivery: each (account, event
// id) pair is recorded once and replays are acknowledged without re-running.
type WebhookService struct {
	db           *gorm.DB
	orchestrator *sync.Orchestrator
	events       *repo.WebhookEventRepository
	mappings     *repo.MappingRepository
	accounts     *repo.ChannelAccountRepository
}

// NewWebhookService creates a webhook service
func NewWebhookService(db *gorm.DB, orchestrator *sync.Orchestrator) *WebhookService {
	return &WebhookService{
		db:           db,
		orchestrator: orchestrator,
		events:       repo.NewWebhookEventRepository(db),
		mappings:     repo.NewMappingRepository(db),
		accounts:     repo.NewChannelAccountRepository(db),
	}
}

// ErrEventAlreadyProcessed is returned on webhook redelivery
var ErrEventAlreadyProcessed = errors.New("event already processed")

// Process handles one inbound event. Order events are acknowledged and
// ignored (orders are another subsystem's concern); listing events trigger a
// pull for the affected mapping.
func (s *WebhookService) Process(ctx context.Context, tenantID, accountID uuid.UUID, req models.WebhookEventRequest) (*models.SyncLogEntry, error) {
	if _, err := s.accounts.GetByID(tenantID, accountID); err != nil {
		return nil, fmt.Errorf("unknown channel account %s: %w", accountID, err)
	}

	event := &models.WebhookEvent{
		BaseTenantModel: models.BaseTenantModel{TenantID: tenantID},
		AccountID:       accountID,
		EventID:         req.EventID,
		EventType:       req.EventType,
		ExternalID:      req.ExternalID,
	}
	if req.Payload != "" {
		payload := req.Payload
		event.Payload = &payload
	}

	if err := s.events.Record(event); err != nil {
		if errors.Is(err, repo.ErrDuplicateEvent) {
			return nil, ErrEventAlreadyProcessed
		}
		return nil, err
	}

	if req.EventType == "order_placed" {
		// orders flow through the order subsystem, not listing sync
		if err := s.events.MarkProcessed(event); err != nil {
			log.Error().Err(err).Str("event_id", req.EventID).Msg("Failed to mark webhook event processed")
		}
		return nil, nil
	}

	mapping, err := s.mappings.GetByExternalID(tenantID, accountID, req.ExternalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().
				Str("external_id", req.ExternalID).
				Str("event_type", req.EventType).
				Msg("Webhook event for unmapped listing ignored")
			if merr := s.events.MarkProcessed(event); merr != nil {
				log.Error().Err(merr).Str("event_id", req.EventID).Msg("Failed to mark webhook event processed")
			}
			return nil, nil
		}
		return nil, err
	}

	entry, err := s.orchestrator.RunSync(ctx, sync.Request{
		TenantID:  tenantID,
		MappingID: mapping.ID,
		Operation: models.SyncOperationWebhook,
		Trigger:   models.TriggerWebhook,
	})
	if err != nil {
		return nil, err
	}

	if merr := s.events.MarkProcessed(event); merr != nil {
		log.Error().Err(merr).Str("event_id", req.EventID).Msg("Failed to mark webhook event processed")
	}
	return entry, nil
}

package repo

import (
	"errors"
	"time"

	"chansync/pkg/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateEvent signals a webhook redelivery of an already-seen event
var ErrDuplicateEvent = errors.New("webhook event already recorded")

// WebhookEventRepository handles inbound webhook event dedupe records
type WebhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a new webhook event repository
func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// Record inserts the event, returning ErrDuplicateEvent when the
// (account, event id) pair was already seen
func (r *WebhookEventRepository) Record(event *models.WebhookEvent) error {
	err := r.db.Create(event).Error
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEvent
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEvent
	}
	return err
}

// MarkProcessed stamps the event after its sync trigger completed
func (r *WebhookEventRepository) MarkProcessed(event *models.WebhookEvent) error {
	now := time.Now().UTC()
	event.ProcessedAt = &now
	return r.db.Save(event).Error
}

package sync

import (
	"context"
	"sync"
	"time"

	"chansync/internal/repo"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Worker periodically picks up due sync work (pending mappings and elapsed
// retries) and fans it out through the orchestrator, respecting each
// account's concurrency and rate ceilings.
type Worker struct {
	db           *gorm.DB
	orchestrator *Orchestrator
	mappings     *repo.MappingRepository
	accounts     *repo.ChannelAccountRepository

	checkInterval time.Duration
	batchSize     int

	mutex     sync.RWMutex
	isRunning bool
	stopChan  chan struct{}
}

// NewWorker creates a new sync worker
func NewWorker(db *gorm.DB, orchestrator *Orchestrator, checkInterval time.Duration) *Worker {
	if checkInterval <= 0 {
		checkInterval = 30 * time.Second
	}
	return &Worker{
		db:            db,
		orchestrator:  orchestrator,
		mappings:      repo.NewMappingRepository(db),
		accounts:      repo.NewChannelAccountRepository(db),
		checkInterval: checkInterval,
		batchSize:     500,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the periodic sync sweep
func (w *Worker) Start(ctx context.Context) {
	w.mutex.Lock()
	if w.isRunning {
		w.mutex.Unlock()
		return
	}
	w.isRunning = true
	w.mutex.Unlock()

	log.Info().Dur("interval", w.checkInterval).Msg("Sync worker started")

	go func() {
		ticker := time.NewTicker(w.checkInterval)
		defer ticker.Stop()

		w.sweep(ctx)

		for {
			select {
			case <-ticker.C:
				w.sweep(ctx)
			case <-w.stopChan:
				log.Info().Msg("Sync worker stopping")
				return
			case <-ctx.Done():
				log.Info().Msg("Sync worker context cancelled")
				return
			}
		}
	}()
}

// Stop stops the sync sweep
func (w *Worker) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.isRunning {
		return
	}

	w.isRunning = false
	close(w.stopChan)
}

// sweep runs one pass over all due mappings, grouped per account so each
// account's semaphore bounds its own fan-out. A failure in one mapping never
// aborts the rest of the batch.
func (w *Worker) sweep(ctx context.Context) {
	due, err := w.mappings.ListDue(time.Now().UTC(), w.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list due mappings")
		return
	}
	if len(due) == 0 {
		return
	}

	byAccount := make(map[uuid.UUID][]models.Mapping)
	for _, m := range due {
		byAccount[m.AccountID] = append(byAccount[m.AccountID], m)
	}

	var wg sync.WaitGroup
	for accountID, mappings := range byAccount {
		account, err := w.accounts.GetByID(mappings[0].TenantID, accountID)
		if err != nil {
			log.Error().Err(err).Str("account_id", accountID.String()).Msg("Failed to load account for due mappings")
			continue
		}
		if !account.IsActive {
			continue
		}

		limiter := w.orchestrator.Limiters().For(account)
		for _, m := range mappings {
			if ctx.Err() != nil {
				break
			}
			mapping := m
			wg.Add(1)
			go func() {
				defer wg.Done()
				select {
				case limiter.sem <- struct{}{}:
					defer func() { <-limiter.sem }()
				case <-ctx.Done():
					return
				}
				w.runOne(ctx, &mapping)
			}()
		}
	}
	wg.Wait()
}

func (w *Worker) runOne(ctx context.Context, mapping *models.Mapping) {
	trigger := models.TriggerScheduled
	operation := models.SyncOperationIncremental
	if mapping.Status == models.MappingStatusSyncError {
		trigger = models.TriggerRetry
	}

	entry, err := w.orchestrator.RunSync(ctx, Request{
		TenantID:  mapping.TenantID,
		MappingID: mapping.ID,
		Operation: operation,
		Trigger:   trigger,
	})
	if err != nil {
		if err == ErrSyncInProgress {
			return
		}
		log.Error().Err(err).Str("mapping_id", mapping.ID.String()).Msg("Scheduled sync failed to start")
		return
	}
	if entry.Status == models.SyncLogStatusError {
		log.Warn().
			Str("mapping_id", mapping.ID.String()).
			Str("error_class", entry.ErrorClass).
			Bool("retryable", entry.Retryable).
			Msg("Scheduled sync attempt failed")
	}
}

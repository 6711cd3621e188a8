package app

import (
	"os"
	"strconv"
	"time"

	"chansync/internal/adapters"
	"chansync/internal/auth"
	"chansync/internal/repo"
	"chansync/internal/services"
	"chansync/internal/sync"

	"gorm.io/gorm"
)

// Services holds all application services
type Services struct {
	DB          *gorm.DB
	AuthService *auth.Service

	AccountRepo     *repo.ChannelAccountRepository
	MappingRepo     *repo.MappingRepository
	SyncLogRepo     *repo.SyncLogRepository
	RequirementRepo *repo.RequirementRepository

	AdapterRegistry *adapters.Registry
	Orchestrator    *sync.Orchestrator
	SyncWorker      *sync.Worker

	RequirementService *services.RequirementService
	ValidationService  *services.ValidationService
	SyncService        *services.SyncService
	WebhookService     *services.WebhookService
}

// NewServices creates a new services container. The event publisher is
// attached by the HTTP layer, which owns the WebSocket connections.
func NewServices(db *gorm.DB, events sync.EventPublisher) *Services {
	accountRepo := repo.NewChannelAccountRepository(db)
	mappingRepo := repo.NewMappingRepository(db)
	syncLogRepo := repo.NewSyncLogRepository(db)
	requirementRepo := repo.NewRequirementRepository(db)

	authService := auth.NewService()
	snapshotClient := services.NewSnapshotClient()
	requirementService := services.NewRequirementService(requirementRepo)

	registry := adapters.NewRegistry()
	adapters.RegisterDefaults(registry)

	opts := []sync.Option{
		sync.WithAdapterTimeout(envDuration("SYNC_ADAPTER_TIMEOUT", 30*time.Second)),
	}
	if maxRetries := envInt("SYNC_MAX_RETRIES", 0); maxRetries > 0 {
		opts = append(opts, sync.WithMaxRetries(maxRetries))
	}
	if events != nil {
		opts = append(opts, sync.WithEventPublisher(events))
	}
	orchestrator := sync.NewOrchestrator(db, snapshotClient, requirementService, registry, opts...)

	worker := sync.NewWorker(db, orchestrator, envDuration("SYNC_CHECK_INTERVAL", 30*time.Second))

	return &Services{
		DB:          db,
		AuthService: authService,

		AccountRepo:     accountRepo,
		MappingRepo:     mappingRepo,
		SyncLogRepo:     syncLogRepo,
		RequirementRepo: requirementRepo,

		AdapterRegistry: registry,
		Orchestrator:    orchestrator,
		SyncWorker:      worker,

		RequirementService: requirementService,
		ValidationService:  services.NewValidationService(snapshotClient, requirementService, accountRepo),
		SyncService:        services.NewSyncService(db, orchestrator),
		WebhookService:     services.NewWebhookService(db, orchestrator),
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

package repo

import (
	"chansync/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncLogRepository handles the append-only sync audit trail
type SyncLogRepository struct {
	db *gorm.DB
}

// NewSyncLogRepository creates a new sync log repository
func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// Create opens a new running log entry
func (r *SyncLogRepository) Create(entry *models.SyncLogEntry) error {
	return r.db.Create(entry).Error
}

// Finish persists the completed entry. Entries are never touched again after
// CompletedAt is set.
func (r *SyncLogRepository) Finish(entry *models.SyncLogEntry) error {
	return r.db.Save(entry).Error
}

// GetByID gets a log entry by ID
func (r *SyncLogRepository) GetByID(tenantID, id uuid.UUID) (*models.SyncLogEntry, error) {
	var entry models.SyncLogEntry
	if err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByMapping pages through the log of one mapping, newest first
func (r *SyncLogRepository) ListByMapping(tenantID, mappingID uuid.UUID, page, perPage int) (*models.PaginationResult[models.SyncLogEntry], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	query := r.db.Model(&models.SyncLogEntry{}).Where("tenant_id = ? AND mapping_id = ?", tenantID, mappingID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var entries []models.SyncLogEntry
	if err := query.Order("started_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&entries).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &models.PaginationResult[models.SyncLogEntry]{
		Data:       entries,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// LatestConflict returns the most recent unresolved conflict entry of a
// mapping, if any
func (r *SyncLogRepository) LatestConflict(tenantID, mappingID uuid.UUID) (*models.SyncLogEntry, error) {
	var entry models.SyncLogEntry
	err := r.db.Where("tenant_id = ? AND mapping_id = ? AND status = ?", tenantID, mappingID, models.SyncLogStatusConflict).
		Order("started_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

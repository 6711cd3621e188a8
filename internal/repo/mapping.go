package repo

import (
	"time"

	"chansync/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MappingRepository handles product/channel mapping data access
type MappingRepository struct {
	db *gorm.DB
}

// NewMappingRepository creates a new mapping repository
func NewMappingRepository(db *gorm.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// GetByID gets a mapping by ID
func (r *MappingRepository) GetByID(tenantID, id uuid.UUID) (*models.Mapping, error) {
	var mapping models.Mapping
	if err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

// GetByProductAndAccount gets the mapping for a (account, product) pair
func (r *MappingRepository) GetByProductAndAccount(tenantID, accountID, productID uuid.UUID) (*models.Mapping, error) {
	var mapping models.Mapping
	if err := r.db.Where("tenant_id = ? AND account_id = ? AND product_id = ?", tenantID, accountID, productID).First(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

// GetByExternalID gets the mapping for a channel-side identity
func (r *MappingRepository) GetByExternalID(tenantID, accountID uuid.UUID, externalID string) (*models.Mapping, error) {
	var mapping models.Mapping
	if err := r.db.Where("tenant_id = ? AND account_id = ? AND external_id = ?", tenantID, accountID, externalID).First(&mapping).Error; err != nil {
		return nil, err
	}
	return &mapping, nil
}

// Create creates a new mapping
func (r *MappingRepository) Create(mapping *models.Mapping) error {
	return r.db.Create(mapping).Error
}

// Update persists a mapping
func (r *MappingRepository) Update(mapping *models.Mapping) error {
	return r.db.Save(mapping).Error
}

// ListByProduct gets all mappings of one product across channel accounts
func (r *MappingRepository) ListByProduct(tenantID, productID uuid.UUID) ([]models.Mapping, error) {
	var mappings []models.Mapping
	if err := r.db.Where("tenant_id = ? AND product_id = ?", tenantID, productID).Order("created_at ASC").Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// ListByAccount pages through the mappings of one channel account
func (r *MappingRepository) ListByAccount(tenantID, accountID uuid.UUID, status models.MappingStatus, page, perPage int) (*models.PaginationResult[models.Mapping], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	query := r.db.Model(&models.Mapping{}).Where("tenant_id = ? AND account_id = ?", tenantID, accountID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var mappings []models.Mapping
	if err := query.Order("updated_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&mappings).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &models.PaginationResult[models.Mapping]{
		Data:       mappings,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// ListDue returns mappings with pending work: pending_sync mappings and
// retryable sync_error mappings whose backoff delay has elapsed
func (r *MappingRepository) ListDue(now time.Time, limit int) ([]models.Mapping, error) {
	var mappings []models.Mapping
	err := r.db.
		Where("status = ? AND (next_retry_at IS NULL OR next_retry_at <= ?)", models.MappingStatusPendingSync, now).
		Or("status = ? AND retryable = true AND next_retry_at IS NOT NULL AND next_retry_at <= ?", models.MappingStatusSyncError, now).
		Order("updated_at ASC").
		Limit(limit).
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

// MarkProductChanged bumps the local version of every live mapping of the
// product and moves active ones back to pending_sync. The version bump and
// the status change happen in one statement per mapping set.
func (r *MappingRepository) MarkProductChanged(tenantID, productID uuid.UUID, now time.Time) (int64, error) {
	res := r.db.Model(&models.Mapping{}).
		Where("tenant_id = ? AND product_id = ? AND status IN ?", tenantID, productID, []models.MappingStatus{
			models.MappingStatusActive,
			models.MappingStatusPendingSync,
			models.MappingStatusSyncError,
		}).
		Updates(map[string]interface{}{
			"local_version":    gorm.Expr("local_version + 1"),
			"local_updated_at": now,
			"status": gorm.Expr(
				"CASE WHEN status = ? THEN ? ELSE status END",
				models.MappingStatusActive, models.MappingStatusPendingSync,
			),
		})
	return res.RowsAffected, res.Error
}

// CountByStatus aggregates mapping counts per status for one account
func (r *MappingRepository) CountByStatus(tenantID, accountID uuid.UUID) (map[models.MappingStatus]int64, error) {
	type row struct {
		Status models.MappingStatus
		Count  int64
	}
	var rows []row
	err := r.db.Model(&models.Mapping{}).
		Select("status, count(*) as count").
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[models.MappingStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

package repo

import (
	"chansync/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChannelAccountRepository handles channel account data access
type ChannelAccountRepository struct {
	db *gorm.DB
}

// NewChannelAccountRepository creates a new channel account repository
func NewChannelAccountRepository(db *gorm.DB) *ChannelAccountRepository {
	return &ChannelAccountRepository{db: db}
}

// GetByID gets a channel account by ID
func (r *ChannelAccountRepository) GetByID(tenantID, id uuid.UUID) (*models.ChannelAccount, error) {
	var account models.ChannelAccount
	if err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Create creates a new channel account
func (r *ChannelAccountRepository) Create(account *models.ChannelAccount) error {
	return r.db.Create(account).Error
}

// Update updates a channel account
func (r *ChannelAccountRepository) Update(account *models.ChannelAccount) error {
	return r.db.Save(account).Error
}

// Delete soft deletes a channel account
func (r *ChannelAccountRepository) Delete(tenantID, id uuid.UUID) error {
	return r.db.Where("id = ? AND tenant_id = ?", id, tenantID).Delete(&models.ChannelAccount{}).Error
}

// List gets all channel accounts for a tenant
func (r *ChannelAccountRepository) List(tenantID uuid.UUID) ([]models.ChannelAccount, error) {
	var accounts []models.ChannelAccount
	if err := r.db.Where("tenant_id = ?", tenantID).Order("channel_code ASC, name ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// ListActive gets all active channel accounts across tenants, for the worker
func (r *ChannelAccountRepository) ListActive() ([]models.ChannelAccount, error) {
	var accounts []models.ChannelAccount
	if err := r.db.Where("is_active = true").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

package handlers

import (
	"net/http"

	"chansync/internal/repo"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ChannelAccountHandler struct {
	accountRepo *repo.ChannelAccountRepository
}

func NewChannelAccountHandler(accountRepo *repo.ChannelAccountRepository) *ChannelAccountHandler {
	return &ChannelAccountHandler{
		accountRepo: accountRepo,
	}
}

// List godoc
// @Summary List channel accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} models.ChannelAccount
// @Router /accounts [get]
// @Security BearerAuth
func (h *ChannelAccountHandler) List(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	accounts, err := h.accountRepo.List(tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch accounts"})
	}

	return c.JSON(http.StatusOK, accounts)
}

// GetByID godoc
// @Summary Get channel account by ID
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} models.ChannelAccount
// @Failure 404 {object} map[string]string
// @Router /accounts/{id} [get]
// @Security BearerAuth
func (h *ChannelAccountHandler) GetByID(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid account ID"})
	}

	account, err := h.accountRepo.GetByID(tenantID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "account not found"})
	}

	return c.JSON(http.StatusOK, account)
}

// Create godoc
// @Summary Register a channel account
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body models.CreateChannelAccountRequest true "Account data"
// @Success 201 {object} models.ChannelAccount
// @Failure 400 {object} map[string]string
// @Router /accounts [post]
// @Security BearerAuth
func (h *ChannelAccountHandler) Create(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	var req models.CreateChannelAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account := &models.ChannelAccount{
		BaseTenantModel:    models.BaseTenantModel{TenantID: tenantID},
		ChannelCode:        req.ChannelCode,
		Name:               req.Name,
		ExternalSellerID:   req.ExternalSellerID,
		CredentialsRef:     req.CredentialsRef,
		SyncDirection:      req.SyncDirection,
		ConflictPolicy:     req.ConflictPolicy,
		MaxConcurrentSyncs: req.MaxConcurrentSyncs,
		RequestsPerMinute:  req.RequestsPerMinute,
		IsActive:           true,
	}

	if err := h.accountRepo.Create(account); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create account"})
	}

	return c.JSON(http.StatusCreated, account)
}

// Update godoc
// @Summary Update a channel account
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param account body models.UpdateChannelAccountRequest true "Account data"
// @Success 200 {object} models.ChannelAccount
// @Router /accounts/{id} [put]
// @Security BearerAuth
func (h *ChannelAccountHandler) Update(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid account ID"})
	}

	account, err := h.accountRepo.GetByID(tenantID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "account not found"})
	}

	var req models.UpdateChannelAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.CredentialsRef != nil {
		account.CredentialsRef = *req.CredentialsRef
	}
	if req.SyncDirection != nil {
		account.SyncDirection = *req.SyncDirection
	}
	if req.ConflictPolicy != nil {
		account.ConflictPolicy = *req.ConflictPolicy
	}
	if req.MaxConcurrentSyncs != nil {
		account.MaxConcurrentSyncs = *req.MaxConcurrentSyncs
	}
	if req.RequestsPerMinute != nil {
		account.RequestsPerMinute = *req.RequestsPerMinute
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := h.accountRepo.Update(account); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update account"})
	}

	return c.JSON(http.StatusOK, account)
}

// Delete godoc
// @Summary Remove a channel account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 204
// @Router /accounts/{id} [delete]
// @Security BearerAuth
func (h *ChannelAccountHandler) Delete(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid account ID"})
	}

	if err := h.accountRepo.Delete(tenantID, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete account"})
	}

	return c.NoContent(http.StatusNoContent)
}

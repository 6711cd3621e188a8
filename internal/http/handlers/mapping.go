package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"chansync/internal/services"
	"chansync/internal/sync"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type MappingHandler struct {
	syncService *services.SyncService
}

func NewMappingHandler(syncService *services.SyncService) *MappingHandler {
	return &MappingHandler{
		syncService: syncService,
	}
}

// Create godoc
// @Summary Map a product to a channel account
// @Description Create a mapping so the product gets published on the channel
// @Tags mappings
// @Accept json
// @Produce json
// @Param mapping body models.CreateMappingRequest true "Mapping data"
// @Success 201 {object} models.Mapping
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /mappings [post]
// @Security BearerAuth
func (h *MappingHandler) Create(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	var req models.CreateMappingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	mapping, err := h.syncService.CreateMapping(tenantID, req)
	if err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, mapping)
}

// GetStatus godoc
// @Summary Get the mapping of a product on a channel
// @Tags mappings
// @Produce json
// @Param product_id path string true "Product ID"
// @Param channel path string true "Channel code"
// @Success 200 {object} models.Mapping
// @Failure 404 {object} map[string]string
// @Router /products/{product_id}/mappings/{channel} [get]
// @Security BearerAuth
func (h *MappingHandler) GetStatus(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
	}

	channel := models.ChannelCode(c.Param("channel"))

	mapping, err := h.syncService.GetMappingStatus(tenantID, productID, channel)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "mapping not found"})
	}

	return c.JSON(http.StatusOK, mapping)
}

// List godoc
// @Summary List mappings of a channel account
// @Tags mappings
// @Produce json
// @Param account_id path string true "Channel account ID"
// @Param status query string false "Filter by mapping status"
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Router /accounts/{account_id}/mappings [get]
// @Security BearerAuth
func (h *MappingHandler) List(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	accountID, err := uuid.Parse(c.Param("account_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid account ID"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	status := models.MappingStatus(c.QueryParam("status"))

	result, err := h.syncService.ListMappings(tenantID, accountID, status, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list mappings"})
	}

	return c.JSON(http.StatusOK, result)
}

// TriggerSync godoc
// @Summary Trigger a sync for a mapping
// @Description Run a sync attempt now; returns the resulting sync log entry
// @Tags mappings
// @Produce json
// @Param id path string true "Mapping ID"
// @Param operation query string false "Operation (single, manual_push, manual_pull)"
// @Success 200 {object} models.SyncLogEntry
// @Failure 409 {object} map[string]string
// @Router /mappings/{id}/sync [post]
// @Security BearerAuth
func (h *MappingHandler) TriggerSync(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	mappingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid mapping ID"})
	}

	operation := models.SyncOperation(c.QueryParam("operation"))
	switch operation {
	case models.SyncOperationManualPush, models.SyncOperationManualPull, models.SyncOperationSingle:
	case "":
		operation = models.SyncOperationSingle
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unsupported operation"})
	}

	entry, err := h.syncService.TriggerSync(c.Request().Context(), tenantID, mappingID, operation)
	if err != nil {
		if errors.Is(err, sync.ErrSyncInProgress) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "a sync for this mapping is already running"})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "mapping not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, entry)
}

// CancelRetries godoc
// @Summary Cancel the retry loop of a failing mapping
// @Tags mappings
// @Produce json
// @Param id path string true "Mapping ID"
// @Success 200 {object} models.Mapping
// @Router /mappings/{id}/cancel [post]
// @Security BearerAuth
func (h *MappingHandler) CancelRetries(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	mappingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid mapping ID"})
	}

	mapping, err := h.syncService.CancelRetries(tenantID, mappingID)
	if err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, mapping)
}

// ResolveConflict godoc
// @Summary Resolve a queued sync conflict
// @Description Apply the operator decision: push (local wins), pull (remote wins), or ignore
// @Tags mappings
// @Accept json
// @Produce json
// @Param id path string true "Mapping ID"
// @Param resolution body models.ResolveConflictRequest true "Resolution"
// @Success 200 {object} models.SyncLogEntry
// @Router /mappings/{id}/resolve [post]
// @Security BearerAuth
func (h *MappingHandler) ResolveConflict(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	mappingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid mapping ID"})
	}

	var req models.ResolveConflictRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry, err := h.syncService.ResolveConflict(c.Request().Context(), tenantID, mappingID, req.Resolution)
	if err != nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}
	if entry == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "conflict dismissed"})
	}

	return c.JSON(http.StatusOK, entry)
}

// ListSyncLogs godoc
// @Summary List the sync audit trail of a mapping
// @Tags mappings
// @Produce json
// @Param id path string true "Mapping ID"
// @Param page query int false "Page"
// @Param per_page query int false "Items per page"
// @Success 200 {object} map[string]interface{}
// @Router /mappings/{id}/logs [get]
// @Security BearerAuth
func (h *MappingHandler) ListSyncLogs(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	mappingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid mapping ID"})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	result, err := h.syncService.ListSyncLogs(tenantID, mappingID, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list sync logs"})
	}

	return c.JSON(http.StatusOK, result)
}

// ProductChanged godoc
// @Summary Notify the engine that a product changed
// @Description Called by the catalog service after an edit that may affect listings
// @Tags products
// @Accept json
// @Produce json
// @Param notification body models.ProductChangeNotification true "Change notification"
// @Success 200 {object} map[string]interface{}
// @Router /products/changed [post]
// @Security BearerAuth
func (h *MappingHandler) ProductChanged(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	var req models.ProductChangeNotification
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	affected, err := h.syncService.NotifyProductChange(tenantID, req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to queue re-sync"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"mappings_queued": affected})
}

// ProductDeleted godoc
// @Summary Notify the engine that a product was deleted in the PIM
// @Tags products
// @Produce json
// @Param product_id path string true "Product ID"
// @Success 200 {object} map[string]string
// @Router /products/{product_id}/deleted [post]
// @Security BearerAuth
func (h *MappingHandler) ProductDeleted(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
	}

	if err := h.syncService.NotifyProductDeleted(c.Request().Context(), tenantID, productID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to retire mappings"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "mappings retired"})
}

// AccountStats godoc
// @Summary Mapping counts per status for a channel account
// @Tags accounts
// @Produce json
// @Param account_id path string true "Channel account ID"
// @Success 200 {object} map[string]int64
// @Router /accounts/{account_id}/stats [get]
// @Security BearerAuth
func (h *MappingHandler) AccountStats(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	accountID, err := uuid.Parse(c.Param("account_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid account ID"})
	}

	stats, err := h.syncService.AccountStats(tenantID, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load stats"})
	}

	return c.JSON(http.StatusOK, stats)
}

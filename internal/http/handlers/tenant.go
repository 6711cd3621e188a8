package handlers

import (
	"net/http"

	"chansync/internal/services"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TenantHandler struct {
	db *gorm.DB
}

func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{db: db}
}

// List godoc
// @Summary List tenants
// @Tags admin
// @Produce json
// @Success 200 {array} models.Tenant
// @Router /admin/tenants [get]
// @Security BearerAuth
func (h *TenantHandler) List(c echo.Context) error {
	var tenants []models.Tenant
	if err := h.db.Order("created_at DESC").Find(&tenants).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch tenants"})
	}
	return c.JSON(http.StatusOK, tenants)
}

// Create godoc
// @Summary Create a tenant
// @Description Creates the tenant and seeds its default completeness rules and requirement sets
// @Tags admin
// @Accept json
// @Produce json
// @Param tenant body models.Tenant true "Tenant"
// @Success 201 {object} models.Tenant
// @Router /admin/tenants [post]
// @Security BearerAuth
func (h *TenantHandler) Create(c echo.Context) error {
	var tenant models.Tenant
	if err := c.Bind(&tenant); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&tenant); err != nil {
		return err
	}

	if err := h.db.Create(&tenant).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create tenant"})
	}

	if err := services.SeedTenantDefaults(h.db, tenant.ID); err != nil {
		log.Error().Err(err).Str("tenant_id", tenant.ID.String()).Msg("failed to seed tenant defaults")
	}

	return c.JSON(http.StatusCreated, tenant)
}

// Get godoc
// @Summary Get a tenant
// @Tags admin
// @Produce json
// @Param id path string true "Tenant ID"
// @Success 200 {object} models.Tenant
// @Router /admin/tenants/{id} [get]
// @Security BearerAuth
func (h *TenantHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "tenant not found"})
	}
	return c.JSON(http.StatusOK, tenant)
}

// Update godoc
// @Summary Update a tenant
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID"
// @Param tenant body models.Tenant true "Tenant"
// @Success 200 {object} models.Tenant
// @Router /admin/tenants/{id} [put]
// @Security BearerAuth
func (h *TenantHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "tenant not found"})
	}

	if err := c.Bind(&tenant); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	tenant.ID = id

	if err := h.db.Save(&tenant).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update tenant"})
	}
	return c.JSON(http.StatusOK, tenant)
}

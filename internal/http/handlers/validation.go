package handlers

import (
	"net/http"

	"chansync/internal/services"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ValidationHandler struct {
	validationService *services.ValidationService
}

func NewValidationHandler(validationService *services.ValidationService) *ValidationHandler {
	return &ValidationHandler{
		validationService: validationService,
	}
}

// ValidateForAllChannels godoc
// @Summary Validate a product for all configured channels
// @Description Compute readiness of a product against every channel the tenant has accounts for
// @Tags validation
// @Produce json
// @Param product_id path string true "Product ID"
// @Success 200 {object} map[string]models.ChannelValidationResult
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /products/{product_id}/validation [get]
// @Security BearerAuth
func (h *ValidationHandler) ValidateForAllChannels(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
	}

	results, err := h.validationService.ValidateForAllChannels(c.Request().Context(), tenantID, productID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to validate product"})
	}

	return c.JSON(http.StatusOK, results)
}

// ValidateForChannel godoc
// @Summary Validate a product for one channel
// @Description Compute readiness of a product against a single channel
// @Tags validation
// @Produce json
// @Param product_id path string true "Product ID"
// @Param channel path string true "Channel code"
// @Success 200 {object} models.ChannelValidationResult
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /products/{product_id}/validation/{channel} [get]
// @Security BearerAuth
func (h *ValidationHandler) ValidateForChannel(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
	}

	channel := models.ChannelCode(c.Param("channel"))

	result, err := h.validationService.ValidateForChannel(c.Request().Context(), tenantID, productID, channel)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to validate product"})
	}

	return c.JSON(http.StatusOK, result)
}

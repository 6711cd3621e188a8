package handlers

import (
	"errors"
	"net/http"

	"chansync/internal/services"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type WebhookHandler struct {
	webhookService *services.WebhookService
}

func NewWebhookHandler(webhookService *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// Receive godoc
// @Summary Receive a channel webhook event
// @Description Accepts change notifications pushed by a marketplace. Redeliveries of
// an already-processed event ID are acknowledged without reprocessing.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param account_id path string true "Channel account ID"
// @Param event body models.WebhookEventRequest true "Event payload"
// @Success 200 {object} map[string]interface{}
// @Success 202 {object} map[string]interface{}
// @Router /webhooks/{tenant_id}/{account_id} [post]
func (h *WebhookHandler) Receive(c echo.Context) error {
	tenantID, err := uuid.Parse(c.Param("tenant_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
	}
	accountID, err := uuid.Parse(c.Param("account_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid account ID"})
	}

	var req models.WebhookEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry, err := h.webhookService.Process(c.Request().Context(), tenantID, accountID, req)
	if err != nil {
		if errors.Is(err, services.ErrEventAlreadyProcessed) {
			// Acknowledge so the channel stops redelivering
			return c.JSON(http.StatusOK, map[string]interface{}{
				"status": "duplicate",
			})
		}
		log.Warn().Err(err).
			Str("account_id", accountID.String()).
			Str("event_id", req.EventID).
			Msg("webhook processing failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to process event"})
	}

	resp := map[string]interface{}{"status": "accepted"}
	if entry != nil {
		resp["sync_log_id"] = entry.ID
		resp["sync_status"] = entry.Status
	}
	return c.JSON(http.StatusOK, resp)
}

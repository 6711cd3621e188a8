package handlers

import (
	"net/http"

	"chansync/internal/repo"
	"chansync/internal/services"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type RequirementHandler struct {
	requirementRepo    *repo.RequirementRepository
	requirementService *services.RequirementService
}

func NewRequirementHandler(requirementRepo *repo.RequirementRepository, requirementService *services.RequirementService) *RequirementHandler {
	return &RequirementHandler{
		requirementRepo:    requirementRepo,
		requirementService: requirementService,
	}
}

// ListRequirementSets godoc
// @Summary List channel requirement sets
// @Tags configuration
// @Produce json
// @Success 200 {array} models.ChannelRequirementSet
// @Router /config/requirements [get]
// @Security BearerAuth
func (h *RequirementHandler) ListRequirementSets(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	sets, err := h.requirementRepo.ListRequirementSets(tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch requirement sets"})
	}

	return c.JSON(http.StatusOK, sets)
}

// UpsertRequirementSet godoc
// @Summary Create or replace a channel requirement set
// @Description Replaces the set for (channel, family) and bumps its rules version
// @Tags configuration
// @Accept json
// @Produce json
// @Param set body models.UpsertRequirementSetRequest true "Requirement set"
// @Success 200 {object} models.ChannelRequirementSet
// @Router /config/requirements [put]
// @Security BearerAuth
func (h *RequirementHandler) UpsertRequirementSet(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	var req models.UpsertRequirementSetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	set := &models.ChannelRequirementSet{
		BaseTenantModel:      models.BaseTenantModel{TenantID: tenantID},
		ChannelCode:          req.ChannelCode,
		FamilyCode:           req.FamilyCode,
		ChannelName:          req.ChannelName,
		RequiredFields:       models.StringList(req.RequiredFields),
		RecommendedFields:    models.StringList(req.RecommendedFields),
		MinCompletenessScore: req.MinCompletenessScore,
	}

	if err := h.requirementRepo.UpsertRequirementSet(set); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to save requirement set"})
	}
	h.requirementService.Invalidate(tenantID)

	return c.JSON(http.StatusOK, set)
}

// ListRules godoc
// @Summary List completeness rules
// @Tags configuration
// @Produce json
// @Success 200 {array} models.CompletenessRule
// @Router /config/rules [get]
// @Security BearerAuth
func (h *RequirementHandler) ListRules(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	rules, err := h.requirementRepo.ListRules(tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch rules"})
	}

	return c.JSON(http.StatusOK, rules)
}

// CreateRule godoc
// @Summary Add a completeness rule
// @Tags configuration
// @Accept json
// @Produce json
// @Param rule body models.CreateCompletenessRuleRequest true "Rule"
// @Success 201 {object} models.CompletenessRule
// @Router /config/rules [post]
// @Security BearerAuth
func (h *RequirementHandler) CreateRule(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	var req models.CreateCompletenessRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rule := &models.CompletenessRule{
		BaseTenantModel: models.BaseTenantModel{TenantID: tenantID},
		Field:           req.Field,
		Label:           req.Label,
		IsRequired:      req.IsRequired,
		Weight:          req.Weight,
		CategoryScope:   req.CategoryScope,
		IsActive:        true,
	}

	if err := h.requirementRepo.CreateRule(rule); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create rule"})
	}
	h.requirementService.Invalidate(tenantID)

	return c.JSON(http.StatusCreated, rule)
}

// DeleteRule godoc
// @Summary Remove a completeness rule
// @Tags configuration
// @Produce json
// @Param id path string true "Rule ID"
// @Success 204
// @Router /config/rules/{id} [delete]
// @Security BearerAuth
func (h *RequirementHandler) DeleteRule(c echo.Context) error {
	tenantID := c.Get("tenant_id").(uuid.UUID)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid rule ID"})
	}

	if err := h.requirementRepo.DeleteRule(tenantID, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete rule"})
	}
	h.requirementService.Invalidate(tenantID)

	return c.NoContent(http.StatusNoContent)
}

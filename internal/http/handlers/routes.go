package handlers

import (
	"chansync/internal/app"
	"chansync/internal/http/middleware"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all API routes
func SetupRoutes(api *echo.Group, services *app.Services, events *SyncEventsHandler) {
	// Inbound channel webhooks authenticate via their own signatures, not JWT
	webhookHandler := NewWebhookHandler(services.WebhookService)
	api.POST("/webhooks/:tenant_id/:account_id", webhookHandler.Receive)

	// WebSocket endpoint (handles authentication manually via query parameter)
	api.GET("/ws/sync-events", events.Subscribe)

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(services.AuthService))
	protected.Use(middleware.TenantResolver())

	// System admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.SystemAdminOnly())
	tenantHandler := NewTenantHandler(services.DB)
	admin.GET("/tenants", tenantHandler.List)
	admin.POST("/tenants", tenantHandler.Create)
	admin.GET("/tenants/:id", tenantHandler.Get)
	admin.PUT("/tenants/:id", tenantHandler.Update)

	// Tenant routes (require tenant context)
	tenant := protected.Group("")
	tenant.Use(middleware.RequireTenant())

	accountHandler := NewChannelAccountHandler(services.AccountRepo)
	tenant.GET("/accounts", accountHandler.List)
	tenant.POST("/accounts", accountHandler.Create, middleware.OperatorOrAbove())
	tenant.GET("/accounts/:id", accountHandler.GetByID)
	tenant.PUT("/accounts/:id", accountHandler.Update, middleware.OperatorOrAbove())
	tenant.DELETE("/accounts/:id", accountHandler.Delete, middleware.OperatorOrAbove())

	validationHandler := NewValidationHandler(services.ValidationService)
	tenant.GET("/products/:product_id/validation", validationHandler.ValidateForAllChannels)
	tenant.GET("/products/:product_id/validation/:channel", validationHandler.ValidateForChannel)

	mappingHandler := NewMappingHandler(services.SyncService)
	tenant.POST("/mappings", mappingHandler.Create, middleware.OperatorOrAbove())
	tenant.GET("/products/:product_id/mappings/:channel", mappingHandler.GetStatus)
	tenant.GET("/accounts/:account_id/mappings", mappingHandler.List)
	tenant.GET("/accounts/:account_id/stats", mappingHandler.AccountStats)
	tenant.POST("/mappings/:id/sync", mappingHandler.TriggerSync, middleware.OperatorOrAbove())
	tenant.POST("/mappings/:id/cancel", mappingHandler.CancelRetries, middleware.OperatorOrAbove())
	tenant.POST("/mappings/:id/resolve", mappingHandler.ResolveConflict, middleware.OperatorOrAbove())
	tenant.GET("/mappings/:id/logs", mappingHandler.ListSyncLogs)

	// PIM change notifications, usually called service-to-service
	tenant.POST("/products/changed", mappingHandler.ProductChanged)
	tenant.POST("/products/:product_id/deleted", mappingHandler.ProductDeleted)

	requirementHandler := NewRequirementHandler(services.RequirementRepo, services.RequirementService)
	config := tenant.Group("/config", middleware.OperatorOrAbove())
	config.GET("/requirements", requirementHandler.ListRequirementSets)
	config.PUT("/requirements", requirementHandler.UpsertRequirementSet)
	config.GET("/rules", requirementHandler.ListRules)
	config.POST("/rules", requirementHandler.CreateRule)
	config.DELETE("/rules/:id", requirementHandler.DeleteRule)
}

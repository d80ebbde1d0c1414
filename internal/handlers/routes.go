package handlers

import (
	"laine/internal/common"
	"laine/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Router holds every handler group mounted by RegisterRoutes
type Router struct {
	Health     *HealthHandlers
	Config     *ConfigHandlers
	Webhook    *WebhookHandlers
	Auth       *AuthHandlers
	Onboarding *OnboardingHandlers
	Settings   *SettingsHandlers
	Billing    *BillingHandlers
	Assistants *AssistantHandlers
}

// RegisterRoutes mounts the public, authenticated and organization-scoped
// routes. session verifies the caller and is applied to every /api route
// except the webhook and public config.
func RegisterRoutes(e *echo.Echo, r Router, session echo.MiddlewareFunc) {
	// Public endpoints
	e.GET("/health", r.Health.LivenessCheck)
	e.GET("/health/ready", r.Health.ReadinessCheck)
	e.POST("/api/vapi/webhook", r.Webhook.VapiWebhook)
	e.GET("/api/config/public", r.Config.PublicConfig)

	// Signed-in users, organization optional
	authed := e.Group("/api", session)
	authed.GET("/me", r.Auth.Me)
	authed.GET("/onboarding", r.Onboarding.GetOnboarding)
	authed.POST("/onboarding", r.Onboarding.CompleteOnboarding)

	// Practice settings, organization admins only
	settings := authed.Group("/settings", middleware.RequireRole(common.RoleAdmin, SettingsAdminMessage))
	settings.GET("/practice", r.Settings.GetPracticeSettings)
	settings.PUT("/practice", r.Settings.UpdatePracticeSettings)

	// Billing, any member of the organization
	billing := authed.Group("/billing", middleware.RequireOrganization())
	billing.GET("/customer", r.Billing.GetCustomer)
	billing.GET("/summary", r.Billing.GetSummary, middleware.RequirePermission(common.PermissionBillingRead, "Access Denied"))
	billing.GET("/usage", r.Billing.GetUsage)
	billing.GET("/products", r.Billing.ListProducts)
	billing.POST("/check", r.Billing.Check)
	billing.POST("/track", r.Billing.Track)
	billing.POST("/attach", r.Billing.Attach)

	// Assistant mappings, organization admins only
	assistants := authed.Group("/assistants", middleware.RequireRole(common.RoleAdmin, "You must be an organization administrator to manage assistants"))
	assistants.GET("", r.Assistants.ListAssistants)
	assistants.PUT("/:assistantId", r.Assistants.MapAssistant)
	assistants.DELETE("/:assistantId", r.Assistants.UnmapAssistant)
}

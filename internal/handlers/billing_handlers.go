package handlers

import (
	"errors"
	"net/http"
	"strings"

	"laine/internal/common"
	"laine/internal/services"
	"laine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BillingHandlers exposes the organization's billing customer, usage and the
// check/track/attach calls of the billing provider
type BillingHandlers struct {
	billingService services.BillingService
}

// NewBillingHandlers creates a new billing handlers instance
func NewBillingHandlers(billingService services.BillingService) *BillingHandlers {
	return &BillingHandlers{billingService: billingService}
}

func (h *BillingHandlers) identity(c echo.Context) (common.Identity, bool) {
	identity, ok := common.GetIdentityFromContext(c.Request().Context())
	return identity, ok && identity.HasOrganization()
}

func sendBillingError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, services.ErrBillingKeyNotConfigured) {
		logger.FromContext(c).Error("AUTUMN_SECRET_KEY is not configured")
		return common.SendServerError(c, "Billing is not configured")
	}
	return sendServiceError(c, err, fallback)
}

// GetCustomer handles GET /api/billing/customer
func (h *BillingHandlers) GetCustomer(c echo.Context) error {
	identity, ok := h.identity(c)
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	customer, err := h.billingService.GetCustomer(c.Request().Context(), identity)
	if err != nil {
		return sendBillingError(c, err, "Failed to load billing customer")
	}
	return c.JSON(http.StatusOK, customer)
}

// GetSummary handles GET /api/billing/summary
func (h *BillingHandlers) GetSummary(c echo.Context) error {
	identity, ok := h.identity(c)
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	summary, err := h.billingService.Summary(c.Request().Context(), identity)
	if err != nil {
		return sendBillingError(c, err, "Failed to load billing summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// GetUsage handles GET /api/billing/usage. Plans without a minutes feature
// return {"minutes": null}.
func (h *BillingHandlers) GetUsage(c echo.Context) error {
	identity, ok := h.identity(c)
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	usage, err := h.billingService.MinutesUsage(c.Request().Context(), identity)
	if err != nil {
		return sendBillingError(c, err, "Failed to load usage")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"minutes": usage})
}

// ListProducts handles GET /api/billing/products
func (h *BillingHandlers) ListProducts(c echo.Context) error {
	products, err := h.billingService.ListProducts(c.Request().Context())
	if err != nil {
		return sendBillingError(c, err, "Failed to load products")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"products": products})
}

// Check handles POST /api/billing/check
func (h *BillingHandlers) Check(c echo.Context) error {
	identity, ok := h.identity(c)
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	var req services.CheckRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	resp, err := h.billingService.Check(c.Request().Context(), identity, req)
	if err != nil {
		return sendBillingError(c, err, "Failed to check access")
	}
	return c.JSON(http.StatusOK, resp)
}

// Track handles POST /api/billing/track
func (h *BillingHandlers) Track(c echo.Context) error {
	identity, ok := h.identity(c)
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	var req services.TrackRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Value < 0 {
		return common.SendValidationError(c, "value", "value cannot be negative")
	}

	resp, err := h.billingService.Track(c.Request().Context(), identity, req)
	if err != nil {
		return sendBillingError(c, err, "Failed to track usage")
	}
	if len(resp) == 0 {
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
	return c.JSONBlob(http.StatusOK, resp)
}

// Attach handles POST /api/billing/attach
func (h *BillingHandlers) Attach(c echo.Context) error {
	identity, ok := h.identity(c)
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	var req services.AttachRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		return common.SendValidationError(c, "product_id", "product_id is required")
	}

	resp, err := h.billingService.Attach(c.Request().Context(), identity, req)
	if err != nil {
		return sendBillingError(c, err, "Failed to start checkout")
	}
	return c.JSON(http.StatusOK, resp)
}

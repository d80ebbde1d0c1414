package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ConfigHandlers exposes settings the browser is allowed to see
type ConfigHandlers struct {
	billingBackendURL string
}

func NewConfigHandlers(billingBackendURL string) *ConfigHandlers {
	return &ConfigHandlers{billingBackendURL: billingBackendURL}
}

// PublicConfig handles GET /api/config/public
func (h *ConfigHandlers) PublicConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"billing_backend_url": h.billingBackendURL,
	})
}

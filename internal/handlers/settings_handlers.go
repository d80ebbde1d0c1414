package handlers

import (
	"errors"
	"net/http"

	"laine/internal/common"
	"laine/internal/models"
	"laine/internal/repositories"
	"laine/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	// SettingsAdminMessage is returned to members who are not organization admins
	SettingsAdminMessage = "You must be an organization administrator to update practice settings"

	practiceNotFoundMessage = "Practice settings not found. Please complete onboarding first."
)

// SettingsHandlers lets organization admins view and edit their practice
type SettingsHandlers struct {
	practiceService services.PracticeService
}

// NewSettingsHandlers creates a new settings handlers instance
func NewSettingsHandlers(practiceService services.PracticeService) *SettingsHandlers {
	return &SettingsHandlers{practiceService: practiceService}
}

// GetPracticeSettings handles GET /api/settings/practice
func (h *SettingsHandlers) GetPracticeSettings(c echo.Context) error {
	orgID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	practice, err := h.practiceService.GetByOrganization(c.Request().Context(), orgID)
	if err != nil {
		if errors.Is(err, repositories.ErrPracticeNotFound) {
			return common.SendNotFoundError(c, practiceNotFoundMessage)
		}
		return sendServiceError(c, err, "Failed to load practice settings")
	}

	return c.JSON(http.StatusOK, newWizardResponse(models.NewSettingsWizard(practice)))
}

// UpdatePracticeSettings handles PUT /api/settings/practice
func (h *SettingsHandlers) UpdatePracticeSettings(c echo.Context) error {
	orgID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	form := models.NewDefaultPracticeForm()
	if err := c.Bind(form); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	practice, err := h.practiceService.UpdateSettings(c.Request().Context(), orgID, form)
	if err != nil {
		if errors.Is(err, repositories.ErrPracticeNotFound) {
			return common.SendNotFoundError(c, practiceNotFoundMessage)
		}
		return sendServiceError(c, err, "Failed to update practice settings")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Practice settings updated successfully",
		"practice": practice,
	})
}

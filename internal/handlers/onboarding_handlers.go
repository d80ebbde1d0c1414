package handlers

import (
	"errors"
	"net/http"

	"laine/internal/common"
	"laine/internal/models"
	"laine/internal/services"
	"laine/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const onboardingFailedMessage = "Failed to complete onboarding. Please try again."

// OnboardingHandlers serves the practice setup wizard for users without an organization
type OnboardingHandlers struct {
	practiceService services.PracticeService
}

// NewOnboardingHandlers creates a new onboarding handlers instance
func NewOnboardingHandlers(practiceService services.PracticeService) *OnboardingHandlers {
	return &OnboardingHandlers{practiceService: practiceService}
}

// WizardResponse is the wizard state with its step list
type WizardResponse struct {
	*models.OnboardingWizard
	TotalSteps int                     `json:"total_steps"`
	Steps      []models.OnboardingStep `json:"steps"`
}

func newWizardResponse(w *models.OnboardingWizard) WizardResponse {
	return WizardResponse{OnboardingWizard: w, TotalSteps: w.TotalSteps(), Steps: models.OnboardingSteps}
}

// GetOnboarding handles GET /api/onboarding
func (h *OnboardingHandlers) GetOnboarding(c echo.Context) error {
	return c.JSON(http.StatusOK, newWizardResponse(models.NewOnboardingWizard()))
}

// CompleteOnboarding handles POST /api/onboarding
func (h *OnboardingHandlers) CompleteOnboarding(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	form := models.NewDefaultPracticeForm()
	if err := c.Bind(form); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	result, err := h.practiceService.CompleteOnboarding(c.Request().Context(), userID, form)
	if err != nil {
		var validationErr *common.ValidationError
		if errors.As(err, &validationErr) {
			return common.SendValidationError(c, validationErr.Field, validationErr.Message)
		}
		logger.FromContext(c).Error("onboarding failed", zap.Error(err))
		return common.SendServerError(c, onboardingFailedMessage)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"practice":        result.Practice,
		"organization_id": result.OrganizationID,
		"redirect":        "/dashboard",
	})
}

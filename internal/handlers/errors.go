package handlers

import (
	"errors"

	"laine/internal/common"
	"laine/internal/services"
	"laine/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// sendServiceError maps errors shared by every handler. Anything it does not
// recognize is logged and answered with fallback as a 500.
func sendServiceError(c echo.Context, err error, fallback string) error {
	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) {
		return common.SendValidationError(c, validationErr.Field, validationErr.Message)
	}

	var providerErr *services.ProviderError
	if errors.As(err, &providerErr) {
		logger.FromContext(c).Error("provider request failed",
			zap.String("provider", providerErr.Provider),
			zap.Int("status_code", providerErr.StatusCode),
			zap.String("message", providerErr.Message))
		return common.SendUpstreamError(c, providerErr.Error())
	}

	if errors.Is(err, services.ErrOrganizationRequired) {
		return common.SendOnboardingRequired(c)
	}

	logger.FromContext(c).Error(fallback, zap.Error(err))
	return common.SendServerError(c, fallback)
}

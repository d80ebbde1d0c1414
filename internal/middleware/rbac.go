package middleware

import (
	"laine/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireOrganization rejects sessions that have no active organization.
// The client is told to finish onboarding first.
func RequireOrganization() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if !identity.HasOrganization() {
				return common.SendOnboardingRequired(c)
			}
			return next(c)
		}
	}
}

// RequireRole allows only members holding role in the active organization
func RequireRole(role, message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if !identity.HasOrganization() {
				return common.SendOnboardingRequired(c)
			}
			if !identity.HasRole(role) {
				return common.SendForbiddenError(c, message)
			}
			return next(c)
		}
	}
}

// RequirePermission allows only members holding permission in the active organization
func RequirePermission(permission, message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if !identity.HasOrganization() {
				return common.SendOnboardingRequired(c)
			}
			if !identity.HasPermission(permission) {
				return common.SendForbiddenError(c, message)
			}
			return next(c)
		}
	}
}

package handlers

import (
	"net/http"

	"laine/internal/common"
	"laine/internal/services"
	"laine/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandlers reports who the caller is
type AuthHandlers struct {
	directory services.DirectoryService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(directory services.DirectoryService) *AuthHandlers {
	return &AuthHandlers{directory: directory}
}

// ProfileResponse is the directory profile of the signed-in user
type ProfileResponse struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// MeResponse represents the current session
type MeResponse struct {
	UserID         string           `json:"user_id"`
	OrganizationID string           `json:"organization_id,omitempty"`
	Role           string           `json:"role,omitempty"`
	Permissions    []string         `json:"permissions"`
	Profile        *ProfileResponse `json:"profile,omitempty"`
}

// Me handles GET /api/me. A directory failure omits the profile.
func (h *AuthHandlers) Me(c echo.Context) error {
	identity, ok := common.GetIdentityFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	resp := MeResponse{
		UserID:         identity.UserID,
		OrganizationID: identity.OrgID,
		Role:           identity.OrgRole,
		Permissions:    identity.Permissions,
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}

	user, err := h.directory.GetUser(c.Request().Context(), identity.UserID)
	if err != nil {
		logger.FromContext(c).Warn("could not load user profile", zap.Error(err))
	} else {
		resp.Profile = &ProfileResponse{
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			FullName:  user.FullName(),
		}
	}

	return c.JSON(http.StatusOK, resp)
}

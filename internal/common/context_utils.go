package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	TenantIDKey contextKey = "tenant_id"
	IdentityKey contextKey = "identity"
)

const (
	RoleAdmin             = "org:admin"
	PermissionBillingRead = "org:sys_billing:read"
)

// Identity is the resolved session of the caller. OrgID is empty when the
// user has not created or selected an organization yet.
type Identity struct {
	UserID      string   `json:"user_id"`
	SessionID   string   `json:"session_id,omitempty"`
	OrgID       string   `json:"organization_id,omitempty"`
	OrgSlug     string   `json:"organization_slug,omitempty"`
	OrgRole     string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// HasOrganization reports whether the session is scoped to a tenant
func (i Identity) HasOrganization() bool {
	return i.OrgID != ""
}

// HasRole checks the organization role. Roles are compared with and without
// the "org:" prefix so "admin" and "org:admin" are the same role.
func (i Identity) HasRole(role string) bool {
	if i.OrgID == "" || i.OrgRole == "" {
		return false
	}
	return normalizeOrgKey(i.OrgRole) == normalizeOrgKey(role)
}

// HasPermission checks the organization permission list
func (i Identity) HasPermission(permission string) bool {
	if i.OrgID == "" {
		return false
	}
	want := normalizeOrgKey(permission)
	for _, p := range i.Permissions {
		if normalizeOrgKey(p) == want {
			return true
		}
	}
	return false
}

func normalizeOrgKey(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "org:")
}

// WithIdentity returns a context carrying the identity and its user and tenant ids
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	ctx = context.WithValue(ctx, IdentityKey, identity)
	ctx = context.WithValue(ctx, UserIDKey, identity.UserID)
	if identity.OrgID != "" {
		ctx = context.WithValue(ctx, TenantIDKey, identity.OrgID)
	}
	return ctx
}

// GetIdentityFromContext extracts the caller identity from the request context
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	return identity, ok
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetTenantIDFromContext extracts the tenant (organization) ID from the request context
func GetTenantIDFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(string)
	return tenantID, ok && tenantID != ""
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", message, nil))
}

// SendConflictError sends a conflict error response
func SendConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", message, nil))
}

// SendUpstreamError sends a bad gateway response for provider failures
func SendUpstreamError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadGateway, CreateErrorResponse("UPSTREAM_ERROR", message, nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// SendForbiddenError sends a forbidden error response
func SendForbiddenError(c echo.Context, message string) error {
	return c.JSON(http.StatusForbidden, CreateErrorResponse("FORBIDDEN", message, nil))
}

// SendOnboardingRequired tells the client the session has no organization yet
func SendOnboardingRequired(c echo.Context) error {
	resp := CreateErrorResponse("ONBOARDING_REQUIRED", "No active organization found", map[string]string{
		"redirect": "/onboarding",
	})
	return c.JSON(http.StatusForbidden, resp)
}

// ValidationError is returned by Validate methods for a single invalid field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: fieldName, Message: fmt.Sprintf("%s is required", fieldName)}
	}
	return nil
}

// ValidateMaxLength validates the length of a string field
func ValidateMaxLength(value, fieldName string, maxLength int) error {
	if len(value) > maxLength {
		return &ValidationError{Field: fieldName, Message: fmt.Sprintf("%s cannot exceed %d characters", fieldName, maxLength)}
	}
	return nil
}

// ValidateOptionalString validates optional string fields and trims them in place
func ValidateOptionalString(value *string, fieldName string, maxLength int) error {
	if value != nil {
		if err := ValidateMaxLength(*value, fieldName, maxLength); err != nil {
			return err
		}
		*value = strings.TrimSpace(*value)
	}
	return nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NullableString returns nil for blank input, otherwise a pointer to the value
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package middleware

import (
	"strings"

	"laine/internal/common"
	"laine/internal/metrics"
	"laine/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// SessionCookie is where browsers carry the session token
	SessionCookie = "__session"

	tokenContextKey = "user"
)

// SessionClaims are the identity provider's session token claims
type SessionClaims struct {
	SessionID      string   `json:"sid,omitempty"`
	OrgID          string   `json:"org_id,omitempty"`
	OrgSlug        string   `json:"org_slug,omitempty"`
	OrgRole        string   `json:"org_role,omitempty"`
	OrgPermissions []string `json:"org_permissions,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the request identity
func (c *SessionClaims) Identity() common.Identity {
	return common.Identity{
		UserID:      c.Subject,
		SessionID:   c.SessionID,
		OrgID:       c.OrgID,
		OrgSlug:     c.OrgSlug,
		OrgRole:     c.OrgRole,
		Permissions: c.OrgPermissions,
	}
}

// Session verifies the session token from the Authorization header or the
// session cookie and places the caller's Identity on the request context.
func Session(keyFunc jwt.Keyfunc) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		KeyFunc:     keyFunc,
		TokenLookup: "header:Authorization:Bearer ,cookie:" + SessionCookie,
		ContextKey:  tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(SessionClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			reason := "invalid_token"
			if !hasSessionToken(c) {
				reason = "missing_token"
			}
			metrics.RecordAuthFailure(reason)
			logger.FromContext(c).Debug("session rejected", zap.String("reason", reason), zap.Error(err))
			return common.SendUnauthorizedError(c)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(withIdentity(next))
	}
}

func hasSessionToken(c echo.Context) bool {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ") {
		return true
	}
	cookie, err := c.Cookie(SessionCookie)
	return err == nil && cookie.Value != ""
}

// withIdentity runs after token verification
func withIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return common.SendUnauthorizedError(c)
		}
		claims, ok := token.Claims.(*SessionClaims)
		if !ok || claims.Subject == "" {
			metrics.RecordAuthFailure("missing_subject")
			return common.SendUnauthorizedError(c)
		}

		identity := claims.Identity()
		c.SetRequest(c.Request().WithContext(common.WithIdentity(c.Request().Context(), identity)))

		log := logger.FromContext(c).With(zap.String("user_id", identity.UserID))
		if identity.OrgID != "" {
			log = log.With(zap.String("organization_id", identity.OrgID))
		}
		logger.Set(c, log)

		return next(c)
	}
}

// IdentityFrom returns the verified identity of the request
func IdentityFrom(c echo.Context) (common.Identity, bool) {
	return common.GetIdentityFromContext(c.Request().Context())
}

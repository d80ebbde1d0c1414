package handlers

import (
	"net/http"
	"testing"

	"laine/internal/models"
	"laine/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMe(t *testing.T) {
	s := newTestServer("", nil)
	s.directory.On("GetUser", mock.Anything, "user_admin").Return(&models.UserProfile{
		ID: "user_admin", Email: "owner@acme.dental", FirstName: "Ada", LastName: "Lovelace",
	}, nil).Once()

	rec := s.do(t, http.MethodGet, "/api/me", "", sessionPtr(testhelpers.AdminSession()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"user_id": "user_admin",
		"organization_id": "org_acme",
		"role": "org:admin",
		"permissions": ["org:sys_billing:read", "org:sys_memberships:read"],
		"profile": {"email": "owner@acme.dental", "first_name": "Ada", "last_name": "Lovelace", "full_name": "Ada Lovelace"}
	}`, rec.Body.String())
	s.assertExpectations(t)
}

func TestMe_DirectoryUnavailable(t *testing.T) {
	s := newTestServer("", nil)
	s.directory.On("GetUser", mock.Anything, "user_new").Return(nil, errBoom).Once()

	rec := s.do(t, http.MethodGet, "/api/me", "", sessionPtr(testhelpers.NoOrgSession()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id": "user_new", "permissions": []}`, rec.Body.String())
}

func TestMe_Unauthenticated(t *testing.T) {
	s := newTestServer("", nil)

	rec := s.do(t, http.MethodGet, "/api/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	s.directory.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestHealth(t *testing.T) {
	s := newTestServer("", nil)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", decodeMap(t, rec)["status"])

	rec = s.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decodeMap(t, rec)["status"])
}

func TestReadiness_DatabaseDown(t *testing.T) {
	s := newTestServer("", fakePinger{err: errBoom})

	rec := s.do(t, http.MethodGet, "/health/ready", "", nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", decodeMap(t, rec)["status"])
}

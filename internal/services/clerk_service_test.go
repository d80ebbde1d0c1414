package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClerkCreateOrganization(t *testing.T) {
	srv, requests := newBillingServer(t, http.StatusOK, `{"id":"org_new","name":"Acme Dental","slug":"acme-dental","created_by":"user_1"}`)
	client := NewClerkService("sk_test", srv.URL)

	org, err := client.CreateOrganization(context.Background(), "Acme Dental", "user_1")
	require.NoError(t, err)
	assert.Equal(t, "org_new", org.ID)
	assert.Equal(t, "acme-dental", org.Slug)

	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/organizations", req.path)
	assert.Equal(t, "Bearer sk_test", req.auth)
	assert.Equal(t, map[string]any{"name": "Acme Dental", "created_by": "user_1"}, req.body)
}

func TestClerkGetUser_PrimaryEmail(t *testing.T) {
	srv, requests := newBillingServer(t, http.StatusOK, `{
		"id": "user_1",
		"first_name": "Ada",
		"last_name": null,
		"primary_email_address_id": "idn_2",
		"email_addresses": [
			{"id": "idn_1", "email_address": "old@acme.test"},
			{"id": "idn_2", "email_address": "ada@acme.test"}
		]
	}`)
	client := NewClerkService("sk_test", srv.URL)

	user, err := client.GetUser(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "/users/user_1", (*requests)[0].path)
	assert.Equal(t, "ada@acme.test", user.Email)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "", user.LastName)
	assert.Equal(t, "Ada", user.FullName())
}

func TestClerkGetOrganization_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	client := NewClerkService("sk_test", srv.URL)

	_, err := client.GetOrganization(context.Background(), "org_missing")
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusNotFound, pe.StatusCode)
	assert.Equal(t, "API error: 404", pe.Message)
}

func TestClerkMissingKey(t *testing.T) {
	client := NewClerkService("", "http://127.0.0.1:0")
	_, err := client.GetUser(context.Background(), "user_1")
	assert.ErrorIs(t, err, ErrDirectoryKeyNotConfigured)
}

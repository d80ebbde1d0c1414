package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"laine/internal/models"
)

var ErrDirectoryKeyNotConfigured = errors.New("CLERK_SECRET_KEY is not configured")

// DirectoryService is the identity provider's backend API
type DirectoryService interface {
	CreateOrganization(ctx context.Context, name, createdBy string) (*models.Organization, error)
	GetOrganization(ctx context.Context, orgID string) (*models.Organization, error)
	GetUser(ctx context.Context, userID string) (*models.UserProfile, error)
}

type clerkService struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewClerkService(secretKey, baseURL string) DirectoryService {
	return &clerkService{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type clerkOrganization struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedBy string `json:"created_by"`
}

func (o clerkOrganization) toModel() *models.Organization {
	return &models.Organization{ID: o.ID, Name: o.Name, Slug: o.Slug, CreatedBy: o.CreatedBy}
}

type clerkUser struct {
	ID                    string  `json:"id"`
	FirstName             *string `json:"first_name"`
	LastName              *string `json:"last_name"`
	PrimaryEmailAddressID *string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// primaryEmail falls back to the first address when no primary is set
func (u clerkUser) primaryEmail() string {
	if u.PrimaryEmailAddressID != nil {
		for _, e := range u.EmailAddresses {
			if e.ID == *u.PrimaryEmailAddressID {
				return e.EmailAddress
			}
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

func (s *clerkService) CreateOrganization(ctx context.Context, name, createdBy string) (*models.Organization, error) {
	body := map[string]string{"name": name, "created_by": createdBy}
	var out clerkOrganization
	if err := s.makeRequest(ctx, http.MethodPost, "/organizations", body, &out); err != nil {
		return nil, err
	}
	return out.toModel(), nil
}

func (s *clerkService) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	var out clerkOrganization
	if err := s.makeRequest(ctx, http.MethodGet, "/organizations/"+url.PathEscape(orgID), nil, &out); err != nil {
		return nil, err
	}
	return out.toModel(), nil
}

func (s *clerkService) GetUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	var out clerkUser
	if err := s.makeRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	profile := &models.UserProfile{ID: out.ID, Email: out.primaryEmail()}
	if out.FirstName != nil {
		profile.FirstName = *out.FirstName
	}
	if out.LastName != nil {
		profile.LastName = *out.LastName
	}
	return profile, nil
}

func (s *clerkService) makeRequest(ctx context.Context, method, path string, body, out interface{}) error {
	if s.secretKey == "" {
		return ErrDirectoryKeyNotConfigured
	}

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("directory request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newProviderError("clerk", resp.StatusCode, respBody)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

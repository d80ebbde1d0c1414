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

var (
	ErrBillingKeyNotConfigured = errors.New("AUTUMN_SECRET_KEY is not configured")
	ErrCustomerIDRequired      = errors.New("customer id is required")
	ErrCustomerNotFound        = errors.New("billing customer not found")
)

// ProviderError is a non-2xx answer from an upstream provider
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// newProviderError uses the body's "message" field when present
func newProviderError(provider string, status int, body []byte) *ProviderError {
	pe := &ProviderError{
		Provider:   provider,
		StatusCode: status,
		Message:    fmt.Sprintf("API error: %d", status),
		Body:       body,
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		pe.Message = payload.Message
	}
	return pe
}

// BillingProvider is the usage-based billing API
type BillingProvider interface {
	TrackUsage(ctx context.Context, req TrackRequest) (json.RawMessage, error)
	Check(ctx context.Context, req CheckRequest) (*CheckResponse, error)
	Attach(ctx context.Context, req AttachRequest) (*AttachResponse, error)
	GetCustomer(ctx context.Context, customerID string) (*models.BillingCustomer, error)
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.BillingCustomer, error)
	ListProducts(ctx context.Context) ([]models.BillingProduct, error)
}

type TrackRequest struct {
	CustomerID string `json:"customer_id"`
	FeatureID  string `json:"feature_id"`
	Value      int64  `json:"value"`
	EventID    string `json:"event_id,omitempty"`
}

type CheckRequest struct {
	CustomerID      string `json:"customer_id"`
	FeatureID       string `json:"feature_id,omitempty"`
	ProductID       string `json:"product_id,omitempty"`
	RequiredBalance *int64 `json:"required_balance,omitempty"`
}

type CheckResponse struct {
	Allowed   bool   `json:"allowed"`
	FeatureID string `json:"feature_id,omitempty"`
	Balance   *int64 `json:"balance,omitempty"`
	Unlimited bool   `json:"unlimited,omitempty"`
}

type AttachRequest struct {
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
	SuccessURL string `json:"success_url,omitempty"`
}

type AttachResponse struct {
	CheckoutURL string `json:"checkout_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

type CreateCustomerRequest struct {
	ID    string  `json:"id"`
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type autumnService struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

// NewAutumnService creates the billing client. An empty secret key is allowed
// here and reported by each call.
func NewAutumnService(secretKey, baseURL string) BillingProvider {
	return &autumnService{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// TrackUsage records a usage event. EventID makes the event idempotent on the provider side.
func (s *autumnService) TrackUsage(ctx context.Context, req TrackRequest) (json.RawMessage, error) {
	if req.CustomerID == "" {
		return nil, ErrCustomerIDRequired
	}
	var out json.RawMessage
	if err := s.makeRequest(ctx, http.MethodPost, "/track", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *autumnService) Check(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	if req.CustomerID == "" {
		return nil, ErrCustomerIDRequired
	}
	var out CheckResponse
	if err := s.makeRequest(ctx, http.MethodPost, "/check", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *autumnService) Attach(ctx context.Context, req AttachRequest) (*AttachResponse, error) {
	if req.CustomerID == "" {
		return nil, ErrCustomerIDRequired
	}
	var out AttachResponse
	if err := s.makeRequest(ctx, http.MethodPost, "/attach", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *autumnService) GetCustomer(ctx context.Context, customerID string) (*models.BillingCustomer, error) {
	if customerID == "" {
		return nil, ErrCustomerIDRequired
	}
	var out models.BillingCustomer
	err := s.makeRequest(ctx, http.MethodGet, "/customers/"+url.PathEscape(customerID), nil, &out)
	var pe *ProviderError
	if errors.As(err, &pe) && pe.StatusCode == http.StatusNotFound {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *autumnService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.BillingCustomer, error) {
	if req.ID == "" {
		return nil, ErrCustomerIDRequired
	}
	var out models.BillingCustomer
	if err := s.makeRequest(ctx, http.MethodPost, "/customers", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *autumnService) ListProducts(ctx context.Context) ([]models.BillingProduct, error) {
	var out struct {
		List []models.BillingProduct `json:"list"`
	}
	if err := s.makeRequest(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	if out.List == nil {
		out.List = []models.BillingProduct{}
	}
	return out.List, nil
}

// makeRequest sends one bearer-authorized JSON request. It never retries.
func (s *autumnService) makeRequest(ctx context.Context, method, path string, body, out interface{}) error {
	if s.secretKey == "" {
		return ErrBillingKeyNotConfigured
	}

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode billing request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("billing request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read billing response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newProviderError("autumn", resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], respBody...)
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode billing response: %w", err)
	}
	return nil
}

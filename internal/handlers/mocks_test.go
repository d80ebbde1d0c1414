package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"laine/internal/common"
	"laine/internal/middleware"
	"laine/internal/models"
	"laine/internal/services"
	"laine/testhelpers"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUsageService struct {
	mock.Mock
}

func (m *MockUsageService) IngestMessage(ctx context.Context, msg *models.VapiMessage) models.IngestResult {
	args := m.Called(ctx, msg)
	return args.Get(0).(models.IngestResult)
}

type MockPracticeService struct {
	mock.Mock
}

func (m *MockPracticeService) CompleteOnboarding(ctx context.Context, userID string, form *models.PracticeForm) (*services.OnboardingResult, error) {
	args := m.Called(ctx, userID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OnboardingResult), args.Error(1)
}

func (m *MockPracticeService) GetByOrganization(ctx context.Context, orgID string) (*models.Practice, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Practice), args.Error(1)
}

func (m *MockPracticeService) UpdateSettings(ctx context.Context, orgID string, form *models.PracticeForm) (*models.Practice, error) {
	args := m.Called(ctx, orgID, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Practice), args.Error(1)
}

type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) Identify(ctx context.Context, identity common.Identity) (*services.BillingIdentity, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.BillingIdentity), args.Error(1)
}

func (m *MockBillingService) GetCustomer(ctx context.Context, identity common.Identity) (*models.BillingCustomer, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillingCustomer), args.Error(1)
}

func (m *MockBillingService) Summary(ctx context.Context, identity common.Identity) (*models.BillingSummary, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillingSummary), args.Error(1)
}

func (m *MockBillingService) MinutesUsage(ctx context.Context, identity common.Identity) (*models.MinutesUsage, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MinutesUsage), args.Error(1)
}

func (m *MockBillingService) Check(ctx context.Context, identity common.Identity, req services.CheckRequest) (*services.CheckResponse, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CheckResponse), args.Error(1)
}

func (m *MockBillingService) Track(ctx context.Context, identity common.Identity, req services.TrackRequest) (json.RawMessage, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockBillingService) Attach(ctx context.Context, identity common.Identity, req services.AttachRequest) (*services.AttachResponse, error) {
	args := m.Called(ctx, identity, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AttachResponse), args.Error(1)
}

func (m *MockBillingService) ListProducts(ctx context.Context) ([]models.BillingProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BillingProduct), args.Error(1)
}

type MockAssistantService struct {
	mock.Mock
}

func (m *MockAssistantService) ResolveTenant(ctx context.Context, assistantID string) (string, error) {
	args := m.Called(ctx, assistantID)
	return args.String(0), args.Error(1)
}

func (m *MockAssistantService) MapAssistant(ctx context.Context, orgID, assistantID string, label *string) (*models.AssistantMapping, error) {
	args := m.Called(ctx, orgID, assistantID, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssistantMapping), args.Error(1)
}

func (m *MockAssistantService) ListAssistants(ctx context.Context, orgID string) ([]*models.AssistantMapping, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AssistantMapping), args.Error(1)
}

func (m *MockAssistantService) UnmapAssistant(ctx context.Context, orgID, assistantID string) error {
	args := m.Called(ctx, orgID, assistantID)
	return args.Error(0)
}

type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) CreateOrganization(ctx context.Context, name, createdBy string) (*models.Organization, error) {
	args := m.Called(ctx, name, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockDirectoryService) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockDirectoryService) GetUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

var errBoom = errors.New("boom")

// testServer wires every handler with mocks behind the real route table
type testServer struct {
	echo       *echo.Echo
	usage      *MockUsageService
	practices  *MockPracticeService
	billing    *MockBillingService
	assistants *MockAssistantService
	directory  *MockDirectoryService
}

func newTestServer(webhookSecret string, db Pinger) *testServer {
	s := &testServer{
		echo:       echo.New(),
		usage:      new(MockUsageService),
		practices:  new(MockPracticeService),
		billing:    new(MockBillingService),
		assistants: new(MockAssistantService),
		directory:  new(MockDirectoryService),
	}
	if db == nil {
		db = fakePinger{}
	}

	s.echo.Use(middleware.RequestID)
	RegisterRoutes(s.echo, Router{
		Health:     NewHealthHandlers(db),
		Config:     NewConfigHandlers("https://billing.example.com"),
		Webhook:    NewWebhookHandlers(s.usage, webhookSecret),
		Auth:       NewAuthHandlers(s.directory),
		Onboarding: NewOnboardingHandlers(s.practices),
		Settings:   NewSettingsHandlers(s.practices),
		Billing:    NewBillingHandlers(s.billing),
		Assistants: NewAssistantHandlers(s.assistants),
	}, middleware.Session(testhelpers.KeyFunc))
	return s
}

func (s *testServer) assertExpectations(t *testing.T) {
	s.usage.AssertExpectations(t)
	s.practices.AssertExpectations(t)
	s.billing.AssertExpectations(t)
	s.assistants.AssertExpectations(t)
	s.directory.AssertExpectations(t)
}

// do sends a request, signing it with session when one is given
func (s *testServer) do(t *testing.T, method, target, body string, session *testhelpers.Session) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if session != nil {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+testhelpers.MintSessionToken(t, *session))
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func sessionPtr(s testhelpers.Session) *testhelpers.Session {
	return &s
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

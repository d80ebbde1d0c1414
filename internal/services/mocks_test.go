package services

import (
	"context"
	"encoding/json"
	"sync"

	"laine/internal/models"
	"laine/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAssistantMappingRepository struct {
	mock.Mock
}

func (m *MockAssistantMappingRepository) Upsert(ctx context.Context, mapping *models.AssistantMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockAssistantMappingRepository) GetByAssistantID(ctx context.Context, assistantID string) (*models.AssistantMapping, error) {
	args := m.Called(ctx, assistantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssistantMapping), args.Error(1)
}

func (m *MockAssistantMappingRepository) ListByOrganization(ctx context.Context, orgID string) ([]*models.AssistantMapping, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]*models.AssistantMapping), args.Error(1)
}

func (m *MockAssistantMappingRepository) Delete(ctx context.Context, orgID, assistantID string) error {
	args := m.Called(ctx, orgID, assistantID)
	return args.Error(0)
}

type MockTenantResolver struct {
	mock.Mock
}

func (m *MockTenantResolver) ResolveTenant(ctx context.Context, assistantID string) (string, error) {
	args := m.Called(ctx, assistantID)
	return args.String(0), args.Error(1)
}

type MockBillingProvider struct {
	mock.Mock
}

func (m *MockBillingProvider) TrackUsage(ctx context.Context, req TrackRequest) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockBillingProvider) Check(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckResponse), args.Error(1)
}

func (m *MockBillingProvider) Attach(ctx context.Context, req AttachRequest) (*AttachResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AttachResponse), args.Error(1)
}

func (m *MockBillingProvider) GetCustomer(ctx context.Context, customerID string) (*models.BillingCustomer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillingCustomer), args.Error(1)
}

func (m *MockBillingProvider) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.BillingCustomer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BillingCustomer), args.Error(1)
}

func (m *MockBillingProvider) ListProducts(ctx context.Context) ([]models.BillingProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BillingProduct), args.Error(1)
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

// memoryPracticeRepo keeps practices by organization for end-to-end service tests
type memoryPracticeRepo struct {
	mu        sync.Mutex
	practices map[string]*models.Practice
}

func newMemoryPracticeRepo() *memoryPracticeRepo {
	return &memoryPracticeRepo{practices: map[string]*models.Practice{}}
}

func (r *memoryPracticeRepo) Create(ctx context.Context, practice *models.Practice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.practices[practice.ClerkOrganizationID]; ok {
		return repositories.ErrPracticeExists
	}
	if practice.ID == uuid.Nil {
		practice.ID = uuid.New()
	}
	stored := *practice
	r.practices[practice.ClerkOrganizationID] = &stored
	return nil
}

func (r *memoryPracticeRepo) GetByOrganizationID(ctx context.Context, orgID string) (*models.Practice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.practices[orgID]
	if !ok {
		return nil, repositories.ErrPracticeNotFound
	}
	out := *p
	return &out, nil
}

func (r *memoryPracticeRepo) UpdateByOrganizationID(ctx context.Context, practice *models.Practice) (*models.Practice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.practices[practice.ClerkOrganizationID]
	if !ok {
		return nil, repositories.ErrPracticeNotFound
	}
	updated := *practice
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	r.practices[practice.ClerkOrganizationID] = &updated
	out := updated
	return &out, nil
}

func (r *memoryPracticeRepo) DeleteByOrganizationID(ctx context.Context, orgID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.practices[orgID]; !ok {
		return repositories.ErrPracticeNotFound
	}
	delete(r.practices, orgID)
	return nil
}

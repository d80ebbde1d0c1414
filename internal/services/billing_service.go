package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"laine/internal/common"
	"laine/internal/models"

	"go.uber.org/zap"
)

var ErrOrganizationRequired = errors.New("organization context required for billing")

// BillingIdentity is the customer a session bills as
type BillingIdentity struct {
	CustomerID string  `json:"customer_id"`
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
}

type BillingService interface {
	Identify(ctx context.Context, identity common.Identity) (*BillingIdentity, error)
	GetCustomer(ctx context.Context, identity common.Identity) (*models.BillingCustomer, error)
	Summary(ctx context.Context, identity common.Identity) (*models.BillingSummary, error)
	MinutesUsage(ctx context.Context, identity common.Identity) (*models.MinutesUsage, error)
	Check(ctx context.Context, identity common.Identity, req CheckRequest) (*CheckResponse, error)
	Track(ctx context.Context, identity common.Identity, req TrackRequest) (json.RawMessage, error)
	Attach(ctx context.Context, identity common.Identity, req AttachRequest) (*AttachResponse, error)
	ListProducts(ctx context.Context) ([]models.BillingProduct, error)
}

type billingService struct {
	provider         BillingProvider
	directory        DirectoryService
	minutesFeatureID string
	log              *zap.Logger
}

func NewBillingService(provider BillingProvider, directory DirectoryService, minutesFeatureID string, log *zap.Logger) BillingService {
	return &billingService{
		provider:         provider,
		directory:        directory,
		minutesFeatureID: minutesFeatureID,
		log:              log,
	}
}

// Identify bills the session's organization. The display name prefers the
// directory name, then the slug, then "Org: <id>". Directory failures degrade
// to the fallback name.
func (s *billingService) Identify(ctx context.Context, identity common.Identity) (*BillingIdentity, error) {
	if !identity.HasOrganization() {
		s.log.Error("no organization in session, cannot identify billing customer",
			zap.String("user_id", identity.UserID))
		return nil, ErrOrganizationRequired
	}

	bi := &BillingIdentity{
		CustomerID: identity.OrgID,
		Name:       fmt.Sprintf("Org: %s", identity.OrgID),
	}
	if identity.OrgSlug != "" {
		bi.Name = identity.OrgSlug
	}

	org, err := s.directory.GetOrganization(ctx, identity.OrgID)
	if err != nil {
		s.log.Warn("could not fetch organization details",
			zap.String("organization_id", identity.OrgID), zap.Error(err))
	} else if org.Name != "" {
		bi.Name = org.Name
	}

	if identity.UserID != "" {
		user, err := s.directory.GetUser(ctx, identity.UserID)
		if err != nil {
			s.log.Warn("could not fetch user details",
				zap.String("user_id", identity.UserID), zap.Error(err))
		} else if user.Email != "" {
			email := user.Email
			bi.Email = &email
		}
	}

	return bi, nil
}

// GetCustomer returns the billing customer, creating it on first access
func (s *billingService) GetCustomer(ctx context.Context, identity common.Identity) (*models.BillingCustomer, error) {
	bi, err := s.Identify(ctx, identity)
	if err != nil {
		return nil, err
	}

	customer, err := s.provider.GetCustomer(ctx, bi.CustomerID)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, ErrCustomerNotFound) {
		return nil, err
	}

	name := bi.Name
	customer, err = s.provider.CreateCustomer(ctx, CreateCustomerRequest{
		ID:    bi.CustomerID,
		Name:  &name,
		Email: bi.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("create billing customer: %w", err)
	}
	s.log.Info("billing customer created", zap.String("customer_id", bi.CustomerID))
	return customer, nil
}

func (s *billingService) Summary(ctx context.Context, identity common.Identity) (*models.BillingSummary, error) {
	customer, err := s.GetCustomer(ctx, identity)
	if err != nil {
		return nil, err
	}

	summary := &models.BillingSummary{
		CustomerID:     customer.ID,
		ActiveProducts: []models.BillingCustomerProduct{},
	}
	for _, p := range customer.Products {
		if p.IsActive() {
			summary.ActiveProducts = append(summary.ActiveProducts, p)
		}
	}
	summary.HasActiveSubscription = len(summary.ActiveProducts) > 0

	if f, ok := customer.Features[s.minutesFeatureID]; ok {
		summary.Minutes = models.NewMinutesUsage(f)
	}
	return summary, nil
}

// MinutesUsage returns nil without error when the plan has no minutes feature
func (s *billingService) MinutesUsage(ctx context.Context, identity common.Identity) (*models.MinutesUsage, error) {
	summary, err := s.Summary(ctx, identity)
	if err != nil {
		return nil, err
	}
	return summary.Minutes, nil
}

func (s *billingService) Check(ctx context.Context, identity common.Identity, req CheckRequest) (*CheckResponse, error) {
	if !identity.HasOrganization() {
		return nil, ErrOrganizationRequired
	}
	req.CustomerID = identity.OrgID
	if req.FeatureID == "" && req.ProductID == "" {
		req.FeatureID = s.minutesFeatureID
	}
	return s.provider.Check(ctx, req)
}

func (s *billingService) Track(ctx context.Context, identity common.Identity, req TrackRequest) (json.RawMessage, error) {
	if !identity.HasOrganization() {
		return nil, ErrOrganizationRequired
	}
	if req.Value < 0 {
		return nil, &common.ValidationError{Field: "value", Message: "value cannot be negative"}
	}
	req.CustomerID = identity.OrgID
	if req.FeatureID == "" {
		req.FeatureID = s.minutesFeatureID
	}
	if req.Value == 0 {
		req.Value = 1
	}
	return s.provider.TrackUsage(ctx, req)
}

func (s *billingService) Attach(ctx context.Context, identity common.Identity, req AttachRequest) (*AttachResponse, error) {
	if !identity.HasOrganization() {
		return nil, ErrOrganizationRequired
	}
	req.CustomerID = identity.OrgID
	return s.provider.Attach(ctx, req)
}

func (s *billingService) ListProducts(ctx context.Context) ([]models.BillingProduct, error) {
	return s.provider.ListProducts(ctx)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laine/internal/models"
	"laine/internal/repositories"

	"go.uber.org/zap"
)

var ErrUserRequired = errors.New("user not authenticated")

// OnboardingResult is what a completed onboarding created
type OnboardingResult struct {
	Practice       *models.Practice `json:"practice"`
	OrganizationID string           `json:"organization_id"`
}

type PracticeService interface {
	CompleteOnboarding(ctx context.Context, userID string, form *models.PracticeForm) (*OnboardingResult, error)
	GetByOrganization(ctx context.Context, orgID string) (*models.Practice, error)
	UpdateSettings(ctx context.Context, orgID string, form *models.PracticeForm) (*models.Practice, error)
}

type practiceService struct {
	repo      repositories.PracticeRepository
	directory DirectoryService
	log       *zap.Logger
}

func NewPracticeService(repo repositories.PracticeRepository, directory DirectoryService, log *zap.Logger) PracticeService {
	return &practiceService{repo: repo, directory: directory, log: log}
}

// CompleteOnboarding creates the organization named after the practice with
// the user as creator, then stores the practice under it.
func (s *practiceService) CompleteOnboarding(ctx context.Context, userID string, form *models.PracticeForm) (*OnboardingResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	org, err := s.directory.CreateOrganization(ctx, strings.TrimSpace(form.Name), userID)
	if err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	practice := form.ToPractice(org.ID)
	if err := s.repo.Create(ctx, practice); err != nil {
		// The organization already exists at this point and is left in place
		s.log.Error("practice creation failed after organization was created",
			zap.String("organization_id", org.ID),
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("create practice: %w", err)
	}

	s.log.Info("practice created",
		zap.String("organization_id", org.ID),
		zap.String("practice_id", practice.ID.String()))

	return &OnboardingResult{Practice: practice, OrganizationID: org.ID}, nil
}

func (s *practiceService) GetByOrganization(ctx context.Context, orgID string) (*models.Practice, error) {
	return s.repo.GetByOrganizationID(ctx, orgID)
}

// UpdateSettings overwrites the whole practice with the form. Blank fields
// in the form clear the stored values.
func (s *practiceService) UpdateSettings(ctx context.Context, orgID string, form *models.PracticeForm) (*models.Practice, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateByOrganizationID(ctx, form.ToPractice(orgID))
	if err != nil {
		return nil, err
	}

	s.log.Info("practice settings updated", zap.String("organization_id", orgID))
	return updated, nil
}

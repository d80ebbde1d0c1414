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

var (
	ErrAssistantNotMapped       = errors.New("assistant is not mapped to an organization")
	ErrAssistantIDRequired      = errors.New("assistant id is required")
	ErrAssistantMappedElsewhere = errors.New("assistant is mapped to another organization")
)

// TenantResolver maps a voice assistant to the organization it bills to
type TenantResolver interface {
	ResolveTenant(ctx context.Context, assistantID string) (string, error)
}

type AssistantService interface {
	TenantResolver
	MapAssistant(ctx context.Context, orgID, assistantID string, label *string) (*models.AssistantMapping, error)
	ListAssistants(ctx context.Context, orgID string) ([]*models.AssistantMapping, error)
	UnmapAssistant(ctx context.Context, orgID, assistantID string) error
}

// AssistantFallback is the configured test binding used when no mapping is stored
type AssistantFallback struct {
	AssistantID    string
	OrganizationID string
}

type assistantService struct {
	repo     repositories.AssistantMappingRepository
	fallback AssistantFallback
	log      *zap.Logger
}

func NewAssistantService(repo repositories.AssistantMappingRepository, fallback AssistantFallback, log *zap.Logger) AssistantService {
	return &assistantService{repo: repo, fallback: fallback, log: log}
}

// ResolveTenant checks stored mappings first, then the configured fallback.
// Lookup failures are returned wrapped and are never ErrAssistantNotMapped.
func (s *assistantService) ResolveTenant(ctx context.Context, assistantID string) (string, error) {
	if assistantID == "" {
		return "", ErrAssistantNotMapped
	}

	mapping, err := s.repo.GetByAssistantID(ctx, assistantID)
	switch {
	case err == nil:
		return mapping.OrganizationID, nil
	case !errors.Is(err, repositories.ErrAssistantMappingNotFound):
		return "", fmt.Errorf("resolve tenant for assistant %s: %w", assistantID, err)
	}

	if s.fallback.AssistantID != "" && assistantID == s.fallback.AssistantID {
		if s.fallback.OrganizationID == "" {
			s.log.Error("test assistant matched but TEST_CLERK_ORG_ID_FOR_LANE_ASSISTANT is not set",
				zap.String("assistant_id", assistantID))
			return "", ErrAssistantNotMapped
		}
		return s.fallback.OrganizationID, nil
	}

	return "", ErrAssistantNotMapped
}

func (s *assistantService) MapAssistant(ctx context.Context, orgID, assistantID string, label *string) (*models.AssistantMapping, error) {
	assistantID = strings.TrimSpace(assistantID)
	if assistantID == "" {
		return nil, ErrAssistantIDRequired
	}
	if label != nil {
		trimmed := strings.TrimSpace(*label)
		label = &trimmed
		if trimmed == "" {
			label = nil
		}
	}

	existing, err := s.repo.GetByAssistantID(ctx, assistantID)
	switch {
	case err == nil && existing.OrganizationID != orgID:
		return nil, ErrAssistantMappedElsewhere
	case err != nil && !errors.Is(err, repositories.ErrAssistantMappingNotFound):
		return nil, err
	}

	mapping := &models.AssistantMapping{
		AssistantID:    assistantID,
		OrganizationID: orgID,
		Label:          label,
	}
	if err := s.repo.Upsert(ctx, mapping); err != nil {
		if errors.Is(err, repositories.ErrAssistantMappingOwned) {
			return nil, ErrAssistantMappedElsewhere
		}
		return nil, err
	}

	s.log.Info("assistant mapped",
		zap.String("assistant_id", assistantID),
		zap.String("organization_id", orgID))
	return mapping, nil
}

func (s *assistantService) ListAssistants(ctx context.Context, orgID string) ([]*models.AssistantMapping, error) {
	return s.repo.ListByOrganization(ctx, orgID)
}

func (s *assistantService) UnmapAssistant(ctx context.Context, orgID, assistantID string) error {
	if err := s.repo.Delete(ctx, orgID, assistantID); err != nil {
		return err
	}
	s.log.Info("assistant unmapped",
		zap.String("assistant_id", assistantID),
		zap.String("organization_id", orgID))
	return nil
}

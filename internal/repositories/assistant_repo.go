package repositories

import (
	"context"
	"errors"
	"fmt"

	"laine/internal/models"

	"github.com/jackc/pgx/v5"
)

type AssistantMappingRepository interface {
	Upsert(ctx context.Context, mapping *models.AssistantMapping) error
	GetByAssistantID(ctx context.Context, assistantID string) (*models.AssistantMapping, error)
	ListByOrganization(ctx context.Context, orgID string) ([]*models.AssistantMapping, error)
	Delete(ctx context.Context, orgID, assistantID string) error
}

type assistantMappingRepo struct {
	db DBTX
}

func NewAssistantMappingRepo(db DBTX) AssistantMappingRepository {
	return &assistantMappingRepo{db: db}
}

// Upsert binds the assistant to the mapping's organization. An existing row
// is only updated when it already belongs to that organization; otherwise
// ErrAssistantMappingOwned is returned and the row is left alone.
func (r *assistantMappingRepo) Upsert(ctx context.Context, mapping *models.AssistantMapping) error {
	query := `
		INSERT INTO assistant_mappings (assistant_id, clerk_organization_id, label, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (assistant_id) DO UPDATE
		SET label = EXCLUDED.label, updated_at = NOW()
		WHERE assistant_mappings.clerk_organization_id = EXCLUDED.clerk_organization_id
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, mapping.AssistantID, mapping.OrganizationID, mapping.Label).
		Scan(&mapping.CreatedAt, &mapping.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAssistantMappingOwned
	}
	if err != nil {
		return fmt.Errorf("failed to upsert assistant mapping: %w", err)
	}
	return nil
}

func (r *assistantMappingRepo) GetByAssistantID(ctx context.Context, assistantID string) (*models.AssistantMapping, error) {
	m := &models.AssistantMapping{}
	query := `
		SELECT assistant_id, clerk_organization_id, label, created_at, updated_at
		FROM assistant_mappings
		WHERE assistant_id = $1
	`
	err := r.db.QueryRow(ctx, query, assistantID).Scan(&m.AssistantID, &m.OrganizationID, &m.Label, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAssistantMappingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assistant mapping: %w", err)
	}
	return m, nil
}

func (r *assistantMappingRepo) ListByOrganization(ctx context.Context, orgID string) ([]*models.AssistantMapping, error) {
	query := `
		SELECT assistant_id, clerk_organization_id, label, created_at, updated_at
		FROM assistant_mappings
		WHERE clerk_organization_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assistant mappings: %w", err)
	}
	defer rows.Close()

	mappings := []*models.AssistantMapping{}
	for rows.Next() {
		m := &models.AssistantMapping{}
		if err := rows.Scan(&m.AssistantID, &m.OrganizationID, &m.Label, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assistant mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// Delete removes a mapping only if it belongs to orgID
func (r *assistantMappingRepo) Delete(ctx context.Context, orgID, assistantID string) error {
	query := `DELETE FROM assistant_mappings WHERE assistant_id = $1 AND clerk_organization_id = $2`
	tag, err := r.db.Exec(ctx, query, assistantID, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete assistant mapping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAssistantMappingNotFound
	}
	return nil
}

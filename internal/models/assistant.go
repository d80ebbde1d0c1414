package models

import "time"

// AssistantMapping binds a voice assistant to the organization it bills to
type AssistantMapping struct {
	AssistantID    string    `json:"assistant_id" db:"assistant_id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	Label          *string   `json:"label,omitempty" db:"label"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type UpsertAssistantMappingRequest struct {
	Label *string `json:"label"`
}

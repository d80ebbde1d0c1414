package handlers

import (
	"errors"
	"net/http"

	"laine/internal/common"
	"laine/internal/models"
	"laine/internal/repositories"
	"laine/internal/services"

	"github.com/labstack/echo/v4"
)

// AssistantHandlers manages which voice assistants bill to the caller's organization
type AssistantHandlers struct {
	assistantService services.AssistantService
}

// NewAssistantHandlers creates a new assistant handlers instance
func NewAssistantHandlers(assistantService services.AssistantService) *AssistantHandlers {
	return &AssistantHandlers{assistantService: assistantService}
}

// MapAssistant handles PUT /api/assistants/:assistantId
func (h *AssistantHandlers) MapAssistant(c echo.Context) error {
	orgID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	var req models.UpsertAssistantMappingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateOptionalString(req.Label, "label", 255); err != nil {
		return sendServiceError(c, err, "Failed to map assistant")
	}

	mapping, err := h.assistantService.MapAssistant(c.Request().Context(), orgID, c.Param("assistantId"), req.Label)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAssistantIDRequired):
			return common.SendValidationError(c, "assistant_id", "assistant_id is required")
		case errors.Is(err, services.ErrAssistantMappedElsewhere):
			return common.SendConflictError(c, "Assistant is already mapped to another organization")
		}
		return sendServiceError(c, err, "Failed to map assistant")
	}
	return c.JSON(http.StatusOK, mapping)
}

// ListAssistants handles GET /api/assistants
func (h *AssistantHandlers) ListAssistants(c echo.Context) error {
	orgID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	mappings, err := h.assistantService.ListAssistants(c.Request().Context(), orgID)
	if err != nil {
		return sendServiceError(c, err, "Failed to list assistants")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"assistants": mappings})
}

// UnmapAssistant handles DELETE /api/assistants/:assistantId
func (h *AssistantHandlers) UnmapAssistant(c echo.Context) error {
	orgID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendOnboardingRequired(c)
	}

	err := h.assistantService.UnmapAssistant(c.Request().Context(), orgID, c.Param("assistantId"))
	if err != nil {
		if errors.Is(err, repositories.ErrAssistantMappingNotFound) {
			return common.SendNotFoundError(c, "Assistant mapping not found")
		}
		return sendServiceError(c, err, "Failed to unmap assistant")
	}
	return c.NoContent(http.StatusNoContent)
}

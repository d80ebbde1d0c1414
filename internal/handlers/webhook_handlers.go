package handlers

import (
	"crypto/hmac"
	"encoding/json"
	"io"
	"net/http"

	"laine/internal/metrics"
	"laine/internal/models"
	"laine/internal/services"
	"laine/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const webhookSecretHeader = "X-Webhook-Secret"

// WebhookHandlers receives call events from the voice platform
type WebhookHandlers struct {
	usageService  services.UsageService
	webhookSecret string
}

// NewWebhookHandlers creates a new webhook handlers instance. An empty secret
// leaves the endpoint open.
func NewWebhookHandlers(usageService services.UsageService, webhookSecret string) *WebhookHandlers {
	return &WebhookHandlers{
		usageService:  usageService,
		webhookSecret: webhookSecret,
	}
}

// authorized checks the shared secret. The header wins whenever it is present;
// the query parameter is only consulted without it.
func (h *WebhookHandlers) authorized(c echo.Context) bool {
	provided := c.Request().Header.Get(webhookSecretHeader)
	if provided == "" {
		provided = c.QueryParam("secret")
	}
	if provided == "" {
		return false
	}
	return hmac.Equal([]byte(provided), []byte(h.webhookSecret))
}

// VapiWebhook handles POST /api/vapi/webhook
func (h *WebhookHandlers) VapiWebhook(c echo.Context) error {
	log := logger.FromContext(c)

	if h.webhookSecret != "" {
		if !h.authorized(c) {
			log.Warn("webhook rejected, invalid or missing secret")
			metrics.RecordAuthFailure("webhook_secret")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"status":  "error",
				"message": "Unauthorized",
			})
		}
	} else {
		log.Warn("VAPI_WEBHOOK_SECRET is not set, webhook is unsecured")
	}

	var body models.VapiWebhookBody
	if err := decodeWebhookBody(c.Request().Body, &body); err != nil {
		log.Error("failed to parse webhook body", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Failed to process webhook",
		})
	}

	msgType := ""
	if body.Message != nil {
		msgType = body.Message.Type
	}
	metrics.RecordWebhookEvent(msgType)

	result := h.usageService.IngestMessage(c.Request().Context(), body.Message)
	log.Debug("webhook processed",
		zap.String("type", msgType),
		zap.String("outcome", string(result.Outcome)))

	return c.JSON(http.StatusOK, map[string]string{"status": "received"})
}

// decodeWebhookBody requires the whole body to be a single JSON document
func decodeWebhookBody(r io.Reader, body *models.VapiWebhookBody) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, body)
}

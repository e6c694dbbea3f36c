package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/domain"
	"github.com/seu-repo/voice-relay/internal/observability/telemetry"
	"github.com/seu-repo/voice-relay/internal/ports"
)

const RouteWebhook = "webhook"

type WebhookHandler struct {
	relay ports.WebhookRelay
	log   *zap.Logger
}

func NewWebhookHandler(relay ports.WebhookRelay, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		relay: relay,
		log:   log,
	}
}

func (h *WebhookHandler) Forward(c *fiber.Ctx) error {
	body := c.Body()
	telemetry.RelayedBytes.WithLabelValues(RouteWebhook, "in").Add(float64(len(body)))

	payload := domain.WebhookPayload{
		Body:           map[string]interface{}{},
		HeaderClientID: c.Get(domain.ClientIDHeader),
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload.Body); err != nil || payload.Body == nil {
			return relayFailed(RouteWebhook, domain.NewValidationError("request body must be a JSON object"))
		}
	}

	resp, err := h.relay.Forward(c.UserContext(), payload)
	if err != nil {
		if re, ok := domain.AsRelayError(err); !ok || re.Kind != domain.KindValidation {
			h.log.Error("Webhook relay failed", zap.Error(err), zap.String("request_id", requestID(c)))
		}
		return relayFailed(RouteWebhook, err)
	}

	return sendUpstream(c, RouteWebhook, resp)
}

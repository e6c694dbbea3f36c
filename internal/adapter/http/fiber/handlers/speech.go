package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/domain"
	"github.com/seu-repo/voice-relay/internal/ports"
)

const RouteSpeak = "speak"

type SpeechHandler struct {
	relay ports.SpeechRelay
	log   *zap.Logger
}

func NewSpeechHandler(relay ports.SpeechRelay, log *zap.Logger) *SpeechHandler {
	return &SpeechHandler{
		relay: relay,
		log:   log,
	}
}

func (h *SpeechHandler) Speak(c *fiber.Ctx) error {
	var req domain.SpeechRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return relayFailed(RouteSpeak, domain.NewValidationError("invalid JSON body"))
	}

	resp, err := h.relay.Synthesize(c.UserContext(), req)
	if err != nil {
		if re, ok := domain.AsRelayError(err); !ok || re.Kind != domain.KindValidation {
			h.log.Error("Speech relay failed", zap.Error(err), zap.String("request_id", requestID(c)))
		}
		return relayFailed(RouteSpeak, err)
	}

	return sendUpstream(c, RouteSpeak, resp)
}

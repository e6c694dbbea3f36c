package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/domain"
	"github.com/seu-repo/voice-relay/internal/observability/telemetry"
	"github.com/seu-repo/voice-relay/internal/ports"
)

const RouteTranscribe = "transcribe"

// Multipart field names accepted for the audio attachment, in order.
var audioFields = []string{"file", "audio"}

type TranscriptionHandler struct {
	relay ports.TranscriptionRelay
	log   *zap.Logger
}

func NewTranscriptionHandler(relay ports.TranscriptionRelay, log *zap.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{
		relay: relay,
		log:   log,
	}
}

func (h *TranscriptionHandler) Transcribe(c *fiber.Ctx) error {
	upload, err := h.readUpload(c)
	if err != nil {
		return relayFailed(RouteTranscribe, err)
	}
	telemetry.RelayedBytes.WithLabelValues(RouteTranscribe, "in").Add(float64(len(upload.Data)))

	resp, err := h.relay.Transcribe(c.UserContext(), upload)
	if err != nil {
		if re, ok := domain.AsRelayError(err); !ok || re.Kind != domain.KindValidation {
			h.log.Error("Transcription relay failed", zap.Error(err), zap.String("request_id", requestID(c)))
		}
		return relayFailed(RouteTranscribe, err)
	}

	return sendUpstream(c, RouteTranscribe, resp)
}

// readUpload pulls the first audio attachment out of the form. A request
// without one yields an empty upload so the relay reports it consistently.
// Size is bounded by the app BodyLimit here and checked exactly by the relay.
func (h *TranscriptionHandler) readUpload(c *fiber.Ctx) (domain.AudioUpload, error) {
	var fh *multipart.FileHeader
	for _, field := range audioFields {
		if f, err := c.FormFile(field); err == nil {
			fh = f
			break
		}
	}
	if fh == nil {
		return domain.AudioUpload{}, nil
	}

	f, err := fh.Open()
	if err != nil {
		return domain.AudioUpload{}, domain.NewValidationError("audio file could not be read")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil && !errors.Is(err, io.EOF) {
		return domain.AudioUpload{}, domain.NewValidationError("audio file could not be read")
	}

	return domain.AudioUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
		Language:    c.FormValue("language"),
		Prompt:      c.FormValue("prompt"),
	}, nil
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

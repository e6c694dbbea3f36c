package ports

import (
	"context"
	"net/http"

	"github.com/seu-repo/voice-relay/internal/domain"
)

// HTTPDoer is the outbound HTTP capability every relay depends on.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type TranscriptionRelay interface {
	Transcribe(ctx context.Context, audio domain.AudioUpload) (*domain.UpstreamResponse, error)
}

type WebhookRelay interface {
	Forward(ctx context.Context, payload domain.WebhookPayload) (*domain.UpstreamResponse, error)
}

type SpeechRelay interface {
	Synthesize(ctx context.Context, req domain.SpeechRequest) (*domain.UpstreamResponse, error)
}

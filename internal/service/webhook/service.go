package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/domain"
	"github.com/seu-repo/voice-relay/internal/ports"
)

const DefaultSecretHeader = "X-Webhook-Secret"

type Config struct {
	URL          string
	Secret       string
	SecretHeader string
}

// Service relays arbitrary JSON objects to the workflow webhook.
type Service struct {
	cfg    Config
	client ports.HTTPDoer
	log    *zap.Logger
}

// TextEnvelope wraps upstream bodies that are not JSON.
type TextEnvelope struct {
	Text string `json:"text"`
}

func NewService(cfg Config, client ports.HTTPDoer, log *zap.Logger) *Service {
	if cfg.SecretHeader == "" {
		cfg.SecretHeader = DefaultSecretHeader
	}
	return &Service{
		cfg:    cfg,
		client: client,
		log:    log,
	}
}

func (s *Service) Forward(ctx context.Context, payload domain.WebhookPayload) (*domain.UpstreamResponse, error) {
	if s.cfg.URL == "" {
		return nil, domain.NewConfigError("webhook upstream URL (WEBHOOK_URL) is not configured")
	}

	clientID := payload.ResolveClientID()

	outbound := make(map[string]interface{}, len(payload.Body)+1)
	for k, v := range payload.Body {
		outbound[k] = v
	}
	outbound[domain.ClientIDField] = clientID

	data, err := json.Marshal(outbound)
	if err != nil {
		return nil, domain.NewValidationError("request body could not be re-encoded as JSON")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("webhook upstream URL is invalid: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(domain.ClientIDHeader, clientID)
	if s.cfg.Secret != "" {
		req.Header.Set(s.cfg.SecretHeader, s.cfg.Secret)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.NewTransportError("webhook request failed", err)
	}
	defer resp.Body.Close()

	// Read as text first: workflow engines often answer with an empty body.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewTransportError("failed to read webhook response", err)
	}
	text := string(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn("Webhook upstream returned an error",
			zap.String("client_id", clientID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, domain.NewUpstreamError(resp.StatusCode, raw)
	}

	if isJSON(resp.Header.Get("Content-Type")) && len(bytes.TrimSpace(raw)) > 0 {
		return &domain.UpstreamResponse{
			StatusCode:  resp.StatusCode,
			ContentType: "application/json",
			Body:        raw,
		}, nil
	}

	wrapped, err := json.Marshal(TextEnvelope{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to wrap webhook response: %w", err)
	}
	return &domain.UpstreamResponse{
		StatusCode:  resp.StatusCode,
		ContentType: "application/json",
		Body:        wrapped,
	}, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

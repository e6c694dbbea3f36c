package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/domain"
	"github.com/seu-repo/voice-relay/internal/ports"
)

type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	DefaultVoice string
}

// Service relays text to the synthesis upstream and returns the audio bytes.
type Service struct {
	cfg    Config
	client ports.HTTPDoer
	log    *zap.Logger
}

func NewService(cfg Config, client ports.HTTPDoer, log *zap.Logger) *Service {
	if cfg.Model == "" {
		cfg.Model = string(openai.TTSModel1)
	}
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = string(openai.VoiceAlloy)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Service{
		cfg:    cfg,
		client: client,
		log:    log,
	}
}

func (s *Service) Synthesize(ctx context.Context, in domain.SpeechRequest) (*domain.UpstreamResponse, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, domain.NewValidationError("text is required")
	}
	if s.cfg.APIKey == "" {
		return nil, domain.NewConfigError("synthesis upstream credential (OPENAI_API_KEY) is not configured")
	}

	voice := in.Voice
	if voice == "" {
		voice = s.cfg.DefaultVoice
	}
	format := domain.NormalizeSpeechFormat(in.Format)

	payload, err := json.Marshal(openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.cfg.Model),
		Input:          in.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormat(format),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build speech request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.NewTransportError("speech synthesis request failed", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewTransportError("failed to read synthesized audio", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn("Speech upstream returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("voice", voice),
			zap.String("format", format),
		)
		return nil, domain.NewUpstreamError(resp.StatusCode, audio)
	}

	return &domain.UpstreamResponse{
		StatusCode:         http.StatusOK,
		ContentType:        domain.SpeechMIMEType(format),
		ContentDisposition: domain.SpeechContentDisposition(format),
		Body:               audio,
	}, nil
}

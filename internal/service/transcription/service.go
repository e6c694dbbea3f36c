package transcription

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/domain"
	"github.com/seu-repo/voice-relay/internal/ports"
)

const (
	DefaultFilename    = "audio.webm"
	DefaultContentType = "application/octet-stream"
	DefaultMaxBytes    = 25 << 20
)

type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	MaxBytes int
}

// Service relays one audio attachment to the speech-to-text upstream.
type Service struct {
	cfg    Config
	client ports.HTTPDoer
	log    *zap.Logger
}

func NewService(cfg Config, client ports.HTTPDoer, log *zap.Logger) *Service {
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Service{
		cfg:    cfg,
		client: client,
		log:    log,
	}
}

func (s *Service) Transcribe(ctx context.Context, audio domain.AudioUpload) (*domain.UpstreamResponse, error) {
	if s.cfg.APIKey == "" {
		return nil, domain.NewConfigError("transcription upstream credential (OPENAI_API_KEY) is not configured")
	}
	if len(audio.Data) == 0 {
		return nil, domain.NewValidationError("no audio file provided")
	}
	if len(audio.Data) > s.cfg.MaxBytes {
		return nil, domain.NewPayloadTooLargeError(fmt.Sprintf("audio file exceeds %d bytes", s.cfg.MaxBytes))
	}

	body, contentType, err := s.encode(audio)
	if err != nil {
		return nil, fmt.Errorf("failed to encode multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/audio/transcriptions", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.NewTransportError("transcription request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewTransportError("failed to read transcription response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn("Transcription upstream returned an error",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(respBody)),
		)
		return nil, domain.NewUpstreamError(resp.StatusCode, respBody)
	}

	return &domain.UpstreamResponse{
		StatusCode:  resp.StatusCode,
		ContentType: "application/json",
		Body:        respBody,
	}, nil
}

func (s *Service) encode(audio domain.AudioUpload) (*bytes.Buffer, string, error) {
	filename := audio.Filename
	if filename == "" {
		filename = DefaultFilename
	}
	partType := audio.ContentType
	if partType == "" {
		partType = DefaultContentType
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", partType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio.Data); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"model", s.cfg.Model},
		{"language", audio.Language},
		{"prompt", audio.Prompt},
	}
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

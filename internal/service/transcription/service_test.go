package transcription

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/domain"
	"github.com/seu-repo/voice-relay/internal/mocks"
)

func newTestService(apiKey string, doer *mocks.MockHTTPDoer) *Service {
	return NewService(Config{
		APIKey:  apiKey,
		BaseURL: "https://stt.example.com/v1/",
	}, doer, zap.NewNop())
}

func sampleAudio() domain.AudioUpload {
	return domain.AudioUpload{
		Filename:    "clip.webm",
		ContentType: "audio/webm",
		Data:        []byte("RIFF....fake-audio"),
	}
}

func TestTranscribe_Success(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Respond(http.StatusOK, "application/json", []byte(`{"text":"hello"}`))
	svc := newTestService("sk-test", doer)

	resp, err := svc.Transcribe(context.Background(), sampleAudio())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"text":"hello"}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.ContentType)

	req, body := doer.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://stt.example.com/v1/audio/transcriptions", req.URL.String())
	assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))

	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	parts := map[string][]byte{}
	partTypes := map[string]string{}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, _ := io.ReadAll(part)
		parts[part.FormName()] = data
		partTypes[part.FormName()] = part.Header.Get("Content-Type")
		if part.FormName() == "file" {
			assert.Equal(t, "clip.webm", part.FileName())
		}
	}

	assert.Equal(t, []byte("RIFF....fake-audio"), parts["file"])
	assert.Equal(t, "audio/webm", partTypes["file"])
	assert.Equal(t, "whisper-1", string(parts["model"]))
	_, hasLanguage := parts["language"]
	assert.False(t, hasLanguage)
}

func TestTranscribe_ForwardsOptionalFields(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Respond(http.StatusOK, "application/json", []byte(`{"text":"hola"}`))
	svc := newTestService("sk-test", doer)

	audio := sampleAudio()
	audio.Filename = ""
	audio.ContentType = ""
	audio.Language = "es"
	audio.Prompt = "greeting"

	_, err := svc.Transcribe(context.Background(), audio)
	require.NoError(t, err)

	_, body := doer.LastRequest()
	assert.Contains(t, string(body), `filename="audio.webm"`)
	assert.Contains(t, string(body), "Content-Type: application/octet-stream")
	assert.Contains(t, string(body), "greeting")
	assert.Contains(t, string(body), `name="language"`)
}

func TestTranscribe_MissingCredential(t *testing.T) {
	doer := mocks.NewMockHTTPDoer()
	svc := newTestService("", doer)

	_, err := svc.Transcribe(context.Background(), sampleAudio())

	re, ok := domain.AsRelayError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindConfig, re.Kind)
	assert.Equal(t, http.StatusInternalServerError, re.Status)
	assert.Equal(t, 0, doer.Calls())
}

func TestTranscribe_MissingAudio(t *testing.T) {
	doer := mocks.NewMockHTTPDoer()
	svc := newTestService("sk-test", doer)

	_, err := svc.Transcribe(context.Background(), domain.AudioUpload{})

	re, ok := domain.AsRelayError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindValidation, re.Kind)
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, 0, doer.Calls())
}

func TestTranscribe_TooLarge(t *testing.T) {
	doer := mocks.NewMockHTTPDoer()
	svc := NewService(Config{APIKey: "sk-test", BaseURL: "https://stt.example.com/v1", MaxBytes: 4}, doer, zap.NewNop())

	_, err := svc.Transcribe(context.Background(), sampleAudio())

	re, ok := domain.AsRelayError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusRequestEntityTooLarge, re.Status)
	assert.Equal(t, 0, doer.Calls())
}

func TestTranscribe_UpstreamError(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Respond(http.StatusServiceUnavailable, "application/json", []byte(`{"error":{"message":"overloaded"}}`))
	svc := newTestService("sk-test", doer)

	_, err := svc.Transcribe(context.Background(), sampleAudio())

	re, ok := domain.AsRelayError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindUpstream, re.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, re.Status)
	assert.Equal(t, `{"error":{"message":"overloaded"}}`, re.Message)
}

func TestTranscribe_TransportError(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Fail(errors.New("dial tcp: no such host"))
	svc := newTestService("sk-test", doer)

	_, err := svc.Transcribe(context.Background(), sampleAudio())

	re, ok := domain.AsRelayError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindTransport, re.Kind)
	assert.Equal(t, http.StatusBadGateway, re.Status)
	assert.Equal(t, "dial tcp: no such host", re.Detail)
}

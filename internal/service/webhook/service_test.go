package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/domain"
	"github.com/seu-repo/voice-relay/internal/mocks"
)

const testURL = "https://n8n.example.com/webhook/voice"

func decodeOutbound(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestForward_AnonymousClient(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Respond(http.StatusOK, "application/json", []byte(`{"reply":"ok"}`))
	svc := NewService(Config{URL: testURL}, doer, zap.NewNop())

	resp, err := svc.Forward(context.Background(), domain.WebhookPayload{
		Body: map[string]interface{}{"msg": "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"reply":"ok"}`, string(resp.Body))

	req, body := doer.LastRequest()
	assert.Equal(t, testURL, req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "anon", req.Header.Get("X-Client-Id"))
	assert.Empty(t, req.Header.Get(DefaultSecretHeader))

	out := decodeOutbound(t, body)
	assert.Equal(t, "hi", out["msg"])
	assert.Equal(t, "anon", out["clientId"])
}

func TestForward_HeaderClientID(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Respond(http.StatusOK, "application/json", []byte(`{}`))
	svc := NewService(Config{URL: testURL}, doer, zap.NewNop())

	_, err := svc.Forward(context.Background(), domain.WebhookPayload{
		Body:           map[string]interface{}{"msg": "hi"},
		HeaderClientID: "u123",
	})
	require.NoError(t, err)

	req, body := doer.LastRequest()
	assert.Equal(t, "u123", req.Header.Get("X-Client-Id"))
	assert.Equal(t, "u123", decodeOutbound(t, body)["clientId"])
}

func TestForward_BodyClientIDWins(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Respond(http.StatusOK, "application/json", []byte(`{}`))
	svc := NewService(Config{URL: testURL}, doer, zap.NewNop())

	_, err := svc.Forward(context.Background(), domain.WebhookPayload{
		Body:           map[string]interface{}{"clientId": "body-1"},
		HeaderClientID: "u123",
	})
	require.NoError(t, err)

	req, body := doer.LastRequest()
	assert.Equal(t, "body-1", req.Header.Get("X-Client-Id"))
	assert.Equal(t, "body-1", decodeOutbound(t, body)["clientId"])
}

func TestForward_SharedSecret(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Respond(http.StatusOK, "application/json", []byte(`{}`))
	svc := NewService(Config{URL: testURL, Secret: "s3cret", SecretHeader: "X-N8N-Key"}, doer, zap.NewNop())

	_, err := svc.Forward(context.Background(), domain.WebhookPayload{Body: map[string]interface{}{}})
	require.NoError(t, err)

	req, _ := doer.LastRequest()
	assert.Equal(t, "s3cret", req.Header.Get("X-N8N-Key"))
}

func TestForward_NonJSONResponseIsWrapped(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
	}{
		{"plain text", http.StatusOK, "text/plain; charset=utf-8", "OK", `{"text":"OK"}`},
		{"no content type", http.StatusAccepted, "", "queued", `{"text":"queued"}`},
		{"empty json body", http.StatusOK, "application/json", "", `{"text":""}`},
		{"vendor json passes through", http.StatusCreated, "application/vnd.api+json", `{"a":1}`, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := mocks.NewMockHTTPDoer().Respond(tt.status, tt.contentType, []byte(tt.body))
			svc := NewService(Config{URL: testURL}, doer, zap.NewNop())

			resp, err := svc.Forward(context.Background(), domain.WebhookPayload{Body: map[string]interface{}{}})
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.ContentType)
			assert.JSONEq(t, tt.want, string(resp.Body))
		})
	}
}

func TestForward_MissingURL(t *testing.T) {
	doer := mocks.NewMockHTTPDoer()
	svc := NewService(Config{}, doer, zap.NewNop())

	_, err := svc.Forward(context.Background(), domain.WebhookPayload{Body: map[string]interface{}{"msg": "hi"}})

	re, ok := domain.AsRelayError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindConfig, re.Kind)
	assert.Equal(t, http.StatusInternalServerError, re.Status)
	assert.Equal(t, 0, doer.Calls())
}

func TestForward_UpstreamError(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Respond(http.StatusServiceUnavailable, "text/plain", []byte("workflow offline"))
	svc := NewService(Config{URL: testURL}, doer, zap.NewNop())

	_, err := svc.Forward(context.Background(), domain.WebhookPayload{Body: map[string]interface{}{}})

	re, ok := domain.AsRelayError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindUpstream, re.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, re.Status)
	assert.Equal(t, "workflow offline", re.Message)
}

func TestForward_TransportError(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Fail(errors.New("connection refused"))
	svc := NewService(Config{URL: testURL}, doer, zap.NewNop())

	_, err := svc.Forward(context.Background(), domain.WebhookPayload{Body: map[string]interface{}{}})

	re, ok := domain.AsRelayError(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindTransport, re.Kind)
	assert.Equal(t, http.StatusBadGateway, re.Status)
	assert.Equal(t, "connection refused", re.Detail)
}

func TestForward_DoesNotMutateInboundBody(t *testing.T) {
	doer := mocks.NewMockHTTPDoer().Respond(http.StatusOK, "application/json", []byte(`{}`))
	svc := NewService(Config{URL: testURL}, doer, zap.NewNop())

	body := map[string]interface{}{"msg": "hi"}
	_, err := svc.Forward(context.Background(), domain.WebhookPayload{Body: body})
	require.NoError(t, err)

	_, present := body["clientId"]
	assert.False(t, present)
}

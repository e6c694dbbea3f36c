package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/seu-repo/voice-relay/internal/domain"
	"github.com/seu-repo/voice-relay/pkg/config"
)

func decodeBody(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantDetail string
	}{
		{"config", domain.NewConfigError("missing key"), http.StatusInternalServerError, "missing key", ""},
		{"validation", domain.NewValidationError("text is required"), http.StatusBadRequest, "text is required", ""},
		{"upstream", domain.NewUpstreamError(http.StatusServiceUnavailable, []byte("busy")), http.StatusServiceUnavailable, "busy", ""},
		{"transport", domain.NewTransportError("webhook request failed", errors.New("EOF")), http.StatusBadGateway, "webhook request failed", "EOF"},
		{"fiber error", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method Not Allowed", ""},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "boom", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decodeBody(t, resp)
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, tt.wantDetail, body["detail"])
		})
	}
}

func TestErrorHandler_LogsServerFailuresWithKind(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
	app.Get("/config", func(c *fiber.Ctx) error { return domain.NewConfigError("missing key") })
	app.Get("/transport", func(c *fiber.Ctx) error {
		return domain.NewTransportError("webhook request failed", errors.New("EOF"))
	})
	app.Get("/validation", func(c *fiber.Ctx) error { return domain.NewValidationError("bad") })

	for _, path := range []string{"/config", "/transport", "/validation"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "config", entries[0].ContextMap()["kind"])
	assert.Equal(t, "transport", entries[1].ContextMap()["kind"])
	assert.EqualValues(t, http.StatusBadGateway, entries[1].ContextMap()["status"])
}

func TestSharedSecret(t *testing.T) {
	newApp := func(secret string) *fiber.App {
		app := fiber.New()
		app.Use(SharedSecret(secret))
		app.Post("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
		return app
	}

	t.Run("disabled", func(t *testing.T) {
		resp, err := newApp("").Test(httptest.NewRequest(http.MethodPost, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing header", func(t *testing.T) {
		resp, err := newApp("s3cret").Test(httptest.NewRequest(http.MethodPost, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(SharedSecretHeader, "nope")
		resp, err := newApp("s3cret").Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("matching secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(SharedSecretHeader, "s3cret")
		resp, err := newApp("s3cret").Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", string(body))
	})
}

func TestNewCORS_Preflight(t *testing.T) {
	app := fiber.New()
	app.Use(NewCORS(config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}}))
	app.Post("/api/speak", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/speak", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "X-Client-Id")
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "caller-id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-id", resp.Header.Get(fiber.HeaderXRequestID))
}

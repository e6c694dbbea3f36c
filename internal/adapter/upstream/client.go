package upstream

import (
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/observability/telemetry"
)

const DefaultTimeout = 60 * time.Second

// Client is the production outbound transport shared by all relays.
// It does not retry: every failure goes straight back to the caller.
type Client struct {
	client *http.Client
	log    *zap.Logger
}

// NewClient wraps client, or builds one with the given timeout when client is nil.
func NewClient(client *http.Client, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{
			Timeout: timeout,
		}
	}
	return &Client{
		client: client,
		log:    log,
	}
}

// Do executes one upstream request with logging, metrics and a trace span.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	host := req.URL.Host

	ctx, span := telemetry.StartSpan(req.Context(), "upstream "+req.Method,
		attribute.String("http.method", req.Method),
		attribute.String("net.peer.name", host),
	)
	defer span.End()
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)

	telemetry.UpstreamLatency.WithLabelValues(host).Observe(elapsed.Seconds())

	if err != nil {
		telemetry.UpstreamRequestsTotal.WithLabelValues(host, "transport_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warn("Upstream request failed",
			zap.String("host", host),
			zap.String("path", req.URL.Path),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	telemetry.UpstreamRequestsTotal.WithLabelValues(host, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, resp.Status)
	}

	c.log.Debug("Upstream request completed",
		zap.String("host", host),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)

	return resp, nil
}

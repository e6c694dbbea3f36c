package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/voice-relay/internal/domain"
	"github.com/seu-repo/voice-relay/internal/observability/telemetry"
)

// sendUpstream writes a successful relay result to the caller.
func sendUpstream(c *fiber.Ctx, route string, resp *domain.UpstreamResponse) error {
	telemetry.RelayRequestsTotal.WithLabelValues(route, telemetry.OutcomeSuccess).Inc()
	telemetry.RelayedBytes.WithLabelValues(route, "out").Add(float64(len(resp.Body)))

	c.Set(fiber.HeaderContentType, resp.ContentType)
	if resp.ContentDisposition != "" {
		c.Set(fiber.HeaderContentDisposition, resp.ContentDisposition)
	}
	return c.Status(resp.StatusCode).Send(resp.Body)
}

// relayFailed records the failure and hands the error to the app ErrorHandler.
func relayFailed(route string, err error) error {
	telemetry.RelayRequestsTotal.WithLabelValues(route, telemetry.OutcomeError).Inc()
	return err
}

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Inbound side
	RelayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_relay_requests_total",
		Help: "Relay requests handled, by route and outcome",
	}, []string{"route", "outcome"})

	// Upstream side
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_relay_upstream_requests_total",
		Help: "Outbound upstream calls, by upstream host and status code",
	}, []string{"host", "status"})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voice_relay_upstream_latency_seconds",
		Help:    "Latency of outbound upstream calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"host"})

	RelayedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_relay_payload_bytes_total",
		Help: "Payload bytes moved through the relay",
	}, []string{"route", "direction"})
)

// Outcome labels for RelayRequestsTotal.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

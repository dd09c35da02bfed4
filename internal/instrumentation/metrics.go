package instrumentation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus collectors for the tool server.
type Metrics struct {
	ToolCalls      *prometheus.CounterVec
	ToolLatencyMs  *prometheus.HistogramVec
	UpstreamErrors *prometheus.CounterVec
	RPCRequests    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ToolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trendmcp_tool_calls_total",
			Help: "Tool invocations by tool and outcome",
		}, []string{"tool", "outcome"}),

		// Includes the upstream round trip.
		ToolLatencyMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trendmcp_tool_latency_ms",
			Help:    "Tool invocation latency in milliseconds",
			Buckets: []float64{5, 25, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}, []string{"tool"}),

		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trendmcp_upstream_errors_total",
			Help: "Failed upstream requests by endpoint and failure kind",
		}, []string{"endpoint", "kind"}),

		RPCRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trendmcp_rpc_requests_total",
			Help: "JSON-RPC requests by method",
		}, []string{"method"}),
	}
}

// RecordToolCall counts one invocation and observes its latency.
func (m *Metrics) RecordToolCall(tool, outcome string, latency time.Duration) {
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()
	m.ToolLatencyMs.WithLabelValues(tool).Observe(float64(latency.Milliseconds()))
}

// RecordUpstreamError increments the upstream failure counter.
func (m *Metrics) RecordUpstreamError(endpoint, kind string) {
	m.UpstreamErrors.WithLabelValues(endpoint, kind).Inc()
}

// RecordRPC counts a JSON-RPC request.
func (m *Metrics) RecordRPC(method string) {
	m.RPCRequests.WithLabelValues(method).Inc()
}

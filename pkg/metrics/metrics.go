package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Tool invocation metrics, served on /metrics in HTTP mode
var (
	ToolInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "k8stools_tool_invocations_total",
			Help: "Total number of tool invocations by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)

	ToolErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "k8stools_tool_errors_total",
			Help: "Total number of failed tool invocations by tool and error kind",
		},
		[]string{"tool", "kind"},
	)

	ToolInvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "k8stools_tool_invocation_duration_seconds",
			Help:    "Tool invocation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"tool"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "k8stools_http_requests_total",
			Help: "Total number of HTTP requests by path and status code",
		},
		[]string{"path", "code"},
	)
)

// RecordInvocation records the outcome of one tool call. kind is empty on success.
func RecordInvocation(tool, kind string, seconds float64) {
	outcome := OutcomeSuccess
	if kind != "" {
		outcome = OutcomeError
		ToolErrorsTotal.WithLabelValues(tool, kind).Inc()
	}
	ToolInvocationsTotal.WithLabelValues(tool, outcome).Inc()
	ToolInvocationDuration.WithLabelValues(tool).Observe(seconds)
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for auth flow metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// HTTPRequests counts handled HTTP requests.
// Use RegisterMetrics to register this with a Prometheus registry.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ecommerce_http_requests_total",
		Help: "Total number of HTTP requests handled",
	},
	[]string{"method", "route", "status"},
)

// HTTPDuration is the histogram for HTTP request latency.
var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "ecommerce_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// AuthFlows counts auth flow completions by flow and outcome.
var AuthFlows = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ecommerce_auth_flows_total",
		Help: "Total number of auth flow executions",
	},
	[]string{"flow", "outcome"},
)

// EmailsSent counts notification attempts by template and result.
var EmailsSent = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ecommerce_emails_sent_total",
		Help: "Total number of transactional emails attempted",
	},
	[]string{"template", "outcome"},
)

// RegisterMetrics registers the application metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(AuthFlows)
	reg.MustRegister(EmailsSent)
}

// RecordHTTPRequest records one completed request against its route template.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthFlow increments the auth flow counter.
func RecordAuthFlow(flow, outcome string) {
	AuthFlows.WithLabelValues(flow, outcome).Inc()
}

// RecordEmail increments the email counter.
func RecordEmail(template, outcome string) {
	EmailsSent.WithLabelValues(template, outcome).Inc()
}

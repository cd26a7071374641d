package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors for the advisor
type Metrics struct {
	registry *prometheus.Registry

	// CompletionCalls counts chat-completion calls by kind and outcome
	CompletionCalls *prometheus.CounterVec

	// SideRecordFailures counts best-effort persistence failures that were
	// swallowed after a successful completion. The primary result was still
	// returned to the caller; this counter is how the loss stays observable.
	SideRecordFailures *prometheus.CounterVec

	// SessionsCreated counts questionnaire submissions
	SessionsCreated prometheus.Counter

	// HelpRequests counts /getHelp calls
	HelpRequests prometheus.Counter
}

// New creates a Metrics instance with its own registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())

	m := &Metrics{
		registry: registry,
		CompletionCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_completion_calls_total",
			Help: "Chat completion calls by kind and outcome",
		}, []string{"kind", "outcome"}),
		SideRecordFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_side_record_failures_total",
			Help: "Best-effort persistence failures after a successful completion",
		}, []string{"kind"}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "advisor_sessions_created_total",
			Help: "Questionnaire submissions",
		}),
		HelpRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "advisor_help_requests_total",
			Help: "Help requests recorded",
		}),
	}

	registry.MustRegister(m.CompletionCalls, m.SideRecordFailures, m.SessionsCreated, m.HelpRequests)

	return m
}

// Handler returns a gin handler serving the prometheus exposition format
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

package metrics

import (
	"time"

	"docforge/studio/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CompletionMetrics tracks calls to the completion provider.
//
// Metrics:
//   - docforge_completion_requests_total: call count by op, status
//   - docforge_completion_duration_seconds: upstream latency by op
//   - docforge_completion_tokens_total: tokens reported by the provider, by op
type CompletionMetrics struct {
	requestsTotal *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	tokensTotal   *prometheus.CounterVec
}

// NewCompletionMetrics creates and registers completion metrics.
func NewCompletionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CompletionMetrics {
	cm := &CompletionMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "completion_requests_total",
				Help:      "Total number of completion calls",
			},
			[]string{"op", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "completion_duration_seconds",
				Help:      "Duration of completion calls in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"op"},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "completion_tokens_total",
				Help:      "Total tokens reported by the completion provider",
			},
			[]string{"op"},
		),
	}

	registry.MustRegister(cm.requestsTotal, cm.duration, cm.tokensTotal)

	return cm
}

// RecordCall records one completion call.
func (cm *CompletionMetrics) RecordCall(op, status string, duration time.Duration, tokens int) {
	cm.requestsTotal.WithLabelValues(op, status).Inc()
	cm.duration.WithLabelValues(op).Observe(duration.Seconds())

	if tokens > 0 {
		cm.tokensTotal.WithLabelValues(op).Add(float64(tokens))
	}
}

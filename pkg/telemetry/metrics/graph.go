package metrics

import (
	"docforge/studio/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GraphMetrics tracks graph persistence.
//
// Metrics:
//   - docforge_graph_saves_total: save attempts by status
//   - docforge_graph_revisions_pruned_total: revisions removed by retention
type GraphMetrics struct {
	savesTotal  *prometheus.CounterVec
	prunedTotal prometheus.Counter
}

// NewGraphMetrics creates and registers graph metrics.
func NewGraphMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GraphMetrics {
	gm := &GraphMetrics{
		savesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "graph_saves_total",
				Help:      "Total number of graph save attempts",
			},
			[]string{"status"},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "graph_revisions_pruned_total",
				Help:      "Total number of graph revisions removed by retention",
			},
		),
	}

	registry.MustRegister(gm.savesTotal, gm.prunedTotal)

	return gm
}

// RecordSave records one save attempt.
func (gm *GraphMetrics) RecordSave(status string) {
	gm.savesTotal.WithLabelValues(status).Inc()
}

// RecordPrune adds deleted to the pruned counter.
func (gm *GraphMetrics) RecordPrune(deleted int64) {
	if deleted > 0 {
		gm.prunedTotal.Add(float64(deleted))
	}
}

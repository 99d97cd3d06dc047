package metrics

import (
	"runtime"
	"strconv"
	"sync"
	"time"

	"docforge/studio/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// otherRoute replaces route labels once the cardinality limit is reached.
	otherRoute = "other"

	maxRouteLabels = 500
)

// Collector owns every Prometheus metric docforge exports, on a private
// registry that also carries the Go runtime and process collectors.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	buildInfo *prometheus.GaugeVec

	httpMetrics       *HTTPMetrics
	completionMetrics *CompletionMetrics
	graphMetrics      *GraphMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector. A nil registry gets a fresh one.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	router.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(maxRouteLabels),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "build_info",
			Help:      "Build information; the value is always 1",
		}, []string{"version", "commit", "goversion"}),
	}

	registry.MustRegister(
		c.buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}),
	)

	c.httpMetrics = NewHTTPMetrics(cfg, registry)
	c.completionMetrics = NewCompletionMetrics(cfg, registry)
	c.graphMetrics = NewGraphMetrics(cfg, registry)

	return c
}

// SetBuildInfo publishes the running version.
func (c *Collector) SetBuildInfo(version, commit string) {
	c.buildInfo.Reset()
	c.buildInfo.WithLabelValues(version, commit, runtime.Version()).Set(1)
}

// RecordHTTPRequest records one served HTTP request. route should be the
// matched route pattern, not the raw path.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	if route == "" || !c.cardinalityLimiter.Allow(method+" "+route) {
		route = otherRoute
	}

	c.httpMetrics.RecordRequest(method, route, strconv.Itoa(status), duration)
}

// RecordCompletion records one completion call.
//
// Parameters:
//   - op: "generate" or "ping"
//   - status: "success" or "error"
//   - duration: wall time of the upstream call
//   - tokens: total tokens reported by the provider (0 if unknown)
func (c *Collector) RecordCompletion(op, status string, duration time.Duration, tokens int) {
	if !c.config.Enabled {
		return
	}

	c.completionMetrics.RecordCall(op, status, duration, tokens)
}

// RecordGraphSave records a graph save attempt.
func (c *Collector) RecordGraphSave(status string) {
	if !c.config.Enabled {
		return
	}

	c.graphMetrics.RecordSave(status)
}

// RecordGraphPrune records revisions removed by a retention run.
func (c *Collector) RecordGraphPrune(deleted int64) {
	if !c.config.Enabled {
		return
	}

	c.graphMetrics.RecordPrune(deleted)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter caps the number of distinct label sets a metric may
// accumulate. Label sets already seen are always allowed.
type CardinalityLimiter struct {
	mu    sync.Mutex
	max   int
	known map[string]struct{}
}

// NewCardinalityLimiter creates a limiter allowing maxCardinality label sets.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{max: maxCardinality, known: make(map[string]struct{})}
}

// Allow reports whether labelSet may be recorded, admitting it if there
// is room.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, ok := cl.known[labelSet]; ok {
		return true
	}
	if len(cl.known) >= cl.max {
		return false
	}
	cl.known[labelSet] = struct{}{}
	return true
}

// Count returns the number of admitted label sets.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.known)
}

// Package metrics provides Prometheus metrics collection for docforge.
//
// # Metrics Categories
//
//   - HTTP: request count and latency by method, route and status
//   - Completion: call count, latency and tokens by operation
//   - Graph: save attempts and pruned revisions
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	collector.RecordCompletion("generate", "success", 1200*time.Millisecond, 450)
//	collector.RecordGraphSave("success")
//
//	router.Handle("/metrics", collector.Handler())
//
// Every metric is registered on the collector's own registry. When metrics
// are disabled the Record methods return immediately.
//
// Route labels are capped by a CardinalityLimiter; label sets beyond the
// cap are folded into "other".
package metrics

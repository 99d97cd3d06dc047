// Package health implements the liveness and readiness probes.
//
// Liveness (/health) only reports that the process is up. Readiness
// (/ready) runs every registered check concurrently, each bounded by the
// checker's timeout, and answers 503 when any of them fails.
//
//	checker := health.New(2*time.Second, version)
//	checker.RegisterCheck("graph_storage", backend.Ping)
//	r.Get("/health", checker.LivenessHandler())
//	r.Get("/ready", checker.ReadinessHandler())
package health

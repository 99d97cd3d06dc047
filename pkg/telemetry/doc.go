// Package telemetry groups docforge's observability packages.
//
//   - logging: slog construction with secret redaction and request IDs
//   - metrics: Prometheus collectors on a private registry
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//   - health: liveness and readiness probes
//
// Each subpackage is configured from config.TelemetryConfig and injected
// into the components that need it; none of them keeps global state
// beyond what OpenTelemetry requires.
package telemetry

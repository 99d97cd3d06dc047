// Package tracing provides OpenTelemetry tracing for docforge.
//
// When telemetry.tracing.enabled is set, spans are exported to an OTLP
// gRPC collector and W3C Trace Context headers are honoured on incoming
// requests. Otherwise every Start call returns a noop span.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "completion.generate")
//	defer span.End()
//
// Sampling is parent-based around a trace-ID ratio taken from
// telemetry.tracing.sample_ratio.
package tracing

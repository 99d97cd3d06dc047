package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"docforge/studio/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracer(t *testing.T) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := NewWithExporter(&config.TracingConfig{
		Enabled:     true,
		ServiceName: "docforge-test",
		SampleRatio: 1,
	}, "test", exporter)
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		if _, err := New(nil, "test"); err == nil {
			t.Error("Expected error for nil config")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		tracer, err := New(&config.TracingConfig{Enabled: false}, "test")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if tracer.Enabled() {
			t.Error("Expected disabled tracer")
		}

		ctx, span := tracer.Start(context.Background(), "noop")
		span.End()
		if TraceID(ctx) != "" {
			t.Error("Expected no trace ID from a noop span")
		}
		if err := tracer.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown returned error: %v", err)
		}
	})
}

func TestTracer_RecordsSpans(t *testing.T) {
	tracer, exporter := newTestTracer(t)

	ctx, span := tracer.Start(context.Background(), "completion.generate")
	if TraceID(ctx) == "" {
		t.Error("Expected a trace ID inside a recording span")
	}
	SetError(span, errors.New("boom"))
	span.End()

	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush failed: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "completion.generate" {
		t.Errorf("Unexpected span name %q", spans[0].Name)
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("Expected error status, got %v", spans[0].Status.Code)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{0, sdktrace.ParentBased(sdktrace.NeverSample()).Description()},
		{0.25, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}

	for _, tt := range tests {
		if got := samplerFor(tt.ratio).Description(); got != tt.want {
			t.Errorf("samplerFor(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	tracer, exporter := newTestTracer(t)

	var sawTrace bool
	handler := Middleware(tracer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawTrace = TraceID(r.Context()) != ""
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graph", nil))

	if !sawTrace {
		t.Error("Expected handler context to carry a trace")
	}
	if rec.Header().Get("X-Trace-ID") == "" {
		t.Error("Expected X-Trace-ID header")
	}

	_ = tracer.ForceFlush(context.Background())
	if got := len(exporter.GetSpans()); got != 1 {
		t.Errorf("Expected 1 server span, got %d", got)
	}
}

func TestMiddleware_Disabled(t *testing.T) {
	handler := Middleware(Noop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Trace-ID") != "" {
		t.Error("Expected no trace header when tracing is disabled")
	}
}

func TestInjectExtract(t *testing.T) {
	tracer, _ := newTestTracer(t)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator()) })

	ctx, span := tracer.Start(context.Background(), "outbound")
	defer span.End()

	headers := http.Header{}
	Inject(ctx, headers)
	if headers.Get("traceparent") == "" {
		t.Fatal("Expected traceparent header")
	}

	remote := Extract(context.Background(), headers)
	if got := trace.SpanContextFromContext(remote).TraceID().String(); got != TraceID(ctx) {
		t.Errorf("Expected extracted trace %s, got %s", TraceID(ctx), got)
	}
}

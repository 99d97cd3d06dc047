package graph

import (
	"context"
	"fmt"
	"log/slog"

	"docforge/studio/pkg/telemetry/tracing"
)

// Backend stores and retrieves the editor graph.
type Backend interface {
	// Load returns the current graph.
	Load(ctx context.Context) (Graph, error)

	// Store replaces the current graph.
	Store(ctx context.Context, g Graph) error

	// Name identifies the backend in logs and spans.
	Name() string

	Close() error
}

// Metrics receives one observation per save.
type Metrics interface {
	RecordGraphSave(status string)
}

// Service is the graph-data provider used by the API.
type Service struct {
	backend Backend
	logger  *slog.Logger
	metrics Metrics
	tracer  *tracing.Tracer
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMetrics records save outcomes.
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithTracer wraps saves in a span.
func WithTracer(t *tracing.Tracer) ServiceOption {
	return func(s *Service) { s.tracer = t }
}

// NewService creates a Service on top of backend.
func NewService(backend Backend, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		backend: backend,
		logger:  logger.With("component", "graph"),
		tracer:  tracing.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Service) Backend() Backend {
	return s.backend
}

// Load returns the stored graph.
func (s *Service) Load(ctx context.Context) (Graph, error) {
	g, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "error loading graph", "backend", s.backend.Name(), "error", err)
		return Graph{}, &PersistenceError{Op: "load", Cause: err}
	}
	g.Normalize()
	return g, nil
}

// Save records the node and connection counts, then hands g to the
// backend.
func (s *Service) Save(ctx context.Context, g Graph) error {
	g.Normalize()

	ctx, span := s.tracer.Start(ctx, "graph.save")
	defer span.End()
	span.SetAttributes(tracing.GraphAttributes(s.backend.Name(), len(g.Nodes), len(g.Connections))...)

	s.logger.InfoContext(ctx, fmt.Sprintf("Saving %d nodes and %d connections", len(g.Nodes), len(g.Connections)),
		"nodes", len(g.Nodes),
		"connections", len(g.Connections),
		"backend", s.backend.Name(),
	)

	if err := s.backend.Store(ctx, g); err != nil {
		s.recordSave("error")
		tracing.SetError(span, err)
		s.logger.ErrorContext(ctx, "error saving graph", "backend", s.backend.Name(), "error", err)
		return &PersistenceError{Op: "store", Cause: err}
	}

	s.recordSave("success")
	tracing.SetError(span, nil)
	return nil
}

func (s *Service) recordSave(status string) {
	if s.metrics != nil {
		s.metrics.RecordGraphSave(status)
	}
}

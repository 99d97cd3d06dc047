package storage

import (
	"context"
	"log/slog"

	"docforge/studio/pkg/graph"
)

// LogBackend persists nothing. Load always returns the default graph and
// Store only emits a debug record. It is the default backend, matching an
// editor that logs saves without keeping them.
type LogBackend struct {
	logger *slog.Logger
}

// NewLogBackend returns a LogBackend.
func NewLogBackend(logger *slog.Logger) *LogBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogBackend{logger: logger.With("backend", BackendLog)}
}

func (b *LogBackend) Load(ctx context.Context) (graph.Graph, error) {
	return graph.Default(), nil
}

func (b *LogBackend) Store(ctx context.Context, g graph.Graph) error {
	b.logger.DebugContext(ctx, "graph not persisted")
	return nil
}

func (b *LogBackend) Name() string { return BackendLog }

func (b *LogBackend) Close() error { return nil }

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docforge/studio/pkg/config"
	"docforge/studio/pkg/graph"
)

// Backend is the persistence contract consumed by graph.Service.
type Backend = graph.Backend

// Pruner is implemented by backends that keep a revision history.
type Pruner interface {
	// Prune deletes all but the newest keep revisions and returns how many
	// rows were removed.
	Prune(ctx context.Context, keep int) (int64, error)
}

// Pinger is implemented by backends with a connection worth probing for
// readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Revision describes one stored save.
type Revision struct {
	ID              string    `json:"id"`
	SavedAt         time.Time `json:"saved_at"`
	NodeCount       int       `json:"nodes"`
	ConnectionCount int       `json:"connections"`
}

// Open creates the backend selected by cfg.Backend.
func Open(cfg config.GraphConfig, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case "", BackendLog:
		return NewLogBackend(logger), nil
	case BackendMemory:
		return NewMemoryBackend(), nil
	case BackendSQLite:
		return NewSQLiteBackend(cfg.SQLite, logger)
	default:
		return nil, fmt.Errorf("unknown graph backend %q", cfg.Backend)
	}
}

// Backend names.
const (
	BackendLog    = "log"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// StorageError represents a failure inside a backend.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

func newStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

package storage

import (
	"context"
	"sync"

	"docforge/studio/pkg/graph"
)

// MemoryBackend keeps the last saved graph in process memory. It starts
// with the default graph. Graphs are copied on the way in and out so
// callers never share state with the backend.
type MemoryBackend struct {
	mu      sync.RWMutex
	current graph.Graph
	saves   int
}

// NewMemoryBackend returns a MemoryBackend seeded with graph.Default.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{current: graph.Default()}
}

func (b *MemoryBackend) Load(ctx context.Context) (graph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return graph.Graph{}, newStorageError(BackendMemory, "load", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current.Clone(), nil
}

func (b *MemoryBackend) Store(ctx context.Context, g graph.Graph) error {
	if err := ctx.Err(); err != nil {
		return newStorageError(BackendMemory, "store", err)
	}

	cp := g.Clone()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = cp
	b.saves++
	return nil
}

// Saves returns how many graphs have been stored.
func (b *MemoryBackend) Saves() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.saves
}

func (b *MemoryBackend) Name() string { return BackendMemory }

func (b *MemoryBackend) Close() error { return nil }

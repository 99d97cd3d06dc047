package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"docforge/studio/pkg/config"
	"docforge/studio/pkg/graph/storage"

	"github.com/robfig/cron/v3"
)

// Metrics receives the number of revisions removed by each run.
type Metrics interface {
	RecordGraphPrune(deleted int64)
}

// Scheduler prunes old graph revisions on a cron schedule.
type Scheduler struct {
	pruner   storage.Pruner
	schedule string
	keep     int
	metrics  Metrics

	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a scheduler for pruner. metrics may be nil.
func NewScheduler(pruner storage.Pruner, cfg config.RetentionConfig, metrics Metrics, logger *slog.Logger) (*Scheduler, error) {
	if pruner == nil {
		return nil, errors.New("pruner is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	keep := cfg.Keep
	if keep == 0 {
		keep = config.DefaultRetentionKeep
	}
	if keep < 1 {
		return nil, fmt.Errorf("keep must be at least 1, got %d", keep)
	}

	return &Scheduler{
		pruner:   pruner,
		schedule: cfg.Schedule,
		keep:     keep,
		metrics:  metrics,
		cron:     cron.New(),
		logger:   logger.With("component", "graph.retention"),
	}, nil
}

// Start schedules pruning. An empty schedule leaves the scheduler idle.
// The scheduler stops itself when ctx is canceled.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		_, _ = s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", s.schedule,
		"keep", s.keep,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunOnce executes a single pruning cycle.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	s.logger.Debug("starting graph revision pruning", "keep", s.keep)

	deleted, err := s.pruner.Prune(ctx, s.keep)
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.RecordGraphPrune(deleted)
	}

	if deleted > 0 {
		s.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	} else {
		s.logger.Debug("scheduled pruning completed, no revisions deleted")
	}
	return deleted, nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled pruning time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

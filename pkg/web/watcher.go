package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is the quiet period before a reload fires.
const DefaultDebounceInterval = 100 * time.Millisecond

// Watcher re-parses templates when files under dir change. It is only
// used when assets are served from disk in debug mode.
type Watcher struct {
	dir      string
	renderer *Renderer
	watcher  *fsnotify.Watcher
	debounce *Debouncer
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// ErrWatcherStopped is returned by Watch once Stop has been called.
var ErrWatcherStopped = errors.New("watcher stopped")

// NewWatcher watches dir (normally <web.dir>/templates) and reloads
// renderer on change.
func NewWatcher(dir string, renderer *Renderer, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	return &Watcher{
		dir:      dir,
		renderer: renderer,
		watcher:  fw,
		debounce: NewDebouncer(interval),
		logger:   logger.With("component", "web.watcher"),
		stopCh:   make(chan struct{}),
	}, nil
}

// Watch processes events until ctx is canceled or Stop is called.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	switch {
	case w.stopped:
		w.mu.Unlock()
		return ErrWatcherStopped
	case w.running:
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	done := make(chan struct{})
	w.running, w.doneCh = true, done
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(done)
	}()

	w.logger.Info("template watcher started", "path", w.dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.stopCh:
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isTemplateEvent(event) {
				continue
			}

			w.logger.Debug("template event detected", "path", event.Name, "op", event.Op.String())

			w.debounce.Trigger(func() {
				if err := w.renderer.Reload(); err != nil {
					w.logger.Error("template reload failed", "error", err)
					return
				}
				w.logger.Info("templates reloaded", "path", event.Name)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("template watcher error", "error", err)
		}
	}
}

// Stop ends Watch and releases the fsnotify watcher. Later calls to Stop
// are no-ops and later calls to Watch return ErrWatcherStopped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	running, done := w.running, w.doneCh
	w.mu.Unlock()

	close(w.stopCh)
	if running {
		<-done
	}
	w.debounce.Stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

func isTemplateEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".html")
}

// Debouncer collects rapid events and runs the last callback once the
// interval passes without a new trigger.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopped  bool
}

// NewDebouncer creates a Debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback, replacing any pending one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	cb := d.callback
	stopped := d.stopped
	d.mu.Unlock()

	if cb != nil && !stopped {
		cb()
	}
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}

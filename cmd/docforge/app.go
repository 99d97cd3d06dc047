package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"docforge/studio/pkg/api"
	"docforge/studio/pkg/completion"
	"docforge/studio/pkg/config"
	"docforge/studio/pkg/graph"
	"docforge/studio/pkg/graph/retention"
	"docforge/studio/pkg/graph/storage"
	"docforge/studio/pkg/prompt"
	"docforge/studio/pkg/providers"
	"docforge/studio/pkg/providers/openai"
	"docforge/studio/pkg/server"
	"docforge/studio/pkg/telemetry/health"
	"docforge/studio/pkg/telemetry/logging"
	"docforge/studio/pkg/telemetry/metrics"
	"docforge/studio/pkg/telemetry/tracing"
	"docforge/studio/pkg/web"
)

// storageCheck is the readiness check name for the graph backend.
const storageCheck = "graph_storage"

// App is the assembled docforge process: every component built from one
// configuration, plus the background workers that run beside the server.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Handler http.Handler

	backend   storage.Backend
	provider  *openai.Provider
	tracer    *tracing.Tracer
	scheduler *retention.Scheduler
	watcher   *web.Watcher

	wg sync.WaitGroup
}

// newApp wires every component. Logs go to logOutput (stdout when nil).
// On error, anything already opened is closed.
func newApp(cfg *config.Config, logOutput io.Writer) (_ *App, err error) {
	logger, err := logging.New(logging.Config{
		Level:         cfg.Telemetry.Logging.Level,
		Format:        cfg.Telemetry.Logging.Format,
		AddSource:     cfg.Telemetry.Logging.AddSource,
		RedactSecrets: cfg.Telemetry.Logging.RedactSecrets,
		Writer:        logOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			if cerr := a.Close(context.Background()); cerr != nil {
				logger.Error("failed to release partially built app", "error", cerr)
			}
		}
	}()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	collector.SetBuildInfo(Version, GitCommit)

	a.tracer, err = tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	a.provider, err = openai.NewProvider(providers.ProviderConfig{
		Name:    "openai",
		Type:    "openai",
		BaseURL: cfg.OpenAI.BaseURL,
		APIKey:  cfg.OpenAI.APIKey,
		Timeout: cfg.OpenAI.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion provider: %w", err)
	}

	client, err := completion.New(a.provider, completion.Options{
		Model:       cfg.OpenAI.Model,
		Timeout:     cfg.OpenAI.Timeout,
		Temperature: cfg.OpenAI.Temperature,
		Logger:      logger,
		Metrics:     collector,
		Tracer:      a.tracer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	profile, err := prompt.ProfileFromConfig(cfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt profile: %w", err)
	}
	builder, err := prompt.NewBuilder(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt builder: %w", err)
	}

	a.backend, err = storage.Open(cfg.Graph, logger)
	if err != nil {
		return nil, err
	}
	service := graph.NewService(a.backend, logger,
		graph.WithMetrics(collector),
		graph.WithTracer(a.tracer),
	)

	if pruner, ok := a.backend.(storage.Pruner); ok && cfg.Graph.Retention.Schedule != "" {
		a.scheduler, err = retention.NewScheduler(pruner, cfg.Graph.Retention, collector, logger)
		if err != nil {
			return nil, err
		}
	}

	assets := web.Embedded()
	if cfg.Web.Dir != "" {
		if assets, err = web.Assets(cfg.Web.Dir); err != nil {
			return nil, err
		}
	}
	renderer, err := web.NewRenderer(assets, web.PageData{Title: cfg.Web.Title, Debug: cfg.Server.Debug})
	if err != nil {
		return nil, err
	}
	static, err := web.StaticHandler(assets)
	if err != nil {
		return nil, err
	}
	if cfg.Web.Dir != "" && cfg.Server.Debug {
		a.watcher, err = web.NewWatcher(filepath.Join(cfg.Web.Dir, "templates"), renderer, 0, logger)
		if err != nil {
			return nil, err
		}
	}

	checker := health.New(0, Version)
	if pinger, ok := a.backend.(storage.Pinger); ok {
		checker.RegisterCheck(storageCheck, pinger.Ping)
	}

	deps := api.Dependencies{
		Completion:   client,
		Prompt:       builder,
		Graph:        service,
		Page:         renderer,
		Static:       static,
		Health:       checker.LivenessHandler(),
		Ready:        checker.ReadinessHandler(),
		MaxBodyBytes: cfg.Server.MaxContentLength,
		Logger:       logger,
	}
	if lister, ok := a.backend.(api.RevisionLister); ok {
		deps.Revisions = lister
	}
	if cfg.Telemetry.Metrics.Enabled {
		deps.Metrics = collector.Handler()
		deps.MetricsPath = cfg.Telemetry.Metrics.Path
	}

	a.Handler, err = api.NewRouter(deps, server.Chain(server.ChainOptions{
		Logger:      logger,
		Metrics:     collector,
		Tracer:      a.tracer,
		CORSOrigins: cfg.Server.CORSOrigins,
	})...)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// Start launches the background workers. They stop when ctx is canceled
// or Close is called.
func (a *App) Start(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return err
		}
	}

	if a.watcher != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.watcher.Watch(ctx); err != nil && !errors.Is(err, web.ErrWatcherStopped) {
				a.Logger.Error("template watcher stopped", "error", err)
			}
		}()
	}

	return nil
}

// Close stops the workers and releases the backend, provider and tracer.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error

	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			errs = append(errs, err)
		}
		a.wg.Wait()
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close graph backend: %w", err))
		}
	}
	if a.provider != nil {
		if err := a.provider.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down tracer: %w", err))
		}
	}

	return errors.Join(errs...)
}

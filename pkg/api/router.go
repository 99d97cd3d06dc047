package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Dependencies wires the router. Static, Health, Ready and Metrics are
// optional; their routes are only mounted when set.
type Dependencies struct {
	Completion Completer
	Prompt     PromptBuilder
	Graph      GraphService
	Revisions  RevisionLister
	Page       Page

	Static  http.Handler
	Health  http.Handler
	Ready   http.Handler
	Metrics http.Handler

	MetricsPath  string
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// NewRouter builds the chi router. middleware is installed with Use so it
// runs inside chi's routing context and can read the matched pattern.
func NewRouter(deps Dependencies, middleware ...func(http.Handler) http.Handler) (http.Handler, error) {
	if deps.Completion == nil || deps.Prompt == nil || deps.Graph == nil || deps.Page == nil {
		return nil, errors.New("api: completion, prompt, graph and page are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handlers{
		completion: deps.Completion,
		prompt:     deps.Prompt,
		graph:      deps.Graph,
		revisions:  deps.Revisions,
		page:       deps.Page,
		decoder:    NewDecoder(deps.MaxBodyBytes),
	}
	handle := func(fn HandlerFunc) http.Handler { return Handle(logger, fn) }

	r := chi.NewRouter()
	r.Use(middleware...)

	r.Method(http.MethodGet, "/", handle(h.Index))
	if deps.Static != nil {
		r.Method(http.MethodGet, "/static/*", deps.Static)
	}

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/test-completion", handle(h.TestCompletion))
		r.Method(http.MethodGet, "/test-openai", handle(h.TestCompletion))
		r.Method(http.MethodPost, "/generate-template", handle(h.GenerateTemplate))

		for _, path := range []string{"/graph", "/nodes"} {
			r.Method(http.MethodGet, path, handle(h.GetGraph))
			r.Method(http.MethodPost, path, handle(h.SaveGraph))
		}
		r.Method(http.MethodGet, "/graph/revisions", handle(h.ListRevisions))
	})

	if deps.Health != nil {
		r.Method(http.MethodGet, "/health", deps.Health)
		r.Method(http.MethodHead, "/health", deps.Health)
	}
	if deps.Ready != nil {
		r.Method(http.MethodGet, "/ready", deps.Ready)
		r.Method(http.MethodHead, "/ready", deps.Ready)
	}
	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, deps.Metrics)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r, nil
}

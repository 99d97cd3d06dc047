package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"docforge/studio/pkg/completion"
	"docforge/studio/pkg/graph"
)

// Messages returned for server-side failures.
const (
	MessageSaveFailed = "Failed to save graph"
	MessageUnexpected = "An unexpected error occurred"
)

// HandlerFunc is an HTTP handler that reports failure by returning an
// error. Handle turns the error into the JSON envelope.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to http.Handler. It is the only place errors are
// translated into responses; panics in fn are answered the same way as an
// unexpected error.
func Handle(logger *slog.Logger, fn HandlerFunc) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic in handler",
					"error", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				_ = writeError(w, http.StatusInternalServerError, MessageUnexpected)
			}
		}()

		if err := fn(w, r); err != nil {
			translate(logger, w, r, err)
		}
	})
}

func translate(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var (
		validationErr  *ValidationError
		requestErr     *RequestError
		completionErr  *completion.CompletionError
		persistenceErr *graph.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		logger.WarnContext(ctx, "invalid request", "field", validationErr.Field, "error", validationErr.Message)
		_ = writeError(w, http.StatusBadRequest, validationErr.Message)

	case errors.As(err, &requestErr):
		logger.WarnContext(ctx, "request rejected", "status", requestErr.Status, "error", err)
		_ = writeError(w, requestErr.Status, requestErr.Message)

	case errors.As(err, &completionErr):
		// Already logged by the completion client.
		_ = writeError(w, http.StatusInternalServerError, completionErr.Error())

	case errors.As(err, &persistenceErr):
		// Already logged by the graph service.
		_ = writeError(w, http.StatusInternalServerError, MessageSaveFailed)

	default:
		logger.ErrorContext(ctx, "unexpected error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"stack", string(debug.Stack()),
		)
		_ = writeError(w, http.StatusInternalServerError, MessageUnexpected)
	}
}

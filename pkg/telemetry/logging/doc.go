// Package logging builds the structured slog logger shared by every
// docforge component.
//
// Output is JSON by default, text on request. When secret redaction is on,
// attributes named like credentials (api_key, authorization, token) are
// replaced and OpenAI-style keys are masked wherever they appear in string
// values or errors.
//
// Records logged with a context carry the request ID placed there by the
// server's request-ID middleware, and the trace_id of a sampled span:
//
//	ctx = logging.WithRequestID(ctx, id)
//	logger.InfoContext(ctx, "request completed")
package logging

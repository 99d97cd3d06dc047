// Package api implements the editor's HTTP API.
//
// Handlers return errors instead of writing failure responses. Handle is
// the single translation point from error to the {status, message}
// envelope:
//
//   - *ValidationError: 400 with the error message
//   - *RequestError: 400 for malformed JSON, 413 for oversize bodies
//   - *completion.CompletionError: 500 with the error message
//   - *graph.PersistenceError: 500 "Failed to save graph"
//   - anything else, including panics: 500 "An unexpected error occurred"
//
// Routes:
//
//	GET  /                          index document
//	GET  /static/*                  front-end assets
//	GET  /api/test-completion       completion connectivity check (alias /api/test-openai)
//	POST /api/generate-template     contract template generation
//	GET  /api/graph                 stored graph (alias /api/nodes)
//	POST /api/graph                 save graph (alias /api/nodes)
//	GET  /api/graph/revisions       revision history, sqlite backend only
//	GET  /health, /ready, /metrics  probes and Prometheus scrape
package api

// Package server runs the docforge HTTP server.
//
// Server binds with net.Listen before serving, so an unusable address is
// reported by Listen (or Start) instead of from a background goroutine.
// Shutdown is idempotent and bounded by server.shutdown_timeout.
//
// # Middleware Chain
//
// Chain returns, outermost first:
//  1. Recovery: answers escaped panics with a 500 envelope
//  2. RequestID: X-Request-ID in and out, attached to log records
//  3. Tracing: server span per request when tracing is enabled
//  4. Logging: "request completed" with status-derived level
//  5. Metrics: http_requests_total and http_request_duration_seconds
//  6. CORS: github.com/go-chi/cors with server.cors_origins
package server

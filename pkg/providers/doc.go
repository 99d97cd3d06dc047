// Package providers implements the transport layer for chat-completion APIs.
//
// # Overview
//
// The package defines a provider-agnostic request/response model, the
// Provider interface, one upstream error type, and HTTPProvider, a base type
// that concrete adapters (see the openai sub-package) embed.
//
// # Error Handling
//
// Every upstream failure is an *UpstreamError whose Kind selects the
// sentinel it matches with errors.Is:
//
//   - ErrAuth: the API key was rejected (401/403)
//   - ErrRateLimit: quota or rate limit exceeded (429)
//   - ErrTimeout: the request exceeded its deadline
//   - ErrStatus: any other non-2xx status
//   - ErrTransport: the request never got a response
//   - ErrMalformed: the response could not be decoded
//
// Requests rejected before sending are *ValidationError.
//
// HTTPProvider makes exactly one attempt per call. Retrying is left to
// callers; docforge does not retry completions.
package providers

package providers

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an upstream failure.
type Kind string

const (
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindTimeout   Kind = "timeout"
	KindStatus    Kind = "status"
	KindTransport Kind = "transport"
	KindMalformed Kind = "malformed"
)

// Sentinels matched by UpstreamError.Is, one per Kind.
var (
	ErrAuth      = errors.New("authentication failed")
	ErrRateLimit = errors.New("rate limit exceeded")
	ErrTimeout   = errors.New("request timeout")
	ErrStatus    = errors.New("unexpected status")
	ErrTransport = errors.New("request failed")
	ErrMalformed = errors.New("malformed response")
)

var kindSentinels = map[Kind]error{
	KindAuth:      ErrAuth,
	KindRateLimit: ErrRateLimit,
	KindTimeout:   ErrTimeout,
	KindStatus:    ErrStatus,
	KindTransport: ErrTransport,
	KindMalformed: ErrMalformed,
}

// UpstreamError is returned for every failed call to a provider, whether
// the request never completed or the provider answered with an error.
//
//	if errors.Is(err, providers.ErrTimeout) { ... }
type UpstreamError struct {
	Provider string
	Kind     Kind

	// StatusCode is the HTTP status, 0 when no response was received
	StatusCode int

	// RetryAfter is set for KindRateLimit when the provider sent one
	RetryAfter time.Duration

	// Timeout is the configured limit for KindTimeout
	Timeout time.Duration

	// Message is the provider's error message, if any
	Message string

	Cause error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	prefix := fmt.Sprintf("provider %q", e.Provider)

	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("%s request timeout after %s", prefix, e.Timeout)
	case KindRateLimit:
		if e.RetryAfter > 0 {
			return fmt.Sprintf("%s rate limit exceeded (retry after %s): %s", prefix, e.RetryAfter, e.Message)
		}
		return fmt.Sprintf("%s rate limit exceeded: %s", prefix, e.Message)
	case KindAuth:
		return fmt.Sprintf("%s authentication failed: %s", prefix, e.Message)
	case KindStatus:
		return fmt.Sprintf("%s error (status %d): %s", prefix, e.StatusCode, e.Message)
	case KindMalformed:
		return fmt.Sprintf("%s malformed response: %v", prefix, e.Cause)
	default:
		return fmt.Sprintf("%s request failed: %v", prefix, e.Cause)
	}
}

// Unwrap returns the transport or decoding error, if any.
func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for e.Kind.
func (e *UpstreamError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// ValidationError represents a request rejected before it was sent.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid completion request: %s %s", e.Field, e.Message)
}

// ConfigError represents an invalid provider configuration.
type ConfigError struct {
	Provider string
	Field    string
	Message  string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q misconfigured: %s: %s", e.Provider, e.Field, e.Message)
}

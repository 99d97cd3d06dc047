package completion

import "fmt"

// CompletionError is returned for every failed completion call: transport,
// authentication, rate limit, timeout or malformed response. Message is
// safe to show to API callers.
type CompletionError struct {
	// Op is the operation that failed ("generate" or "ping")
	Op string

	// Message is the caller-facing description, prefixed by operation
	Message string

	// Cause is the underlying provider error
	Cause error
}

// Error implements the error interface.
func (e *CompletionError) Error() string {
	return e.Message
}

// Unwrap returns the provider error.
func (e *CompletionError) Unwrap() error {
	return e.Cause
}

func newCompletionError(op string, cause error) *CompletionError {
	prefix := "Completion check failed"
	if op == OpGenerate {
		prefix = "Failed to generate template"
	}
	return &CompletionError{
		Op:      op,
		Message: fmt.Sprintf("%s: %v", prefix, cause),
		Cause:   cause,
	}
}

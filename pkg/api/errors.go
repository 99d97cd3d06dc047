package api

import (
	"fmt"
	"net/http"
)

// ValidationError reports a missing required request parameter. It is a
// client fault and maps to 400.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// missingParameter builds the error for an absent top-level key.
func missingParameter(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Missing required %s parameter", field),
	}
}

// RequestError reports a body that could not be read or parsed.
type RequestError struct {
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

func malformedBody(cause error) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: "Invalid JSON body", Cause: cause}
}

func bodyTooLarge(limit int64, cause error) *RequestError {
	return &RequestError{
		Status:  http.StatusRequestEntityTooLarge,
		Message: fmt.Sprintf("Request body exceeds maximum size of %d bytes", limit),
		Cause:   cause,
	}
}

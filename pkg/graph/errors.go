package graph

import "fmt"

// PersistenceError wraps a storage failure. Its text is for logs only;
// API callers see a generic message.
type PersistenceError struct {
	// Op is "load" or "store".
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("graph %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the storage error.
func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

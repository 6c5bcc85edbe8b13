package llm

import (
	"errors"
	"fmt"
)

// ErrUnavailable is matched (via errors.Is) by every failed provider call:
// network errors, quota errors, timeouts and empty responses.
var ErrUnavailable = errors.New("model unavailable")

// APIError represents a failed call to an LLM provider
type APIError struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s API call failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s API call failed: %s", e.Provider, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrUnavailable.
func (e *APIError) Is(target error) bool {
	return target == ErrUnavailable
}

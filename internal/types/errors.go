package types

import (
	"errors"
	"fmt"
)

// Failure kinds shared by the feedback and interview pipelines. Match them with errors.Is.
var (
	// ErrModelUnavailable: the generation call failed (network, quota, timeout)
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInvalidModelOutput: the model answered but the text does not have the expected structure
	ErrInvalidModelOutput = errors.New("invalid model output")
	// ErrStoreUnavailable: a backing store read or write failed
	ErrStoreUnavailable = errors.New("store unavailable")
)

// StageError records the pipeline stage that failed, the failure kind and the underlying cause.
type StageError struct {
	Stage string
	Kind  error
	Cause error
}

func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *StageError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// ModelFailure wraps a model gateway error.
func ModelFailure(stage string, cause error) error {
	return &StageError{Stage: stage, Kind: ErrModelUnavailable, Cause: cause}
}

// OutputFailure wraps a structured-output parsing failure.
func OutputFailure(stage string, cause error) error {
	return &StageError{Stage: stage, Kind: ErrInvalidModelOutput, Cause: cause}
}

// StoreFailure wraps a store error.
func StoreFailure(stage string, cause error) error {
	return &StageError{Stage: stage, Kind: ErrStoreUnavailable, Cause: cause}
}

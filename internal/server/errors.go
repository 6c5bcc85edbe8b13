package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/interview-coach/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var fieldErrs validator.ValidationErrors
	var notFound *ErrNotFound

	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, types.ErrModelUnavailable), errors.Is(err, types.ErrInvalidModelOutput):
		return http.StatusBadGateway
	case errors.Is(err, types.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message shown to callers for an error. Causes of upstream
// failures stay in the logs.
func PublicMessage(err error) string {
	switch HTTPStatus(err) {
	case http.StatusBadRequest, http.StatusNotFound:
		return err.Error()
	case http.StatusGatewayTimeout:
		return "upstream timed out"
	case http.StatusBadGateway:
		return "model unavailable"
	case http.StatusServiceUnavailable:
		return "store unavailable"
	default:
		return "internal error"
	}
}

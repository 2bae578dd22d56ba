package service

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput is returned for configuration errors: malformed
	// requests, unsupported model names, a corpus without a collection name.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource does not exist,
	// as distinct from being misconfigured.
	ErrNotFound = errors.New("not found")
	// ErrExternalService is returned when an embedding, completion, or
	// vector store call fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// HTTPStatus maps an error to the HTTP status code handlers should respond
// with. Unclassified errors map to 500.
func HTTPStatus(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

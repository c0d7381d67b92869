package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors marking the failure categories of the indexing and search
// pipeline. Callers distinguish them with errors.Is.
var (
	// ErrIntegrity marks a source-data contract violation (unsupported
	// identity type, duplicate option assignment, missing mandatory slug).
	// Never recoverable at the point of detection.
	ErrIntegrity = errors.New("data integrity violation")

	// ErrAssembly marks query fragment output that does not decode as
	// structured data. The assembler never salvages a partial query.
	ErrAssembly = errors.New("query assembly failed")

	// ErrExecution marks a search engine failure. Propagated verbatim and
	// never retried by the core.
	ErrExecution = errors.New("query execution failed")

	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrUnavailable  = errors.New("service unavailable")
)

// AppError is a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && !isSentinel(e.Err) {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func isSentinel(err error) bool {
	switch err {
	case ErrIntegrity, ErrAssembly, ErrExecution, ErrNotFound, ErrInvalidInput, ErrInternal, ErrUnavailable:
		return true
	}
	return false
}

// Integrity creates a fatal data-integrity error.
func Integrity(message string) *AppError {
	return &AppError{
		Code:    "INTEGRITY_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     ErrIntegrity,
	}
}

// Assembly creates a fatal query assembly error wrapping the decode failure.
func Assembly(fragment string, err error) *AppError {
	return &AppError{
		Code:    "ASSEMBLY_ERROR",
		Message: fmt.Sprintf("fragment %q did not produce a valid query", fragment),
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("%w: %w", ErrAssembly, err),
	}
}

// Execution creates a search-engine execution error wrapping the cause.
func Execution(err error) *AppError {
	return &AppError{
		Code:    "EXECUTION_ERROR",
		Message: "search engine request failed",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrExecution, err),
	}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %q not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap adds context to an error without changing its category.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrExecution), errors.Is(err, ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

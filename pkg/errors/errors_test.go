package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Sentinel error identity ---

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrIntegrity, ErrAssembly, ErrExecution, ErrNotFound,
		ErrInvalidInput, ErrInternal, ErrUnavailable,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	inner := fmt.Errorf("connection lost")
	appErr := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: inner}
	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.Contains(t, appErr.Error(), "something broke")
	assert.Contains(t, appErr.Error(), "connection lost")
}

func TestAppError_ErrorString_SentinelNotRepeated(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "taxon not found", Err: ErrNotFound}
	assert.Equal(t, "NOT_FOUND: taxon not found", appErr.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "nope", Err: ErrNotFound}
	assert.True(t, errors.Is(appErr, ErrNotFound))
}

// --- Constructor functions ---

func TestIntegrity(t *testing.T) {
	err := Integrity("slug not found for locale \"fr_FR\"")
	require.NotNil(t, err)
	assert.Equal(t, "INTEGRITY_ERROR", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, ErrIntegrity))
}

func TestAssembly(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")
	err := Assembly("search/query", cause)
	require.NotNil(t, err)
	assert.Equal(t, "ASSEMBLY_ERROR", err.Code)
	assert.Contains(t, err.Message, "search/query")
	assert.True(t, errors.Is(err, ErrAssembly))
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
}

func TestExecution(t *testing.T) {
	err := Execution(fmt.Errorf("connection refused"))
	require.NotNil(t, err)
	assert.Equal(t, "EXECUTION_ERROR", err.Code)
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.True(t, errors.Is(err, ErrExecution))
}

func TestNotFound(t *testing.T) {
	err := NotFound("taxon", "mugs")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Contains(t, err.Message, "taxon")
	assert.Contains(t, err.Message, "mugs")
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("code is required")
	require.NotNil(t, err)
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestWrap_PreservesCategory(t *testing.T) {
	err := Wrap(NotFound("product", "MUG"), "reindex channel WEB")
	assert.Contains(t, err.Error(), "reindex channel WEB")
	assert.True(t, errors.Is(err, ErrNotFound))
}

// --- HTTP status mapping ---

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", Execution(fmt.Errorf("down")), http.StatusBadGateway},
		{"wrapped not found", fmt.Errorf("browse: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped invalid input", fmt.Errorf("x: %w", ErrInvalidInput), http.StatusBadRequest},
		{"wrapped execution", fmt.Errorf("x: %w", ErrExecution), http.StatusBadGateway},
		{"unavailable", ErrUnavailable, http.StatusBadGateway},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

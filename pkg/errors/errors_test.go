package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{NewNotFoundError("invoice", "inv-1"), http.StatusNotFound, "NOT_FOUND"},
		{NewValidationError("quantity", "must be positive"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{NewUnauthorizedError("token expired"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{NewPermissionError("delete", "user"), http.StatusForbidden, "PERMISSION_DENIED"},
		{NewConflictError("user", "email", "a@b.com"), http.StatusConflict, "CONFLICT"},
		{NewPersistenceError("insert invoice", errors.New("duplicate key")), http.StatusInternalServerError, "PERSISTENCE_FAILED"},
		{NewUpstreamError("openai", errors.New("timeout")), http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, GetHTTPStatus(tt.err))
		assert.Equal(t, tt.code, GetErrorCode(tt.err))
	}
}

func TestWrappedErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPersistenceError("update stock", cause)

	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("stock adjustment: %w", err)
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(wrapped))
	assert.Equal(t, "PERSISTENCE_FAILED", GetErrorCode(wrapped))
}

func TestUnknownErrorFallsBackTo500(t *testing.T) {
	err := errors.New("something odd")
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(err))
	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(err))
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("contact", "c-1")))
	assert.False(t, IsNotFound(NewValidationError("", "bad")))
	assert.True(t, IsValidation(NewValidationError("", "bad")))
	assert.True(t, IsConflict(NewConflictError("user", "", "")))
	assert.True(t, IsUpstream(NewUpstreamError("llm", nil)))
}

package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diavgeia-watch/diavgeia/core/shared/errors"
)

func TestNewAppError_Status(t *testing.T) {
	tests := []struct {
		code   errors.ErrorCode
		status int
	}{
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeValidationError, http.StatusBadRequest},
		{errors.ErrCodeUnsafeQuery, http.StatusUnprocessableEntity},
		{errors.ErrCodeGenerationEmpty, http.StatusUnprocessableEntity},
		{errors.ErrCodeGatewayFailed, http.StatusBadGateway},
		{errors.ErrCodeRateLimited, http.StatusTooManyRequests},
		{errors.ErrCodeExecutionFailed, http.StatusInternalServerError},
		{errors.ErrCodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := errors.NewAppError(tt.code, "msg", nil)
			assert.Equal(t, tt.status, err.Status)
		})
	}
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("relation \"foo\" does not exist")
	err := errors.WrapError(errors.ErrCodeExecutionFailed, "query failed", cause)

	assert.Equal(t, "EXECUTION_FAILED: query failed (relation \"foo\" does not exist)", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "NOT_FOUND: missing", errors.NewAppError(errors.ErrCodeNotFound, "missing", nil).Error())
}

func TestPredicates(t *testing.T) {
	wrapped := fmt.Errorf("attempt 2: %w", errors.NewAppError(errors.ErrCodeUnsafeQuery, "blocked", nil))

	assert.True(t, errors.IsRetryable(wrapped))
	assert.Equal(t, errors.ErrCodeUnsafeQuery, errors.CodeOf(wrapped))
	assert.False(t, errors.IsRetryable(errors.NewAppError(errors.ErrCodeGatewayFailed, "down", nil)))
	assert.False(t, errors.IsRetryable(fmt.Errorf("plain")))
	assert.True(t, errors.IsValidationError(errors.NewAppError(errors.ErrCodeInvalidInput, "empty", nil)))
	assert.True(t, errors.IsNotFound(errors.NewAppError(errors.ErrCodeNotFound, "x", nil)))
	assert.Equal(t, errors.ErrorCode(""), errors.CodeOf(nil))
}

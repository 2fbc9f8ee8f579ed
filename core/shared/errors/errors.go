package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Domain errors
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeValidationError ErrorCode = "VALIDATION_ERROR"

	// Agent errors
	ErrCodeGenerationEmpty ErrorCode = "GENERATION_EMPTY"
	ErrCodeUnsafeQuery     ErrorCode = "UNSAFE_QUERY"
	ErrCodeExecutionFailed ErrorCode = "EXECUTION_FAILED"
	ErrCodeGatewayFailed   ErrorCode = "GATEWAY_FAILED"

	// Infrastructure errors
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMITED"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with code and context
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Status  int // HTTP status code
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Status:  getHTTPStatus(code),
	}
}

// WrapError wraps an existing error with an error code and message
func WrapError(code ErrorCode, message string, err error) *AppError {
	return NewAppError(code, message, err)
}

// getHTTPStatus maps error codes to HTTP status codes
func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput, ErrCodeValidationError:
		return http.StatusBadRequest
	case ErrCodeGenerationEmpty, ErrCodeUnsafeQuery:
		return http.StatusUnprocessableEntity
	case ErrCodeGatewayFailed:
		return http.StatusBadGateway
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "" when none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	code := CodeOf(err)
	return code == ErrCodeValidationError || code == ErrCodeInvalidInput
}

// IsRetryable reports whether the agent may retry after err.
// Gateway failures end a question immediately; generation, safety and
// execution failures feed a corrective note into the next attempt.
func IsRetryable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeGenerationEmpty, ErrCodeUnsafeQuery, ErrCodeExecutionFailed:
		return true
	default:
		return false
	}
}

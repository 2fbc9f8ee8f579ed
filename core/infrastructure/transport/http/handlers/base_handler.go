package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http/dto"
	apperrors "github.com/diavgeia-watch/diavgeia/core/shared/errors"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	logger logging.Logger
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(tag string) *BaseHandler {
	return &BaseHandler{
		logger: logging.New(tag),
	}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// WriteError writes an error response. Errors without an AppError in their
// chain are reported as internal errors.
func (h *BaseHandler) WriteError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewAppError(apperrors.ErrCodeInternalError, err.Error(), err)
	}

	message := appErr.Message
	if appErr.Err != nil && appErr.Status >= http.StatusInternalServerError {
		message += ": " + appErr.Err.Error()
	}
	h.WriteJSON(w, appErr.Status, dto.ErrorResponse{
		Success: false,
		Error:   message,
		Code:    string(appErr.Code),
	})
}

// WriteValidationError writes a validation error response
func (h *BaseHandler) WriteValidationError(w http.ResponseWriter, validationErrors map[string]string) {
	details := make([]dto.ErrorDetail, 0, len(validationErrors))
	for field, tag := range validationErrors {
		details = append(details, dto.ErrorDetail{
			Field:   field,
			Tag:     tag,
			Message: "Validation failed",
		})
	}

	h.WriteJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
		Success: false,
		Error:   "Validation failed",
		Details: details,
	})
}

// WriteSuccess writes a success response
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, data any) {
	h.WriteJSON(w, http.StatusOK, data)
}

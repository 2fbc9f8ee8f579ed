package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 64 << 10

var validate = validator.New()

type bodyKey struct{}

// ValidateRequest decodes the JSON body into a fresh T, validates its struct
// tags and stores it in the request context for Body to retrieve.
func ValidateRequest[T any]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			schema := new(T)
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(schema); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"success": false,
					"error":   "Invalid JSON",
				})
				return
			}

			if err := validate.Struct(schema); err != nil {
				validationErrors := make(map[string]string)
				var validationErrs validator.ValidationErrors
				if errors.As(err, &validationErrs) {
					for _, validationErr := range validationErrs {
						validationErrors[validationErr.Field()] = validationErr.Tag()
					}
				}
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"success": false,
					"error":   "Validation failed",
					"details": validationErrors,
				})
				return
			}

			ctx := context.WithValue(r.Context(), bodyKey{}, schema)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Body returns the body validated by ValidateRequest[T].
func Body[T any](ctx context.Context) (*T, bool) {
	body, ok := ctx.Value(bodyKey{}).(*T)
	return body, ok
}

// ValidateQueryParams validates query parameters
func ValidateQueryParams(validatorFunc func(*http.Request) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := validatorFunc(r); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"success": false,
					"error":   err.Error(),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

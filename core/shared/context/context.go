package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// QuestionIDKey is the context key for the id of the question being answered
	QuestionIDKey contextKey = "question_id"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithQuestionID adds a question ID to the context
func WithQuestionID(ctx context.Context, questionID string) context.Context {
	return context.WithValue(ctx, QuestionIDKey, questionID)
}

// GetQuestionID retrieves the question ID from context
func GetQuestionID(ctx context.Context) string {
	if id, ok := ctx.Value(QuestionIDKey).(string); ok {
		return id
	}
	return ""
}

// EnsureQuestionID returns ctx carrying a question id, generating one when absent.
// A request id, when present, doubles as the question id.
func EnsureQuestionID(ctx context.Context) (context.Context, string) {
	if id := GetQuestionID(ctx); id != "" {
		return ctx, id
	}
	id := GetRequestID(ctx)
	if id == "" {
		id = GenerateID()
	}
	return WithQuestionID(ctx, id), id
}

// GenerateID generates a unique request or question ID
func GenerateID() string {
	return uuid.NewString()
}

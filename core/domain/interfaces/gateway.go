package interfaces

import (
	"context"

	"github.com/diavgeia-watch/diavgeia/core/domain"
)

// Gateway is a chat-completion backend
type Gateway interface {
	// Complete sends one request and returns the first choice
	Complete(ctx context.Context, req domain.CompletionRequest) (*domain.Completion, error)

	// Available is a best-effort reachability probe
	Available(ctx context.Context) bool

	// Models lists the models the backend offers
	Models(ctx context.Context) ([]string, error)

	// Describe returns "backend/model" for diagnostics
	Describe() string
}

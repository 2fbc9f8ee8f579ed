package interfaces

import (
	"context"

	"github.com/diavgeia-watch/diavgeia/core/domain"
)

// Asker answers natural-language questions about public spending
type Asker interface {
	Ask(ctx context.Context, question string) *domain.Outcome
}

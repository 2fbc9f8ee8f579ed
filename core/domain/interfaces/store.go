package interfaces

import (
	"context"

	"github.com/diavgeia-watch/diavgeia/core/domain"
)

// Store is the read-only storage collaborator
type Store interface {
	// Execute runs a single read-only statement under the store's statement timeout
	Execute(ctx context.Context, statement string, args ...any) (*domain.ResultSet, error)

	// Ping verifies connectivity
	Ping(ctx context.Context) error

	// Close releases pooled connections
	Close() error
}

// OrgFinder looks up organizations in the persisted directory by trigram similarity
type OrgFinder interface {
	// FindOrganization returns the closest directory entry, or nil when nothing matches
	FindOrganization(ctx context.Context, name string) (*domain.OrgCandidate, error)
}

// StatsProvider reports store-wide counts
type StatsProvider interface {
	Stats(ctx context.Context) (*domain.Stats, error)
}

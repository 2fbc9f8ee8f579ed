package interfaces

import (
	"context"

	"github.com/diavgeia-watch/diavgeia/core/domain"
)

// QueryService answers free-form questions for the transports
type QueryService interface {
	Ask(ctx context.Context, question string) (*domain.Outcome, error)
}

// DashboardService runs the fixed dashboard queries
type DashboardService interface {
	Stats(ctx context.Context) (*domain.Stats, error)
	TopSpenders(ctx context.Context, limit int) ([]map[string]any, error)
	TopContractors(ctx context.Context, limit int) ([]map[string]any, error)
	SpendingByDate(ctx context.Context) ([]map[string]any, error)
	RecentDecisions(ctx context.Context, limit int) ([]map[string]any, error)
	Network(ctx context.Context, minAmount float64, maxEdges int) (*domain.Network, error)
	Anomalies(ctx context.Context) ([]domain.Anomaly, error)
}

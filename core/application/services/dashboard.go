package services

import (
	"context"

	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	apperrors "github.com/diavgeia-watch/diavgeia/core/shared/errors"
)

const (
	DefaultLimit        = 10
	DefaultRecentLimit  = 20
	DefaultNetworkEdges = 80
	DefaultNetworkMin   = 10000.0
	MaxLimit            = 100
)

const topSpendersSQL = `SELECT d.org_name, SUM(e.amount) AS total, COUNT(DISTINCT d.ada) AS decisions
FROM decisions d
JOIN expense_items e ON e.decision_id = d.id
GROUP BY d.org_name
ORDER BY total DESC
LIMIT $1`

const topContractorsSQL = `SELECT e.contractor_name, e.contractor_afm,
       SUM(e.amount) AS total, COUNT(DISTINCT e.ada) AS contracts
FROM expense_items e
WHERE e.contractor_name IS NOT NULL AND e.contractor_name != ''
GROUP BY e.contractor_name, e.contractor_afm
ORDER BY total DESC
LIMIT $1`

const spendingByDateSQL = `SELECT d.issue_date, SUM(e.amount) AS total, COUNT(DISTINCT d.ada) AS decisions
FROM decisions d
JOIN expense_items e ON e.decision_id = d.id
WHERE d.issue_date IS NOT NULL
GROUP BY d.issue_date
ORDER BY d.issue_date`

const recentDecisionsSQL = `SELECT d.ada, d.subject, d.org_name, d.issue_date,
       SUM(e.amount) AS total_amount
FROM decisions d
JOIN expense_items e ON e.decision_id = d.id
WHERE d.issue_date IS NOT NULL
GROUP BY d.ada, d.subject, d.org_name, d.issue_date
ORDER BY d.issue_date DESC
LIMIT $1`

const networkSQL = `SELECT d.org_name, e.contractor_name,
       SUM(e.amount) AS total, COUNT(DISTINCT d.ada) AS contracts
FROM decisions d
JOIN expense_items e ON e.decision_id = d.id
WHERE e.contractor_name IS NOT NULL AND e.contractor_name != ''
  AND d.org_name IS NOT NULL AND d.org_name != ''
  AND e.amount > 0
GROUP BY d.org_name, e.contractor_name
HAVING SUM(e.amount) >= $1
ORDER BY total DESC
LIMIT $2`

// DashboardService runs the fixed dashboard queries through the store
type DashboardService struct {
	store interfaces.Store
	stats interfaces.StatsProvider
	log   logging.Logger
}

// NewDashboardService creates a new DashboardService. stats may be nil.
func NewDashboardService(store interfaces.Store, stats interfaces.StatsProvider) *DashboardService {
	return &DashboardService{
		store: store,
		stats: stats,
		log:   logging.New("dashboard"),
	}
}

// ClampLimit bounds a client-supplied row limit to 1..MaxLimit.
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Stats returns store-wide counts
func (s *DashboardService) Stats(ctx context.Context) (*domain.Stats, error) {
	if s.stats == nil {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInternalError, "statistics are not available for this store", nil)
	}
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeExecutionFailed, "failed to load statistics", err)
	}
	return stats, nil
}

// TopSpenders returns organizations by total spending
func (s *DashboardService) TopSpenders(ctx context.Context, limit int) ([]map[string]any, error) {
	return s.rows(ctx, "top spenders", topSpendersSQL, ClampLimit(limit))
}

// TopContractors returns contractors by total amount received
func (s *DashboardService) TopContractors(ctx context.Context, limit int) ([]map[string]any, error) {
	return s.rows(ctx, "top contractors", topContractorsSQL, ClampLimit(limit))
}

// SpendingByDate returns daily totals in date order
func (s *DashboardService) SpendingByDate(ctx context.Context) ([]map[string]any, error) {
	rows, err := s.rows(ctx, "spending by date", spendingByDateSQL)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		row["issue_date"] = isoDate(row["issue_date"])
		row["total"] = asFloat(row["total"])
	}
	return rows, nil
}

// RecentDecisions returns the latest decisions with their summed amounts
func (s *DashboardService) RecentDecisions(ctx context.Context, limit int) ([]map[string]any, error) {
	rows, err := s.rows(ctx, "recent decisions", recentDecisionsSQL, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		row["issue_date"] = isoDate(row["issue_date"])
		row["total_amount"] = asFloat(row["total_amount"])
	}
	return rows, nil
}

// Network builds the organization to contractor graph from edges of at
// least minAmount. Nodes appear in first-seen order.
func (s *DashboardService) Network(ctx context.Context, minAmount float64, maxEdges int) (*domain.Network, error) {
	rows, err := s.rows(ctx, "network", networkSQL, minAmount, ClampLimit(maxEdges))
	if err != nil {
		return nil, err
	}

	var (
		orgs, contractors     []string
		orgTotal, contrTotals = map[string]float64{}, map[string]float64{}
		seenOrg, seenContr    = map[string]bool{}, map[string]bool{}
	)
	graph := &domain.Network{Edges: make([]domain.NetworkEdge, 0, len(rows))}
	for _, row := range rows {
		edge := domain.NetworkEdge{
			Source:    asString(row["org_name"]),
			Target:    asString(row["contractor_name"]),
			Amount:    asFloat(row["total"]),
			Contracts: asInt(row["contracts"]),
		}
		graph.Edges = append(graph.Edges, edge)
		if !seenOrg[edge.Source] {
			seenOrg[edge.Source] = true
			orgs = append(orgs, edge.Source)
		}
		if !seenContr[edge.Target] {
			seenContr[edge.Target] = true
			contractors = append(contractors, edge.Target)
		}
		orgTotal[edge.Source] += edge.Amount
		contrTotals[edge.Target] += edge.Amount
	}

	graph.Nodes = make([]domain.NetworkNode, 0, len(orgs)+len(contractors))
	for _, o := range orgs {
		graph.Nodes = append(graph.Nodes, domain.NetworkNode{ID: o, Type: "org", Total: orgTotal[o]})
	}
	for _, c := range contractors {
		graph.Nodes = append(graph.Nodes, domain.NetworkNode{ID: c, Type: "contractor", Total: contrTotals[c]})
	}
	graph.Stats = domain.NetworkStats{
		OrgCount:        len(orgs),
		ContractorCount: len(contractors),
		EdgeCount:       len(graph.Edges),
	}
	return graph, nil
}

func (s *DashboardService) rows(ctx context.Context, name, statement string, args ...any) ([]map[string]any, error) {
	result, err := s.store.Execute(ctx, statement, args...)
	if err != nil {
		s.log.Errorf("%s query failed: %v", name, err)
		return nil, apperrors.WrapError(apperrors.ErrCodeExecutionFailed, name+" query failed", err)
	}
	if result == nil || result.Rows == nil {
		return []map[string]any{}, nil
	}
	return result.Rows, nil
}

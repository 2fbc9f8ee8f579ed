package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diavgeia-watch/diavgeia/core/application/services"
	"github.com/diavgeia-watch/diavgeia/core/domain"
	apperrors "github.com/diavgeia-watch/diavgeia/core/shared/errors"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Execute(ctx context.Context, statement string, args ...any) (*domain.ResultSet, error) {
	called := m.Called(ctx, statement, args)
	rs, _ := called.Get(0).(*domain.ResultSet)
	return rs, called.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockStore) Close() error { return nil }

type MockStats struct {
	mock.Mock
}

func (m *MockStats) Stats(ctx context.Context) (*domain.Stats, error) {
	called := m.Called(ctx)
	s, _ := called.Get(0).(*domain.Stats)
	return s, called.Error(1)
}

type MockAsker struct {
	mock.Mock
}

func (m *MockAsker) Ask(ctx context.Context, question string) *domain.Outcome {
	return m.Called(ctx, question).Get(0).(*domain.Outcome)
}

func containing(fragment string) any {
	return mock.MatchedBy(func(s string) bool { return strings.Contains(s, fragment) })
}

func TestQueryService_Ask(t *testing.T) {
	asker := &MockAsker{}
	outcome := &domain.Outcome{Answer: "42", Success: true}
	asker.On("Ask", mock.Anything, "How much?").Return(outcome)
	svc := services.NewQueryService(asker)

	got, err := svc.Ask(context.Background(), "  How much?  ")
	require.NoError(t, err)
	assert.Same(t, outcome, got)

	for _, blank := range []string{"", "   ", "\n\t"} {
		_, err := svc.Ask(context.Background(), blank)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
	}
	asker.AssertNumberOfCalls(t, "Ask", 1)
}

func TestClampLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{in: -5, want: 1},
		{in: 0, want: 1},
		{in: 1, want: 1},
		{in: 10, want: 10},
		{in: 100, want: 100},
		{in: 1000, want: 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, services.ClampLimit(tt.in))
	}
}

func TestDashboard_TopSpendersClampsLimit(t *testing.T) {
	store := &MockStore{}
	rows := []map[string]any{{"org_name": "ΔΗΜΟΣ ΑΘΗΝΑΙΩΝ", "total": 1500.0, "decisions": int64(3)}}
	store.On("Execute", mock.Anything, containing("GROUP BY d.org_name"), []any{100}).
		Return(&domain.ResultSet{Rows: rows}, nil)
	svc := services.NewDashboardService(store, nil)

	got, err := svc.TopSpenders(context.Background(), 5000)

	require.NoError(t, err)
	assert.Equal(t, rows, got)
	store.AssertExpectations(t)
}

func TestDashboard_TopContractorsEmpty(t *testing.T) {
	store := &MockStore{}
	store.On("Execute", mock.Anything, containing("e.contractor_afm"), []any{10}).
		Return(&domain.ResultSet{}, nil)
	svc := services.NewDashboardService(store, nil)

	got, err := svc.TopContractors(context.Background(), 10)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDashboard_SpendingByDate(t *testing.T) {
	store := &MockStore{}
	store.On("Execute", mock.Anything, containing("GROUP BY d.issue_date"), []any(nil)).
		Return(&domain.ResultSet{Rows: []map[string]any{
			{"issue_date": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "total": 12.5, "decisions": int64(1)},
			{"issue_date": time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), "total": nil, "decisions": int64(2)},
		}}, nil)
	svc := services.NewDashboardService(store, nil)

	got, err := svc.SpendingByDate(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-01", got[0]["issue_date"])
	assert.Equal(t, 12.5, got[0]["total"])
	assert.Equal(t, 0.0, got[1]["total"])
}

func TestDashboard_StoreErrorIsWrapped(t *testing.T) {
	store := &MockStore{}
	store.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)
	svc := services.NewDashboardService(store, nil)

	_, err := svc.TopSpenders(context.Background(), 10)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, apperrors.ErrCodeExecutionFailed, apperrors.CodeOf(err))
}

func TestDashboard_Stats(t *testing.T) {
	t.Run("without provider", func(t *testing.T) {
		_, err := services.NewDashboardService(&MockStore{}, nil).Stats(context.Background())
		assert.Equal(t, apperrors.ErrCodeInternalError, apperrors.CodeOf(err))
	})

	t.Run("with provider", func(t *testing.T) {
		stats := &MockStats{}
		want := &domain.Stats{TotalDecisions: 7}
		stats.On("Stats", mock.Anything).Return(want, nil)

		got, err := services.NewDashboardService(&MockStore{}, stats).Stats(context.Background())

		require.NoError(t, err)
		assert.Same(t, want, got)
	})
}

func TestDashboard_Network(t *testing.T) {
	store := &MockStore{}
	store.On("Execute", mock.Anything, containing("HAVING SUM(e.amount) >= $1"), []any{10000.0, 80}).
		Return(&domain.ResultSet{Rows: []map[string]any{
			{"org_name": "A", "contractor_name": "X", "total": 300.0, "contracts": int64(2)},
			{"org_name": "B", "contractor_name": "X", "total": 200.0, "contracts": int64(1)},
			{"org_name": "A", "contractor_name": "Y", "total": 100.0, "contracts": int64(1)},
		}}, nil)
	svc := services.NewDashboardService(store, nil)

	graph, err := svc.Network(context.Background(), services.DefaultNetworkMin, services.DefaultNetworkEdges)

	require.NoError(t, err)
	assert.Equal(t, domain.NetworkStats{OrgCount: 2, ContractorCount: 2, EdgeCount: 3}, graph.Stats)
	assert.Equal(t, []domain.NetworkNode{
		{ID: "A", Type: "org", Total: 400},
		{ID: "B", Type: "org", Total: 200},
		{ID: "X", Type: "contractor", Total: 500},
		{ID: "Y", Type: "contractor", Total: 100},
	}, graph.Nodes)
	assert.Equal(t, domain.NetworkEdge{Source: "B", Target: "X", Amount: 200, Contracts: 1}, graph.Edges[1])
}

func TestDashboard_Anomalies(t *testing.T) {
	store := &MockStore{}
	store.On("Execute", mock.Anything, containing("HAVING COUNT(*) >= 3"), []any(nil)).
		Return(&domain.ResultSet{Rows: []map[string]any{
			{"org_name": "ΔΗΜΟΣ ΒΟΛΟΥ", "contractor_name": "ALPHA", "contract_count": int64(3), "total": 45000.0, "avg_amount": 15000.0, "max_amount": 18000.0},
			{"org_name": "ΔΗΜΟΣ ΒΟΛΟΥ", "contractor_name": "BETA", "contract_count": int64(6), "total": 60000.0, "avg_amount": 10000.0, "max_amount": 19000.0},
		}}, nil)
	store.On("Execute", mock.Anything, containing("BETWEEN 19000 AND 20000"), []any(nil)).
		Return(&domain.ResultSet{Rows: []map[string]any{
			{"org_name": "ΔΗΜΟΣ ΒΟΛΟΥ", "contractor_name": "GAMMA", "amount": 19850.0, "ada": "ΨΧ12-ΑΒΓ", "subject": "x"},
		}}, nil)
	store.On("Execute", mock.Anything, containing("org_totals"), []any(nil)).
		Return(&domain.ResultSet{Rows: []map[string]any{
			{"org_name": "ΕΡΤ", "contractor_name": "DELTA", "contractor_total": 90000.0, "org_total": 100000.0, "pct": 90.0},
			{"org_name": "ΕΦΚΑ", "contractor_name": "EPSILON", "contractor_total": 60000.0, "org_total": 100000.0, "pct": 60.0},
		}}, nil)
	svc := services.NewDashboardService(store, nil)

	anomalies, err := svc.Anomalies(context.Background())

	require.NoError(t, err)
	require.Len(t, anomalies, 5)

	titles := make([]string, len(anomalies))
	for i, a := range anomalies {
		titles[i] = a.Title
	}
	assert.Equal(t, []string{
		"Possible contract splitting: BETA",
		"90.0% concentration",
		"Possible contract splitting: ALPHA",
		"Near-threshold: €19,850",
		"60.0% concentration",
	}, titles)

	assert.Equal(t, domain.SeverityHigh, anomalies[0].Severity)
	assert.Equal(t, "6 contracts with ΔΗΜΟΣ ΒΟΛΟΥ, avg €10,000, total €60,000", anomalies[0].Description)
	assert.Equal(t, "DELTA gets 90.0% of ΕΡΤ's spending (€90,000 / €100,000)", anomalies[1].Description)
	assert.Equal(t, "GAMMA → ΔΗΜΟΣ ΒΟΛΟΥ, ADA: ΨΧ12-ΑΒΓ", anomalies[3].Description)
	assert.Equal(t, domain.AnomalyThresholdGaming, anomalies[3].Type)
}

func TestDashboard_AnomaliesFailsWhenADetectorFails(t *testing.T) {
	store := &MockStore{}
	store.On("Execute", mock.Anything, containing("org_totals"), mock.Anything).Return(nil, assert.AnError)
	store.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(&domain.ResultSet{}, nil)
	svc := services.NewDashboardService(store, nil)

	_, err := svc.Anomalies(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
}

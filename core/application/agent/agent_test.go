package agent_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diavgeia-watch/diavgeia/core/application/agent"
	"github.com/diavgeia-watch/diavgeia/core/application/catalog"
	"github.com/diavgeia-watch/diavgeia/core/application/formatter"
	"github.com/diavgeia-watch/diavgeia/core/application/orgs"
	"github.com/diavgeia-watch/diavgeia/core/application/terminology"
	"github.com/diavgeia-watch/diavgeia/core/domain"
)

type MockGateway struct {
	mock.Mock
	requests []domain.CompletionRequest
}

func (m *MockGateway) Complete(ctx context.Context, req domain.CompletionRequest) (*domain.Completion, error) {
	m.requests = append(m.requests, req)
	args := m.Called(ctx, req)
	if c := args.Get(0); c != nil {
		return c.(*domain.Completion), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) Available(ctx context.Context) bool { return true }

func (m *MockGateway) Models(ctx context.Context) ([]string, error) { return []string{"test"}, nil }

func (m *MockGateway) Describe() string { return "test/model" }

// replies queues one completion per call, in order.
func (m *MockGateway) replies(contents ...string) {
	for _, c := range contents {
		m.On("Complete", mock.Anything, mock.Anything).Return(&domain.Completion{Content: c, Model: "test"}, nil).Once()
	}
}

func (m *MockGateway) userMessage(i int) string {
	for _, msg := range m.requests[i].Messages {
		if msg.Role == domain.RoleUser {
			return msg.Content
		}
	}
	return ""
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Execute(ctx context.Context, statement string, args ...any) (*domain.ResultSet, error) {
	res := m.Called(ctx, statement)
	if rs := res.Get(0); rs != nil {
		return rs.(*domain.ResultSet), res.Error(1)
	}
	return nil, res.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error { return nil }

func (m *MockStore) Close() error { return nil }

const join = "SELECT SUM(e.amount) AS total FROM decisions d JOIN expense_items e ON e.decision_id = d.id"

func sqlReply(sql string) string {
	return `{"thinking":"t","resolved_org":null,"resolved_cpv":"null","sql":"` + sql + `","explanation":"e"}`
}

func newAgent(gw *MockGateway, store *MockStore, cat *catalog.Catalog, pre *terminology.Preprocessor, retries int) *agent.Agent {
	return agent.New(gw, store, nil, cat, pre, agent.Options{MaxRetries: retries})
}

// newWiredAgent uses the real resolvers without a fuzzy organization lookup.
func newWiredAgent(gw *MockGateway, store *MockStore) *agent.Agent {
	return agent.New(gw, store, orgs.New(nil, 0), catalog.New(), terminology.New(), agent.Options{MaxRetries: agent.DefaultMaxRetries})
}

func TestAsk_Success(t *testing.T) {
	gw, store := &MockGateway{}, &MockStore{}
	gw.replies(sqlReply(join))
	store.On("Execute", mock.Anything, join).Return(&domain.ResultSet{
		Columns: []string{"total"},
		Rows:    []map[string]any{{"total": 1234.5}},
	}, nil).Once()

	out := newAgent(gw, store, nil, nil, agent.DefaultMaxRetries).Ask(context.Background(), "How much in total?")

	require.True(t, out.Success)
	assert.Equal(t, "**total**: €1,234.50", out.Answer)
	assert.Equal(t, join, out.SQL)
	assert.Equal(t, "t", out.Thinking)
	assert.Equal(t, "e", out.Explanation)
	assert.Empty(t, out.ResolvedCategory)
	assert.Equal(t, 1, out.Attempts)
	assert.Empty(t, out.Error)

	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	assert.True(t, req.JSONMode)
	assert.InDelta(t, 0.1, req.Temperature, 1e-6)
	assert.Equal(t, agent.DefaultMaxTokens, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, domain.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, agent.SystemPrompt, req.Messages[0].Content)
	assert.Equal(t, "How much in total?", req.Messages[1].Content)
	store.AssertExpectations(t)
}

func TestAsk_UngroundedFiltersAreStrippedBeforeExecution(t *testing.T) {
	gw, store := &MockGateway{}, &MockStore{}
	gw.replies(sqlReply(join + " WHERE e.cpv_code LIKE '9091%' AND d.org_id = '6105'"))
	store.On("Execute", mock.Anything, join).Return(&domain.ResultSet{Columns: []string{"total"}}, nil).Once()

	out := newAgent(gw, store, nil, nil, agent.DefaultMaxRetries).Ask(context.Background(), "Top 5 organizations by spending")

	require.True(t, out.Success)
	assert.Equal(t, join, out.SQL)
	assert.Equal(t, formatter.NoResults, out.Answer)
	assert.NotNil(t, out.Rows)
	store.AssertExpectations(t)
}

func TestAsk_UngroundedFiltersAreStrippedWithResolversWired(t *testing.T) {
	gw, store := &MockGateway{}, &MockStore{}
	gw.replies(sqlReply(join + " WHERE e.cpv_code LIKE '9091%' AND d.org_id = '6105'"))
	store.On("Execute", mock.Anything, join).Return(&domain.ResultSet{Columns: []string{"total"}}, nil).Once()

	out := newWiredAgent(gw, store).Ask(context.Background(), "Top 5 organizations by spending")

	require.True(t, out.Success)
	assert.Equal(t, join, out.SQL)
	assert.Equal(t, formatter.NoResults, out.Answer)
	for _, h := range out.Hints {
		assert.NotEqual(t, domain.HintOrg, h.Kind)
		assert.NotEqual(t, domain.HintCategory, h.Kind)
	}
	store.AssertExpectations(t)
}

func TestAsk_OrgHintGroundsTheFilter(t *testing.T) {
	gw, store := &MockGateway{}, &MockStore{}
	gw.replies(sqlReply(join + " WHERE d.org_id = '6105' AND e.cpv_code LIKE '45%'"))
	kept := join + " WHERE d.org_id = '6105'"
	store.On("Execute", mock.Anything, kept).Return(&domain.ResultSet{
		Columns: []string{"total"},
		Rows:    []map[string]any{{"total": 500.0}},
	}, nil).Once()

	out := newWiredAgent(gw, store).Ask(context.Background(), "spending in Athens")

	require.True(t, out.Success)
	assert.Equal(t, kept, out.SQL)
	require.NotEmpty(t, out.Hints)
	assert.Equal(t, domain.HintOrg, out.Hints[0].Kind)
	assert.Equal(t, "6105", out.Hints[0].Value)
	assert.Equal(t, "d.org_id = '6105'", out.Hints[0].Filter)
	assert.Contains(t, gw.userMessage(0), "Organization 'ΔΗΜΟΣ ΑΘΗΝΑΙΩΝ' has UID=6105")
	store.AssertExpectations(t)
}

func TestAsk_JoinOnOrganizationsIsNotStripped(t *testing.T) {
	gw, store := &MockGateway{}, &MockStore{}
	sql := "SELECT o.label, SUM(e.amount) AS total FROM decisions d, organizations o, expense_items e WHERE o.uid = d.org_id AND e.decision_id = d.id GROUP BY o.label ORDER BY total DESC LIMIT 5"
	gw.replies(sqlReply(sql))
	store.On("Execute", mock.Anything, sql).Return(&domain.ResultSet{}, nil).Once()

	out := newWiredAgent(gw, store).Ask(context.Background(), "Top 5 organizations by spending")

	require.True(t, out.Success)
	assert.Equal(t, sql, out.SQL)
	store.AssertExpectations(t)
}

func TestAsk_CategoryHintGroundsTheFilter(t *testing.T) {
	gw, store := &MockGateway{}, &MockStore{}
	sql := join + " WHERE e.cpv_code LIKE '9091%'"
	gw.replies(sqlReply(sql))
	store.On("Execute", mock.Anything, sql).Return(&domain.ResultSet{}, nil).Once()

	out := newAgent(gw, store, catalog.New(), nil, agent.DefaultMaxRetries).Ask(context.Background(), "cleaning")

	require.True(t, out.Success)
	assert.Equal(t, sql, out.SQL)
	require.NotEmpty(t, out.Hints)
	assert.Equal(t, domain.HintCategory, out.Hints[0].Kind)
	assert.Equal(t, "90911000", out.Hints[0].Value)
	assert.Contains(t, gw.userMessage(0), "\n\n[Context hints: CPV match: 'Housing and building cleaning' = code 90911000")
}

func TestAsk_TaxIDReachesThePromptAndSurvivesTheGuard(t *testing.T) {
	gw, store := &MockGateway{}, &MockStore{}
	sql := "SELECT d.ada, e.amount FROM decisions d JOIN expense_items e ON e.decision_id = d.id WHERE e.contractor_afm = '094270233' LIMIT 20"
	gw.replies(sqlReply(sql))
	store.On("Execute", mock.Anything, sql).Return(&domain.ResultSet{}, nil).Once()

	out := newAgent(gw, store, nil, terminology.New(), agent.DefaultMaxRetries).
		Ask(context.Background(), "Find decisions for contractor with AFM 094270233")

	require.True(t, out.Success)
	assert.Equal(t, sql, out.SQL)
	assert.Contains(t, gw.userMessage(0), "094270233")
}

func TestAsk_RetriesAppendCorrectiveNotes(t *testing.T) {
	gw, store := &MockGateway{}, &MockStore{}
	gw.replies(
		"I am not sure.",
		sqlReply("DROP TABLE decisions"),
		sqlReply(join),
	)
	store.On("Execute", mock.Anything, join).Return(nil, errors.New(`relation "expense_items" does not exist`)).Once()

	out := newAgent(gw, store, nil, nil, 2).Ask(context.Background(), "q")

	require.False(t, out.Success)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, `The query failed to execute: relation "expense_items" does not exist`, out.Answer)
	assert.Equal(t, `relation "expense_items" does not exist`, out.Error)
	assert.Equal(t, join, out.SQL)

	require.Len(t, gw.requests, 3)
	assert.Equal(t, "q", gw.userMessage(0))
	assert.Equal(t,
		"q\n\n[Your previous reply contained no SQL query. Reply with a JSON object whose \"sql\" field holds one SELECT statement.]",
		gw.userMessage(1))
	assert.Equal(t,
		"q\n\n[Your previous reply contained no SQL query. Reply with a JSON object whose \"sql\" field holds one SELECT statement.]"+
			"\n\n[IMPORTANT: Only generate SELECT queries. Your previous attempt was blocked for safety. Try again.]",
		gw.userMessage(2))
	store.AssertExpectations(t)
}

func TestAsk_RecoversOnRetry(t *testing.T) {
	gw, store := &MockGateway{}, &MockStore{}
	bad := "SELECT totl FROM decisions"
	gw.replies(sqlReply(bad), sqlReply(join))
	store.On("Execute", mock.Anything, bad).Return(nil, errors.New(`column "totl" does not exist`)).Once()
	store.On("Execute", mock.Anything, join).Return(&domain.ResultSet{}, nil).Once()

	out := newAgent(gw, store, nil, nil, 2).Ask(context.Background(), "q")

	require.True(t, out.Success)
	assert.Equal(t, 2, out.Attempts)
	assert.Equal(t, "q\n\n[Your previous SQL had an error: column \"totl\" does not exist. Please fix it and try again.]", gw.userMessage(1))
}

func TestAsk_Exhaustion(t *testing.T) {
	long := strings.Repeat("x", 300)

	tests := []struct {
		name       string
		retries    int
		replies    []string
		execErr    error
		wantAnswer string
		wantError  string
		wantSQL    string
	}{
		{
			name:       "no sql",
			retries:    2,
			replies:    []string{"nothing", "still nothing", `{"sql": null}`},
			wantAnswer: agent.AnswerNoSQL,
			wantError:  agent.ErrorNoSQL,
		},
		{
			name:       "unsafe",
			retries:    0,
			replies:    []string{sqlReply("DELETE FROM decisions")},
			wantAnswer: agent.AnswerUnsafe,
			wantError:  agent.ErrorUnsafe,
			wantSQL:    "DELETE FROM decisions",
		},
		{
			name:       "execution error is truncated in the answer",
			retries:    0,
			replies:    []string{sqlReply(join)},
			execErr:    errors.New(long),
			wantAnswer: "The query failed to execute: " + strings.Repeat("x", 200),
			wantError:  long,
			wantSQL:    join,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, store := &MockGateway{}, &MockStore{}
			gw.replies(tt.replies...)
			if tt.execErr != nil {
				store.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.execErr)
			}

			out := newAgent(gw, store, nil, nil, tt.retries).Ask(context.Background(), "q")

			assert.False(t, out.Success)
			assert.Equal(t, tt.wantAnswer, out.Answer)
			assert.Equal(t, tt.wantError, out.Error)
			assert.Equal(t, tt.wantSQL, out.SQL)
			assert.Len(t, gw.requests, tt.retries+1)
			assert.Equal(t, tt.retries+1, out.Attempts)
		})
	}
}

func TestAsk_GatewayErrorIsFatal(t *testing.T) {
	gw, store := &MockGateway{}, &MockStore{}
	gw.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	out := newAgent(gw, store, nil, nil, 2).Ask(context.Background(), "q")

	assert.False(t, out.Success)
	assert.Equal(t, "LLM communication error: connection refused", out.Answer)
	assert.Equal(t, "connection refused", out.Error)
	assert.Empty(t, out.SQL)
	assert.Equal(t, 1, out.Attempts)
	assert.Len(t, gw.requests, 1)
	store.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestAsk_AttemptsAreBounded(t *testing.T) {
	for _, retries := range []int{0, 1, 2, 4} {
		gw, store := &MockGateway{}, &MockStore{}
		gw.On("Complete", mock.Anything, mock.Anything).Return(&domain.Completion{Content: "no idea"}, nil)

		out := newAgent(gw, store, nil, nil, retries).Ask(context.Background(), "q")

		assert.False(t, out.Success)
		assert.NotEmpty(t, out.Error)
		assert.Len(t, gw.requests, retries+1)
	}
}

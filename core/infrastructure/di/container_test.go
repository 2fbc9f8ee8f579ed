package di_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diavgeia-watch/diavgeia/core/config"
	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/di"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http/middleware"
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

func (m *MockStore) Close() error { return m.Called().Error(0) }

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Complete(ctx context.Context, req domain.CompletionRequest) (*domain.Completion, error) {
	called := m.Called(ctx, req)
	c, _ := called.Get(0).(*domain.Completion)
	return c, called.Error(1)
}

func (m *MockGateway) Available(ctx context.Context) bool { return m.Called(ctx).Bool(0) }

func (m *MockGateway) Models(ctx context.Context) ([]string, error) {
	called := m.Called(ctx)
	models, _ := called.Get(0).([]string)
	return models, called.Error(1)
}

func (m *MockGateway) Describe() string { return "mock/model" }

func TestNewWithStore_WiresAgent(t *testing.T) {
	store := &MockStore{}
	store.On("Execute", mock.Anything, "SELECT COUNT(*) AS n FROM decisions", []any(nil)).
		Return(&domain.ResultSet{Columns: []string{"n"}, Rows: []map[string]any{{"n": int64(7)}}}, nil)
	gw := &MockGateway{}
	gw.On("Complete", mock.Anything, mock.Anything).
		Return(&domain.Completion{Content: `{"sql":"SELECT COUNT(*) AS n FROM decisions","thinking":"count"}`}, nil)

	c := di.NewWithStore(config.Default(), store, nil, gw)
	outcome := c.Agent.Ask(context.Background(), "How many decisions are there?")

	assert.True(t, outcome.Success, outcome.Error)
	assert.Equal(t, "**n**: 7", outcome.Answer)

	_, err := c.DashboardService.Stats(context.Background())
	assert.Equal(t, apperrors.ErrCodeInternalError, apperrors.CodeOf(err))
}

func TestContainer_Check(t *testing.T) {
	store := &MockStore{}
	store.On("Ping", mock.Anything).Return(assert.AnError)
	gw := &MockGateway{}
	gw.On("Available", mock.Anything).Return(true)

	h := di.NewWithStore(config.Default(), store, nil, gw).Check(context.Background())

	assert.ErrorIs(t, h.StoreErr, assert.AnError)
	assert.True(t, h.GatewayAvailable)
}

func TestContainer_RateLimiter(t *testing.T) {
	t.Run("in-process without redis", func(t *testing.T) {
		c := di.NewWithStore(config.Default(), &MockStore{}, nil, &MockGateway{})
		limiter, err := c.RateLimiter()
		require.NoError(t, err)
		assert.IsType(t, &middleware.LocalRateLimiter{}, limiter)
	})

	t.Run("redis with fallback", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Server.RedisURL = "redis://" + mr.Addr()
		store := &MockStore{}
		store.On("Close").Return(nil)
		c := di.NewWithStore(cfg, store, nil, &MockGateway{})
		t.Cleanup(func() { _ = c.Close() })

		limiter, err := c.RateLimiter()
		require.NoError(t, err)
		assert.IsType(t, &middleware.FallbackRateLimiter{}, limiter)

		allowed, err := limiter.Allow(context.Background(), "ratelimit:test", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, mr.Exists("ratelimit:test"))
	})

	t.Run("bad url", func(t *testing.T) {
		cfg := config.Default()
		cfg.Server.RedisURL = "://nope"
		c := di.NewWithStore(cfg, &MockStore{}, nil, &MockGateway{})
		_, err := c.RateLimiter()
		assert.Equal(t, apperrors.ErrCodeConfigInvalid, apperrors.CodeOf(err))
	})
}

func TestNewGateway_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Backend = "bard"

	_, err := di.NewGateway(cfg)

	assert.Equal(t, apperrors.ErrCodeConfigInvalid, apperrors.CodeOf(err))
}

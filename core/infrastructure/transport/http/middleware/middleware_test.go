package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http/middleware"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRateLimiter_SlidingWindow(t *testing.T) {
	mr, client := newRedis(t)
	limiter := middleware.NewRedisRateLimiter(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "ratelimit:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := limiter.Allow(ctx, "ratelimit:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "ratelimit:5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	members, err := mr.ZMembers("ratelimit:1.2.3.4")
	require.NoError(t, err)
	assert.Len(t, members, 3)
	assert.Greater(t, mr.TTL("ratelimit:1.2.3.4"), time.Duration(0))
}

func TestRedisRateLimiter_WindowSlides(t *testing.T) {
	_, client := newRedis(t)
	limiter := middleware.NewRedisRateLimiter(client)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "k", 1, 50*time.Millisecond)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _ = limiter.Allow(ctx, "k", 1, 50*time.Millisecond)
	assert.False(t, allowed)

	time.Sleep(80 * time.Millisecond)
	allowed, err = limiter.Allow(ctx, "k", 1, 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLocalRateLimiter(t *testing.T) {
	limiter := middleware.NewLocalRateLimiter()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "a", 2, time.Hour)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow(ctx, "a", 2, time.Hour)
	assert.False(t, allowed)

	allowed, _ = limiter.Allow(ctx, "b", 2, time.Hour)
	assert.True(t, allowed)
}

func TestFallbackRateLimiter_UsesLocalWhenRedisIsDown(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()
	limiter := middleware.NewFallbackRateLimiter(middleware.NewRedisRateLimiter(client), middleware.NewLocalRateLimiter())
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "a", 1, time.Hour)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "a", 1, time.Hour)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRateLimitByIP(t *testing.T) {
	handler := middleware.RateLimitByIP(middleware.NewLocalRateLimiter(), 1, time.Minute)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)

	call := func(forwarded string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/ask", nil)
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1").Code)

	rec := call("10.0.0.1, 172.16.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMITED", body["code"])

	assert.Equal(t, http.StatusNoContent, call("10.0.0.2").Code)
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	for _, h := range []http.Handler{
		middleware.RateLimitByIP(nil, 1, time.Minute)(next),
		middleware.RateLimitByIP(middleware.NewLocalRateLimiter(), 0, time.Minute)(next),
	} {
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusNoContent, rec.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "ratelimit:192.0.2.7", middleware.ClientIP(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	assert.Equal(t, "ratelimit:203.0.113.9", middleware.ClientIP(req))
}

type askBody struct {
	Question string `json:"question" validate:"required"`
}

func TestValidateRequest(t *testing.T) {
	var seen *askBody
	handler := middleware.ValidateRequest[askBody]()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.Body[askBody](r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{name: "valid", body: `{"question":"hi"}`, status: http.StatusOK},
		{name: "invalid json", body: `{"question":`, status: http.StatusBadRequest, errMsg: "Invalid JSON"},
		{name: "missing field", body: `{}`, status: http.StatusBadRequest, errMsg: "Validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
			if tt.errMsg != "" {
				assert.Contains(t, rec.Body.String(), tt.errMsg)
				assert.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, "hi", seen.Question)
		})
	}
}

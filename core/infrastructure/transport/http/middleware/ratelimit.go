package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
)

// RateLimiter defines the interface for rate limiting
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// slidingWindow trims the log to the window, then admits the request if the
// log is below the limit. Scores are microseconds and passed as strings so
// Lua never rounds them.
var slidingWindow = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
  return 0
end
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// RedisRateLimiter implements a sliding-window log shared by every replica
type RedisRateLimiter struct {
	client redis.UniversalClient
}

// NewRedisRateLimiter creates a new Redis-based rate limiter
func NewRedisRateLimiter(client redis.UniversalClient) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

// Allow checks if a request should be allowed based on rate limit
func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	cutoff := now.Add(-window).UnixMicro()
	windowMS := window.Milliseconds()
	if windowMS < 1 {
		windowMS = 1
	}

	admitted, err := slidingWindow.Run(ctx, r.client, []string{key},
		strconv.FormatInt(cutoff, 10),
		strconv.FormatInt(now.UnixMicro(), 10),
		limit,
		uuid.NewString(),
		windowMS,
	).Int64()
	if err != nil {
		return false, err
	}
	return admitted == 1, nil
}

const maxLocalKeys = 10000

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimiter is an in-process token bucket per key
type LocalRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

// NewLocalRateLimiter creates an in-process rate limiter
func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{entries: make(map[string]*localEntry)}
}

// Allow refills limit tokens per window with a burst of limit.
func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return false, nil
	}
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		if len(l.entries) >= maxLocalKeys {
			l.evict(now.Add(-window))
		}
		entry = &localEntry{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1), nil
}

// evict drops keys idle since before cutoff; their buckets are full again.
func (l *LocalRateLimiter) evict(cutoff time.Time) {
	for key, entry := range l.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// FallbackRateLimiter consults primary and switches to fallback for any
// request where primary fails.
type FallbackRateLimiter struct {
	primary  RateLimiter
	fallback RateLimiter
	log      logging.Logger
}

// NewFallbackRateLimiter creates a limiter that degrades to fallback
func NewFallbackRateLimiter(primary, fallback RateLimiter) *FallbackRateLimiter {
	return &FallbackRateLimiter{primary: primary, fallback: fallback, log: logging.New("ratelimit")}
}

// Allow implements RateLimiter
func (f *FallbackRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	allowed, err := f.primary.Allow(ctx, key, limit, window)
	if err == nil {
		return allowed, nil
	}
	f.log.Warnf("Shared rate limiter unavailable, using in-process limits: %v", err)
	return f.fallback.Allow(ctx, key, limit, window)
}

// RateLimit middleware for rate limiting
func RateLimit(limiter RateLimiter, limit int, window time.Duration, keyFunc func(*http.Request) string) func(http.Handler) http.Handler {
	log := logging.New("ratelimit")
	retryAfter := strconv.Itoa(int(window.Round(time.Second).Seconds()))

	return func(next http.Handler) http.Handler {
		if limiter == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				// fail open
				log.Errorf("Rate limiter error for %s: %v", key, err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				log.Debugf("Rate limit exceeded for %s", key)
				w.Header().Set("Retry-After", retryAfter)
				writeJSON(w, http.StatusTooManyRequests, map[string]any{
					"success": false,
					"error":   "rate limit exceeded",
					"code":    "RATE_LIMITED",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP creates rate limit middleware that limits by IP address
func RateLimitByIP(limiter RateLimiter, limit int, window time.Duration) func(http.Handler) http.Handler {
	return RateLimit(limiter, limit, window, ClientIP)
}

// ClientIP keys a request by the first X-Forwarded-For entry, or the remote host.
func ClientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		ip, _, _ = strings.Cut(ip, ",")
	} else {
		ip = r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
	}
	if ip == "" {
		return ""
	}
	return "ratelimit:" + strings.TrimSpace(ip)
}

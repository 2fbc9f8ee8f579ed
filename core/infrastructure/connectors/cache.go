package connectors

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
)

const (
	defaultCacheMaxCost     = 64 << 20
	defaultCacheNumCounters = 100_000
	defaultCacheBufferItems = 64
)

// CachedStore serves repeated statements from an in-memory cache for ttl.
// Rows are cloned on the way in and on the way out.
type CachedStore struct {
	inner interfaces.Store
	ttl   time.Duration
	cache *ristretto.Cache[string, *domain.ResultSet]
}

var _ interfaces.Store = (*CachedStore)(nil)

// NewCachedStore wraps inner. A non-positive ttl returns inner unchanged.
func NewCachedStore(inner interfaces.Store, ttl time.Duration) (interfaces.Store, error) {
	if ttl <= 0 {
		return inner, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, *domain.ResultSet]{
		NumCounters: defaultCacheNumCounters,
		MaxCost:     defaultCacheMaxCost,
		BufferItems: defaultCacheBufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	logging.New("cache").Debugf("Result cache enabled (ttl %s)", ttl)
	return &CachedStore{inner: inner, ttl: ttl, cache: cache}, nil
}

// Execute returns a cached result for statements without arguments and
// stores successful results.
func (c *CachedStore) Execute(ctx context.Context, statement string, args ...any) (*domain.ResultSet, error) {
	if len(args) > 0 {
		return c.inner.Execute(ctx, statement, args...)
	}

	key := cacheKey(statement)
	if rs, ok := c.cache.Get(key); ok {
		logging.New("cache").Debugf("Cache hit %s", key[:12])
		return cloneResult(rs), nil
	}

	rs, err := c.inner.Execute(ctx, statement)
	if err != nil {
		return nil, err
	}
	if c.cache.SetWithTTL(key, cloneResult(rs), estimateRowsCost(rs.Rows), c.ttl) {
		// sets are asynchronous
		c.cache.Wait()
	}
	return rs, nil
}

func (c *CachedStore) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx)
}

func (c *CachedStore) Close() error {
	c.cache.Close()
	return c.inner.Close()
}

func cacheKey(statement string) string {
	hash := sha256.Sum256([]byte(statement))
	return hex.EncodeToString(hash[:])
}

func cloneResult(rs *domain.ResultSet) *domain.ResultSet {
	if rs == nil {
		return nil
	}
	return &domain.ResultSet{
		Columns: append([]string(nil), rs.Columns...),
		Rows:    cloneRows(rs.Rows),
	}
}

func cloneRows(rows []map[string]any) []map[string]any {
	if rows == nil {
		return nil
	}
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		if row == nil {
			continue
		}
		copyRow := make(map[string]any, len(row))
		for key, value := range row {
			copyRow[key] = value
		}
		out[i] = copyRow
	}
	return out
}

func estimateRowsCost(rows []map[string]any) int64 {
	var total int64
	for _, row := range rows {
		total += int64(len(row) * 16)
		for key, value := range row {
			total += int64(len(key)) + estimateValueCost(value)
		}
	}
	if total <= 0 {
		return 1
	}
	return total
}

func estimateValueCost(v any) int64 {
	switch val := v.(type) {
	case nil:
		return 0
	case string:
		return int64(len(val))
	case []byte:
		return int64(len(val))
	case bool:
		return 1
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float64:
		return 8
	case float32:
		return 4
	case time.Time:
		return 16
	default:
		return int64(len(fmt.Sprintf("%v", val)))
	}
}

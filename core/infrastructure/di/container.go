package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/diavgeia-watch/diavgeia/core/application/agent"
	"github.com/diavgeia-watch/diavgeia/core/application/catalog"
	"github.com/diavgeia-watch/diavgeia/core/application/orgs"
	"github.com/diavgeia-watch/diavgeia/core/application/services"
	"github.com/diavgeia-watch/diavgeia/core/application/terminology"
	"github.com/diavgeia-watch/diavgeia/core/config"
	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/connectors"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/gateway"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http/middleware"
	apperrors "github.com/diavgeia-watch/diavgeia/core/shared/errors"
)

const checkTimeout = 5 * time.Second

// Container holds all dependencies
type Container struct {
	Config           *config.Config
	Postgres         *connectors.PostgresStore
	Store            interfaces.Store
	Gateway          interfaces.Gateway
	Orgs             *orgs.Resolver
	Catalog          *catalog.Catalog
	Terminology      *terminology.Preprocessor
	Agent            *agent.Agent
	QueryService     *services.QueryService
	DashboardService *services.DashboardService

	redis redis.UniversalClient
}

// NewContainer connects to the store, builds the gateway and wires the
// agent and services on top of them.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logging.New("di")

	gw, err := NewGateway(cfg)
	if err != nil {
		return nil, err
	}

	pg, err := connectors.NewPostgresStore(ctx, cfg.Database.URL, connectors.PostgresOptions{
		MaxConns:         cfg.Database.MaxConns,
		StatementTimeout: cfg.Database.StatementTimeout,
	})
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "failed to connect to the database", err)
	}

	store, err := connectors.NewCachedStore(pg, cfg.Database.CacheTTL)
	if err != nil {
		pg.Close()
		return nil, apperrors.WrapError(apperrors.ErrCodeInternalError, "failed to create result cache", err)
	}
	if cfg.Database.CacheTTL > 0 {
		log.Debugf("Result cache enabled (ttl %s)", cfg.Database.CacheTTL)
	}

	c := NewWithStore(cfg, store, pg, gw)
	c.Postgres = pg
	return c, nil
}

// NewGateway builds the reasoning gateway described by cfg.LLM.
func NewGateway(cfg *config.Config) (*gateway.Client, error) {
	gw, err := gateway.New(gateway.Config{
		Backend: cfg.LLM.Backend,
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeConfigInvalid, "invalid LLM configuration", err)
	}
	return gw, nil
}

// NewWithStore wires the resolvers, agent and services around an existing
// store and gateway. finder may be nil; when it also reports stats the
// dashboard uses it.
func NewWithStore(cfg *config.Config, store interfaces.Store, finder interfaces.OrgFinder, gw interfaces.Gateway) *Container {
	resolver := orgs.New(finder, cfg.Agent.FuzzyFloor)
	cat := catalog.New()
	pre := terminology.New()

	a := agent.New(gw, store, resolver, cat, pre, agent.Options{
		MaxRetries:       cfg.Agent.MaxRetries,
		MaxTokens:        cfg.LLM.MaxTokens,
		Temperature:      cfg.LLM.Temperature,
		CategoryLimit:    cfg.Agent.CategoryLimit,
		CategoryMinScore: cfg.Agent.CategoryMinScore,
	})

	var stats interfaces.StatsProvider
	if sp, ok := finder.(interfaces.StatsProvider); ok {
		stats = sp
	}

	return &Container{
		Config:           cfg,
		Store:            store,
		Gateway:          gw,
		Orgs:             resolver,
		Catalog:          cat,
		Terminology:      pre,
		Agent:            a,
		QueryService:     services.NewQueryService(a),
		DashboardService: services.NewDashboardService(store, stats),
	}
}

// Health is the result of the startup checks
type Health struct {
	StoreErr         error
	GatewayAvailable bool
}

// Check pings the store and probes the gateway concurrently.
func (c *Container) Check(ctx context.Context) Health {
	var h Health
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h.StoreErr = c.Store.Ping(gctx)
		return nil
	})
	g.Go(func() error {
		h.GatewayAvailable = c.Gateway.Available(gctx)
		return nil
	})
	_ = g.Wait()
	return h
}

// RateLimiter returns the limiter for /api/ask: Redis-backed with an
// in-process fallback when server.redis_url is set, in-process otherwise.
func (c *Container) RateLimiter() (middleware.RateLimiter, error) {
	local := middleware.NewLocalRateLimiter()
	if c.Config.Server.RedisURL == "" {
		return local, nil
	}
	if c.redis == nil {
		opts, err := redis.ParseURL(c.Config.Server.RedisURL)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrCodeConfigInvalid, "invalid redis_url", err)
		}
		c.redis = redis.NewClient(opts)
	}
	return middleware.NewFallbackRateLimiter(middleware.NewRedisRateLimiter(c.redis), local), nil
}

// Close closes all resources
func (c *Container) Close() error {
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

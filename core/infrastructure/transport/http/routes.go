package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http/dto"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http/handlers"
	httpmiddleware "github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http/middleware"
)

// RouteConfig carries everything RegisterRoutes wires in
type RouteConfig struct {
	QueryService     interfaces.QueryService
	DashboardService interfaces.DashboardService

	// Limiter guards POST /api/ask; nil or a zero AskLimit disables limiting.
	Limiter    httpmiddleware.RateLimiter
	AskLimit   int
	AskWindow  time.Duration
	Version    string
	PublicBase string
}

// RegisterRoutes registers all HTTP routes
func RegisterRoutes(r chi.Router, cfg RouteConfig) {
	log := logging.New("routes")
	log.Infof("Registering HTTP routes")

	api := handlers.NewAPIHandler(cfg.QueryService, cfg.DashboardService)
	var routes []string

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", api.Health)
		r.Get("/stats", api.Stats)

		r.With(
			httpmiddleware.RateLimitByIP(cfg.Limiter, cfg.AskLimit, cfg.AskWindow),
			httpmiddleware.ValidateRequest[dto.AskRequest](),
		).Post("/ask", api.Ask)

		r.Group(func(r chi.Router) {
			r.Use(httpmiddleware.ValidateQueryParams(numericParams("limit", "max_edges", "min_amount")))
			r.Get("/top-spenders", api.TopSpenders)
			r.Get("/top-contractors", api.TopContractors)
			r.Get("/spending-by-date", api.SpendingByDate)
			r.Get("/recent-decisions", api.RecentDecisions)
			r.Get("/network", api.Network)
			r.Get("/anomalies", api.Anomalies)
		})
	})
	routes = append(routes,
		"GET /api/health", "GET /api/stats", "POST /api/ask",
		"GET /api/top-spenders", "GET /api/top-contractors", "GET /api/spending-by-date",
		"GET /api/recent-decisions", "GET /api/network", "GET /api/anomalies",
	)

	base := cfg.PublicBase
	if base == "" {
		base = "http://localhost:8000"
	}
	r.Get("/docs", handlers.OpenAPIHandler(base, cfg.Version))
	r.Get("/heartbeat", api.Heartbeat)
	r.Handle("/metrics", promhttp.Handler())
	routes = append(routes, "GET /docs", "GET /heartbeat", "GET /metrics")

	log.Infof("Routes registered: %d", len(routes))
	for _, route := range routes {
		log.Debugf("  %s", route)
	}
}

// numericParams rejects requests whose named query parameters are present
// but not numbers.
func numericParams(names ...string) func(*http.Request) error {
	return func(r *http.Request) error {
		q := r.URL.Query()
		for _, name := range names {
			v := q.Get(name)
			if v == "" {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return fmt.Errorf("query parameter %q must be a number", name)
			}
		}
		return nil
	}
}

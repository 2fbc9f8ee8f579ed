package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/diavgeia-watch/diavgeia/core/config"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/di"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/transport"
	httptransport "github.com/diavgeia-watch/diavgeia/core/infrastructure/transport/http"
	"github.com/diavgeia-watch/diavgeia/core/observability"
)

const telemetryShutdownTimeout = 5 * time.Second

var (
	port  string
	watch bool
)

// serveCmd runs the HTTP API used by the dashboard.
var serveCmd = &cobra.Command{
	Use:           "serve",
	Short:         "Serve the query and dashboard HTTP API",
	Args:          cobra.NoArgs,
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Server port (overrides config and PORT env var)")
	serveCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload log level and tags when the config file changes")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logging.New("main")
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	providers, err := observability.Setup(ctx, GetVersion())
	if err != nil {
		return logging.WithTag("observability", fmt.Errorf("failed to initialize telemetry: %w", err))
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer done()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Warnf("Telemetry shutdown: %v", err)
		}
	}()

	c, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return logging.WithTag("main", err)
	}
	defer c.Close()

	health := c.Check(ctx)
	if health.StoreErr != nil {
		log.Warnf("Database is not reachable: %v", health.StoreErr)
	}
	if !health.GatewayAvailable {
		log.Warnf("Backend %s is not reachable", c.Gateway.Describe())
	}

	limiter, err := c.RateLimiter()
	if err != nil {
		return logging.WithTag("main", err)
	}

	server := transport.NewServer(httptransport.Options{
		Port:        cfg.Server.Port,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	server.RegisterRoutes(httptransport.RouteConfig{
		QueryService:     c.QueryService,
		DashboardService: c.DashboardService,
		Limiter:          limiter,
		AskLimit:         cfg.Server.RateLimit.Requests,
		AskWindow:        cfg.Server.RateLimit.Window,
		Version:          GetVersion(),
		PublicBase:       "http://localhost:" + cfg.Server.Port,
	})
	log.Infof("Runtime initialized with %s", c.Gateway.Describe())

	if watch {
		go watchConfig(ctx, log)
	}
	return server.Run(ctx)
}

// watchConfig applies log level and tag changes from the config file. Other
// settings need a restart.
func watchConfig(ctx context.Context, log logging.Logger) {
	path := configFile
	if path == "" {
		path = config.DefaultFile
	}
	err := config.Watch(ctx, path, func(next *config.Config) {
		overrides().Apply(next)
		logging.SetLogLevel(next.Log.Level)
		logging.SetTagFilter(next.Log.Tags)
	})
	if err != nil {
		log.Warnf("Config watcher stopped: %v", err)
	}
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/diavgeia-watch/diavgeia/core/infrastructure/di"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	apperrors "github.com/diavgeia-watch/diavgeia/core/shared/errors"
)

// openContainer loads the configuration, connects to the store and runs the
// startup checks. An unreachable backend is only a warning.
func openContainer(cmd *cobra.Command) (*di.Container, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logging.New("cli")
	ctx := cmd.Context()

	c, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return nil, logging.WithTag("cli", err)
	}

	health := c.Check(ctx)
	if health.StoreErr != nil {
		_ = c.Close()
		return nil, logging.WithTag("connector:postgres",
			apperrors.WrapError(apperrors.ErrCodeConnectionFailed, "cannot connect to the database", health.StoreErr))
	}
	if !health.GatewayAvailable {
		log.Warnf("Backend %s is not reachable, answers will fail until it is", c.Gateway.Describe())
		if cfg.LLM.Backend == "ollama" {
			log.Warnf("Make sure Ollama is running: ollama serve")
		}
	}
	log.Infof("Using model %s", c.Gateway.Describe())

	if stats, err := c.DashboardService.Stats(ctx); err == nil {
		log.Debugf("Store holds %d decisions and %d expense items", stats.TotalDecisions, stats.TotalExpenseItems)
		if stats.TotalDecisions == 0 {
			log.Warnf("The database is empty, load decisions before asking questions")
		}
	}
	return c, nil
}

package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/diavgeia-watch/diavgeia/core/infrastructure/di"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
)

var modelsCmd = &cobra.Command{
	Use:           "models",
	Short:         "Check the LLM backend and list its models",
	Args:          cobra.NoArgs,
	RunE:          runModels,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gw, err := di.NewGateway(cfg)
	if err != nil {
		return logging.WithTag("gateway", err)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := logging.New("cli")

	status := "reachable"
	if !gw.Available(ctx) {
		status = "unreachable"
	}
	fmt.Fprintf(out, "Backend: %s (%s)\n", gw.Describe(), status)

	configured := gw.Model()
	names, err := gw.Models(ctx)
	if err != nil {
		log.Warnf("Could not list models: %v", err)
	}
	for _, name := range names {
		marker := " "
		if name == configured {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %s\n", marker, name)
	}

	if cfg.LLM.Backend == "ollama" && err == nil && !slices.Contains(names, configured) {
		log.Warnf("Model %s is not pulled, run: ollama pull %s", configured, configured)
	}
	return nil
}

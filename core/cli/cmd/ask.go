package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/diavgeia-watch/diavgeia/core/cli/internal"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
	apperrors "github.com/diavgeia-watch/diavgeia/core/shared/errors"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question about public spending",
	Example: `  diavgeia ask "Πόσα ξόδεψε ο Δήμος Αθηναίων το 2024;"
  diavgeia ask --verbose "Top 10 contractors for cleaning services"`,
	Args:          cobra.MinimumNArgs(1),
	RunE:          runAsk,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return logging.WithTag("cli", apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "Question cannot be empty", nil))
	}

	c, err := openContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	outcome := c.Agent.Ask(cmd.Context(), question)
	internal.PrintOutcome(cmd.OutOrStdout(), outcome, verbose)
	return nil
}

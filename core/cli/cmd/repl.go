package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/diavgeia-watch/diavgeia/core/cli/internal"
)

var replCmd = &cobra.Command{
	Use:           "repl",
	Short:         "Ask questions interactively",
	Args:          cobra.NoArgs,
	RunE:          runREPL,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, _ []string) error {
	c, err := openContainer(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	repl := &internal.REPL{
		Asker:   c.Agent,
		Stats:   c.DashboardService.Stats,
		In:      cmd.InOrStdin(),
		Out:     cmd.OutOrStdout(),
		Verbose: true,
		Prompt:  term.IsTerminal(int(os.Stdin.Fd())),
	}
	return repl.Run(cmd.Context())
}

package cli

import (
	"github.com/diavgeia-watch/diavgeia/core/cli/cmd"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
)

// Execute runs the CLI
func Execute() error {
	if err := cmd.Execute(); err != nil {
		tag := logging.ErrorTag(err)
		if tag == "" {
			tag = "cli"
		}
		logging.New(tag).Error(err.Error())
		return err
	}
	return nil
}

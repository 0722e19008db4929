// Package cmd is the process entrypoint shared by main.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/regdash/regdash/internal/adapters/in/cli"
	"github.com/regdash/regdash/pkg/logger"
	"github.com/regdash/regdash/pkg/version"
)

// ExecuteCLI records the build information and runs the root command.
func ExecuteCLI(build, commit, date string) {
	version.Set(build, commit, date)
	logger.GetLogger().ConfigureFromEnv()

	cobra.CheckErr(cli.NewRootCmd().Execute())
}

// Package cli implements the CLI adapter for regdash.
// This package provides Cobra commands that delegate to the app layer.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the regdash CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "regdash",
		Short: "regdash - a dashboard for a private container registry",
		Long: `regdash serves a small web dashboard in front of a Docker registry.

It lists repositories and tags, copies images into the registry by running
docker pull, tag and push with live logs, deletes tags, and proxies the
registry API under /v2.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newReposCmd(nil))

	return rootCmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/regdash/regdash/internal/app"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		Long:  `Start the dashboard HTTP server, including the API, the registry proxy and the web UI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	return cmd
}

package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/regdash/regdash/pkg/version"
)

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			w := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(w, "regdash %s\n", info.Version)
			color.New(color.FgBlue).Fprintf(w, "Commit: %s\n", info.Commit)
			color.New(color.FgBlue).Fprintf(w, "Build Date: %s\n", info.BuildDate)
		},
	}
}

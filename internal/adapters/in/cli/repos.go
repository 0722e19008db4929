package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/regdash/regdash/internal/adapters/out/registry"
	"github.com/regdash/regdash/internal/boundaries/out"
	"github.com/regdash/regdash/internal/config"
	"github.com/regdash/regdash/pkg/logger"
)

// catalogFactory builds the catalog client for a registry URL.
type catalogFactory func(registryURL string) (out.CatalogRegistry, error)

func defaultCatalog(registryURL string) (out.CatalogRegistry, error) {
	return registry.New(registryURL, registry.WithLogger(logger.Component("registry")))
}

// newReposCmd creates the repos command. A nil factory uses the registry client.
func newReposCmd(factory catalogFactory) *cobra.Command {
	if factory == nil {
		factory = defaultCatalog
	}

	var (
		configPath  string
		registryURL string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "repos [repository]",
		Short: "List repositories, or the tags of one repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if registryURL == "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				registryURL = cfg.Registry.URL
			}

			catalog, err := factory(registryURL)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if len(args) == 1 {
				return listTags(ctx, cmd, catalog, args[0])
			}
			return listRepositories(ctx, cmd, catalog, registryURL)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&registryURL, "registry", "", "Registry URL (overrides config)")
	cmd.Flags().DurationVar(&timeout, "timeout", registry.DefaultTimeout, "Request timeout")

	return cmd
}

func listRepositories(ctx context.Context, cmd *cobra.Command, catalog out.CatalogRegistry, registryURL string) error {
	repos, err := catalog.ListRepositories(ctx)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if err := writeLine(w, theme.Title.Render("Repositories")+" "+theme.Muted.Render(registryURL)); err != nil {
		return err
	}
	if len(repos) == 0 {
		return writeLine(w, theme.Muted.Render("No repositories"))
	}
	for _, repo := range repos {
		if err := writeLine(w, renderListItem(repo)); err != nil {
			return err
		}
	}
	return nil
}

func listTags(ctx context.Context, cmd *cobra.Command, catalog out.CatalogRegistry, repo string) error {
	tags, err := catalog.ListTags(ctx, repo)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if err := writeLine(w, theme.Title.Render(repo)+" "+theme.Muted.Render(fmt.Sprintf("%d tags", len(tags)))); err != nil {
		return err
	}
	for _, tag := range tags {
		if err := writeLine(w, renderListItem(tag)); err != nil {
			return err
		}
	}
	return nil
}

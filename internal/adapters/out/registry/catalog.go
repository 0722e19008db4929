package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
)

func (c *Client) nameOptions() []name.Option {
	if c.baseURL.Scheme == "http" {
		return []name.Option{name.Insecure}
	}
	return nil
}

func (c *Client) remoteOptions(ctx context.Context) []remote.Option {
	opts := []remote.Option{remote.WithContext(ctx)}
	if c.http.Transport != nil {
		opts = append(opts, remote.WithTransport(c.http.Transport))
	}
	return opts
}

// ListRepositories returns the registry catalog, sorted.
func (c *Client) ListRepositories(ctx context.Context) ([]string, error) {
	reg, err := name.NewRegistry(c.baseURL.Host, c.nameOptions()...)
	if err != nil {
		return nil, fmt.Errorf("parse registry %q: %w", c.baseURL.Host, err)
	}

	repos, err := remote.Catalog(ctx, reg, c.remoteOptions(ctx)...)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	sort.Strings(repos)
	return repos, nil
}

// ListTags returns the tags of repo, sorted.
func (c *Client) ListTags(ctx context.Context, repo string) ([]string, error) {
	ref, err := name.NewRepository(c.baseURL.Host+"/"+repo, c.nameOptions()...)
	if err != nil {
		return nil, fmt.Errorf("parse repository %q: %w", repo, err)
	}

	tags, err := remote.List(ref, c.remoteOptions(ctx)...)
	if err != nil {
		return nil, fmt.Errorf("list tags of %s: %w", repo, err)
	}
	sort.Strings(tags)
	return tags, nil
}

package out

import (
	"context"

	"github.com/opencontainers/go-digest"
)

// ManifestRegistry performs manifest operations against the upstream registry.
type ManifestRegistry interface {
	ResolveDigest(ctx context.Context, repo, tag string) (digest.Digest, error)
	DeleteByDigest(ctx context.Context, repo string, dgst digest.Digest) error
}

// CatalogRegistry lists repositories and tags of the upstream registry.
type CatalogRegistry interface {
	ListRepositories(ctx context.Context) ([]string, error)
	ListTags(ctx context.Context, repo string) ([]string, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}


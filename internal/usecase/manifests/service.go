// Package manifests implements tag deletion against the upstream registry.
package manifests

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/regdash/regdash/internal/boundaries/out"
	"github.com/regdash/regdash/internal/domain"
	"github.com/regdash/regdash/pkg/validation"
)

// Service implements the ManifestService interface.
type Service struct {
	registry out.ManifestRegistry
	log      *log.Logger
}

// NewService creates a new manifests service.
func NewService(registry out.ManifestRegistry, log *log.Logger) *Service {
	return &Service{
		registry: registry,
		log:      log,
	}
}

// Delete resolves ref to its digest and deletes the manifest by digest.
//
// The two calls are not atomic: a push or retag between them deletes the
// manifest the tag pointed to at resolution time, not the current one.
func (s *Service) Delete(ctx context.Context, ref domain.ManifestReference) (*domain.DeletedManifest, error) {
	if err := validation.ValidateRepositoryName(ref.Repository); err != nil {
		return nil, fmt.Errorf("%w: repo: %w", domain.ErrInvalidInput, err)
	}
	if err := validation.ValidateTag(ref.Tag); err != nil {
		return nil, fmt.Errorf("%w: tag: %w", domain.ErrInvalidInput, err)
	}

	dgst, err := s.registry.ResolveDigest(ctx, ref.Repository, ref.Tag)
	if err != nil {
		s.log.Warn("manifest fetch failed", "repo", ref.Repository, "tag", ref.Tag, "error", err)
		return nil, err
	}

	if err := s.registry.DeleteByDigest(ctx, ref.Repository, dgst); err != nil {
		s.log.Warn("manifest delete failed", "repo", ref.Repository, "tag", ref.Tag, "digest", dgst, "error", err)
		return nil, err
	}

	s.log.Info("tag deleted", "repo", ref.Repository, "tag", ref.Tag, "digest", dgst)
	return &domain.DeletedManifest{ManifestReference: ref, Digest: dgst}, nil
}

package in

import (
	"context"

	"github.com/regdash/regdash/internal/domain"
)

// ManifestService removes tagged manifests from the upstream registry.
type ManifestService interface {
	Delete(ctx context.Context, ref domain.ManifestReference) (*domain.DeletedManifest, error)
}

// Package in defines input ports (interfaces) for use cases.
// These interfaces define the contract between driving adapters (HTTP, CLI)
// and the business logic (use cases).
package in

import (
	"context"

	"github.com/regdash/regdash/internal/domain"
)

// PushService copies an image into the configured registry.
type PushService interface {
	// Push runs pull, tag and push for image, reporting progress to the
	// stream registered under sessionID when it is not empty. A failing
	// stage is returned as *domain.StageError.
	Push(ctx context.Context, image, sessionID string) (*domain.PushResult, error)
}

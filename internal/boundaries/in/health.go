package in

import (
	"context"

	"github.com/regdash/regdash/internal/domain"
)

// HealthService reports the reachability of the dashboard's dependencies.
type HealthService interface {
	Check(ctx context.Context) domain.HealthReport
}

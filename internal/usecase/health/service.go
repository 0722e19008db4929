// Package health implements the dependency health check use case.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/regdash/regdash/internal/boundaries/out"
	"github.com/regdash/regdash/internal/domain"
)

// DefaultTimeout bounds each probe.
const DefaultTimeout = 5 * time.Second

// Service implements the HealthService interface.
type Service struct {
	docker   out.Pinger
	registry out.Pinger
	timeout  time.Duration
	log      *log.Logger
}

// NewService creates a new health service. A nil docker pinger reports the
// daemon as unavailable.
func NewService(docker, registry out.Pinger, log *log.Logger) *Service {
	return &Service{
		docker:   docker,
		registry: registry,
		timeout:  DefaultTimeout,
		log:      log,
	}
}

// Check probes the Docker daemon and the upstream registry concurrently.
func (s *Service) Check(ctx context.Context) domain.HealthReport {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		report domain.HealthReport
		wg     sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		report.Docker = s.probe(ctx, "docker", s.docker)
	}()
	go func() {
		defer wg.Done()
		report.Registry = s.probe(ctx, "registry", s.registry)
	}()
	wg.Wait()

	return report
}

func (s *Service) probe(ctx context.Context, name string, p out.Pinger) string {
	if p == nil {
		return "not configured"
	}
	if err := p.Ping(ctx); err != nil {
		s.log.Warn("health probe failed", "dependency", name, "error", err)
		return err.Error()
	}
	return ""
}

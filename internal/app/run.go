// Package app provides the application initialization and wiring.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	// Adapters - Input
	"github.com/regdash/regdash/internal/adapters/in/http/api"

	// Adapters - Output
	"github.com/regdash/regdash/internal/adapters/out/docker"
	"github.com/regdash/regdash/internal/adapters/out/eventbus"
	"github.com/regdash/regdash/internal/adapters/out/registry"
	"github.com/regdash/regdash/internal/adapters/out/subprocess"

	// Boundaries
	"github.com/regdash/regdash/internal/boundaries/out"

	// Use cases
	"github.com/regdash/regdash/internal/usecase/health"
	"github.com/regdash/regdash/internal/usecase/manifests"
	"github.com/regdash/regdash/internal/usecase/push"

	"github.com/regdash/regdash/internal/config"
	"github.com/regdash/regdash/internal/webui"
	"github.com/regdash/regdash/pkg/logger"
)

// shutdownTimeout bounds the graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Run loads the configuration at configPath and serves the dashboard until
// ctx is cancelled or the process receives SIGINT or SIGTERM.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.GetLogger().SetLogLevel(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer srv.close()
	srv.logDockerVersion(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", cfg.Address(), "registry", cfg.Registry.URL, "registry_host", cfg.Registry.Host)
		if err := srv.echo.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Received shutdown signal")
	return srv.shutdown()
}

// server holds the wired components of a running dashboard.
type server struct {
	echo     *echo.Echo
	sessions *eventbus.SessionBus
	docker   *docker.Runtime
	log      *log.Logger
}

// newServer wires adapters and use cases. Push chains are bound to ctx.
func newServer(ctx context.Context, cfg *config.Config) (*server, error) {
	registryURL, err := url.Parse(cfg.Registry.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry url: %w", err)
	}

	registryClient, err := registry.New(cfg.Registry.URL, registry.WithLogger(logger.Component("registry")))
	if err != nil {
		return nil, err
	}

	ui, err := webui.FS(cfg.UI.Dir)
	if err != nil {
		return nil, err
	}

	sessions := eventbus.NewSessionBus(logger.Component("sessions"))
	runner := subprocess.NewRunner(logger.Component("runner"))

	// The daemon probe is optional: pushes go through the CLI.
	var dockerPinger out.Pinger
	dockerRuntime, err := docker.NewRuntime()
	if err != nil {
		logger.Warn("Docker client unavailable, health checks will report it", "error", err)
	} else {
		dockerPinger = dockerRuntime
	}

	pushSvc := push.NewService(runner, sessions, push.Config{
		RegistryHost: cfg.Registry.Host,
		DockerBinary: cfg.Docker.Binary,
		StageTimeout: cfg.Push.StageTimeout,
	}, logger.Component("push"))
	manifestSvc := manifests.NewService(registryClient, logger.Component("manifests"))
	healthSvc := health.NewService(dockerPinger, registryClient, logger.Component("health"))

	handler := api.NewHandler(ctx, api.Services{
		Push:      pushSvc,
		Manifests: manifestSvc,
		Health:    healthSvc,
		Sessions:  sessions,
	}, cfg.Registry.Host, logger.Component("api"))

	e := api.NewServer(api.ServerConfig{
		RegistryURL:   registryURL,
		UI:            ui,
		PushRateLimit: cfg.Push.RateLimit,
	}, handler, logger.Component("http"))

	return &server{
		echo:     e,
		sessions: sessions,
		docker:   dockerRuntime,
		log:      logger.Component("app"),
	}, nil
}

// shutdown stops accepting requests, then ends the remaining event streams.
func (s *server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Streams only end once their sessions are closed.
	s.sessions.CloseAll()

	s.log.Info("Shutting down server...")
	if err := s.echo.Shutdown(ctx); err != nil {
		s.log.Error("Server shutdown error", "error", err)
		return err
	}

	s.log.Info("Shutdown complete")
	return nil
}

// logDockerVersion reports the daemon the docker CLI will talk to.
func (s *server) logDockerVersion(ctx context.Context) {
	if s.docker == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	v, err := s.docker.Version(ctx)
	if err != nil {
		s.log.Warn("Docker daemon unreachable, pushes will fail until it is up", "error", err)
		return
	}
	s.log.Info("Docker daemon", "version", v)
}

func (s *server) close() {
	if s.docker == nil {
		return
	}
	if err := s.docker.Close(); err != nil {
		s.log.Debug("docker client close failed", "error", err)
	}
}

// Package docker implements the Docker daemon probe using the Docker API.
// Image transfer itself goes through the docker CLI; this adapter only
// checks that the daemon the CLI talks to is reachable.
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
)

// pinger is the subset of the Docker API client used here.
type pinger interface {
	Ping(ctx context.Context) (types.Ping, error)
	ServerVersion(ctx context.Context) (types.Version, error)
	Close() error
}

// Runtime probes the Docker daemon.
type Runtime struct {
	client pinger
}

// NewRuntime creates a Docker runtime from the standard DOCKER_* environment.
func NewRuntime() (*Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Runtime{
		client: cli,
	}, nil
}

// Ping checks if Docker is responsive.
func (r *Runtime) Ping(ctx context.Context) error {
	if _, err := r.client.Ping(ctx); err != nil {
		return fmt.Errorf("docker ping failed: %w", err)
	}
	return nil
}

// Version returns the Docker daemon version.
func (r *Runtime) Version(ctx context.Context) (string, error) {
	v, err := r.client.ServerVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("docker version failed: %w", err)
	}
	return v.Version, nil
}

// Close releases the client connection.
func (r *Runtime) Close() error {
	return r.client.Close()
}

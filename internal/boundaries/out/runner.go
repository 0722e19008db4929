// Package out defines output ports (interfaces) for infrastructure.
// These interfaces define the contract between use cases and driven adapters
// (subprocesses, the upstream registry, the Docker daemon, log streams).
package out

import (
	"context"

	"github.com/regdash/regdash/internal/domain"
)

// CommandRunner starts external executables.
type CommandRunner interface {
	// Start launches name with args. A launch failure is returned as an error
	// wrapping domain.ErrLaunchFailed; a non-zero exit is reported by Wait.
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// Process is a running command whose output is read line by line.
type Process interface {
	// Lines yields stdout and stderr lines as they are read. The channel is
	// closed once both streams are drained.
	Lines() <-chan domain.OutputLine

	// Wait blocks until the process exits and returns its exit code.
	// The error is non-nil only when the exit code could not be determined
	// or the context expired (domain.ErrStageTimeout).
	Wait() (int, error)
}

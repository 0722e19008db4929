package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business-level errors that can occur in the system.
// These errors are used across layers to communicate specific failure conditions.
var (
	// Input errors
	ErrInvalidImage = errors.New("invalid image reference")
	ErrInvalidInput = errors.New("invalid input")

	// Subprocess errors
	ErrLaunchFailed = errors.New("failed to launch process")
	ErrStageTimeout = errors.New("stage timed out")

	// Registry errors
	ErrManifestNotFound = errors.New("manifest not found")
	ErrDeleteFailed     = errors.New("manifest delete failed")
)

// StageError reports the first failing stage of a push operation.
type StageError struct {
	Stage    Stage
	ExitCode int
	Detail   string
	Logs     []string
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("docker %s failed", e.Stage)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RegistryError carries the upstream status code of a failed registry call.
// StatusCode is zero when the request never got a response.
type RegistryError struct {
	Op         string
	Repository string
	Reference  string
	StatusCode int
	Err        error
}

func (e *RegistryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s:%s: %v (status %d)", e.Op, e.Repository, e.Reference, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s %s:%s: %v", e.Op, e.Repository, e.Reference, e.Err)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

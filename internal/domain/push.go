package domain

import (
	"fmt"
	"time"
)

// Stage is one step of a push operation.
type Stage string

const (
	StagePull Stage = "pull"
	StageTag  Stage = "tag"
	StagePush Stage = "push"
)

// StreamKind identifies which output stream a line was read from.
type StreamKind string

const (
	StreamStdout StreamKind = "stdout"
	StreamStderr StreamKind = "stderr"
)

// OutputLine is a single line captured from a subprocess.
type OutputLine struct {
	Stream StreamKind
	Text   string
}

// LogEntry is one line of the accumulated push log.
type LogEntry struct {
	Time    time.Time
	Stage   Stage
	Message string
}

// Line returns the stage-prefixed message forwarded to log streams.
func (e LogEntry) Line() string {
	if e.Stage == "" {
		return e.Message
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format("15:04:05"), e.Line())
}

// StageResult holds the captured output and outcome of one stage.
type StageResult struct {
	Stage    Stage
	Args     []string
	Stdout   []string
	Stderr   []string
	ExitCode int
	Duration time.Duration
}

// Succeeded reports whether the stage exited cleanly.
func (r StageResult) Succeeded() bool {
	return r.ExitCode == 0
}

// PushResult is the aggregate result of a successful push operation.
type PushResult struct {
	Image       string
	Destination string
	Stages      []StageResult
	Log         string
	Logs        []string
}

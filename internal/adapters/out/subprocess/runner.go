// Package subprocess implements the command runner adapter on top of os/exec.
package subprocess

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/regdash/regdash/internal/boundaries/out"
	"github.com/regdash/regdash/internal/domain"
)

// maxLineSize bounds a single output line; longer lines are emitted in
// chunks of this size.
const maxLineSize = 1 << 20

// readBufferSize is the pipe read buffer.
const readBufferSize = 64 * 1024

// Runner starts commands and streams their output line by line.
type Runner struct {
	log *log.Logger
}

// NewRunner creates a new subprocess runner.
func NewRunner(log *log.Logger) *Runner {
	return &Runner{log: log}
}

// Process is a started command.
type Process struct {
	cmd     *exec.Cmd
	ctx     context.Context
	log     *log.Logger
	lines   chan domain.OutputLine
	drained chan struct{}
}

// Start launches name with args. The process is killed when ctx is done.
func (r *Runner) Start(ctx context.Context, name string, args ...string) (out.Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLaunchFailed, name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLaunchFailed, name, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLaunchFailed, name, err)
	}

	r.log.Debug("process started", "cmd", name, "args", args, "pid", cmd.Process.Pid)

	p := &Process{
		cmd:     cmd,
		ctx:     ctx,
		log:     r.log,
		lines:   make(chan domain.OutputLine),
		drained: make(chan struct{}),
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go p.scan(&wg, stdout, domain.StreamStdout)
	go p.scan(&wg, stderr, domain.StreamStderr)
	go func() {
		wg.Wait()
		close(p.lines)
		close(p.drained)
	}()

	return p, nil
}

func (p *Process) scan(wg *sync.WaitGroup, r io.Reader, stream domain.StreamKind) {
	defer wg.Done()

	br := bufio.NewReaderSize(r, readBufferSize)
	var line []byte
	for {
		chunk, err := br.ReadSlice('\n')
		line = append(line, chunk...)

		switch {
		case err == nil:
			p.emit(stream, line[:len(line)-1])
			line = line[:0]

		case errors.Is(err, bufio.ErrBufferFull):
			if len(line) >= maxLineSize {
				p.log.Warn("output line exceeds limit, splitting", "stream", stream, "limit", maxLineSize)
				p.emit(stream, line)
				line = line[:0]
			}

		default:
			if len(line) > 0 {
				p.emit(stream, line)
			}
			if !errors.Is(err, io.EOF) {
				p.log.Warn("output read failed", "stream", stream, "error", err)
				// Keep draining so the child never blocks on a full pipe.
				_, _ = io.Copy(io.Discard, r)
			}
			return
		}
	}
}

func (p *Process) emit(stream domain.StreamKind, text []byte) {
	p.lines <- domain.OutputLine{Stream: stream, Text: strings.TrimSuffix(string(text), "\r")}
}

// Lines yields output lines; it is closed once stdout and stderr hit EOF.
// Callers must drain it before calling Wait.
func (p *Process) Lines() <-chan domain.OutputLine {
	return p.lines
}

// Wait returns the exit code of the process. A non-zero exit is not an error.
// A process that exited on its own reports its code even if ctx ended
// meanwhile; only a killed process is attributed to ctx.
func (p *Process) Wait() (int, error) {
	<-p.drained
	err := p.cmd.Wait()

	if state := p.cmd.ProcessState; state != nil && state.Exited() {
		return state.ExitCode(), nil
	}

	if ctxErr := p.ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return -1, domain.ErrStageTimeout
		}
		return -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err == nil {
		return 0, nil
	}
	return -1, fmt.Errorf("wait for %s: %w", p.cmd.Path, err)
}

// Package push implements the push use case: pull an image, re-tag it for the
// configured registry and push it there, reporting progress to a session.
package push

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/regdash/regdash/internal/boundaries/out"
	"github.com/regdash/regdash/internal/domain"
	"github.com/regdash/regdash/pkg/validation"
)

// DefaultStageTimeout bounds a single docker invocation.
const DefaultStageTimeout = 10 * time.Minute

// Config holds the push settings.
type Config struct {
	RegistryHost string
	DockerBinary string
	StageTimeout time.Duration
}

// Service implements the PushService interface.
type Service struct {
	runner   out.CommandRunner
	sessions out.SessionEmitter
	cfg      Config
	log      *log.Logger
	now      func() time.Time
}

// NewService creates a new push service.
func NewService(runner out.CommandRunner, sessions out.SessionEmitter, cfg Config, log *log.Logger) *Service {
	if cfg.DockerBinary == "" {
		cfg.DockerBinary = "docker"
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = DefaultStageTimeout
	}
	return &Service{
		runner:   runner,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

type step struct {
	stage domain.Stage
	args  []string
}

// Push runs pull, tag and push in sequence and stops at the first failing
// stage. The returned error is a *domain.StageError for stage failures.
func (s *Service) Push(ctx context.Context, image, sessionID string) (*domain.PushResult, error) {
	if err := validation.ValidateImage(image); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidImage, err)
	}

	destination := validation.DestinationReference(s.cfg.RegistryHost, image)
	op := &operation{svc: s, sessionID: sessionID}

	s.log.Info("push started", "image", image, "destination", destination, "session", sessionID)
	s.sessions.Emit(sessionID, domain.StatusEvent(domain.PushStatusStarting))

	steps := []step{
		{stage: domain.StagePull, args: []string{"pull", image}},
		{stage: domain.StageTag, args: []string{"tag", image, destination}},
		{stage: domain.StagePush, args: []string{"push", destination}},
	}

	results := make([]domain.StageResult, 0, len(steps))
	for _, st := range steps {
		res, err := op.run(ctx, st)
		results = append(results, res)
		s.log.Debug("stage finished", "stage", st.stage, "exit_code", res.ExitCode, "duration", res.Duration)
		if err == nil && res.Succeeded() {
			continue
		}

		s.sessions.Emit(sessionID, domain.StatusEvent(domain.PushStatusError))
		stageErr := &domain.StageError{
			Stage:    st.stage,
			ExitCode: res.ExitCode,
			Detail:   failureDetail(res, err),
			Logs:     op.lines(),
			Err:      err,
		}
		s.log.Error("push failed", "image", image, "stage", st.stage, "exit_code", res.ExitCode, "error", err)
		return nil, stageErr
	}

	s.sessions.Emit(sessionID, domain.StatusEvent(domain.PushStatusCompleted))
	s.sessions.Emit(sessionID, domain.CloseEvent())

	var combined strings.Builder
	for _, res := range results {
		for _, line := range res.Stdout {
			combined.WriteString(line)
			combined.WriteByte('\n')
		}
	}

	s.log.Info("push completed", "image", image, "destination", destination)

	return &domain.PushResult{
		Image:       image,
		Destination: destination,
		Stages:      results,
		Log:         combined.String(),
		Logs:        op.lines(),
	}, nil
}

// operation accumulates the log of one push.
type operation struct {
	svc       *Service
	sessionID string
	entries   []domain.LogEntry
}

func (o *operation) record(stage domain.Stage, message string) {
	entry := domain.LogEntry{Time: o.svc.now(), Stage: stage, Message: message}
	o.entries = append(o.entries, entry)
	o.svc.sessions.Emit(o.sessionID, domain.LogEvent(entry.Line()))
}

func (o *operation) lines() []string {
	lines := make([]string, len(o.entries))
	for i, e := range o.entries {
		lines[i] = e.String()
	}
	return lines
}

func (o *operation) run(ctx context.Context, st step) (res domain.StageResult, err error) {
	res = domain.StageResult{Stage: st.stage, Args: st.args, ExitCode: -1}
	start := o.svc.now()
	defer func() { res.Duration = o.svc.now().Sub(start) }()

	stageCtx, cancel := context.WithTimeout(ctx, o.svc.cfg.StageTimeout)
	defer cancel()

	o.record(st.stage, "$ "+o.svc.cfg.DockerBinary+" "+strings.Join(st.args, " "))

	proc, err := o.svc.runner.Start(stageCtx, o.svc.cfg.DockerBinary, st.args...)
	if err != nil {
		o.record(st.stage, err.Error())
		return res, err
	}

	for line := range proc.Lines() {
		switch line.Stream {
		case domain.StreamStderr:
			res.Stderr = append(res.Stderr, line.Text)
		default:
			res.Stdout = append(res.Stdout, line.Text)
		}
		o.record(st.stage, line.Text)
	}

	res.ExitCode, err = proc.Wait()
	if errors.Is(err, domain.ErrStageTimeout) {
		o.record(st.stage, fmt.Sprintf("timed out after %s", o.svc.cfg.StageTimeout))
	} else if err != nil {
		o.record(st.stage, err.Error())
	}

	return res, err
}

func failureDetail(res domain.StageResult, err error) string {
	if len(res.Stderr) > 0 {
		return strings.Join(res.Stderr, "\n")
	}
	if len(res.Stdout) > 0 {
		return strings.Join(res.Stdout, "\n")
	}
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("exit status %d", res.ExitCode)
}

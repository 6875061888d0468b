// Package scheduler drives the session cycle: it wakes on a fixed interval,
// advances the cycle state machine, composes the session message, runs the
// assistant through the external process runner, and logs the classified
// outcome.
//
// The loop is strictly serial. Ticks are chained with DelayIfStillRunning, so
// a new invocation never starts while the previous one is still inside the
// runner; that keeps the "continue previous session" model of the middle
// steps well-defined. No invocation error ever aborts the loop — only an
// operator interrupt stops continuous mode.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/aatumaykin/sessiond/internal/compose"
	"github.com/aatumaykin/sessiond/internal/constants"
	"github.com/aatumaykin/sessiond/internal/cycle"
	"github.com/aatumaykin/sessiond/internal/logger"
	"github.com/aatumaykin/sessiond/internal/metrics"
	"github.com/aatumaykin/sessiond/internal/runner"
)

// DiaryChecker is the freshness contract consumed on the final step.
type DiaryChecker interface {
	HasFreshEntry(since time.Time) bool
}

// NoticeSource is the pending-notices contract, queried best-effort on every
// invocation.
type NoticeSource interface {
	Pending(ctx context.Context) (int, []string, error)
}

// Config assembles the scheduler's settings and collaborators.
// Diary, Notices, and Metrics are optional; Clock defaults to time.Now.
type Config struct {
	IntervalMinutes int
	SessionTimeout  time.Duration
	MaxSteps        int

	Composer *compose.Composer
	Runner   runner.SessionRunner
	Diary    DiaryChecker
	Notices  NoticeSource
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Clock    func() time.Time
}

// Scheduler is the top-level timer-driven driver of the session cycle.
type Scheduler struct {
	cfg     Config
	machine *cycle.Machine
	logger  *logger.Logger
	clock   func() time.Time
}

// New creates a scheduler. Configuration errors are fatal for the caller;
// they are the only errors this package ever reports before the loop starts.
func New(cfg Config) (*Scheduler, error) {
	if cfg.IntervalMinutes < 1 {
		return nil, fmt.Errorf("interval must be a positive number of minutes (got %d)", cfg.IntervalMinutes)
	}
	if cfg.SessionTimeout <= 0 {
		return nil, fmt.Errorf("session timeout must be positive (got %s)", cfg.SessionTimeout)
	}
	if cfg.Composer == nil {
		return nil, fmt.Errorf("composer is required")
	}
	if cfg.Runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	machine, err := cycle.NewMachine(cfg.MaxSteps)
	if err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Scheduler{
		cfg:     cfg,
		machine: machine,
		logger:  cfg.Logger,
		clock:   clock,
	}, nil
}

// RunOnce performs exactly one session invocation and returns its result.
func (s *Scheduler) RunOnce(ctx context.Context) runner.Result {
	return s.tick(ctx)
}

// Start runs continuous mode: one immediate invocation, then one per interval
// until the context is cancelled. It blocks until shutdown is complete,
// including any invocation still in flight when the interrupt arrived.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.DelayIfStillRunning(cronLogger{log: s.logger})))

	spec := fmt.Sprintf("@every %dm", s.cfg.IntervalMinutes)
	if _, err := c.AddFunc(spec, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule sessions: %w", err)
	}

	s.logger.Info("scheduler started",
		logger.Field{Key: "interval_minutes", Value: s.cfg.IntervalMinutes},
		logger.Field{Key: "session_timeout", Value: s.cfg.SessionTimeout},
		logger.Field{Key: "steps_per_cycle", Value: s.machine.MaxSteps()})

	// The first session runs immediately; the timer takes over afterwards.
	s.tick(ctx)

	c.Start()
	<-ctx.Done()

	// Let an in-flight tick drain before reporting a clean stop. Its own
	// timeout floor bounds how long this can take.
	<-c.Stop().Done()

	s.logger.Info("scheduler stopped")
	return nil
}

// tick performs one full invocation: advance, compose, run, classify, log.
// It never returns an error; a failed session only affects its own step.
func (s *Scheduler) tick(ctx context.Context) runner.Result {
	now := s.clock()
	req := s.machine.Advance(now)

	log := s.logger.With(
		logger.Field{Key: "run_id", Value: uuid.New().String()[:8]},
		logger.Field{Key: "step", Value: req.Step})

	if req.Step == 1 {
		log.Info("starting new cycle",
			logger.Field{Key: "cycle_start", Value: req.CycleStart.Format(constants.TimestampLayout)})
	}

	message := s.cfg.Composer.Build(req, now, s.collectNotices(ctx, req, log))

	log.Info("starting session",
		logger.Field{Key: "total_steps", Value: req.TotalSteps},
		logger.Field{Key: "continue_previous", Value: req.ContinuePrevious},
		logger.Field{Key: "final", Value: req.Final})

	res := s.cfg.Runner.Run(ctx, message, req.ContinuePrevious, s.cfg.SessionTimeout)

	switch res.Outcome {
	case runner.OutcomeCompleted:
		log.Info("session completed",
			logger.Field{Key: "duration", Value: res.Duration})
	case runner.OutcomeTimedOut:
		log.Warn("session timed out",
			logger.Field{Key: "duration", Value: res.Duration})
	case runner.OutcomeFailed:
		log.Error("session failed", errors.New(res.Reason),
			logger.Field{Key: "exit_code", Value: res.ExitCode},
			logger.Field{Key: "duration", Value: res.Duration})
	}

	if s.cfg.Metrics != nil {
		s.cfg.Metrics.ObserveSession(string(res.Outcome), res.Duration)
	}

	// The step counts as having occurred regardless of outcome.
	if s.machine.Complete() {
		log.Info("cycle completed")
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.IncCycleCompleted()
		}
	}

	return res
}

// collectNotices gathers contextual notice lines for one invocation. All
// collaborator errors are absorbed here; the conservative result is an empty
// list.
func (s *Scheduler) collectNotices(ctx context.Context, req cycle.Request, log *logger.Logger) []string {
	var lines []string

	// The final step gets a diary reminder when nothing was written since
	// the cycle began. Unknown counts as not written.
	if req.Final && s.cfg.Diary != nil && !s.cfg.Diary.HasFreshEntry(req.CycleStart) {
		lines = append(lines, "No diary entry has been recorded this cycle yet")
	}

	if s.cfg.Notices != nil {
		count, summaries, err := s.cfg.Notices.Pending(ctx)
		if err != nil {
			log.Info("notice fetch failed, continuing without notices",
				logger.Field{Key: "error", Value: err})
			if s.cfg.Metrics != nil {
				s.cfg.Metrics.IncCollaboratorError("notices")
			}
		} else if count > 0 {
			lines = append(lines, summaries...)
		}
	}

	return lines
}

// Step exposes the current step number for status reporting.
func (s *Scheduler) Step() int {
	return s.machine.Step()
}

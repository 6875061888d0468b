// Package runner launches the external assistant process for one session and
// classifies how it ended.
//
// Timeouts are enforced at two layers: the OS-level timeout wrapper kills the
// child after the session timeout (reporting exit code 124), and a supervisory
// context deadline slightly past that aborts waiting even if the wrapper
// itself hangs. Every invocation yields exactly one Result; the runner never
// returns an error past its boundary.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"time"

	"github.com/aatumaykin/sessiond/internal/constants"
	"github.com/aatumaykin/sessiond/internal/logger"
)

// Outcome classifies one session invocation.
type Outcome string

const (
	// OutcomeCompleted means the assistant exited with code 0.
	OutcomeCompleted Outcome = "completed"
	// OutcomeTimedOut means the timeout wrapper killed the assistant (exit 124).
	OutcomeTimedOut Outcome = "timed_out"
	// OutcomeFailed covers every other exit code, launch failures, and the
	// supervisory deadline firing.
	OutcomeFailed Outcome = "failed"
)

// Result is the classified outcome of one invocation.
type Result struct {
	Outcome  Outcome
	ExitCode int           // -1 when no exit code was observed
	Reason   string        // human-readable cause, set for failed outcomes
	Duration time.Duration // wall-clock time spent waiting
}

// SessionRunner is the contract the scheduler depends on.
type SessionRunner interface {
	Run(ctx context.Context, message string, continuePrevious bool, timeout time.Duration) Result
}

// Config describes how to invoke the assistant.
type Config struct {
	Command         string        // Assistant executable
	Args            []string      // Arguments placed before the message
	ContinueFlag    string        // Appended when continuing the previous session
	TimeoutCommand  string        // OS-level timeout wrapper binary
	WorkingDir      string        // Working directory for the assistant
	SupervisorGrace time.Duration // Extra wait past the timeout, defaults to constants.SupervisorGrace
}

// Runner invokes the assistant through the timeout wrapper.
type Runner struct {
	cfg    Config
	logger *logger.Logger
}

// New creates a Runner.
func New(cfg Config, log *logger.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: log,
	}
}

// Run launches one assistant session with the composed message and blocks
// until it finishes or a timeout layer fires.
//
// Outcome mapping is exhaustive and deterministic:
//   - exit 0                      -> Completed
//   - exit 124                    -> TimedOut (wrapper killed the child)
//   - any other exit code         -> Failed with the code in the reason
//   - launch failure              -> Failed with the launch error
//   - supervisory deadline fired  -> Failed, reason names the supervisory timeout
func (r *Runner) Run(ctx context.Context, message string, continuePrevious bool, timeout time.Duration) Result {
	grace := r.cfg.SupervisorGrace
	if grace <= 0 {
		grace = constants.SupervisorGrace
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout+grace)
	defer cancel()

	argv := make([]string, 0, len(r.cfg.Args)+4)
	argv = append(argv, formatTimeout(timeout), r.cfg.Command)
	argv = append(argv, r.cfg.Args...)
	argv = append(argv, message)
	if continuePrevious && r.cfg.ContinueFlag != "" {
		argv = append(argv, r.cfg.ContinueFlag)
	}

	cmd := exec.CommandContext(runCtx, r.cfg.TimeoutCommand, argv...)
	cmd.Dir = r.cfg.WorkingDir
	// The assistant's own output goes straight to the console; the scheduler
	// only cares about the exit status.
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err == nil {
		return Result{Outcome: OutcomeCompleted, ExitCode: 0, Duration: duration}
	}

	// The supervisory deadline fired while the wrapper was still running.
	// Kept distinct from the wrapper's own 124 so logs show which layer acted.
	if runCtx.Err() == context.DeadlineExceeded {
		return Result{
			Outcome:  OutcomeFailed,
			ExitCode: -1,
			Reason:   fmt.Sprintf("supervisory timeout after %s: timeout wrapper did not return", timeout+grace),
			Duration: duration,
		}
	}

	if runCtx.Err() == context.Canceled {
		return Result{
			Outcome:  OutcomeFailed,
			ExitCode: -1,
			Reason:   "invocation interrupted",
			Duration: duration,
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code == constants.ExitCodeTimeout {
			return Result{Outcome: OutcomeTimedOut, ExitCode: code, Duration: duration}
		}
		return Result{
			Outcome:  OutcomeFailed,
			ExitCode: code,
			Reason:   fmt.Sprintf("assistant exited with code %d", code),
			Duration: duration,
		}
	}

	// Launch failure: wrapper binary missing, permission problem, I/O error.
	return Result{
		Outcome:  OutcomeFailed,
		ExitCode: -1,
		Reason:   fmt.Sprintf("failed to launch assistant: %v", err),
		Duration: duration,
	}
}

// formatTimeout renders a duration as a timeout(1) argument with second
// granularity, never below one second.
func formatTimeout(timeout time.Duration) string {
	secs := int(math.Ceil(timeout.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%ds", secs)
}

var _ SessionRunner = (*Runner)(nil)

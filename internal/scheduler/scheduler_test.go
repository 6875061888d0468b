package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/sessiond/internal/compose"
	"github.com/aatumaykin/sessiond/internal/logger"
	"github.com/aatumaykin/sessiond/internal/runner"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	return log
}

// fakeRunner records every invocation and replies with scripted results.
type fakeRunner struct {
	calls   []fakeCall
	results []runner.Result
}

type fakeCall struct {
	message          string
	continuePrevious bool
	timeout          time.Duration
}

func (f *fakeRunner) Run(ctx context.Context, message string, continuePrevious bool, timeout time.Duration) runner.Result {
	f.calls = append(f.calls, fakeCall{message, continuePrevious, timeout})
	if len(f.results) > 0 {
		res := f.results[0]
		f.results = f.results[1:]
		return res
	}
	return runner.Result{Outcome: runner.OutcomeCompleted}
}

type fakeDiary struct {
	fresh bool
	calls int
}

func (f *fakeDiary) HasFreshEntry(since time.Time) bool {
	f.calls++
	return f.fresh
}

type fakeNotices struct {
	summaries []string
	err       error
}

func (f *fakeNotices) Pending(ctx context.Context) (int, []string, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return len(f.summaries), f.summaries, nil
}

// fakeClock hands out timestamps one interval apart.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (f *fakeClock) Now() time.Time {
	t := f.now
	f.now = f.now.Add(f.step)
	return t
}

func testConfig(t *testing.T, r runner.SessionRunner) Config {
	t.Helper()
	clock := &fakeClock{
		now:  time.Date(2025, 3, 4, 10, 0, 0, 0, time.Local),
		step: 30 * time.Minute,
	}
	return Config{
		IntervalMinutes: 30,
		SessionTimeout:  2 * time.Hour,
		MaxSteps:        5,
		Composer:        compose.New(compose.DefaultTemplate(), ""),
		Runner:          r,
		Logger:          newTestLogger(t),
		Clock:           clock.Now,
	}
}

func TestNewValidation(t *testing.T) {
	valid := testConfig(t, &fakeRunner{})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero interval", func(c *Config) { c.IntervalMinutes = 0 }},
		{"zero timeout", func(c *Config) { c.SessionTimeout = 0 }},
		{"zero max steps", func(c *Config) { c.MaxSteps = 0 }},
		{"nil composer", func(c *Config) { c.Composer = nil }},
		{"nil runner", func(c *Config) { c.Runner = nil }},
		{"nil logger", func(c *Config) { c.Logger = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}

	_, err := New(valid)
	assert.NoError(t, err)
}

func TestFullCycleSequence(t *testing.T) {
	fr := &fakeRunner{}
	s, err := New(testConfig(t, fr))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		s.RunOnce(ctx)
	}

	require.Len(t, fr.calls, 6)

	// Steps 1..5 then a fresh cycle at step 1 again.
	wantContinue := []bool{false, true, true, true, false, false}
	for i, call := range fr.calls {
		assert.Equal(t, wantContinue[i], call.continuePrevious, "invocation %d continue flag", i)
		assert.Equal(t, 2*time.Hour, call.timeout, "invocation %d timeout", i)
	}

	for i := 0; i < 4; i++ {
		assert.Contains(t, fr.calls[i].message, fmt.Sprintf("Session %d/5", i+1))
		assert.NotContains(t, fr.calls[i].message, "Reflection & Diary", "invocation %d", i)
	}
	assert.Contains(t, fr.calls[4].message, "Reflection & Diary")
	assert.Contains(t, fr.calls[5].message, "Session 1/5")
	assert.NotContains(t, fr.calls[5].message, "Reflection & Diary")
}

func TestMessageCarriesWallClockTime(t *testing.T) {
	fr := &fakeRunner{}
	s, err := New(testConfig(t, fr))
	require.NoError(t, err)

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	require.Len(t, fr.calls, 2)
	assert.Contains(t, fr.calls[0].message, "Current time: 2025-03-04 10:00:00")
	assert.Contains(t, fr.calls[1].message, "Current time: 2025-03-04 10:30:00")
}

func TestStepAdvancesRegardlessOfOutcome(t *testing.T) {
	fr := &fakeRunner{results: []runner.Result{
		{Outcome: runner.OutcomeCompleted},
		{Outcome: runner.OutcomeTimedOut, ExitCode: 124},
		{Outcome: runner.OutcomeFailed, ExitCode: 7, Reason: "assistant exited with code 7"},
	}}
	s, err := New(testConfig(t, fr))
	require.NoError(t, err)

	ctx := context.Background()
	s.RunOnce(ctx)
	s.RunOnce(ctx)
	res := s.RunOnce(ctx)

	assert.Equal(t, runner.OutcomeFailed, res.Outcome)
	assert.Equal(t, 3, s.Step(), "failures and timeouts still consume their step")
	require.Len(t, fr.calls, 3)
	assert.True(t, fr.calls[2].continuePrevious)
}

func TestNoticesRenderedWithCap(t *testing.T) {
	var supplied []string
	for i := 1; i <= 7; i++ {
		supplied = append(supplied, fmt.Sprintf("sender%d: subject%d", i, i))
	}

	fr := &fakeRunner{}
	cfg := testConfig(t, fr)
	cfg.Notices = &fakeNotices{summaries: supplied}
	s, err := New(cfg)
	require.NoError(t, err)

	s.RunOnce(context.Background())

	require.Len(t, fr.calls, 1)
	msg := fr.calls[0].message

	assert.Contains(t, msg, "You have 7 pending notices:")
	shown := 0
	for _, line := range strings.Split(msg, "\n") {
		if strings.HasPrefix(line, "- ") {
			shown++
		}
	}
	assert.Equal(t, 5, shown)
	assert.Contains(t, msg, "...and 2 more")
}

func TestNoticeErrorAbsorbed(t *testing.T) {
	fr := &fakeRunner{}
	cfg := testConfig(t, fr)
	cfg.Notices = &fakeNotices{err: errors.New("inbox unreadable")}
	s, err := New(cfg)
	require.NoError(t, err)

	res := s.RunOnce(context.Background())

	assert.Equal(t, runner.OutcomeCompleted, res.Outcome)
	require.Len(t, fr.calls, 1)
	assert.NotContains(t, fr.calls[0].message, "pending notices")
	assert.Equal(t, 1, s.Step(), "a collaborator failure must not block the session")
}

func TestDiaryReminderOnFinalStepOnly(t *testing.T) {
	fr := &fakeRunner{}
	fd := &fakeDiary{fresh: false}
	cfg := testConfig(t, fr)
	cfg.Diary = fd
	s, err := New(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.RunOnce(ctx)
	}

	require.Len(t, fr.calls, 5)
	for i := 0; i < 4; i++ {
		assert.NotContains(t, fr.calls[i].message, "No diary entry", "step %d", i+1)
	}
	assert.Contains(t, fr.calls[4].message, "No diary entry has been recorded this cycle yet")
	assert.Equal(t, 1, fd.calls, "diary is only consulted on the final step")
}

func TestNoDiaryReminderWhenEntryIsFresh(t *testing.T) {
	fr := &fakeRunner{}
	cfg := testConfig(t, fr)
	cfg.Diary = &fakeDiary{fresh: true}
	s, err := New(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.RunOnce(ctx)
	}

	assert.NotContains(t, fr.calls[4].message, "No diary entry")
}

func TestDiaryConsultedWithCycleStart(t *testing.T) {
	cycleStart := time.Date(2025, 3, 4, 10, 0, 0, 0, time.Local)

	var seenSince time.Time
	fr := &fakeRunner{}
	cfg := testConfig(t, fr)
	cfg.Diary = diaryFunc(func(since time.Time) bool {
		seenSince = since
		return true
	})
	s, err := New(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.RunOnce(ctx)
	}

	assert.Equal(t, cycleStart, seenSince, "freshness is judged against the cycle start, not the tick time")
}

type diaryFunc func(since time.Time) bool

func (f diaryFunc) HasFreshEntry(since time.Time) bool { return f(since) }

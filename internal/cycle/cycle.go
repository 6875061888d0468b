// Package cycle implements the session-cycle state machine.
//
// A cycle is a fixed sequence of 1..maxSteps session invocations. Step 1
// starts a fresh assistant session, steps 2..maxSteps-1 continue the previous
// one, and the last step is the reflection step after which the cycle resets.
// The machine is deterministic and non-branching: a timed-out or failed
// invocation still counts as having occurred and the step counter advances.
package cycle

import (
	"fmt"
	"time"
)

// Request describes a single session invocation derived from the machine
// state. It is immutable once built.
type Request struct {
	Step             int       // 1-based step number within the cycle
	TotalSteps       int       // Steps per cycle
	Final            bool      // True on the last step of the cycle
	ContinuePrevious bool      // True iff 1 < Step < TotalSteps
	CycleStart       time.Time // When the current cycle began
}

// Machine tracks which step of the cycle is active.
//
// It is owned by the scheduler loop and driven from a single goroutine;
// at most one cycle is ever active, so no locking is needed.
type Machine struct {
	maxSteps   int
	step       int
	cycleStart time.Time // zero before the first cycle begins
}

// NewMachine creates a cycle machine with the given number of steps per cycle.
func NewMachine(maxSteps int) (*Machine, error) {
	if maxSteps < 1 {
		return nil, fmt.Errorf("max steps must be at least 1 (got %d)", maxSteps)
	}
	return &Machine{maxSteps: maxSteps}, nil
}

// Advance moves the machine to the next step and returns the request for it.
// On the first step of a cycle the cycle start time is stamped with now.
func (m *Machine) Advance(now time.Time) Request {
	if m.step == 0 {
		m.cycleStart = now
	}
	m.step++

	return Request{
		Step:             m.step,
		TotalSteps:       m.maxSteps,
		Final:            m.step == m.maxSteps,
		ContinuePrevious: m.step > 1 && m.step < m.maxSteps,
		CycleStart:       m.cycleStart,
	}
}

// Complete marks the current invocation as finished, regardless of its
// outcome. After the final step it resets the machine for the next cycle and
// returns true.
func (m *Machine) Complete() bool {
	if m.step >= m.maxSteps {
		m.step = 0
		m.cycleStart = time.Time{}
		return true
	}
	return false
}

// Step returns the last advanced step number, 0 when idle.
func (m *Machine) Step() int {
	return m.step
}

// MaxSteps returns the configured number of steps per cycle.
func (m *Machine) MaxSteps() int {
	return m.maxSteps
}

// CycleStart returns the start time of the active cycle. The boolean is false
// while the machine is idle between cycles.
func (m *Machine) CycleStart() (time.Time, bool) {
	if m.cycleStart.IsZero() {
		return time.Time{}, false
	}
	return m.cycleStart, true
}

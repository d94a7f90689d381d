// Package scheduler decouples simulation cadence from frame cadence. A Scheduler is ticked once
// per frame with the frame delta and steps its target at most once per tick.
package scheduler

import (
	"errors"
	"fmt"
)

// ErrNegativeInterval is returned when a step interval below zero is configured.
var ErrNegativeInterval = errors.New("step interval must be >= 0")

// Stepper is anything that advances one generation per call.
type Stepper interface {
	Step() error
}

// Scheduler steps a target at a fixed interval, independent of frame rate.
type Scheduler struct {
	target Stepper
	clock  SimulationClock

	paused    bool
	requested bool
	steps     uint64
}

// New creates a Scheduler that steps target every interval seconds. An interval of zero steps every tick.
//
// Parameters:
//   - target: the stepper driven by Tick
//   - interval: seconds between steps, >= 0
//   - opts: functional options
//
// Returns:
//   - *Scheduler: the new scheduler
//   - error: ErrNegativeInterval if interval < 0
func New(target Stepper, interval float64, opts ...SchedulerBuilderOption) (*Scheduler, error) {
	if interval < 0 {
		return nil, fmt.Errorf("%v: %w", interval, ErrNegativeInterval)
	}
	s := &Scheduler{
		target: target,
		clock:  SimulationClock{StepInterval: interval},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Tick advances the clock by dt and runs at most one step. While paused the clock does not
// advance, but a step requested with RequestStep still runs.
//
// Parameters:
//   - dt: the frame delta in seconds
//
// Returns:
//   - bool: true if the target was stepped
//   - error: the target's step error
func (s *Scheduler) Tick(dt float64) (bool, error) {
	var due bool
	switch {
	case s.requested:
		s.requested = false
		s.clock.TimeRemaining = s.clock.StepInterval
		due = true
	case s.paused:
		return false, nil
	default:
		due = s.clock.Advance(dt)
	}
	if !due {
		return false, nil
	}

	if err := s.target.Step(); err != nil {
		return false, err
	}
	s.steps++
	return true, nil
}

// Pause stops timed stepping.
func (s *Scheduler) Pause() {
	s.paused = true
}

// Resume restarts timed stepping. The first tick after resuming steps immediately.
func (s *Scheduler) Resume() {
	if s.paused {
		s.clock.Reset()
	}
	s.paused = false
}

// Toggle flips between paused and running.
//
// Returns:
//   - bool: true if the scheduler is now paused
func (s *Scheduler) Toggle() bool {
	if s.paused {
		s.Resume()
	} else {
		s.Pause()
	}
	return s.paused
}

func (s *Scheduler) Paused() bool {
	return s.paused
}

// RequestStep forces exactly one step on the next tick, paused or not, and restarts the interval from there.
func (s *Scheduler) RequestStep() {
	s.requested = true
}

// SetInterval changes the step interval. The remaining time of the current interval is kept.
//
// Parameters:
//   - interval: seconds between steps, >= 0
//
// Returns:
//   - error: ErrNegativeInterval if interval < 0
func (s *Scheduler) SetInterval(interval float64) error {
	if interval < 0 {
		return fmt.Errorf("%v: %w", interval, ErrNegativeInterval)
	}
	s.clock.StepInterval = interval
	if s.clock.TimeRemaining > interval {
		s.clock.TimeRemaining = interval
	}
	return nil
}

func (s *Scheduler) Interval() float64 {
	return s.clock.StepInterval
}

// Steps returns the number of successful steps run by Tick.
func (s *Scheduler) Steps() uint64 {
	return s.steps
}

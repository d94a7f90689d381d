// Package simulation drives a cellular automaton on grid textures. A Simulation composes a
// GridBuffer, which owns the textures, with a ComputePass, which evaluates the rule, and moves
// through Uninitialized, Ready and Stepping states.
package simulation

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-life/engine/computepass"
	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/gridbuffer"
	"github.com/Carmen-Shannon/oxy-life/engine/logging"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer"
)

var (
	// ErrInvocation wraps a failed compute pass. Nothing is published when it is returned.
	ErrInvocation = errors.New("compute pass invocation failed")

	// ErrNotInitialized is returned by Seed and ReadBack before Initialize has built a buffer.
	ErrNotInitialized = errors.New("simulation not initialized")
)

// State is the lifecycle state of a Simulation.
type State int

const (
	// StateUninitialized holds until a seed has been uploaded.
	StateUninitialized State = iota
	// StateReady accepts Step.
	StateReady
	// StateStepping is held for the duration of a Step.
	StateStepping
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateStepping:
		return "stepping"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// simulation is the implementation of the Simulation interface.
type simulation struct {
	r        renderer.Renderer
	pass     computepass.ComputePass
	topology grid.Topology
	label    string

	buffer gridbuffer.GridBuffer
	state  State
}

// Simulation advances a grid one generation at a time on a renderer.
//
// Step is only valid in StateReady. Calling it in any other state is a programming error and panics.
type Simulation interface {
	// Initialize allocates the grid textures. The simulation stays Uninitialized until Seed succeeds.
	// A previous buffer, if any, is destroyed first.
	//
	// Parameters:
	//   - width, height: grid dimensions in cells
	//   - strategy: the publication strategy of the buffer
	//
	// Returns:
	//   - error: gridbuffer.ErrZeroDimension or gridbuffer.ErrAllocation. Nothing is retained on failure.
	Initialize(width, height int, strategy gridbuffer.Strategy) error

	// Seed uploads the initial generation and moves the simulation to Ready.
	//
	// Parameters:
	//   - g: a grid matching the initialized size
	//
	// Returns:
	//   - error: ErrNotInitialized, grid.ErrSizeMismatch, or gridbuffer.ErrAlreadyStepped. State is unchanged on error.
	Seed(g *grid.Grid) error

	// Step binds the next role as output and the current role as input, invokes the pass once,
	// and promotes the result.
	//
	// Returns:
	//   - error: ErrInvocation wrapping the pass error, in which case nothing is promoted and
	//     CurrentOutput still reports the last good generation
	Step() error

	// CurrentOutput returns the texture of the most recent generation. It stays valid until the next Step.
	//
	// Returns:
	//   - renderer.TextureHandle: the texture to present
	//   - bool: false until a seed has been uploaded
	CurrentOutput() (renderer.TextureHandle, bool)

	// ReadBack copies the current generation to the host. Diagnostic only, never used by Step.
	//
	// Returns:
	//   - *grid.Grid: the current generation
	//   - error: ErrNotInitialized or a renderer error
	ReadBack() (*grid.Grid, error)

	// Generation returns the number of successful steps since the last Initialize.
	Generation() uint64

	// State returns the lifecycle state.
	State() State

	// Destroy releases the grid textures and returns to Uninitialized.
	//
	// Returns:
	//   - error: the buffer release error, if any
	Destroy() error
}

var _ Simulation = &simulation{}

// New creates an uninitialized Simulation that evaluates pass on r.
//
// Parameters:
//   - r: the renderer that owns the grid textures
//   - pass: the rule pass invoked once per step
//   - opts: functional options (topology, label)
//
// Returns:
//   - Simulation: the new simulation
func New(r renderer.Renderer, pass computepass.ComputePass, opts ...SimulationBuilderOption) Simulation {
	s := &simulation{
		r:        r,
		pass:     pass,
		topology: grid.TopologyToroidal,
		label:    "Life",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *simulation) Initialize(width, height int, strategy gridbuffer.Strategy) error {
	if s.buffer != nil {
		if err := s.Destroy(); err != nil {
			return err
		}
	}

	buffer, err := gridbuffer.New(s.r, width, height,
		gridbuffer.WithStrategy(strategy),
		gridbuffer.WithTopology(s.topology),
		gridbuffer.WithLabel(s.label),
	)
	if err != nil {
		return fmt.Errorf("initialize %dx%d %s: %w", width, height, strategy, err)
	}
	s.buffer = buffer
	s.state = StateUninitialized
	logging.Debugf("initialized %dx%d %s grid buffer", width, height, strategy)
	return nil
}

func (s *simulation) Seed(g *grid.Grid) error {
	if s.buffer == nil {
		return ErrNotInitialized
	}
	if err := s.buffer.Seed(g); err != nil {
		return err
	}
	s.state = StateReady
	return nil
}

func (s *simulation) Step() error {
	if s.state != StateReady {
		panic(fmt.Sprintf("simulation: Step called in state %s", s.state))
	}
	s.state = StateStepping
	defer func() { s.state = StateReady }()

	s.pass.BindOutput(s.buffer.Next())
	s.pass.BindInput(s.buffer.Current())
	if err := s.pass.Invoke(); err != nil {
		return fmt.Errorf("%w: %s at generation %d: %w", ErrInvocation, s.pass.Program(), s.buffer.Generation(), err)
	}
	if err := s.buffer.Promote(); err != nil {
		return fmt.Errorf("promote generation %d: %w", s.buffer.Generation()+1, err)
	}
	logging.Debugf("stepped generation %d", s.buffer.Generation())
	return nil
}

func (s *simulation) CurrentOutput() (renderer.TextureHandle, bool) {
	if s.buffer == nil || s.state == StateUninitialized {
		return 0, false
	}
	return s.buffer.Current(), true
}

func (s *simulation) ReadBack() (*grid.Grid, error) {
	if s.buffer == nil {
		return nil, ErrNotInitialized
	}
	return s.buffer.ReadBack()
}

func (s *simulation) Generation() uint64 {
	if s.buffer == nil {
		return 0
	}
	return s.buffer.Generation()
}

func (s *simulation) State() State {
	return s.state
}

func (s *simulation) Destroy() error {
	if s.buffer == nil {
		return nil
	}
	err := s.buffer.Destroy()
	s.buffer = nil
	s.state = StateUninitialized
	return err
}

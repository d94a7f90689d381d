package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Carmen-Shannon/oxy-life/engine/computepass"
	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/gridbuffer"
	"github.com/Carmen-Shannon/oxy-life/engine/logging"
	"github.com/Carmen-Shannon/oxy-life/engine/presentation"
	"github.com/Carmen-Shannon/oxy-life/engine/profiler"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer"
	"github.com/Carmen-Shannon/oxy-life/engine/scheduler"
	"github.com/Carmen-Shannon/oxy-life/engine/simulation"
	"github.com/Carmen-Shannon/oxy-life/engine/window"
)

// ErrNoWindow is returned by Run when the engine was built without a window.
var ErrNoWindow = errors.New("engine has no window")

// minStepInterval is the floor ActionFaster halves the interval down to before switching to every frame.
const minStepInterval = 1.0 / 240

// engine implements the Engine interface.
// Drives scheduling, stepping, presentation and profiling from a single cooperative loop.
type engine struct {
	running bool

	quitChannel chan struct{}
	quitOnce    sync.Once

	window window.Window

	backend         renderer.RendererBackendType
	rendererOptions []renderer.RendererBuilderOption
	renderer        renderer.Renderer

	gridWidth  int
	gridHeight int
	topology   grid.Topology
	rule       grid.Rule
	strategy   gridbuffer.Strategy
	provider   grid.Provider

	stepInterval float64
	startPaused  bool

	sim       simulation.Simulation
	scheduler *scheduler.Scheduler
	bridge    *presentation.Bridge

	profiler         *profiler.Profiler
	profilerInterval time.Duration
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
}

// Engine is the main entry point for the simulation.
// It owns the renderer, the simulation and its scheduler, and drives them once per frame.
type Engine interface {
	// Window returns the underlying window, or nil when headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer that owns the grid textures.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Simulation returns the simulation driven by the engine.
	//
	// Returns:
	//   - simulation.Simulation: the simulation instance
	Simulation() simulation.Simulation

	// Scheduler returns the step scheduler.
	//
	// Returns:
	//   - *scheduler.Scheduler: the scheduler instance
	Scheduler() *scheduler.Scheduler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Reseed rebuilds the grid textures and uploads a fresh initial state from the provider.
	//
	// Returns:
	//   - error: an allocation, provider or upload error
	Reseed() error

	// Clear rebuilds the grid textures with every cell dead.
	//
	// Returns:
	//   - error: an allocation or upload error
	Clear() error

	// Frame runs one loop iteration: a scheduler tick, presentation if a surface is available,
	// and a profiler tick.
	//
	// Parameters:
	//   - dt: the frame delta in seconds
	//
	// Returns:
	//   - error: a step or presentation error
	Frame(dt float64) error

	// Run drives Frame from the window message loop and blocks until the window closes.
	//
	// Returns:
	//   - error: ErrNoWindow, or the first Frame error, which also stops the loop
	Run() error

	// RunHeadless steps until the simulation reaches generations or ctx is done. Pause state is ignored.
	//
	// Parameters:
	//   - ctx: cancels the run between steps
	//   - generations: the generation to stop at
	//
	// Returns:
	//   - error: ctx.Err() or the first Frame error
	RunHeadless(ctx context.Context, generations uint64) error

	// Quit signals the loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Release destroys the simulation and releases the renderer.
	Release()
}

// NewEngine creates an Engine, builds its renderer and pipelines, and seeds the simulation.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: a shader, allocation or seeding error
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		quitChannel:      make(chan struct{}),
		backend:          renderer.BackendTypeWGPU,
		gridWidth:        256,
		gridHeight:       256,
		topology:         grid.TopologyToroidal,
		rule:             grid.Conway,
		strategy:         gridbuffer.StrategyPingPong,
		provider:         grid.NoiseProvider{},
		stepInterval:     0.05,
		profilerInterval: time.Second,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.gridWidth <= 0 || e.gridHeight <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", e.gridWidth, e.gridHeight, gridbuffer.ErrZeroDimension)
	}

	sim, present, err := newPipelines()
	if err != nil {
		return nil, err
	}

	// A headless wgpu renderer has no surface to build the present pipeline against.
	presenting := e.window != nil || e.backend == renderer.BackendTypeSoftware

	var surface renderer.SurfaceSource
	if e.window != nil {
		surface = e.window
	}
	rendererOptions := append([]renderer.RendererBuilderOption{renderer.WithPipeline(sim)}, e.rendererOptions...)
	if presenting {
		rendererOptions = append(rendererOptions, renderer.WithPipeline(present))
	}
	e.renderer = renderer.NewRenderer(e.backend, surface, rendererOptions...)
	if presenting {
		e.bridge = presentation.NewBridge(e.renderer, PipelineKeyPresent)
	}

	pass := computepass.New(e.renderer, PipelineKeyLife, grid.NewGPUGridParams(e.gridWidth, e.gridHeight, e.rule, e.topology))
	e.sim = simulation.New(e.renderer, pass, simulation.WithTopology(e.topology))

	e.scheduler, err = scheduler.New(e.sim, e.stepInterval, scheduler.WithPaused(e.startPaused))
	if err != nil {
		e.renderer.Release()
		return nil, err
	}
	e.profiler = profiler.NewProfiler(e.profilerInterval)

	if err := e.Reseed(); err != nil {
		e.Release()
		return nil, err
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.renderer.Resize(width, height)
		})
		e.window.SetActionCallback(e.handleAction)
	}

	logging.Infof("engine ready: %dx%d %s grid, rule %s, %s strategy, %s backend",
		e.gridWidth, e.gridHeight, e.topology, e.rule, e.strategy, e.backend)
	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Simulation() simulation.Simulation {
	return e.sim
}

func (e *engine) Scheduler() *scheduler.Scheduler {
	return e.scheduler
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Reseed() error {
	return e.seedFrom(e.provider)
}

func (e *engine) Clear() error {
	return e.seedFrom(grid.EmptyProvider)
}

// seedFrom reinitializes the simulation so the new seed starts at generation zero.
// The seed is generated and size-checked first, so a failing provider leaves the running
// generation untouched.
func (e *engine) seedFrom(p grid.Provider) error {
	g, err := p.Generate(e.gridWidth, e.gridHeight)
	if err != nil {
		return fmt.Errorf("generating seed: %w", err)
	}
	if g == nil || g.Width() != e.gridWidth || g.Height() != e.gridHeight {
		return fmt.Errorf("generating %dx%d seed: %w", e.gridWidth, e.gridHeight, grid.ErrSizeMismatch)
	}
	if err := e.sim.Initialize(e.gridWidth, e.gridHeight, e.strategy); err != nil {
		return err
	}
	if err := e.sim.Seed(g); err != nil {
		return err
	}
	logging.Debugf("seeded %dx%d grid with %d live cells", e.gridWidth, e.gridHeight, g.AliveCount())
	return nil
}

func (e *engine) Frame(dt float64) error {
	// Without a seeded simulation (a failed reallocation) there is nothing to step.
	var stepped bool
	if e.sim.State() == simulation.StateReady {
		var err error
		if stepped, err = e.scheduler.Tick(dt); err != nil {
			return err
		}
	}
	if e.bridge != nil {
		if err := e.bridge.Present(e.sim); err != nil {
			return fmt.Errorf("presenting generation %d: %w", e.sim.Generation(), err)
		}
	}
	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(stepped, e.sim.Generation())
	}
	return nil
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	e.running = true
	defer func() { e.running = false }()

	var runErr error
	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			_ = e.window.Close()
			return
		default:
		}

		now := time.Now()
		dt := now.Sub(e.lastFrame).Seconds()
		e.lastFrame = now

		if err := e.Frame(dt); err != nil {
			logging.Errorf("frame failed: %v", err)
			runErr = err
			e.Quit()
			return
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
	e.window.ProcessMessages()
	return runErr
}

func (e *engine) RunHeadless(ctx context.Context, generations uint64) error {
	e.running = true
	defer func() { e.running = false }()
	e.scheduler.Resume()

	// A delta of exactly one interval makes every tick due.
	dt := e.scheduler.Interval()
	for e.sim.Generation() < generations {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		default:
		}
		if err := e.Frame(dt); err != nil {
			return err
		}
	}
	return nil
}

// Quit closes the quit channel to signal the loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Release() {
	if e.sim != nil {
		if err := e.sim.Destroy(); err != nil {
			logging.Warnf("destroying simulation: %v", err)
		}
	}
	if e.renderer != nil {
		e.renderer.Release()
	}
}

// handleAction applies a keyboard action to the scheduler or the simulation.
func (e *engine) handleAction(action window.Action) {
	var err error
	switch action {
	case window.ActionTogglePause:
		e.scheduler.Toggle()
	case window.ActionStep:
		e.scheduler.RequestStep()
	case window.ActionReseed:
		err = e.Reseed()
	case window.ActionClear:
		err = e.Clear()
	case window.ActionFaster:
		next := e.scheduler.Interval() / 2
		if next < minStepInterval {
			next = 0
		}
		err = e.scheduler.SetInterval(next)
	case window.ActionSlower:
		err = e.scheduler.SetInterval(max(e.scheduler.Interval()*2, minStepInterval))
	case window.ActionQuit:
		e.Quit()
	}
	if err != nil {
		logging.Errorf("%s: %v", action, err)
		return
	}
	logging.WithFields(logrus.Fields{
		"action":     action.String(),
		"paused":     e.scheduler.Paused(),
		"interval":   e.scheduler.Interval(),
		"generation": e.sim.Generation(),
	}).Debug("control")
	if e.window != nil {
		e.window.SetTitle(e.title())
	}
}

func (e *engine) title() string {
	state := "running"
	if e.scheduler.Paused() {
		state = "paused"
	}
	return fmt.Sprintf("oxy-life | %s | %dx%d | %.3fs/gen", state, e.gridWidth, e.gridHeight, e.scheduler.Interval())
}

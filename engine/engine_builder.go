package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/gridbuffer"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer"
	"github.com/Carmen-Shannon/oxy-life/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithWindow attaches a window. Without one the engine runs headless.
//
// Parameters:
//   - w: the window providing the surface and keyboard actions
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithBackend selects the renderer backend. Defaults to BackendTypeWGPU.
//
// Parameters:
//   - backend: the backend type
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackend(backend renderer.RendererBackendType) EngineBuilderOption {
	return func(e *engine) {
		e.backend = backend
	}
}

// WithRendererOptions passes extra options to the renderer built by NewEngine.
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithGridSize sets the grid dimensions in cells.
//
// Parameters:
//   - width: the number of columns
//   - height: the number of rows
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGridSize(width, height int) EngineBuilderOption {
	return func(e *engine) {
		e.gridWidth = width
		e.gridHeight = height
	}
}

// WithTopology sets how the grid edges are treated. Defaults to toroidal.
func WithTopology(t grid.Topology) EngineBuilderOption {
	return func(e *engine) {
		e.topology = t
	}
}

// WithRule sets the birth/survival rule. Defaults to grid.Conway.
func WithRule(r grid.Rule) EngineBuilderOption {
	return func(e *engine) {
		e.rule = r
	}
}

// WithStrategy sets how finished generations are published. Defaults to ping-pong.
func WithStrategy(s gridbuffer.Strategy) EngineBuilderOption {
	return func(e *engine) {
		e.strategy = s
	}
}

// WithProvider sets the initial-state provider used by NewEngine and Reseed.
//
// Parameters:
//   - p: the provider
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProvider(p grid.Provider) EngineBuilderOption {
	return func(e *engine) {
		e.provider = p
	}
}

// WithStepInterval sets the seconds between generations. Zero steps every frame.
//
// Parameters:
//   - seconds: the interval, >= 0
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithStepInterval(seconds float64) EngineBuilderOption {
	return func(e *engine) {
		e.stepInterval = seconds
	}
}

// WithPaused starts the scheduler paused.
func WithPaused(paused bool) EngineBuilderOption {
	return func(e *engine) {
		e.startPaused = paused
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//   - interval: the reporting interval, <= 0 for one second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool, interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
		e.profilerInterval = interval
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

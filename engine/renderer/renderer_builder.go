package renderer

import (
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/pipeline"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPipeline registers a Pipeline with the backend during construction. NewRenderer panics
// if the pipeline cannot be registered.
//
// Parameters:
//   - p: the Pipeline to register, cached under its PipelineKey
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithPipeline(p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipelineCache[p.PipelineKey()] = p
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe). Has no effect on BackendTypeSoftware.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithTextureBudget caps the total number of texels that may be allocated across all live grid
// textures. Allocations beyond the budget fail with ErrTextureBudget. Zero means unlimited.
//
// Parameters:
//   - texels: the budget in texels
//
// Returns:
//   - RendererBuilderOption: a function that applies the budget to a renderer
func WithTextureBudget(texels int) RendererBuilderOption {
	return func(r *renderer) {
		r.textureBudget = max(texels, 0)
	}
}

// WithWorkers sets the worker pool size the software backend uses to evaluate passes.
// Values < 1 select a size from the CPU count.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - RendererBuilderOption: a function that applies the worker count to a renderer
func WithWorkers(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.workers = n
	}
}

// WithMaxTextureDimension lowers the largest allocatable texture dimension below the backend limit.
//
// Parameters:
//   - n: the limit in texels, ignored when <= 0
//
// Returns:
//   - RendererBuilderOption: a function that applies the limit to a renderer
func WithMaxTextureDimension(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.maxTextureDimension = n
	}
}

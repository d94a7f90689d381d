package renderer

import (
	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/pipeline"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based backend. It runs headless when no surface is given.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeSoftware selects the CPU backend. Grid textures live in host memory and
	// simulation passes are evaluated by a grid.Stepper.
	BackendTypeSoftware
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeSoftware:
		return "software"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// TextureHandle is an opaque reference to a grid texture owned by a backend. Zero is never a valid handle.
type TextureHandle uint32

// RendererBackend is the contract every backend implements. The Renderer performs pipeline
// lookup, argument validation, allocation accounting and statistics before delegating here,
// so backends may assume handles are live and pipelines are of the right type.
type RendererBackend interface {
	// RegisterPipeline creates whatever backend objects the pipeline needs.
	//
	// Parameters:
	//   - p: the pipeline to register
	//
	// Returns:
	//   - error: an error if the backend could not build the pipeline
	RegisterPipeline(p pipeline.Pipeline) error

	// ConfigureSurface reconfigures the presentation surface for a new size. A no-op when headless.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// MaxTextureDimension returns the largest width or height the backend can allocate.
	//
	// Returns:
	//   - int: the maximum 2D texture dimension in texels
	MaxTextureDimension() int

	// CreateGridTexture allocates a single-channel float texture of width x height texels,
	// usable as a render target, a sampled texture, and both ends of a copy.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - width, height: dimensions in texels
	//   - topology: selects the sampler address mode (repeat or clamp-to-edge)
	//
	// Returns:
	//   - TextureHandle: the handle of the new texture
	//   - error: an error if allocation fails
	CreateGridTexture(label string, width, height int, topology grid.Topology) (TextureHandle, error)

	// WriteGridTexture uploads a grid into a texture of the same size.
	WriteGridTexture(h TextureHandle, g *grid.Grid) error

	// CopyGridTexture performs a full-region copy from src into dst on the device timeline.
	CopyGridTexture(src, dst TextureHandle) error

	// ReadGridTexture copies a texture back into host memory, blocking until the device is done.
	ReadGridTexture(h TextureHandle) (*grid.Grid, error)

	// ReleaseGridTexture frees a texture and every object derived from it.
	ReleaseGridTexture(h TextureHandle) error

	// RenderToTexture draws the full-screen quad with a simulation pipeline, sampling src and writing dst.
	//
	// Parameters:
	//   - p: a registered simulation pipeline
	//   - src: the texture bound as the current state
	//   - dst: the render target
	//   - params: the grid parameters uniform for this pass
	//
	// Returns:
	//   - error: an error if encoding or submission fails
	RenderToTexture(p pipeline.Pipeline, src, dst TextureHandle, params grid.GPUGridParams) error

	// BeginFrame acquires the next surface image and begins the presentation pass.
	BeginFrame() error

	// DrawTexture draws a grid texture with a present pipeline inside the current frame.
	DrawTexture(p pipeline.Pipeline, h TextureHandle) error

	// EndFrame ends the presentation pass and submits it.
	EndFrame()

	// Present presents the surface and releases the frame's surface image.
	Present()

	// Release frees every object the backend owns.
	Release()
}

package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrUnknownTexture is returned for handles that were never created or were already released.
	ErrUnknownTexture = errors.New("unknown grid texture")

	// ErrUnknownPipeline is returned when a pipeline key is not registered.
	ErrUnknownPipeline = errors.New("unknown pipeline")

	// ErrPipelineType is returned when a pipeline is used for the wrong kind of pass.
	ErrPipelineType = errors.New("wrong pipeline type")

	// ErrTextureBudget is returned when an allocation would exceed the configured texel budget.
	ErrTextureBudget = errors.New("texture budget exhausted")

	// ErrTextureTooLarge is returned when a dimension exceeds the backend limit.
	ErrTextureTooLarge = errors.New("texture dimension exceeds device limit")

	// ErrNoSurface is returned by frame operations on a headless renderer.
	ErrNoSurface = errors.New("renderer has no presentation surface")

	// ErrSameTexture is returned when a pass or copy names the same texture as source and destination.
	ErrSameTexture = errors.New("source and destination are the same texture")

	// ErrNoFrame is returned when drawing outside BeginFrame/EndFrame, or when frames overlap.
	ErrNoFrame = errors.New("no frame in progress")
)

// SurfaceSource is anything that can hand the renderer a presentation surface, typically a window.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// Stats counts the work the renderer has been asked to do since construction.
type Stats struct {
	Frames    uint64
	Draws     uint64
	Passes    uint64
	Copies    uint64
	Uploads   uint64
	Readbacks uint64

	// LastDrawn is the texture most recently drawn by DrawTexture.
	LastDrawn TextureHandle

	// LastPassDims is the grid size handed to the backend by the last RenderToTexture.
	LastPassDims [2]uint32
}

type textureInfo struct {
	width, height int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	textures   map[TextureHandle]textureInfo
	usedTexels int
	inFrame    bool
	stats      Stats

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	textureBudget        int
	workers              int
	maxTextureDimension  int
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns a cache of pipelines and a table of grid textures, and exposes the handful of
// operations a cellular automaton needs: allocate, upload, copy and read back R32Float grid textures,
// run a simulation pass from one texture into another, and present a texture on the window surface.
// Every operation validates its arguments before the backend sees them.
type Renderer interface {
	// Backend returns the type of the backend in use.
	//
	// Returns:
	//   - RendererBackendType: BackendTypeWGPU or BackendTypeSoftware
	Backend() RendererBackendType

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves the entire cache of Pipelines.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines validates and registers one or more pipelines with the backend, then caches
	// them by PipelineKey. Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if validation or backend creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// MaxTextureDimension returns the largest grid width or height that can be allocated.
	//
	// Returns:
	//   - int: the limit in texels
	MaxTextureDimension() int

	// CreateGridTexture allocates an R32Float grid texture with a nearest-filtering sampler whose
	// address mode follows the topology.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - width, height: dimensions in texels, both > 0
	//   - topology: toroidal selects repeat addressing, clamped selects clamp-to-edge
	//
	// Returns:
	//   - TextureHandle: the handle of the new texture
	//   - error: ErrTextureTooLarge, ErrTextureBudget, or a backend allocation error
	CreateGridTexture(label string, width, height int, topology grid.Topology) (TextureHandle, error)

	// WriteGridTexture uploads a grid into a texture.
	//
	// Parameters:
	//   - h: the destination texture
	//   - g: the grid to upload, which must match the texture size
	//
	// Returns:
	//   - error: ErrUnknownTexture, grid.ErrSizeMismatch, or a backend error
	WriteGridTexture(h TextureHandle, g *grid.Grid) error

	// CopyGridTexture copies the full region of src into dst without a host round trip.
	//
	// Parameters:
	//   - src: the texture to copy from
	//   - dst: the texture to copy into, same size as src
	//
	// Returns:
	//   - error: ErrUnknownTexture, ErrSameTexture, grid.ErrSizeMismatch, or a backend error
	CopyGridTexture(src, dst TextureHandle) error

	// ReadGridTexture synchronously reads a texture back into a new grid. Diagnostic only: it
	// stalls until the device has finished all submitted work.
	//
	// Parameters:
	//   - h: the texture to read
	//
	// Returns:
	//   - *grid.Grid: a copy of the texture contents
	//   - error: ErrUnknownTexture or a backend error
	ReadGridTexture(h TextureHandle) (*grid.Grid, error)

	// ReleaseGridTexture frees a texture. The handle is invalid afterwards.
	//
	// Parameters:
	//   - h: the texture to release
	//
	// Returns:
	//   - error: ErrUnknownTexture if the handle is not live
	ReleaseGridTexture(h TextureHandle) error

	// GridTextureSize returns the dimensions of a live texture.
	//
	// Parameters:
	//   - h: the texture to query
	//
	// Returns:
	//   - int, int: width and height in texels
	//   - error: ErrUnknownTexture if the handle is not live
	GridTextureSize(h TextureHandle) (int, int, error)

	// RenderToTexture runs one simulation pass: the full-screen quad is drawn into dst with the
	// pipeline's fragment stage sampling src.
	//
	// Parameters:
	//   - pipelineKey: key of a registered PipelineTypeSimulation pipeline
	//   - src: the texture read by the pass
	//   - dst: the texture written by the pass, distinct from src and of the same size
	//   - params: rule and topology uniforms for the pass. Dims is overwritten with the size of dst
	//
	// Returns:
	//   - error: ErrUnknownPipeline, ErrPipelineType, ErrSameTexture, ErrUnknownTexture,
	//     grid.ErrSizeMismatch, or a backend error
	RenderToTexture(pipelineKey string, src, dst TextureHandle, params grid.GPUGridParams) error

	// BeginFrame acquires the next surface image and begins the presentation pass.
	// Must be paired with EndFrame after all DrawTexture calls.
	//
	// Returns:
	//   - error: ErrNoFrame if a frame is already in progress, ErrNoSurface when headless
	BeginFrame() error

	// DrawTexture draws a grid texture to the surface inside the current frame. The texture is only read.
	//
	// Parameters:
	//   - pipelineKey: key of a registered PipelineTypePresent pipeline
	//   - h: the texture to draw
	//
	// Returns:
	//   - error: ErrNoFrame, ErrUnknownPipeline, ErrPipelineType, or ErrUnknownTexture
	DrawTexture(pipelineKey string, h TextureHandle) error

	// EndFrame ends the current presentation pass and submits it.
	// Does not present the surface; call Present after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the surface image.
	Present()

	// Stats returns a snapshot of the work counters.
	//
	// Returns:
	//   - Stats: the counters
	Stats() Stats

	// Release frees every texture, pipeline object and backend resource.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer on the requested backend.
//
// With BackendTypeWGPU the constructor requests an adapter and device and panics if either is
// unavailable. A nil surface selects headless operation, in which frame operations return ErrNoSurface.
// The software backend ignores the surface.
//
// Parameters:
//   - backendType: the backend to create
//   - surface: the presentation surface source, or nil
//   - options: functional options applied before the backend is created
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		textures:      make(map[TextureHandle]textureInfo),
	}

	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeSoftware:
		r.backend = newSoftwareRendererBackend(r.workers)
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backendType = BackendTypeWGPU
		r.backend = newWGPURendererBackend(surface, r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	if surface != nil {
		r.backend.ConfigureSurface(surface.Width(), surface.Height())
	}

	// pipelines supplied through WithPipeline are registered with the backend now
	pending := r.pipelineCache
	r.pipelineCache = make(map[string]pipeline.Pipeline, len(pending))
	for _, p := range pending {
		if err := r.RegisterPipelines(p); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *renderer) Backend() RendererBackendType {
	return r.backendType
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) MaxTextureDimension() int {
	if r.maxTextureDimension > 0 {
		return min(r.maxTextureDimension, r.backend.MaxTextureDimension())
	}
	return r.backend.MaxTextureDimension()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("pipeline %q: %w", key, err)
		}
		if err := r.backend.RegisterPipeline(p); err != nil {
			return fmt.Errorf("pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) CreateGridTexture(label string, width, height int, topology grid.Topology) (TextureHandle, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%s %dx%d: %w", label, width, height, grid.ErrZeroDimension)
	}
	if limit := r.MaxTextureDimension(); width > limit || height > limit {
		return 0, fmt.Errorf("%s %dx%d (limit %d): %w", label, width, height, limit, ErrTextureTooLarge)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	texels := width * height
	if r.textureBudget > 0 && r.usedTexels+texels > r.textureBudget {
		return 0, fmt.Errorf("%s needs %d texels, %d of %d in use: %w", label, texels, r.usedTexels, r.textureBudget, ErrTextureBudget)
	}

	h, err := r.backend.CreateGridTexture(label, width, height, topology)
	if err != nil {
		return 0, err
	}
	r.textures[h] = textureInfo{width: width, height: height}
	r.usedTexels += texels
	return h, nil
}

func (r *renderer) WriteGridTexture(h TextureHandle, g *grid.Grid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.textures[h]
	if !ok {
		return fmt.Errorf("write texture %d: %w", h, ErrUnknownTexture)
	}
	if g == nil || g.Width() != info.width || g.Height() != info.height {
		return fmt.Errorf("write texture %d (%dx%d): %w", h, info.width, info.height, grid.ErrSizeMismatch)
	}
	if err := r.backend.WriteGridTexture(h, g); err != nil {
		return err
	}
	r.stats.Uploads++
	return nil
}

func (r *renderer) CopyGridTexture(src, dst TextureHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if src == dst {
		return fmt.Errorf("copy texture %d: %w", src, ErrSameTexture)
	}
	if err := r.checkPairLocked(src, dst); err != nil {
		return fmt.Errorf("copy texture %d to %d: %w", src, dst, err)
	}
	if err := r.backend.CopyGridTexture(src, dst); err != nil {
		return err
	}
	r.stats.Copies++
	return nil
}

func (r *renderer) ReadGridTexture(h TextureHandle) (*grid.Grid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.textures[h]; !ok {
		return nil, fmt.Errorf("read texture %d: %w", h, ErrUnknownTexture)
	}
	g, err := r.backend.ReadGridTexture(h)
	if err != nil {
		return nil, err
	}
	r.stats.Readbacks++
	return g, nil
}

func (r *renderer) ReleaseGridTexture(h TextureHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.textures[h]
	if !ok {
		return fmt.Errorf("release texture %d: %w", h, ErrUnknownTexture)
	}
	if err := r.backend.ReleaseGridTexture(h); err != nil {
		return err
	}
	delete(r.textures, h)
	r.usedTexels -= info.width * info.height
	return nil
}

func (r *renderer) GridTextureSize(h TextureHandle) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.textures[h]
	if !ok {
		return 0, 0, fmt.Errorf("texture %d: %w", h, ErrUnknownTexture)
	}
	return info.width, info.height, nil
}

func (r *renderer) RenderToTexture(pipelineKey string, src, dst TextureHandle, params grid.GPUGridParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.pipelineLocked(pipelineKey, pipeline.PipelineTypeSimulation)
	if err != nil {
		return err
	}
	if src == dst {
		return fmt.Errorf("render %q into texture %d: %w", pipelineKey, dst, ErrSameTexture)
	}
	if err := r.checkPairLocked(src, dst); err != nil {
		return fmt.Errorf("render %q from %d into %d: %w", pipelineKey, src, dst, err)
	}
	// the pass always covers the destination, whatever size the caller packed
	di := r.textures[dst]
	params.Dims = [2]uint32{uint32(di.width), uint32(di.height)}
	if err := r.backend.RenderToTexture(p, src, dst, params); err != nil {
		return err
	}
	r.stats.Passes++
	r.stats.LastPassDims = params.Dims
	return nil
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFrame {
		return fmt.Errorf("begin frame: previous frame not ended: %w", ErrNoFrame)
	}
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	r.inFrame = true
	r.stats.Frames++
	return nil
}

func (r *renderer) DrawTexture(pipelineKey string, h TextureHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return fmt.Errorf("draw texture %d: %w", h, ErrNoFrame)
	}
	p, err := r.pipelineLocked(pipelineKey, pipeline.PipelineTypePresent)
	if err != nil {
		return err
	}
	if _, ok := r.textures[h]; !ok {
		return fmt.Errorf("draw texture %d: %w", h, ErrUnknownTexture)
	}
	if err := r.backend.DrawTexture(p, h); err != nil {
		return err
	}
	r.stats.Draws++
	r.stats.LastDrawn = h
	return nil
}

func (r *renderer) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return
	}
	r.backend.EndFrame()
	r.inFrame = false
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for h := range r.textures {
		_ = r.backend.ReleaseGridTexture(h)
	}
	clear(r.textures)
	r.usedTexels = 0
	r.backend.Release()
}

func (r *renderer) pipelineLocked(key string, want pipeline.PipelineType) (pipeline.Pipeline, error) {
	p, exists := r.pipelineCache[key]
	if !exists {
		return nil, fmt.Errorf("render pipeline %q not found in cache: %w", key, ErrUnknownPipeline)
	}
	if p.Type() != want {
		return nil, fmt.Errorf("pipeline %q is a %s pipeline, need %s: %w", key, p.Type(), want, ErrPipelineType)
	}
	return p, nil
}

func (r *renderer) checkPairLocked(src, dst TextureHandle) error {
	si, ok := r.textures[src]
	if !ok {
		return fmt.Errorf("source %d: %w", src, ErrUnknownTexture)
	}
	di, ok := r.textures[dst]
	if !ok {
		return fmt.Errorf("destination %d: %w", dst, ErrUnknownTexture)
	}
	if si != di {
		return fmt.Errorf("%dx%d vs %dx%d: %w", si.width, si.height, di.width, di.height, grid.ErrSizeMismatch)
	}
	return nil
}

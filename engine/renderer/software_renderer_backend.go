package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/pipeline"
)

// softwareMaxTextureDimension matches the common desktop GPU limit so grids sized for one backend fit the other.
const softwareMaxTextureDimension = 16384

type softwareTexture struct {
	label    string
	grid     *grid.Grid
	topology grid.Topology
}

// softwareRendererBackendImpl keeps grid textures in host memory and evaluates simulation passes
// with a pooled grid.Stepper. Frames are accepted and discarded.
type softwareRendererBackendImpl struct {
	mu *sync.Mutex

	stepper    grid.Stepper
	textures   map[TextureHandle]*softwareTexture
	nextHandle TextureHandle

	presentMode PresentMode
}

var _ RendererBackend = &softwareRendererBackendImpl{}

func newSoftwareRendererBackend(workers int) RendererBackend {
	return &softwareRendererBackendImpl{
		mu:       &sync.Mutex{},
		stepper:  grid.NewParallelStepper(workers),
		textures: make(map[TextureHandle]*softwareTexture),
	}
}

func (b *softwareRendererBackendImpl) RegisterPipeline(p pipeline.Pipeline) error {
	return nil
}

func (b *softwareRendererBackendImpl) ConfigureSurface(width, height int) {}

func (b *softwareRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *softwareRendererBackendImpl) MaxTextureDimension() int {
	return softwareMaxTextureDimension
}

func (b *softwareRendererBackendImpl) CreateGridTexture(label string, width, height int, topology grid.Topology) (TextureHandle, error) {
	g, err := grid.New(width, height)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextHandle++
	b.textures[b.nextHandle] = &softwareTexture{label: label, grid: g, topology: topology}
	return b.nextHandle, nil
}

func (b *softwareRendererBackendImpl) WriteGridTexture(h TextureHandle, g *grid.Grid) error {
	t, err := b.texture(h)
	if err != nil {
		return err
	}
	copy(t.grid.Cells(), g.Cells())
	return nil
}

func (b *softwareRendererBackendImpl) CopyGridTexture(src, dst TextureHandle) error {
	s, err := b.texture(src)
	if err != nil {
		return err
	}
	d, err := b.texture(dst)
	if err != nil {
		return err
	}
	copy(d.grid.Cells(), s.grid.Cells())
	return nil
}

func (b *softwareRendererBackendImpl) ReadGridTexture(h TextureHandle) (*grid.Grid, error) {
	t, err := b.texture(h)
	if err != nil {
		return nil, err
	}
	return t.grid.Clone(), nil
}

func (b *softwareRendererBackendImpl) ReleaseGridTexture(h TextureHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.textures[h]; !ok {
		return fmt.Errorf("texture %d: %w", h, ErrUnknownTexture)
	}
	delete(b.textures, h)
	return nil
}

func (b *softwareRendererBackendImpl) RenderToTexture(p pipeline.Pipeline, src, dst TextureHandle, params grid.GPUGridParams) error {
	s, err := b.texture(src)
	if err != nil {
		return err
	}
	d, err := b.texture(dst)
	if err != nil {
		return err
	}
	if err := b.stepper.Step(s.grid, d.grid, params.Rule(), params.Topology()); err != nil {
		return fmt.Errorf("%s: %w", p.PipelineKey(), err)
	}
	return nil
}

func (b *softwareRendererBackendImpl) BeginFrame() error {
	return nil
}

func (b *softwareRendererBackendImpl) DrawTexture(p pipeline.Pipeline, h TextureHandle) error {
	_, err := b.texture(h)
	return err
}

func (b *softwareRendererBackendImpl) EndFrame() {}

func (b *softwareRendererBackendImpl) Present() {}

func (b *softwareRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.textures)
}

func (b *softwareRendererBackendImpl) texture(h TextureHandle) (*softwareTexture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.textures[h]
	if !ok {
		return nil, fmt.Errorf("texture %d: %w", h, ErrUnknownTexture)
	}
	return t, nil
}

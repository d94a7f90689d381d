package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-life/shaders"
)

type fixedSource struct {
	h  renderer.TextureHandle
	ok bool
}

func (f fixedSource) CurrentOutput() (renderer.TextureHandle, bool) {
	return f.h, f.ok
}

func newRenderer(t *testing.T) renderer.Renderer {
	t.Helper()
	vs, err := shader.NewShaderFromFS("quad", shader.ShaderTypeVertex, shaders.FS, shaders.Quad)
	require.NoError(t, err)
	fs, err := shader.NewShaderFromFS("present", shader.ShaderTypeFragment, shaders.FS, shaders.Present)
	require.NoError(t, err)
	p := pipeline.NewPipeline("present", pipeline.PipelineTypePresent, pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs))

	r := renderer.NewRenderer(renderer.BackendTypeSoftware, nil, renderer.WithPipeline(p))
	t.Cleanup(r.Release)
	return r
}

func TestPresent(t *testing.T) {
	r := newRenderer(t)
	h, err := r.CreateGridTexture("published", 4, 4, grid.TopologyToroidal)
	require.NoError(t, err)
	g, err := grid.Blinker.Generate(4, 4)
	require.NoError(t, err)
	require.NoError(t, r.WriteGridTexture(h, g))

	b := NewBridge(r, "present")
	require.NoError(t, b.Present(fixedSource{h: h, ok: true}))
	require.NoError(t, b.Present(fixedSource{h: h, ok: true}))

	stats := r.Stats()
	assert.Equal(t, uint64(2), stats.Frames)
	assert.Equal(t, uint64(2), stats.Draws)
	assert.Equal(t, h, stats.LastDrawn)
	assert.Equal(t, uint64(2), b.Presented())

	// presenting never touches the texture contents
	got, err := r.ReadGridTexture(h)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))
}

func TestPresentWithoutOutput(t *testing.T) {
	r := newRenderer(t)
	b := NewBridge(r, "present")

	require.NoError(t, b.Present(fixedSource{}))
	assert.Equal(t, uint64(1), r.Stats().Frames)
	assert.Zero(t, r.Stats().Draws)
}

func TestPresentErrors(t *testing.T) {
	r := newRenderer(t)

	b := NewBridge(r, "present")
	err := b.Present(fixedSource{h: 77, ok: true})
	assert.ErrorIs(t, err, renderer.ErrUnknownTexture)

	// the failed frame was ended, so the next one can begin
	require.NoError(t, b.Present(fixedSource{}))
	assert.Equal(t, uint64(1), b.Presented())

	missing := NewBridge(r, "nope")
	h, err := r.CreateGridTexture("t", 2, 2, grid.TopologyClamped)
	require.NoError(t, err)
	assert.ErrorIs(t, missing.Present(fixedSource{h: h, ok: true}), renderer.ErrUnknownPipeline)
}

// countingPresents counts Present calls on the wrapped renderer.
type countingPresents struct {
	renderer.Renderer
	presents int
}

func (c *countingPresents) Present() {
	c.presents++
	c.Renderer.Present()
}

func TestPresentReleasesFrameOnDrawError(t *testing.T) {
	r := &countingPresents{Renderer: newRenderer(t)}
	b := NewBridge(r, "present")

	assert.ErrorIs(t, b.Present(fixedSource{h: 99, ok: true}), renderer.ErrUnknownTexture)
	assert.Equal(t, 1, r.presents)
	assert.Zero(t, b.Presented())

	require.NoError(t, b.Present(fixedSource{}))
	assert.Equal(t, 2, r.presents)
	assert.Equal(t, uint64(1), b.Presented())
}

package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-life/shaders"
)

func testPipelines(t *testing.T) (pipeline.Pipeline, pipeline.Pipeline) {
	t.Helper()
	vs, err := shader.NewShaderFromFS("quad", shader.ShaderTypeVertex, shaders.FS, shaders.Quad)
	require.NoError(t, err)
	life, err := shader.NewShaderFromFS("life", shader.ShaderTypeFragment, shaders.FS, shaders.Life)
	require.NoError(t, err)
	present, err := shader.NewShaderFromFS("present", shader.ShaderTypeFragment, shaders.FS, shaders.Present)
	require.NoError(t, err)

	sim := pipeline.NewPipeline("life", pipeline.PipelineTypeSimulation,
		pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(life))
	pres := pipeline.NewPipeline("present", pipeline.PipelineTypePresent,
		pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(present))
	return sim, pres
}

func newSoftware(t *testing.T, opts ...RendererBuilderOption) Renderer {
	t.Helper()
	sim, pres := testPipelines(t)
	r := NewRenderer(BackendTypeSoftware, nil, append([]RendererBuilderOption{WithPipeline(sim), WithPipeline(pres), WithWorkers(2)}, opts...)...)
	t.Cleanup(r.Release)
	return r
}

func TestSoftwareRendererPipelines(t *testing.T) {
	r := newSoftware(t)

	assert.Equal(t, BackendTypeSoftware, r.Backend())
	require.NotNil(t, r.Pipeline("life"))
	require.NotNil(t, r.Pipeline("present"))
	assert.Len(t, r.Pipelines(), 2)

	err := r.RegisterPipelines(pipeline.NewPipeline("bare", pipeline.PipelineTypeSimulation))
	assert.ErrorIs(t, err, pipeline.ErrMissingShader)
	assert.Nil(t, r.Pipeline("bare"))
}

func TestGridTextureRoundTrip(t *testing.T) {
	r := newSoftware(t)

	h, err := r.CreateGridTexture("a", 5, 3, grid.TopologyToroidal)
	require.NoError(t, err)
	assert.NotZero(t, h)

	w, hh, err := r.GridTextureSize(h)
	require.NoError(t, err)
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, hh)

	g, err := grid.New(5, 3)
	require.NoError(t, err)
	g.Set(4, 2, 1)
	g.Set(0, 1, 0.25)
	require.NoError(t, r.WriteGridTexture(h, g))

	got, err := r.ReadGridTexture(h)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))

	// the readback is a copy
	got.Set(0, 0, 1)
	again, err := r.ReadGridTexture(h)
	require.NoError(t, err)
	assert.Zero(t, again.At(0, 0))

	stats := r.Stats()
	assert.Equal(t, uint64(1), stats.Uploads)
	assert.Equal(t, uint64(2), stats.Readbacks)
}

func TestCreateGridTextureErrors(t *testing.T) {
	r := newSoftware(t, WithTextureBudget(100), WithMaxTextureDimension(16))

	_, err := r.CreateGridTexture("zero", 0, 4, grid.TopologyClamped)
	assert.ErrorIs(t, err, grid.ErrZeroDimension)

	_, err = r.CreateGridTexture("wide", 17, 1, grid.TopologyClamped)
	assert.ErrorIs(t, err, ErrTextureTooLarge)

	a, err := r.CreateGridTexture("a", 8, 8, grid.TopologyClamped)
	require.NoError(t, err)
	_, err = r.CreateGridTexture("b", 8, 8, grid.TopologyClamped)
	assert.ErrorIs(t, err, ErrTextureBudget)

	require.NoError(t, r.ReleaseGridTexture(a))
	_, err = r.CreateGridTexture("b", 8, 8, grid.TopologyClamped)
	assert.NoError(t, err)

	assert.ErrorIs(t, r.ReleaseGridTexture(a), ErrUnknownTexture)
	_, err = r.ReadGridTexture(a)
	assert.ErrorIs(t, err, ErrUnknownTexture)
}

func TestWriteGridTextureSizeMismatch(t *testing.T) {
	r := newSoftware(t)
	h, err := r.CreateGridTexture("a", 4, 4, grid.TopologyClamped)
	require.NoError(t, err)

	g, err := grid.New(3, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, r.WriteGridTexture(h, g), grid.ErrSizeMismatch)
	assert.Zero(t, r.Stats().Uploads)
}

func TestCopyGridTexture(t *testing.T) {
	r := newSoftware(t)
	a, err := r.CreateGridTexture("a", 4, 4, grid.TopologyClamped)
	require.NoError(t, err)
	b, err := r.CreateGridTexture("b", 4, 4, grid.TopologyClamped)
	require.NoError(t, err)
	c, err := r.CreateGridTexture("c", 2, 2, grid.TopologyClamped)
	require.NoError(t, err)

	g, err := grid.PatternProvider{Cells: [][2]int{{0, 0}, {1, 1}}}.Generate(4, 4)
	require.NoError(t, err)
	require.NoError(t, r.WriteGridTexture(a, g))
	require.NoError(t, r.CopyGridTexture(a, b))

	got, err := r.ReadGridTexture(b)
	require.NoError(t, err)
	assert.True(t, g.Equal(got))

	assert.ErrorIs(t, r.CopyGridTexture(a, a), ErrSameTexture)
	assert.ErrorIs(t, r.CopyGridTexture(a, c), grid.ErrSizeMismatch)
	assert.ErrorIs(t, r.CopyGridTexture(a, 99), ErrUnknownTexture)
	assert.Equal(t, uint64(1), r.Stats().Copies)
}

func TestRenderToTexture(t *testing.T) {
	r := newSoftware(t)
	src, err := r.CreateGridTexture("src", 6, 6, grid.TopologyToroidal)
	require.NoError(t, err)
	dst, err := r.CreateGridTexture("dst", 6, 6, grid.TopologyToroidal)
	require.NoError(t, err)

	g, err := grid.Blinker.Generate(6, 6)
	require.NoError(t, err)
	require.NoError(t, r.WriteGridTexture(src, g))

	params := grid.NewGPUGridParams(6, 6, grid.Conway, grid.TopologyToroidal)
	require.NoError(t, r.RenderToTexture("life", src, dst, params))

	got, err := r.ReadGridTexture(dst)
	require.NoError(t, err)
	want := grid.Step(g, grid.Conway, grid.TopologyToroidal)
	assert.True(t, want.StateEqual(got), "got\n%s\nwant\n%s", got.Render(), want.Render())
	assert.Equal(t, uint64(1), r.Stats().Passes)
}

func TestRenderToTextureErrors(t *testing.T) {
	r := newSoftware(t)
	a, err := r.CreateGridTexture("a", 4, 4, grid.TopologyClamped)
	require.NoError(t, err)
	b, err := r.CreateGridTexture("b", 4, 4, grid.TopologyClamped)
	require.NoError(t, err)
	params := grid.NewGPUGridParams(4, 4, grid.Conway, grid.TopologyClamped)

	tests := []struct {
		name     string
		key      string
		src, dst TextureHandle
		want     error
	}{
		{"unknown pipeline", "nope", a, b, ErrUnknownPipeline},
		{"present pipeline", "present", a, b, ErrPipelineType},
		{"same texture", "life", a, a, ErrSameTexture},
		{"unknown source", "life", 42, b, ErrUnknownTexture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, r.RenderToTexture(tt.key, tt.src, tt.dst, params), tt.want)
		})
	}
	assert.Zero(t, r.Stats().Passes)
}

func TestFrameLifecycle(t *testing.T) {
	r := newSoftware(t)
	h, err := r.CreateGridTexture("a", 4, 4, grid.TopologyClamped)
	require.NoError(t, err)

	assert.ErrorIs(t, r.DrawTexture("present", h), ErrNoFrame)

	require.NoError(t, r.BeginFrame())
	assert.ErrorIs(t, r.BeginFrame(), ErrNoFrame)
	assert.ErrorIs(t, r.DrawTexture("life", h), ErrPipelineType)
	require.NoError(t, r.DrawTexture("present", h))
	r.EndFrame()
	r.Present()

	stats := r.Stats()
	assert.Equal(t, uint64(1), stats.Frames)
	assert.Equal(t, uint64(1), stats.Draws)
	assert.Equal(t, h, stats.LastDrawn)
	assert.Zero(t, stats.Readbacks)
}

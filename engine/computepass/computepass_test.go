package computepass

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

func newRenderer(t *testing.T) renderer.Renderer {
	t.Helper()
	vs, err := shader.NewShaderFromFS("quad", shader.ShaderTypeVertex, shaders.FS, shaders.Quad)
	require.NoError(t, err)
	fs, err := shader.NewShaderFromFS("life", shader.ShaderTypeFragment, shaders.FS, shaders.Life)
	require.NoError(t, err)
	p := pipeline.NewPipeline("life", pipeline.PipelineTypeSimulation, pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs))

	r := renderer.NewRenderer(renderer.BackendTypeSoftware, nil, renderer.WithPipeline(p), renderer.WithWorkers(1))
	t.Cleanup(r.Release)
	return r
}

func TestInvoke(t *testing.T) {
	r := newRenderer(t)
	in, err := r.CreateGridTexture("in", 5, 5, grid.TopologyClamped)
	require.NoError(t, err)
	out, err := r.CreateGridTexture("out", 5, 5, grid.TopologyClamped)
	require.NoError(t, err)

	g, err := grid.Blinker.Generate(5, 5)
	require.NoError(t, err)
	require.NoError(t, r.WriteGridTexture(in, g))

	pass := New(r, "life", grid.NewGPUGridParams(5, 5, grid.Conway, grid.TopologyClamped))
	assert.Equal(t, "life", pass.Program())

	pass.BindInput(in)
	pass.BindOutput(out)
	require.NoError(t, pass.Invoke())

	got, err := r.ReadGridTexture(out)
	require.NoError(t, err)
	assert.True(t, grid.Step(g, grid.Conway, grid.TopologyClamped).Equal(got))
}

func TestInvokeClearsBindings(t *testing.T) {
	r := newRenderer(t)
	in, err := r.CreateGridTexture("in", 4, 4, grid.TopologyClamped)
	require.NoError(t, err)
	out, err := r.CreateGridTexture("out", 4, 4, grid.TopologyClamped)
	require.NoError(t, err)

	pass := New(r, "life", grid.NewGPUGridParams(4, 4, grid.Conway, grid.TopologyClamped))
	pass.BindInput(in)
	pass.BindOutput(out)
	require.NoError(t, pass.Invoke())

	// nothing carries over to the next invocation
	assert.ErrorIs(t, pass.Invoke(), ErrUnbound)
}

func TestInvokeUnbound(t *testing.T) {
	r := newRenderer(t)
	h, err := r.CreateGridTexture("tex", 4, 4, grid.TopologyClamped)
	require.NoError(t, err)
	pass := New(r, "life", grid.NewGPUGridParams(4, 4, grid.Conway, grid.TopologyClamped))

	tests := []struct {
		name          string
		input, output renderer.TextureHandle
	}{
		{"neither", 0, 0},
		{"input only", h, 0},
		{"output only", 0, h},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.input != 0 {
				pass.BindInput(tt.input)
			}
			if tt.output != 0 {
				pass.BindOutput(tt.output)
			}
			assert.ErrorIs(t, pass.Invoke(), ErrUnbound)
		})
	}
	assert.Zero(t, r.Stats().Passes)
}

func TestInvokeFailureClearsBindings(t *testing.T) {
	r := newRenderer(t)
	h, err := r.CreateGridTexture("tex", 4, 4, grid.TopologyClamped)
	require.NoError(t, err)
	pass := New(r, "life", grid.NewGPUGridParams(4, 4, grid.Conway, grid.TopologyClamped))

	pass.BindInput(h)
	pass.BindOutput(h)
	assert.ErrorIs(t, pass.Invoke(), renderer.ErrSameTexture)
	assert.ErrorIs(t, pass.Invoke(), ErrUnbound)
}

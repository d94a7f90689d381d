package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-life/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-life/shaders"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("life", PipelineTypeSimulation)

	assert.Equal(t, "life", p.PipelineKey())
	assert.Equal(t, PipelineTypeSimulation, p.Type())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.False(t, p.BlendEnabled())
	assert.Nil(t, p.Pipeline())
	assert.ErrorIs(t, p.Validate(), ErrMissingShader)
}

func TestNewPipelineWithShaders(t *testing.T) {
	vs, err := shader.NewShaderFromFS("quad", shader.ShaderTypeVertex, shaders.FS, shaders.Quad)
	require.NoError(t, err)
	fs, err := shader.NewShaderFromFS("present", shader.ShaderTypeFragment, shaders.FS, shaders.Present)
	require.NoError(t, err)

	p := NewPipeline("present", PipelineTypePresent,
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithCullMode(wgpu.CullModeBack),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	require.NoError(t, p.Validate())
	assert.Same(t, vs, p.Shader(shader.ShaderTypeVertex))
	assert.Same(t, fs, p.Shader(shader.ShaderTypeFragment))
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
	assert.Equal(t, "present", p.Type().String())
}

package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-life/shaders"
)

func TestQuadVertexShader(t *testing.T) {
	s, err := NewShaderFromFS("quad", ShaderTypeVertex, shaders.FS, shaders.Quad)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Contains(t, s.Source(), "struct VertexInput")
	assert.NotContains(t, s.Source(), "@oxy:")

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	layout := layouts[0][0]
	assert.Equal(t, uint64(20), layout.ArrayStride)
	require.Len(t, layout.Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[0].Format)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layout.Attributes[1].Format)
	assert.Equal(t, uint64(12), layout.Attributes[1].Offset)
	assert.Empty(t, s.BindGroupLayoutDescriptors())
}

func TestLifeFragmentShader(t *testing.T) {
	s, err := NewShaderFromFS("life", ShaderTypeFragment, shaders.FS, shaders.Life)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Contains(t, s.Source(), "@group(0) @binding(1) var<uniform> params: GridParams;")

	desc := s.BindGroupLayoutDescriptors()[0]
	require.Len(t, desc.Entries, 2)
	assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, desc.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.ShaderStageFragment, desc.Entries[0].Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[1].Buffer.Type)
	assert.Equal(t, uint64(32), desc.Entries[1].Buffer.MinBindingSize)
	assert.Equal(t, "params", s.BindGroupVarName(0, 1))

	g, b, ok := s.BindingForRole(AnnotationArgCurrentState)
	require.True(t, ok)
	assert.Equal(t, 0, g)
	assert.Equal(t, 0, b)
	_, _, ok = s.BindingForRole(AnnotationArgStateSampler)
	assert.False(t, ok)
}

func TestPresentFragmentShader(t *testing.T) {
	s, err := NewShaderFromFS("present", ShaderTypeFragment, shaders.FS, shaders.Present)
	require.NoError(t, err)

	desc := s.BindGroupLayoutDescriptors()[0]
	require.Len(t, desc.Entries, 2)
	assert.Equal(t, wgpu.SamplerBindingTypeNonFiltering, desc.Entries[1].Sampler.Type)

	_, b, ok := s.BindingForRole(AnnotationArgStateSampler)
	require.True(t, ok)
	assert.Equal(t, 1, b)
}

func TestNewShaderErrors(t *testing.T) {
	_, err := NewShader("bad", ShaderTypeFragment, "//@oxy:include camera\n")
	assert.ErrorContains(t, err, "unknown struct type")

	_, err = NewShader("no-entry", ShaderTypeVertex, "fn helper() {}\n")
	assert.ErrorContains(t, err, "no @vertex entry point")

	_, err = NewShaderFromFS("missing", ShaderTypeVertex, shaders.FS, "missing.wgsl")
	assert.Error(t, err)
}

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    AnnotationType
		wantErr bool
	}{
		{"plain line", "let x = 1;", "", false},
		{"include", "//@oxy:include grid_params", annotationTypeInclude, false},
		{"group", "//@oxy:group 0 1 storage_uniform params grid_params", AnnotationTypeBindingGroup, false},
		{"provider role", "//@oxy:provider 0 0 grid current_state", AnnotationTypeProvider, false},
		{"provider no role", "//@oxy:provider 1 0 grid", AnnotationTypeProvider, false},
		{"empty", "//@oxy:", "", true},
		{"bad group number", "//@oxy:group x 1 storage_uniform p grid_params", "", true},
		{"bad address space", "//@oxy:group 0 1 storage_write p grid_params", "", true},
		{"bad provider", "//@oxy:provider 0 0 camera", "", true},
		{"bad role", "//@oxy:provider 0 0 grid diffuse_texture", "", true},
		{"unknown type", "//@oxy:define x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 1)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, a)
				return
			}
			require.NotNil(t, a)
			assert.Equal(t, tt.want, a.Type)
		})
	}
}

func TestPreProcessorIncludesOnce(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include grid_params\n//@oxy:include grid_params\n")
	require.NoError(t, err)
	assert.Equal(t, 1, countOf(out, "struct GridParams"))
	assert.Empty(t, pp.Declarations())
}

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* block /* nested */ still */ c\n"
	assert.Equal(t, "a \nb  c\n", stripComments(src))
}

func countOf(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}

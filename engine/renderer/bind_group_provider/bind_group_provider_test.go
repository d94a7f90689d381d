package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("life params", WithIndexCount(6))

	assert.Equal(t, "life params", p.Label())
	assert.Equal(t, 6, p.IndexCount())
	assert.Nil(t, p.BindGroup(1))
	assert.Nil(t, p.Buffer(0))
	assert.Empty(t, p.Buffers())
}

func TestReleaseClearsState(t *testing.T) {
	p := NewBindGroupProvider("quad", WithIndexCount(6))
	p.SetBindGroup(3, nil)
	p.SetBuffer(1, nil)

	p.ReleaseBindGroup(3)
	assert.Nil(t, p.BindGroup(3))

	p.Release()
	assert.Empty(t, p.Buffers())
	assert.Zero(t, p.IndexCount())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.IndexBuffer())
}

package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the implementation of the BindGroupProvider interface.
type bindGroupProvider struct {
	label string

	// bindGroupLayout is shared by every bind group this provider creates
	bindGroupLayout *wgpu.BindGroupLayout
	// bindGroups holds one bind group per source grid texture, keyed by texture handle
	bindGroups map[uint32]*wgpu.BindGroup
	// buffers holds provider-owned buffers (uniform parameters) keyed by binding index
	buffers map[int]*wgpu.Buffer

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

// BindGroupProvider owns the GPU resources a pipeline binds while drawing a full-screen quad:
// the bind group layout, a bind group per sampled grid texture, provider-owned uniform buffers,
// and optionally the quad's vertex and index buffers.
//
// Texture views and samplers referenced by the bind groups belong to the grid textures and are
// not released by the provider.
type BindGroupProvider interface {
	// Release releases every bind group, the layout, and all provider-owned buffers.
	Release()

	// Label returns the debug label used for GPU objects created for this provider.
	//
	// Returns:
	//   - string: the provider label
	Label() string

	// BindGroup retrieves the bind group created for a source texture.
	//
	// Parameters:
	//   - key: the source texture handle
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group, or nil if none has been created
	BindGroup(key uint32) *wgpu.BindGroup

	// SetBindGroup caches a bind group for a source texture, releasing any previous one.
	//
	// Parameters:
	//   - key: the source texture handle
	//   - bg: the bind group to cache
	SetBindGroup(key uint32, bg *wgpu.BindGroup)

	// ReleaseBindGroup releases and forgets the bind group for a source texture.
	// Called when the texture itself is released.
	//
	// Parameters:
	//   - key: the source texture handle
	ReleaseBindGroup(key uint32)

	BindGroupLayout() *wgpu.BindGroupLayout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// Buffer retrieves the provider-owned buffer at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer, or nil
	Buffer(binding int) *wgpu.Buffer
	SetBuffer(binding int, buf *wgpu.Buffer)
	Buffers() map[int]*wgpu.Buffer

	VertexBuffer() *wgpu.Buffer
	IndexBuffer() *wgpu.Buffer
	IndexCount() int
	SetVertexBuffer(buf *wgpu.Buffer)
	SetIndexBuffer(buf *wgpu.Buffer)
	SetIndexCount(count int)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider with the given label.
//
// Parameters:
//   - label: a debug label applied to GPU objects created for this provider
//   - options: a variadic list of BindGroupProviderOption functions to configure the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:      label,
		bindGroups: make(map[uint32]*wgpu.BindGroup),
		buffers:    make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup(key uint32) *wgpu.BindGroup {
	return p.bindGroups[key]
}

func (p *bindGroupProvider) SetBindGroup(key uint32, bg *wgpu.BindGroup) {
	if old := p.bindGroups[key]; old != nil && old != bg {
		old.Release()
	}
	p.bindGroups[key] = bg
}

func (p *bindGroupProvider) ReleaseBindGroup(key uint32) {
	if bg := p.bindGroups[key]; bg != nil {
		bg.Release()
	}
	delete(p.bindGroups, key)
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) Buffers() map[int]*wgpu.Buffer {
	return p.buffers
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	for key, bg := range p.bindGroups {
		if bg != nil {
			bg.Release()
		}
		delete(p.bindGroups, key)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}

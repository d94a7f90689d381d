package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-life/common"
	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/logging"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/quad"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// gridTextureFormat is single-channel 32-bit float, one cell per texel.
const gridTextureFormat = wgpu.TextureFormatR32Float

const gridTextureUsage = wgpu.TextureUsageRenderAttachment |
	wgpu.TextureUsageTextureBinding |
	wgpu.TextureUsageCopySrc |
	wgpu.TextureUsageCopyDst

type wgpuGridTexture struct {
	label   string
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
	width   int
	height  int
}

func (t *wgpuGridTexture) extent() wgpu.Extent3D {
	return wgpu.Extent3D{
		Width:              uint32(t.width),
		Height:             uint32(t.height),
		DepthOrArrayLayers: 1,
	}
}

func (t *wgpuGridTexture) imageCopy() *wgpu.ImageCopyTexture {
	return &wgpu.ImageCopyTexture{
		Texture:  t.texture,
		MipLevel: 0,
		Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   wgpu.TextureAspectAll,
	}
}

func (t *wgpuGridTexture) release() {
	if t.sampler != nil {
		t.sampler.Release()
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface // nil when headless

	surfaceFormat       wgpu.TextureFormat
	presentMode         wgpu.PresentMode
	maxTextureDimension int

	textures   map[TextureHandle]*wgpuGridTexture
	nextHandle TextureHandle

	// quad holds the shared full-screen quad vertex and index buffers
	quad bind_group_provider.BindGroupProvider
	// providers holds the group 0 layout, uniform buffer and per-texture bind groups of each pipeline
	providers     map[string]bind_group_provider.BindGroupProvider
	layoutEntries map[string][]wgpu.BindGroupLayoutEntry

	// Frame state for the presentation pass
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surface SurfaceSource, forceFallbackAdapter bool) RendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:            &sync.Mutex{},
		instance:      wgpu.CreateInstance(nil),
		presentMode:   wgpu.PresentModeFifo,
		textures:      make(map[TextureHandle]*wgpuGridTexture),
		providers:     make(map[string]bind_group_provider.BindGroupProvider),
		layoutEntries: make(map[string][]wgpu.BindGroupLayoutEntry),
	}
	if surface != nil {
		b.surface = b.instance.CreateSurface(surface.SurfaceDescriptor())
	}

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	limits := wgpu.DefaultLimits()
	b.maxTextureDimension = int(limits.MaxTextureDimension2D)

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Life Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if b.surface != nil {
		capabilities := b.surface.GetCapabilities(b.adapter)
		b.surfaceFormat = capabilities.Formats[0]
	}
	logging.Infof("wgpu device ready (fallback adapter: %v, headless: %v, max texture %d)",
		forceFallbackAdapter, b.surface == nil, b.maxTextureDimension)

	if err := b.initQuad(); err != nil {
		panic(err)
	}
	return b
}

func (b *wgpuRendererBackendImpl) initQuad() error {
	b.quad = bind_group_provider.NewBindGroupProvider("Quad", bind_group_provider.WithIndexCount(int(quad.IndexCount)))
	return b.initMeshBuffers(b.quad, quad.VertexBytes(), quad.IndexBytes())
}

func (b *wgpuRendererBackendImpl) initMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte) error {
	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(vb, 0, vertexData)
	provider.SetVertexBuffer(vb)

	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(ib, 0, indexData)
	provider.SetIndexBuffer(ib)
	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) MaxTextureDimension() int {
	return b.maxTextureDimension
}

func (b *wgpuRendererBackendImpl) RegisterPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)

	var format wgpu.TextureFormat
	switch p.Type() {
	case pipeline.PipelineTypeSimulation:
		format = gridTextureFormat
	case pipeline.PipelineTypePresent:
		if b.surface == nil {
			return ErrNoSurface
		}
		format = b.surfaceFormat
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return err
	}
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return err
	}

	merged := mergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	for g := range merged {
		if g != 0 {
			return fmt.Errorf("bind group %d: only group 0 is supported", g)
		}
	}

	provider := bind_group_provider.NewBindGroupProvider(p.PipelineKey())
	var bindGroupLayouts []*wgpu.BindGroupLayout
	if desc, ok := merged[0]; ok {
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group 0: %w", layoutErr)
		}
		provider.SetBindGroupLayout(layout)
		bindGroupLayouts = append(bindGroupLayouts, layout)

		for _, entry := range desc.Entries {
			if entry.Buffer.Type == wgpu.BufferBindingTypeUndefined {
				continue
			}
			size := common.Coalesce(entry.Buffer.MinBindingSize, uint64((&grid.GPUGridParams{}).Size()))
			buf, bufErr := b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: p.PipelineKey() + " Params Buffer",
				Size:  size,
				Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			})
			if bufErr != nil {
				provider.Release()
				return bufErr
			}
			provider.SetBuffer(int(entry.Binding), buf)
		}
		b.layoutEntries[p.PipelineKey()] = desc.Entries
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		provider.Release()
		return err
	}

	var vertexLayouts []wgpu.VertexBufferLayout
	for i := range len(vertexShader.VertexLayouts()) {
		vertexLayouts = append(vertexLayouts, vertexShader.VertexLayouts()[i]...)
	}

	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: p.WriteMask(),
	}
	// R32Float is not blendable
	if p.BlendEnabled() && p.Type() == pipeline.PipelineTypePresent {
		target.Blend = p.BlendState()
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		provider.Release()
		return err
	}

	p.SetRenderPipeline(created)
	if old, ok := b.providers[p.PipelineKey()]; ok {
		old.Release()
	}
	b.providers[p.PipelineKey()] = provider
	return nil
}

func (b *wgpuRendererBackendImpl) CreateGridTexture(label string, width, height int, topology grid.Topology) (TextureHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := &wgpuGridTexture{label: label, width: width, height: height}
	var err error
	t.texture, err = b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         gridTextureUsage,
		Dimension:     wgpu.TextureDimension2D,
		Size:          t.extent(),
		Format:        gridTextureFormat,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return 0, err
	}
	if t.view, err = t.texture.CreateView(nil); err != nil {
		t.release()
		return 0, err
	}

	staging := samplerStagingData(topology)
	t.sampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  staging.AddressModeU,
		AddressModeV:  staging.AddressModeV,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     staging.MagFilter,
		MinFilter:     staging.MinFilter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		t.release()
		return 0, err
	}

	b.nextHandle++
	b.textures[b.nextHandle] = t
	return b.nextHandle, nil
}

// samplerStagingData picks nearest filtering and an address mode that mirrors the grid topology.
func samplerStagingData(topology grid.Topology) common.SamplerStagingData {
	mode := wgpu.AddressModeClampToEdge
	if topology == grid.TopologyToroidal {
		mode = wgpu.AddressModeRepeat
	}
	return common.SamplerStagingData{
		AddressModeU: mode,
		AddressModeV: mode,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
	}
}

func (b *wgpuRendererBackendImpl) WriteGridTexture(h TextureHandle, g *grid.Grid) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.textures[h]
	if !ok {
		return fmt.Errorf("texture %d: %w", h, ErrUnknownTexture)
	}
	staging := common.GridStagingData{Cells: g.Cells(), Width: uint32(t.width), Height: uint32(t.height)}
	size := t.extent()
	b.queue.WriteTexture(
		t.imageCopy(),
		staging.Bytes(),
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.BytesPerRow(),
			RowsPerImage: staging.Height,
		},
		&size,
	)
	return nil
}

func (b *wgpuRendererBackendImpl) CopyGridTexture(src, dst TextureHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, d, err := b.texturePair(src, dst)
	if err != nil {
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	size := s.extent()
	encoder.CopyTextureToTexture(s.imageCopy(), d.imageCopy(), &size)
	return b.submit(encoder)
}

func (b *wgpuRendererBackendImpl) ReadGridTexture(h TextureHandle) (*grid.Grid, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.textures[h]
	if !ok {
		return nil, fmt.Errorf("texture %d: %w", h, ErrUnknownTexture)
	}

	rowBytes := uint32(t.width) * 4
	paddedRow := common.AlignUp(rowBytes, uint32(wgpu.CopyBytesPerRowAlignment))
	bufSize := uint64(paddedRow) * uint64(t.height)

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: t.label + " Readback Buffer",
		Size:  bufSize,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Release()

	size := t.extent()
	encoder.CopyTextureToBuffer(
		t.imageCopy(),
		&wgpu.ImageCopyBuffer{
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  paddedRow,
				RowsPerImage: uint32(t.height),
			},
			Buffer: buf,
		},
		&size,
	)
	if err := b.submit(encoder); err != nil {
		return nil, err
	}

	var status wgpu.BufferMapAsyncStatus
	if err := buf.MapAsync(wgpu.MapModeRead, 0, bufSize, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	}); err != nil {
		return nil, err
	}
	b.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, errors.New("readback buffer map was not successful")
	}
	defer buf.Unmap()

	mapped := buf.GetMappedRange(0, uint(bufSize))
	g, err := grid.New(t.width, t.height)
	if err != nil {
		return nil, err
	}
	cells := g.Cells()
	for y := range t.height {
		row := mapped[uint32(y)*paddedRow : uint32(y)*paddedRow+rowBytes]
		if err := common.BytesToFloat32s(cells[y*t.width:(y+1)*t.width], row); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (b *wgpuRendererBackendImpl) ReleaseGridTexture(h TextureHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.textures[h]
	if !ok {
		return fmt.Errorf("texture %d: %w", h, ErrUnknownTexture)
	}
	for _, provider := range b.providers {
		provider.ReleaseBindGroup(uint32(h))
	}
	t.release()
	delete(b.textures, h)
	return nil
}

func (b *wgpuRendererBackendImpl) RenderToTexture(p pipeline.Pipeline, src, dst TextureHandle, params grid.GPUGridParams) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, d, err := b.texturePair(src, dst)
	if err != nil {
		return err
	}

	provider := b.providers[p.PipelineKey()]
	data := params.Marshal()
	writes := make([]bind_group_provider.BufferWrite, 0, len(provider.Buffers()))
	for binding := range provider.Buffers() {
		writes = append(writes, bind_group_provider.BufferWrite{Provider: provider, Binding: binding, Data: data})
	}
	b.writeBuffers(writes)

	bindGroup, err := b.bindGroup(p.PipelineKey(), src, s)
	if err != nil {
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: p.PipelineKey() + " Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       d.view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{},
			},
		},
	})
	b.drawQuad(pass, p, bindGroup)
	pass.End()

	return b.submit(encoder)
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil {
		return ErrNoSurface
	}
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: 0.05, G: 0.05, B: 0.05, A: 1.0,
				},
			},
		},
	})

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) DrawTexture(p pipeline.Pipeline, h TextureHandle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	t, ok := b.textures[h]
	if !ok {
		return fmt.Errorf("texture %d: %w", h, ErrUnknownTexture)
	}
	bindGroup, err := b.bindGroup(p.PipelineKey(), h, t)
	if err != nil {
		return err
	}
	b.drawQuad(b.framePass, p, bindGroup)
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		logging.Warnf("finish frame encoder: %v", err)
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for h, t := range b.textures {
		t.release()
		delete(b.textures, h)
	}
	for key, provider := range b.providers {
		provider.Release()
		delete(b.providers, key)
	}
	if b.quad != nil {
		b.quad.Release()
		b.quad = nil
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}

func (b *wgpuRendererBackendImpl) writeBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

// bindGroup returns the cached bind group that samples texture t with pipeline key, creating it on first use.
func (b *wgpuRendererBackendImpl) bindGroup(key string, h TextureHandle, t *wgpuGridTexture) (*wgpu.BindGroup, error) {
	provider, ok := b.providers[key]
	if !ok {
		return nil, fmt.Errorf("pipeline %q: %w", key, ErrUnknownPipeline)
	}
	if provider.BindGroupLayout() == nil {
		return nil, nil
	}
	if bg := provider.BindGroup(uint32(h)); bg != nil {
		return bg, nil
	}

	layoutEntries := b.layoutEntries[key]
	entries := make([]wgpu.BindGroupEntry, 0, len(layoutEntries))
	for _, entry := range layoutEntries {
		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			entries = append(entries, wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: t.view})
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			entries = append(entries, wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: t.sampler})
		default:
			buf := provider.Buffer(int(entry.Binding))
			if buf == nil {
				return nil, fmt.Errorf("pipeline %q binding %d has no buffer", key, entry.Binding)
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			})
		}
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " " + t.label + " Bind Group",
		Layout:  provider.BindGroupLayout(),
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	provider.SetBindGroup(uint32(h), bg)
	return bg, nil
}

func (b *wgpuRendererBackendImpl) drawQuad(pass *wgpu.RenderPassEncoder, p pipeline.Pipeline, bindGroup *wgpu.BindGroup) {
	pass.SetPipeline(p.Pipeline())
	if bindGroup != nil {
		pass.SetBindGroup(0, bindGroup, nil)
	}
	pass.SetVertexBuffer(0, b.quad.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(b.quad.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(uint32(b.quad.IndexCount()), 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) submit(encoder *wgpu.CommandEncoder) error {
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()
	b.queue.Submit(commandBuffer)
	return nil
}

func (b *wgpuRendererBackendImpl) texturePair(src, dst TextureHandle) (*wgpuGridTexture, *wgpuGridTexture, error) {
	s, ok := b.textures[src]
	if !ok {
		return nil, nil, fmt.Errorf("texture %d: %w", src, ErrUnknownTexture)
	}
	d, ok := b.textures[dst]
	if !ok {
		return nil, nil, fmt.Errorf("texture %d: %w", dst, ErrUnknownTexture)
	}
	return s, d, nil
}

// mergeBindGroupLayouts combines the bind group layout descriptors from a vertex and fragment shader
// into a unified set of descriptors suitable for a render pipeline layout.
//
// For each group index present in either shader:
//   - Entries with the same binding number have their Visibility flags ORed together
//   - Entries unique to one shader are included with their original visibility
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func mergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	for g, vDesc := range vertexLayouts {
		merged[g] = vDesc
	}
	for g, fDesc := range fragmentLayouts {
		vDesc, hasV := merged[g]
		if !hasV {
			merged[g] = fDesc
			continue
		}

		entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
		for _, e := range vDesc.Entries {
			entryMap[e.Binding] = e
		}
		for _, e := range fDesc.Entries {
			if existing, ok := entryMap[e.Binding]; ok {
				existing.Visibility |= e.Visibility
				entryMap[e.Binding] = existing
			} else {
				entryMap[e.Binding] = e
			}
		}

		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
		for _, e := range entryMap {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})

		merged[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   vDesc.Label,
			Entries: entries,
		}
	}

	return merged
}

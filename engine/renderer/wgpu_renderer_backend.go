package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/light"
	"github.com/Carmen-Shannon/neothauma/engine/logger"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	depthFormat       = wgpu.TextureFormatDepth24Plus
	shadowDepthFormat = wgpu.TextureFormatDepth32Float
)

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance      *wgpu.Instance
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surface       *wgpu.Surface
	surfaceFormat wgpu.TextureFormat

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color
	width       int
	height      int

	// size requested since the last configure, applied by the next BeginFrame
	pendingWidth  int
	pendingHeight int
	surfaceStale  bool

	pipelines map[string]pipeline.Pipeline

	// size-dependent targets, recreated by ConfigureSurface
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	// shadow cube map, fixed for the backend's lifetime
	shadowTexture   *wgpu.Texture
	shadowCubeView  *wgpu.TextureView
	shadowFaceViews [light.CubeFaceCount]*wgpu.TextureView

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	shadowFrameEncoder *wgpu.CommandEncoder
	shadowPass         *wgpu.RenderPassEncoder
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the WebGPU instance, adapter, device and queue for a surface.
// Failure to obtain an adapter or device is fatal and panics.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) RendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		pipelines:   make(map[string]pipeline.Pipeline),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: request adapter: %v", err))
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: request device: %v", err))
	}
	b.device = device
	b.queue = device.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		panic("renderer: surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]

	return b
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renderPassDescriptor == nil && checkSurfaceSize(width, height) == nil {
		b.configureSurface(width, height)
		return
	}
	b.pendingWidth, b.pendingHeight = width, height
	b.surfaceStale = true
}

func (b *wgpuRendererBackendImpl) configureSurface(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b.width, b.height = width, height

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseSurfaceTargets()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	if msaaEnabled {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(fmt.Sprintf("renderer: create msaa texture: %v", err))
		}
		b.msaaTexture = tex
		b.msaaTextureView, err = tex.CreateView(nil)
		if err != nil {
			panic(fmt.Sprintf("renderer: create msaa view: %v", err))
		}
	}

	// Depth sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: create depth texture: %v", err))
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("renderer: create depth view: %v", err))
	}

	// With MSAA, View is the multisampled target and ResolveTarget is set per frame to the
	// swapchain view. Without it, View is set per frame.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		Label: "Main Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) releaseSurfaceTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) SetClearColor(color [3]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = wgpu.Color{R: color[0], G: color[1], B: color[2], A: 1.0}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) RegisterPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	if vertexShader == nil {
		return fmt.Errorf("renderer: pipeline %q has no vertex shader", p.PipelineKey())
	}
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if p.Type() == pipeline.PipelineTypeRender && fragmentShader == nil {
		return fmt.Errorf("renderer: render pipeline %q has no fragment shader", p.PipelineKey())
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("renderer: compile %s: %w", vertexShader.Key(), err)
	}
	defer vs.Release()

	layouts := p.BindGroupLayouts()
	maxGroup := -1
	for g := range layouts {
		maxGroup = max(maxGroup, g)
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g, desc := range layouts {
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("renderer: bind group layout %d of %q: %w", g, p.PipelineKey(), layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return fmt.Errorf("renderer: pipeline layout of %q: %w", p.PipelineKey(), err)
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              depthFormat,
			DepthWriteEnabled:   p.DepthWriteEnabled(),
			DepthCompare:        p.DepthCompare(),
			DepthBias:           p.DepthBias(),
			DepthBiasSlopeScale: p.DepthBiasSlopeScale(),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
	}

	switch p.Type() {
	case pipeline.PipelineTypeShadow:
		// depth only: no fragment stage, single sample
		desc.DepthStencil.Format = shadowDepthFormat
		desc.Multisample.Count = 1
	default:
		fs, fsErr := b.device.CreateShaderModule(fragmentShader.Module())
		if fsErr != nil {
			return fmt.Errorf("renderer: compile %s: %w", fragmentShader.Key(), fsErr)
		}
		defer fs.Release()
		desc.Fragment = &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    b.surfaceFormat,
					WriteMask: p.WriteMask(),
				},
			},
		}
	}

	created, err := b.device.CreateRenderPipeline(desc)
	if err != nil {
		return fmt.Errorf("renderer: create pipeline %q: %w", p.PipelineKey(), err)
	}
	p.SetRenderPipeline(created)
	b.pipelines[p.PipelineKey()] = p

	return nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Vertex Buffer",
			Size:  uint64(len(vertexData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("renderer: vertex buffer for %s: %w", provider.Label(), err)
		}
		b.queue.WriteBuffer(buf, 0, vertexData)
		provider.SetVertexBuffer(buf)
	}

	if len(indexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("renderer: index buffer for %s: %w", provider.Label(), err)
		}
		b.queue.WriteBuffer(buf, 0, indexData)
		provider.SetIndexBuffer(buf)
	}

	provider.SetVertexCount(vertexCount)
	provider.SetIndexCount(indexCount)

	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		layout, err = b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return fmt.Errorf("renderer: bind group layout for %s: %w", provider.Label(), err)
		}
		provider.SetBindGroupLayout(layout)
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		switch {
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("renderer: %s texture binding %d has no view", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: tv}
		case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			s := provider.Sampler(binding)
			if s == nil {
				return fmt.Errorf("renderer: %s sampler binding %d has no sampler", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: s}
		default:
			var usage wgpu.BufferUsage
			switch entry.Buffer.Type {
			case wgpu.BufferBindingTypeUniform:
				usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
			case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
				usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
			}

			buf := provider.Buffer(binding)
			if buf == nil {
				size := entry.Buffer.MinBindingSize
				if override, ok := bufferSizeOverrides[binding]; ok {
					size = override
				}
				var err error
				buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: fmt.Sprintf("%s Buffer %d", provider.Label(), binding),
					Size:  size,
					Usage: usage,
				})
				if err != nil {
					return fmt.Errorf("renderer: buffer %d for %s: %w", binding, provider.Label(), err)
				}
				provider.SetBuffer(binding, buf)
			}
			entries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("renderer: bind group for %s: %w", provider.Label(), err)
	}
	provider.SetBindGroup(bindGroup)

	return nil
}

func (b *wgpuRendererBackendImpl) InitShadowTarget(provider bind_group_provider.BindGroupProvider, binding int, resolution uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowTexture == nil {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "Shadow Cube Texture",
			Size: wgpu.Extent3D{
				Width:              resolution,
				Height:             resolution,
				DepthOrArrayLayers: light.CubeFaceCount,
			},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        shadowDepthFormat,
			Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
		})
		if err != nil {
			return fmt.Errorf("renderer: create shadow cube texture: %w", err)
		}

		cube, err := tex.CreateView(&wgpu.TextureViewDescriptor{
			Label:           "Shadow Cube View",
			Format:          shadowDepthFormat,
			Dimension:       wgpu.TextureViewDimensionCube,
			BaseMipLevel:    0,
			MipLevelCount:   1,
			BaseArrayLayer:  0,
			ArrayLayerCount: light.CubeFaceCount,
			Aspect:          wgpu.TextureAspectDepthOnly,
		})
		if err != nil {
			tex.Release()
			return fmt.Errorf("renderer: create shadow cube view: %w", err)
		}

		var faces [light.CubeFaceCount]*wgpu.TextureView
		for i := range faces {
			faces[i], err = tex.CreateView(&wgpu.TextureViewDescriptor{
				Label:           fmt.Sprintf("Shadow Face %s", light.CubeFace(i)),
				Format:          shadowDepthFormat,
				Dimension:       wgpu.TextureViewDimension2D,
				BaseMipLevel:    0,
				MipLevelCount:   1,
				BaseArrayLayer:  uint32(i),
				ArrayLayerCount: 1,
				Aspect:          wgpu.TextureAspectDepthOnly,
			})
			if err != nil {
				for _, v := range faces[:i] {
					v.Release()
				}
				cube.Release()
				tex.Release()
				return fmt.Errorf("renderer: create shadow face view %d: %w", i, err)
			}
		}

		b.shadowTexture = tex
		b.shadowCubeView = cube
		b.shadowFaceViews = faces
	}

	provider.SetTextureView(binding, b.shadowCubeView)
	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   common.Coalesce(staging.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: 1,
		Compare:       staging.Compare,
	})
	if err != nil {
		return fmt.Errorf("renderer: sampler for %s: %w", provider.Label(), err)
	}
	provider.SetSampler(binding, s)

	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) BeginShadowFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	encoder, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Shadow Encoder"})
	if err != nil {
		return fmt.Errorf("renderer: shadow encoder: %w", err)
	}
	b.shadowFrameEncoder = encoder
	return nil
}

func (b *wgpuRendererBackendImpl) BeginShadowPass(face int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowFrameEncoder == nil || face < 0 || face >= light.CubeFaceCount || b.shadowFaceViews[face] == nil {
		return
	}

	b.shadowPass = b.shadowFrameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Shadow Pass",
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.shadowFaceViews[face],
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
}

func (b *wgpuRendererBackendImpl) ShadowDrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowPass == nil {
		return nil
	}
	p, ok := b.pipelines[pipelineKey]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPipelineNotFound, pipelineKey)
	}
	encodeDraw(b.shadowPass, p, meshProvider, bindGroups)
	return nil
}

func (b *wgpuRendererBackendImpl) EndShadowPass() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowPass == nil {
		return
	}
	b.shadowPass.End()
	b.shadowPass.Release()
	b.shadowPass = nil
}

func (b *wgpuRendererBackendImpl) EndShadowFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shadowFrameEncoder == nil {
		return
	}

	commandBuffer, err := b.shadowFrameEncoder.Finish(nil)
	b.shadowFrameEncoder.Release()
	b.shadowFrameEncoder = nil
	if err != nil {
		logger.Error("renderer: finish shadow encoder: %v", err)
		return
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return ErrFrameInProgress
	}
	// The binding drops the acquire status, so a stale surface can hand back a null texture
	// without an error. Reconfigure before acquiring instead of after a failed acquire.
	if b.surfaceStale {
		if err := checkSurfaceSize(b.pendingWidth, b.pendingHeight); err != nil {
			return err
		}
		b.configureSurface(b.pendingWidth, b.pendingHeight)
		b.surfaceStale = false
	}
	if b.renderPassDescriptor == nil {
		return errors.New("renderer: surface not configured")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		err = classifySurfaceError(err)
		if errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated) {
			logger.Warn("renderer: %v, reconfiguring %dx%d", err, b.width, b.height)
			b.pendingWidth, b.pendingHeight = b.width, b.height
			b.surfaceStale = true
		}
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("renderer: surface view: %w", err)
	}

	encoder, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Main Encoder"})
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return fmt.Errorf("renderer: main encoder: %w", err)
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return nil
	}
	p, ok := b.pipelines[pipelineKey]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPipelineNotFound, pipelineKey)
	}
	encodeDraw(b.framePass, p, meshProvider, bindGroups)
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		logger.Error("renderer: finish main encoder: %v", err)
		b.releaseFrameSurface()
		return
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrameSurface()
}

func (b *wgpuRendererBackendImpl) releaseFrameSurface() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, key)
	}
	for i, v := range b.shadowFaceViews {
		if v != nil {
			v.Release()
			b.shadowFaceViews[i] = nil
		}
	}
	if b.shadowCubeView != nil {
		b.shadowCubeView.Release()
		b.shadowCubeView = nil
	}
	if b.shadowTexture != nil {
		b.shadowTexture.Release()
		b.shadowTexture = nil
	}
	b.releaseFrameSurface()
	b.releaseSurfaceTargets()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// encodeDraw records a pipeline bind, the bind groups in group order and one draw of the mesh,
// indexed when the mesh has an index buffer.
func encodeDraw(pass *wgpu.RenderPassEncoder, p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) {
	pass.SetPipeline(p.RenderPipeline())
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}
	pass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	if meshProvider.IndexBuffer() != nil {
		pass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(meshProvider.IndexCount()), 1, 0, 0, 0)
		return
	}
	pass.Draw(uint32(meshProvider.VertexCount()), 1, 0, 0)
}

package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/config"
	"github.com/Carmen-Shannon/neothauma/engine/light"
	"github.com/Carmen-Shannon/neothauma/engine/mesh"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// SurfaceSource is anything that can hand the renderer a WebGPU surface and its pixel size.
// window.Window satisfies it.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

type renderer struct {
	backend RendererBackend

	mainPipeline   pipeline.Pipeline
	shadowPipeline pipeline.Pipeline

	// lighting is the scene-wide group: light array, light info, shadow cube map, comparison sampler.
	lighting bind_group_provider.BindGroupProvider

	width, height int

	maxLights            int
	shadowResolution     uint32
	depthBias            int32
	slopeScale           float32
	clearColor           [3]float64
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	forceFallbackAdapter bool
}

// Renderer owns the GPU-side resources of the engine: the main and shadow pipelines, the shadow
// cube map, the light buffers and the surface. It exposes the per-frame operations of the shadow
// and main passes; ordering them is the caller's job.
//
// A Renderer is not safe for concurrent use. All calls must come from the thread that created it.
type Renderer interface {
	// Backend returns the GPU command layer.
	//
	// Returns:
	//   - RendererBackend: the backend in use
	Backend() RendererBackend

	// Resize reconfigures the output surface. Zero sizes, as reported for minimized windows, are
	// ignored. Shadow targets keep their resolution.
	//
	// Parameters:
	//   - width: new surface width in pixels
	//   - height: new surface height in pixels
	Resize(width, height int)

	// Size returns the current surface size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Aspect returns width/height of the surface.
	//
	// Returns:
	//   - float32: the aspect ratio, 1 before the surface has a size
	Aspect() float32

	// SetPresentMode switches present mode and reconfigures the surface.
	//
	// Parameters:
	//   - mode: vsync or uncapped
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the main pass clear color.
	//
	// Parameters:
	//   - color: RGB in [0, 1]
	SetClearColor(color [3]float64)

	// MaxLights returns the capacity of the light buffer.
	//
	// Returns:
	//   - int: number of light records the GPU buffer holds
	MaxLights() int

	// ShadowResolution returns the edge length of each shadow cube face.
	//
	// Returns:
	//   - uint32: texels per face edge
	ShadowResolution() uint32

	// NewRenderable uploads a mesh and creates its uniform groups.
	//
	// Parameters:
	//   - label: debug label, a random one is generated when empty
	//   - m: the mesh to upload
	//
	// Returns:
	//   - RenderableMesh: the GPU-resident mesh
	//   - error: resource creation failure
	NewRenderable(label string, m mesh.Mesh) (RenderableMesh, error)

	// UploadLights writes the light array and light info uniform. Lights past MaxLights are
	// dropped in order with a warning.
	//
	// Parameters:
	//   - lights: lights in stable collection order
	//   - ambient: scene ambient color
	//
	// Returns:
	//   - uint32: the light count written to the GPU
	UploadLights(lights []light.Light, ambient common.Vec3) uint32

	// BeginShadowFrame starts recording the shadow pass.
	//
	// Returns:
	//   - error: encoder creation failure
	BeginShadowFrame() error

	// BeginShadowFace begins the depth-only pass for one cube face, clearing it.
	//
	// Parameters:
	//   - face: the face to render
	BeginShadowFace(face light.CubeFace)

	// DrawShadow writes the face's shadow uniform for r and draws it into the current face.
	//
	// Parameters:
	//   - r: the mesh to draw
	//   - face: the face being rendered
	//   - u: model and light-space matrices
	//
	// Returns:
	//   - error: draw failure
	DrawShadow(r RenderableMesh, face light.CubeFace, u light.GPUShadowUniform) error

	// EndShadowFace ends the current face pass.
	EndShadowFace()

	// EndShadowFrame submits the shadow pass.
	EndShadowFrame()

	// BeginFrame acquires the next surface texture and begins the main pass.
	//
	// Returns:
	//   - error: nil, a recoverable surface error (see IsRecoverable) or a fatal failure
	BeginFrame() error

	// Draw writes r's object uniform and draws it in the main pass with the lighting group bound.
	//
	// Parameters:
	//   - r: the mesh to draw
	//   - u: the object uniform block
	//
	// Returns:
	//   - error: draw failure
	Draw(r RenderableMesh, u GPUObjectUniform) error

	// EndFrame submits the main pass.
	EndFrame()

	// Present presents the frame.
	Present()

	// Release frees the lighting resources and the backend.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing to surface. The WebGPU backend is created from the
// surface unless WithBackend supplies one, in which case surface may be nil. Pipeline compilation
// or resource failures at construction are fatal and panic.
//
// Parameters:
//   - surface: the window providing the WebGPU surface, or nil with WithBackend
//   - options: functional options configuring the renderer
//
// Returns:
//   - Renderer: the ready renderer
func NewRenderer(surface SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		maxLights:        config.DefaultMaxLights,
		shadowResolution: light.DefaultShadowResolution,
		depthBias:        light.DefaultShadowDepthBias,
		slopeScale:       light.DefaultShadowSlopeScale,
		clearColor:       [3]float64{0.1, 0.1, 0.1},
		width:            1280,
		height:           720,
	}
	for _, opt := range options {
		opt(r)
	}

	if surface != nil {
		r.width, r.height = surface.Width(), surface.Height()
	}
	if r.backend == nil {
		if surface == nil {
			panic("renderer: no surface and no backend")
		}
		msaa := MSAA4x
		if r.pendingMSAA != nil {
			msaa = *r.pendingMSAA
		}
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.SetClearColor(r.clearColor)
	r.backend.ConfigureSurface(r.width, r.height)

	r.mainPipeline = pipeline.NewMainPipeline()
	if err := r.backend.RegisterPipeline(r.mainPipeline); err != nil {
		panic(fmt.Sprintf("renderer: register main pipeline: %v", err))
	}
	r.shadowPipeline = pipeline.NewShadowPipeline(r.depthBias, r.slopeScale)
	if err := r.backend.RegisterPipeline(r.shadowPipeline); err != nil {
		panic(fmt.Sprintf("renderer: register shadow pipeline: %v", err))
	}

	if err := r.initLighting(); err != nil {
		panic(fmt.Sprintf("renderer: init lighting: %v", err))
	}
	return r
}

func (r *renderer) initLighting() error {
	r.lighting = bind_group_provider.NewBindGroupProvider("lighting")
	if err := r.backend.InitShadowTarget(r.lighting, shader.BindingShadowMap, r.shadowResolution); err != nil {
		return err
	}
	if err := r.backend.InitSampler(r.lighting, shader.BindingShadowSampler, common.ShadowSampler()); err != nil {
		return err
	}
	sizes := map[int]uint64{
		shader.BindingLights: uint64(r.maxLights * light.GPULightSize),
	}
	if err := r.backend.InitBindGroup(r.lighting, r.mainPipeline.BindGroupLayouts()[shader.GroupLighting], sizes); err != nil {
		return err
	}
	r.UploadLights(nil, common.Vec3Zero)
	return nil
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *renderer) Aspect() float32 {
	if r.width <= 0 || r.height <= 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
	r.backend.ConfigureSurface(r.width, r.height)
}

func (r *renderer) SetClearColor(color [3]float64) {
	r.clearColor = color
	r.backend.SetClearColor(color)
}

func (r *renderer) MaxLights() int {
	return r.maxLights
}

func (r *renderer) ShadowResolution() uint32 {
	return r.shadowResolution
}

func (r *renderer) NewRenderable(label string, m mesh.Mesh) (RenderableMesh, error) {
	if label == "" {
		label = "mesh-" + uuid.NewString()
	}
	rm := newRenderableMesh(label)

	if err := r.backend.InitMeshBuffers(rm.mesh, m.VertexData(), m.IndexData(), len(m.Vertices), len(m.Indices)); err != nil {
		rm.Release()
		return nil, err
	}
	if err := r.backend.InitBindGroup(rm.object, r.mainPipeline.BindGroupLayouts()[shader.GroupObject], nil); err != nil {
		rm.Release()
		return nil, err
	}
	shadowLayout := r.shadowPipeline.BindGroupLayouts()[shader.GroupObject]
	for _, s := range rm.shadows {
		if err := r.backend.InitBindGroup(s, shadowLayout, nil); err != nil {
			rm.Release()
			return nil, err
		}
	}
	return rm, nil
}

func (r *renderer) UploadLights(lights []light.Light, ambient common.Vec3) uint32 {
	data, count := light.MarshalLightBuffer(lights, r.maxLights)
	info := light.GPULightInfo{AmbientColor: ambient.Array(), LightCount: count}
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: r.lighting, Binding: shader.BindingLights, Data: data},
		{Provider: r.lighting, Binding: shader.BindingLightInfo, Data: info.Marshal()},
	})
	return count
}

func (r *renderer) BeginShadowFrame() error {
	return r.backend.BeginShadowFrame()
}

func (r *renderer) BeginShadowFace(face light.CubeFace) {
	r.backend.BeginShadowPass(int(face))
}

func (r *renderer) DrawShadow(rm RenderableMesh, face light.CubeFace, u light.GPUShadowUniform) error {
	provider := rm.ShadowProvider(face)
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: provider, Binding: 0, Data: u.Marshal()},
	})
	return r.backend.ShadowDrawCall(r.shadowPipeline.PipelineKey(), rm.MeshProvider(), []bind_group_provider.BindGroupProvider{provider})
}

func (r *renderer) EndShadowFace() {
	r.backend.EndShadowPass()
}

func (r *renderer) EndShadowFrame() {
	r.backend.EndShadowFrame()
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(rm RenderableMesh, u GPUObjectUniform) error {
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: rm.ObjectProvider(), Binding: 0, Data: u.Marshal()},
	})
	return r.backend.DrawCall(r.mainPipeline.PipelineKey(), rm.MeshProvider(), []bind_group_provider.BindGroupProvider{rm.ObjectProvider(), r.lighting})
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	if r.lighting != nil {
		if s := r.lighting.Sampler(shader.BindingShadowSampler); s != nil {
			s.Release()
		}
		r.lighting.Release()
		r.lighting = nil
	}
	r.backend.Release()
}

package renderer

import (
	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps a configuration string onto a PresentMode. Anything other than
// "uncapped" selects vsync.
//
// Parameters:
//   - s: "vsync" or "uncapped"
//
// Returns:
//   - PresentMode: the matching mode
func ParsePresentMode(s string) PresentMode {
	if s == "uncapped" {
		return PresentModeUncapped
	}
	return PresentModeVSync
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4; higher values are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16× multisample anti-aliasing. Adapter-dependent.
	MSAA16x MSAASampleCount = 16
)

// RendererBackend is the GPU command layer under the Renderer. It creates resources into
// BindGroupProviders and records the shadow and main passes of a frame. Implementations are
// driven from a single thread.
type RendererBackend interface {
	// ConfigureSurface (re)configures the output surface and the size-dependent color and depth
	// targets. Shadow targets are not affected. After the first configuration the new size may be
	// applied lazily by the next BeginFrame, which skips frames while the size is zero.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode selects the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: vsync or uncapped
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the main pass clears to.
	//
	// Parameters:
	//   - color: RGB in [0, 1]
	SetClearColor(color [3]float64)

	// RegisterPipeline creates the GPU pipeline for p and caches it under its key.
	// Shadow pipelines are depth-only and target the shadow cube map format.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: shader or pipeline creation failure
	RegisterPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data into new GPU buffers held by provider.
	// An empty indexData leaves the mesh non-indexed.
	//
	// Parameters:
	//   - provider: receives the buffers and counts
	//   - vertexData: packed vertices
	//   - indexData: packed uint32 indices, may be empty
	//   - vertexCount: number of vertices
	//   - indexCount: number of indices
	//
	// Returns:
	//   - error: buffer creation failure
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int) error

	// InitBindGroup creates the bind group described by descriptor. Buffer bindings without a
	// buffer on the provider are allocated; texture and sampler bindings must already be set.
	//
	// Parameters:
	//   - provider: the provider receiving the bind group
	//   - descriptor: the layout of the group
	//   - bufferSizeOverrides: buffer sizes by binding, replacing the layout's MinBindingSize
	//
	// Returns:
	//   - error: layout, buffer or bind group creation failure
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// InitShadowTarget creates the square depth cube map the shadow pass renders into and
	// stores its cube view on provider at binding.
	//
	// Parameters:
	//   - provider: receives the cube texture view
	//   - binding: the binding index of the cube view
	//   - resolution: edge length of each face in texels
	//
	// Returns:
	//   - error: texture or view creation failure
	InitShadowTarget(provider bind_group_provider.BindGroupProvider, binding int, resolution uint32) error

	// InitSampler creates a sampler from staging data and stores it on provider at binding.
	//
	// Parameters:
	//   - provider: receives the sampler
	//   - binding: the binding index of the sampler
	//   - staging: sampler parameters, zero values take defaults
	//
	// Returns:
	//   - error: sampler creation failure
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error

	// WriteBuffers queues buffer uploads. They land before the next submission.
	//
	// Parameters:
	//   - writes: the writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginShadowFrame starts the shadow command encoder.
	//
	// Returns:
	//   - error: encoder creation failure
	BeginShadowFrame() error

	// BeginShadowPass begins a depth-only pass that clears and renders one cube map face.
	//
	// Parameters:
	//   - face: cube face index in [0, 6)
	BeginShadowPass(face int)

	// ShadowDrawCall draws one mesh in the current shadow pass.
	//
	// Parameters:
	//   - pipelineKey: key of a registered shadow pipeline
	//   - meshProvider: vertex and index buffers
	//   - bindGroups: bind groups in group order
	//
	// Returns:
	//   - error: ErrPipelineNotFound for an unknown key
	ShadowDrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndShadowPass ends the current shadow pass.
	EndShadowPass()

	// EndShadowFrame finishes the shadow encoder and submits it to the queue.
	EndShadowFrame()

	// BeginFrame acquires the next surface texture and begins the main pass.
	// Surface lost and outdated failures reconfigure the surface and return a recoverable error.
	//
	// Returns:
	//   - error: nil, a recoverable surface error, or a fatal failure
	BeginFrame() error

	// DrawCall draws one mesh in the main pass.
	//
	// Parameters:
	//   - pipelineKey: key of a registered render pipeline
	//   - meshProvider: vertex and index buffers
	//   - bindGroups: bind groups in group order
	//
	// Returns:
	//   - error: ErrPipelineNotFound for an unknown key
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the main pass and submits it to the queue.
	EndFrame()

	// Present presents the acquired surface texture.
	Present()

	// Release frees the pipelines, targets, device and surface.
	Release()
}

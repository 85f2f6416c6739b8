// Package renderertest provides a recording RendererBackend for exercising renderer and scene
// logic without a GPU.
package renderertest

import (
	"fmt"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/renderer"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Draw is one recorded draw call.
type Draw struct {
	Pipeline    string
	Face        int
	Mesh        string
	IndexCount  int
	VertexCount int
	BindGroups  []string
}

// Indexed reports whether the draw used an index buffer.
func (d Draw) Indexed() bool {
	return d.IndexCount > 0
}

// Backend records every call made to it. GPU objects are never created; providers only receive
// counts and nil placeholders.
type Backend struct {
	Width, Height int
	PresentMode   renderer.PresentMode
	ClearColor    [3]float64
	Configures    int

	Pipelines   map[string]pipeline.Pipeline
	ShadowSize  uint32
	Samplers    []common.SamplerStagingData
	BindGroups  []string
	Writes      []bind_group_provider.BufferWrite
	ShadowDraws []Draw
	MainDraws   []Draw

	// Ops is the ordered log of frame operations.
	Ops []string

	ShadowFrames int
	Frames       int
	Presents     int
	Released     bool

	nextFrameErr error
	shadowFace   int
	inShadowPass bool
	inFrame      bool
}

var _ renderer.RendererBackend = &Backend{}

// NewBackend creates an empty recording backend.
func NewBackend() *Backend {
	return &Backend{
		Pipelines:  make(map[string]pipeline.Pipeline),
		shadowFace: -1,
	}
}

// FailNextFrame makes the next BeginFrame return err.
func (b *Backend) FailNextFrame(err error) {
	b.nextFrameErr = err
}

// Reset clears the per-frame recordings, keeping configuration and pipelines.
func (b *Backend) Reset() {
	b.Writes = nil
	b.ShadowDraws = nil
	b.MainDraws = nil
	b.Ops = nil
}

// LastWrite returns the data of the most recent write to a provider binding.
//
// Parameters:
//   - label: the provider label
//   - binding: the binding index
//
// Returns:
//   - []byte: the written bytes
//   - bool: false when no such write was recorded
func (b *Backend) LastWrite(label string, binding int) ([]byte, bool) {
	for i := len(b.Writes) - 1; i >= 0; i-- {
		w := b.Writes[i]
		if w.Provider.Label() == label && w.Binding == binding {
			return w.Data, true
		}
	}
	return nil, false
}

func (b *Backend) ConfigureSurface(width, height int) {
	b.Width, b.Height = width, height
	b.Configures++
}

func (b *Backend) SetPresentMode(mode renderer.PresentMode) {
	b.PresentMode = mode
}

func (b *Backend) SetClearColor(color [3]float64) {
	b.ClearColor = color
}

func (b *Backend) RegisterPipeline(p pipeline.Pipeline) error {
	b.Pipelines[p.PipelineKey()] = p
	return nil
}

func (b *Backend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int) error {
	if vertexCount > 0 && len(vertexData)%vertexCount != 0 {
		return fmt.Errorf("renderertest: %d vertex bytes for %d vertices", len(vertexData), vertexCount)
	}
	if len(indexData) != indexCount*4 {
		return fmt.Errorf("renderertest: %d index bytes for %d indices", len(indexData), indexCount)
	}
	provider.SetVertexCount(vertexCount)
	provider.SetIndexCount(indexCount)
	return nil
}

func (b *Backend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	for _, e := range descriptor.Entries {
		if e.Buffer.Type == wgpu.BufferBindingTypeUndefined {
			continue
		}
		provider.SetBuffer(int(e.Binding), nil)
	}
	b.BindGroups = append(b.BindGroups, provider.Label())
	return nil
}

func (b *Backend) InitShadowTarget(provider bind_group_provider.BindGroupProvider, binding int, resolution uint32) error {
	b.ShadowSize = resolution
	return nil
}

func (b *Backend) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error {
	b.Samplers = append(b.Samplers, staging)
	return nil
}

func (b *Backend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		b.Writes = append(b.Writes, w)
		b.Ops = append(b.Ops, "Write "+w.Provider.Label())
	}
}

func (b *Backend) BeginShadowFrame() error {
	b.ShadowFrames++
	b.Ops = append(b.Ops, "BeginShadowFrame")
	return nil
}

func (b *Backend) BeginShadowPass(face int) {
	b.shadowFace = face
	b.inShadowPass = true
	b.Ops = append(b.Ops, fmt.Sprintf("BeginShadowPass %d", face))
}

func (b *Backend) ShadowDrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	if _, ok := b.Pipelines[pipelineKey]; !ok {
		return fmt.Errorf("%w: %q", renderer.ErrPipelineNotFound, pipelineKey)
	}
	if !b.inShadowPass {
		return fmt.Errorf("renderertest: shadow draw outside a shadow pass")
	}
	b.ShadowDraws = append(b.ShadowDraws, record(pipelineKey, b.shadowFace, meshProvider, bindGroups))
	b.Ops = append(b.Ops, "ShadowDraw")
	return nil
}

func (b *Backend) EndShadowPass() {
	b.inShadowPass = false
	b.Ops = append(b.Ops, "EndShadowPass")
}

func (b *Backend) EndShadowFrame() {
	b.Ops = append(b.Ops, "EndShadowFrame")
}

func (b *Backend) BeginFrame() error {
	if err := b.nextFrameErr; err != nil {
		b.nextFrameErr = nil
		b.Ops = append(b.Ops, "BeginFrame failed")
		return err
	}
	b.Frames++
	b.inFrame = true
	b.Ops = append(b.Ops, "BeginFrame")
	return nil
}

func (b *Backend) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	if _, ok := b.Pipelines[pipelineKey]; !ok {
		return fmt.Errorf("%w: %q", renderer.ErrPipelineNotFound, pipelineKey)
	}
	if !b.inFrame {
		return fmt.Errorf("renderertest: draw outside a frame")
	}
	b.MainDraws = append(b.MainDraws, record(pipelineKey, -1, meshProvider, bindGroups))
	b.Ops = append(b.Ops, "Draw")
	return nil
}

func (b *Backend) EndFrame() {
	b.inFrame = false
	b.Ops = append(b.Ops, "EndFrame")
}

func (b *Backend) Present() {
	b.Presents++
	b.Ops = append(b.Ops, "Present")
}

func (b *Backend) Release() {
	b.Released = true
}

func record(pipelineKey string, face int, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) Draw {
	labels := make([]string, len(bindGroups))
	for i, bg := range bindGroups {
		labels[i] = bg.Label()
	}
	return Draw{
		Pipeline:    pipelineKey,
		Face:        face,
		Mesh:        meshProvider.Label(),
		IndexCount:  meshProvider.IndexCount(),
		VertexCount: meshProvider.VertexCount(),
		BindGroups:  labels,
	}
}

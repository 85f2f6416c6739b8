package pipeline

import (
	"slices"

	"github.com/Carmen-Shannon/neothauma/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineType identifies which pass a pipeline is built for.
type PipelineType int

const (
	// PipelineTypeRender is a color+depth pipeline drawing into the surface.
	PipelineTypeRender PipelineType = iota

	// PipelineTypeShadow is a depth-only pipeline drawing into a shadow map face.
	PipelineTypeShadow
)

// Built-in pipeline keys.
const (
	KeyMain   = "main"
	KeyShadow = "shadow"
)

type pipeline struct {
	pipelineType PipelineType
	pipelineKey  string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is populated by the renderer backend once the GPU object is created.
	renderPipeline *wgpu.RenderPipeline

	depthWriteEnabled   bool
	depthCompare        wgpu.CompareFunction
	depthBias           int32
	depthBiasSlopeScale float32
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
}

// Pipeline describes the fixed-function state and shaders of a render pipeline. The GPU object
// itself is created by the renderer backend and attached with SetRenderPipeline.
type Pipeline interface {
	// Type returns the pass this pipeline belongs to.
	//
	// Returns:
	//   - PipelineType: render or shadow
	Type() PipelineType

	// PipelineKey returns the unique key the renderer looks the pipeline up by.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Shader returns the shader bound to a stage, or nil if the stage is unused.
	//
	// Parameters:
	//   - shaderType: the stage to look up
	//
	// Returns:
	//   - shader.Shader: the stage shader or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// BindGroupLayouts returns the bind group layouts of the pipeline with the vertex and fragment
	// declarations merged. Bindings declared by both stages get the union of their visibility.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: merged layouts keyed by group index
	BindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor

	// RenderPipeline returns the GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU object
	RenderPipeline() *wgpu.RenderPipeline

	DepthWriteEnabled() bool
	DepthCompare() wgpu.CompareFunction
	DepthBias() int32
	DepthBiasSlopeScale() float32
	CullMode() wgpu.CullMode
	Topology() wgpu.PrimitiveTopology
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask

	// SetRenderPipeline attaches the GPU pipeline after creation.
	//
	// Parameters:
	//   - p: the created GPU pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release releases the GPU pipeline if one is attached.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline with the given key and type.
// Defaults: depth write on with a Less compare, no culling, CCW front faces, triangle lists,
// full color write mask and no depth bias.
//
// Parameters:
//   - pipelineKey: the unique key of the pipeline
//   - pipelineType: the pass the pipeline belongs to
//   - opts: functional options overriding the defaults
//
// Returns:
//   - Pipeline: the configured pipeline description
func NewPipeline(pipelineKey string, pipelineType PipelineType, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		pipelineType:      pipelineType,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewMainPipeline builds the description of the lit main pass.
//
// Returns:
//   - Pipeline: the main pipeline using the built-in main shaders
func NewMainPipeline() Pipeline {
	return NewPipeline(KeyMain, PipelineTypeRender,
		WithVertexShader(shader.MainVertexShader()),
		WithFragmentShader(shader.MainFragmentShader()),
		WithCullMode(wgpu.CullModeBack),
	)
}

// NewShadowPipeline builds the description of the depth-only shadow pass. Culling stays disabled
// because the cube face projection mirrors Y, which reverses triangle winding.
//
// Parameters:
//   - depthBias: constant depth bias applied to every shadow fragment
//   - slopeScale: depth bias scaled by the fragment's depth slope
//
// Returns:
//   - Pipeline: the shadow pipeline using the built-in shadow shader
func NewShadowPipeline(depthBias int32, slopeScale float32) Pipeline {
	return NewPipeline(KeyShadow, PipelineTypeShadow,
		WithVertexShader(shader.ShadowVertexShader()),
		WithDepthBias(depthBias, slopeScale),
		WithCullMode(wgpu.CullModeNone),
	)
}

func (p *pipeline) Type() PipelineType {
	return p.pipelineType
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) BindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor {
	var vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor
	if p.vertexShader != nil {
		vertexLayouts = p.vertexShader.BindGroupLayoutDescriptors()
	}
	if p.fragmentShader != nil {
		fragmentLayouts = p.fragmentShader.BindGroupLayoutDescriptors()
	}
	return MergeBindGroupLayouts(vertexLayouts, fragmentLayouts)
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) DepthBias() int32 {
	return p.depthBias
}

func (p *pipeline) DepthBiasSlopeScale() float32 {
	return p.depthBiasSlopeScale
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}

// MergeBindGroupLayouts combines the per-group layouts declared by a vertex and a fragment shader.
// Groups present in only one stage are used as-is. For shared groups, entries are merged by binding
// number with their visibility OR-ed, and returned sorted by binding.
//
// Parameters:
//   - vertexLayouts: layouts declared by the vertex stage
//   - fragmentLayouts: layouts declared by the fragment stage
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: merged layouts keyed by group index
func MergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(vertexLayouts)+len(fragmentLayouts))
	for g, v := range vertexLayouts {
		merged[g] = v
	}
	for g, f := range fragmentLayouts {
		v, ok := merged[g]
		if !ok {
			merged[g] = f
			continue
		}

		byBinding := make(map[uint32]wgpu.BindGroupLayoutEntry, len(v.Entries)+len(f.Entries))
		for _, e := range v.Entries {
			byBinding[e.Binding] = e
		}
		for _, e := range f.Entries {
			if existing, ok := byBinding[e.Binding]; ok {
				existing.Visibility |= e.Visibility
				byBinding[e.Binding] = existing
			} else {
				byBinding[e.Binding] = e
			}
		}

		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(byBinding))
		for _, e := range byBinding {
			entries = append(entries, e)
		}
		slices.SortFunc(entries, func(a, b wgpu.BindGroupLayoutEntry) int {
			return int(a.Binding) - int(b.Binding)
		})
		merged[g] = wgpu.BindGroupLayoutDescriptor{Label: v.Label, Entries: entries}
	}
	return merged
}

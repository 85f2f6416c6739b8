package shader

import (
	_ "embed"

	"github.com/cogentcore/webgpu/wgpu"
)

// MainSource is the WGSL program for the lit main pass.
//
//go:embed assets/main.wgsl
var MainSource string

// ShadowSource is the WGSL program for the depth-only shadow pass.
//
//go:embed assets/shadow.wgsl
var ShadowSource string

// Keys of the built-in shaders.
const (
	KeyMainVertex   = "main.vertex"
	KeyMainFragment = "main.fragment"
	KeyShadowVertex = "shadow.vertex"
)

// Group indices used by the built-in shaders.
const (
	GroupObject   = 0
	GroupLighting = 1
)

// Bindings within GroupLighting.
const (
	BindingLights        = 0
	BindingLightInfo     = 1
	BindingShadowMap     = 2
	BindingShadowSampler = 3
)

// Byte sizes of the uniform and storage records the built-in shaders declare.
const (
	ObjectUniformSize = 368
	ShadowUniformSize = 128
	LightRecordSize   = 48
	LightInfoSize     = 16
	VertexStride      = 24
)

// MeshVertexLayout is the position+normal vertex buffer layout shared by both passes.
//
// Returns:
//   - wgpu.VertexBufferLayout: stride 24, float32x3 position at location 0, float32x3 normal at location 1
func MeshVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: VertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
}

// ObjectLayout is the per-entity uniform group of the main pass.
//
// Parameters:
//   - visibility: the stages that read the uniform
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a single uniform buffer at binding 0
func ObjectLayout(visibility wgpu.ShaderStage) wgpu.BindGroupLayoutDescriptor {
	return uniformLayout("object", visibility, ObjectUniformSize)
}

// ShadowLayout is the per-entity, per-face uniform group of the shadow pass.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a single vertex-stage uniform buffer at binding 0
func ShadowLayout() wgpu.BindGroupLayoutDescriptor {
	return uniformLayout("shadow", wgpu.ShaderStageVertex, ShadowUniformSize)
}

// LightingLayout is the scene-wide lighting group of the main pass: the light array, the
// light info uniform, the shadow cube map and its comparison sampler.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: four fragment-stage entries
func LightingLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "lighting",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BindingLights,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: LightRecordSize,
				},
			},
			{
				Binding:    BindingLightInfo,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: LightInfoSize,
				},
			},
			{
				Binding:    BindingShadowMap,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeDepth,
					ViewDimension: wgpu.TextureViewDimensionCube,
				},
			},
			{
				Binding:    BindingShadowSampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeComparison,
				},
			},
		},
	}
}

// MainVertexShader builds the vertex stage of the main pass.
//
// Returns:
//   - Shader: the main vertex shader
func MainVertexShader() Shader {
	return NewShader(KeyMainVertex, ShaderTypeVertex, MainSource, "vs_main",
		WithBindGroupLayout(GroupObject, ObjectLayout(wgpu.ShaderStageVertex)),
		WithVertexLayouts(MeshVertexLayout()),
	)
}

// MainFragmentShader builds the fragment stage of the main pass.
//
// Returns:
//   - Shader: the main fragment shader
func MainFragmentShader() Shader {
	return NewShader(KeyMainFragment, ShaderTypeFragment, MainSource, "fs_main",
		WithBindGroupLayout(GroupObject, ObjectLayout(wgpu.ShaderStageFragment)),
		WithBindGroupLayout(GroupLighting, LightingLayout()),
	)
}

// ShadowVertexShader builds the only stage of the depth-only shadow pass.
//
// Returns:
//   - Shader: the shadow vertex shader
func ShadowVertexShader() Shader {
	return NewShader(KeyShadowVertex, ShaderTypeVertex, ShadowSource, "vs_shadow",
		WithBindGroupLayout(GroupObject, ShadowLayout()),
		WithVertexLayouts(MeshVertexLayout()),
	)
}

func uniformLayout(label string, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: visibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: size,
				},
			},
		},
	}
}

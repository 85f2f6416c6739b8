package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithBindGroupLayout declares the layout the shader expects at a @group index.
//
// Parameters:
//   - group: the @group index
//   - descriptor: the layout entries for that group
//
// Returns:
//   - ShaderBuilderOption: a function that records the layout on the shader
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayouts declares the vertex buffer layouts a vertex shader consumes.
//
// Parameters:
//   - layouts: buffer layouts in slot order
//
// Returns:
//   - ShaderBuilderOption: a function that records the layouts on the shader
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}

package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/neothauma/engine/light"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/bind_group_provider"
)

// renderableMesh is the implementation of the RenderableMesh interface.
type renderableMesh struct {
	label   string
	mesh    bind_group_provider.BindGroupProvider
	object  bind_group_provider.BindGroupProvider
	shadows [light.CubeFaceCount]bind_group_provider.BindGroupProvider
}

// RenderableMesh is the GPU-resident form of a mesh: its vertex and index buffers, the main-pass
// uniform group and one shadow uniform group per cube face. Every face writes its own buffer so
// all six shadow draws of a frame can share one submission.
//
// A RenderableMesh is owned by whoever created it; renderers only borrow it while drawing.
type RenderableMesh interface {
	// Label returns the debug label used for every GPU object of this mesh.
	//
	// Returns:
	//   - string: the label
	Label() string

	// MeshProvider returns the provider holding the vertex and index buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh buffers
	MeshProvider() bind_group_provider.BindGroupProvider

	// ObjectProvider returns the main-pass uniform group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the object uniform group
	ObjectProvider() bind_group_provider.BindGroupProvider

	// ShadowProvider returns the shadow uniform group of one cube face.
	//
	// Parameters:
	//   - face: the cube face
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the face's shadow uniform group
	ShadowProvider(face light.CubeFace) bind_group_provider.BindGroupProvider

	// IndexCount returns the number of indices drawn, 0 for non-indexed meshes.
	IndexCount() int

	// VertexCount returns the number of vertices uploaded.
	VertexCount() int

	// Indexed reports whether draws of this mesh are indexed.
	Indexed() bool

	// Release frees every GPU resource of the mesh. The mesh must not be drawn afterwards.
	Release()
}

var _ RenderableMesh = &renderableMesh{}

func newRenderableMesh(label string) *renderableMesh {
	r := &renderableMesh{
		label:  label,
		mesh:   bind_group_provider.NewBindGroupProvider(label + " mesh"),
		object: bind_group_provider.NewBindGroupProvider(label + " object"),
	}
	for i := range r.shadows {
		r.shadows[i] = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s shadow %s", label, light.CubeFace(i)))
	}
	return r
}

func (r *renderableMesh) Label() string {
	return r.label
}

func (r *renderableMesh) MeshProvider() bind_group_provider.BindGroupProvider {
	return r.mesh
}

func (r *renderableMesh) ObjectProvider() bind_group_provider.BindGroupProvider {
	return r.object
}

func (r *renderableMesh) ShadowProvider(face light.CubeFace) bind_group_provider.BindGroupProvider {
	return r.shadows[face]
}

func (r *renderableMesh) IndexCount() int {
	return r.mesh.IndexCount()
}

func (r *renderableMesh) VertexCount() int {
	return r.mesh.VertexCount()
}

func (r *renderableMesh) Indexed() bool {
	return r.mesh.IndexCount() > 0
}

func (r *renderableMesh) Release() {
	r.mesh.Release()
	r.object.Release()
	for _, s := range r.shadows {
		s.Release()
	}
}

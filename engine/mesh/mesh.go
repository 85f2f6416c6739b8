// Package mesh builds indexed position+normal triangle meshes for the primitive shapes
// the engine renders, and serializes them for GPU upload.
package mesh

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/neothauma/common"
)

// VertexSize is the byte stride of one vertex in the GPU vertex buffer.
const VertexSize = 24

// Vertex is a single mesh vertex.
//
// Layout:
//
//	vec3<f32> position (offset 0)
//	vec3<f32> normal   (offset 12)
type Vertex struct {
	Position common.Vec3
	Normal   common.Vec3
}

// Mesh is an indexed triangle list. Every three indices form one counter-clockwise triangle.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Clone returns a deep copy so each entity can own its mesh independently.
func (m Mesh) Clone() Mesh {
	out := Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  make([]uint32, len(m.Indices)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Indices, m.Indices)
	return out
}

// Indexed reports whether the mesh carries an index list.
func (m Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

// TriangleCount returns the number of triangles the mesh draws.
func (m Mesh) TriangleCount() int {
	if m.Indexed() {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

// VertexData serializes the vertices into a little-endian buffer with VertexSize stride.
//
// Returns:
//   - []byte: len(Vertices)*VertexSize bytes ready for GPU upload
func (m Mesh) VertexData() []byte {
	buf := make([]byte, len(m.Vertices)*VertexSize)
	for i, v := range m.Vertices {
		b := buf[i*VertexSize:]
		binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(v.Position.X))
		binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(v.Position.Y))
		binary.LittleEndian.PutUint32(b[8:12], math.Float32bits(v.Position.Z))
		binary.LittleEndian.PutUint32(b[12:16], math.Float32bits(v.Normal.X))
		binary.LittleEndian.PutUint32(b[16:20], math.Float32bits(v.Normal.Y))
		binary.LittleEndian.PutUint32(b[20:24], math.Float32bits(v.Normal.Z))
	}
	return buf
}

// IndexData returns the indices as uint32 bytes in host order, which is little-endian on every
// platform WebGPU supports. The slice is a view of m.Indices and must not be modified.
//
// Returns:
//   - []byte: len(Indices)*4 bytes, or nil for a non-indexed mesh
func (m Mesh) IndexData() []byte {
	if !m.Indexed() {
		return nil
	}
	return common.SliceToBytes(m.Indices)
}

// GenerateNormals replaces every vertex normal with the normalized sum of the unit face
// normals of the triangles that share it. Each adjacent face contributes equally.
func (m *Mesh) GenerateNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = common.Vec3{}
	}
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		v0 := m.Vertices[i0].Position
		e1 := m.Vertices[i1].Position.Sub(v0)
		e2 := m.Vertices[i2].Position.Sub(v0)
		n := e1.Cross(e2).Normalize()
		m.Vertices[i0].Normal = m.Vertices[i0].Normal.Add(n)
		m.Vertices[i1].Normal = m.Vertices[i1].Normal.Add(n)
		m.Vertices[i2].Normal = m.Vertices[i2].Normal.Add(n)
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

package mesh

import (
	"encoding/binary"
	"math"
	"runtime"
	"testing"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-5

func assertUnitNormals(t *testing.T, m Mesh) {
	t.Helper()
	for i, v := range m.Vertices {
		assert.InDelta(t, float32(1), v.Normal.Length(), eps, "vertex %d", i)
	}
}

func assertIndicesInRange(t *testing.T, m Mesh) {
	t.Helper()
	require.Zero(t, len(m.Indices)%3)
	for _, idx := range m.Indices {
		require.Less(t, int(idx), len(m.Vertices))
	}
}

func TestCube(t *testing.T) {
	m := Cube()
	assert.Len(t, m.Vertices, 8)
	assert.Len(t, m.Indices, 36)
	assert.Equal(t, 12, m.TriangleCount())
	assertIndicesInRange(t, m)
	assertUnitNormals(t, m)

	// Corner normals point away from the center.
	for _, v := range m.Vertices {
		assert.Greater(t, v.Normal.Dot(v.Position), float32(0))
	}
}

func TestCube_OutwardWinding(t *testing.T) {
	m := Cube()
	for tri := 0; tri < len(m.Indices); tri += 3 {
		a := m.Vertices[m.Indices[tri]].Position
		b := m.Vertices[m.Indices[tri+1]].Position
		c := m.Vertices[m.Indices[tri+2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d faces inward", tri/3)
	}
}

func TestSphere(t *testing.T) {
	for _, n := range []int{3, 8, 16} {
		m := Sphere(n)
		assert.Len(t, m.Vertices, (n+1)*(n+1))
		assert.Len(t, m.Indices, 6*n*n)
		assertIndicesInRange(t, m)
		for _, v := range m.Vertices {
			assert.Equal(t, v.Position, v.Normal)
			assert.InDelta(t, float32(1), v.Normal.Length(), eps)
		}
	}
}

func TestCone(t *testing.T) {
	m := Cone(12)
	assert.Len(t, m.Vertices, 14)
	assert.Len(t, m.Indices, 72)
	assertIndicesInRange(t, m)
	assertUnitNormals(t, m)
	assert.Equal(t, common.V3(0, 0.5, 0), m.Vertices[0].Position)
	assert.Equal(t, common.V3(0, -0.5, 0), m.Vertices[1].Position)
	assert.True(t, m.Vertices[1].Normal.ApproxEqual(common.V3(0, -1, 0), eps))

	// Segment counts below the minimum are raised.
	assert.Len(t, Cone(1).Vertices, MinSegments+2)
}

func TestCylinder(t *testing.T) {
	m := Cylinder(16)
	assert.Len(t, m.Vertices, 64)
	assert.Len(t, m.Indices, 16*24)
	assertIndicesInRange(t, m)
	assertUnitNormals(t, m)

	// Axis vertices carry the cap normal.
	assert.True(t, m.Vertices[16].Normal.ApproxEqual(common.V3(0, -1, 0), eps))
	assert.True(t, m.Vertices[48].Normal.ApproxEqual(common.V3(0, 1, 0), eps))
}

func TestGenerateNormals_Flat(t *testing.T) {
	m := Mesh{
		Vertices: []Vertex{
			{Position: common.V3(0, 0, 0), Normal: common.V3(9, 9, 9)},
			{Position: common.V3(1, 0, 0)},
			{Position: common.V3(0, 1, 0)},
			{Position: common.V3(5, 5, 5)},
		},
		Indices: []uint32{0, 1, 2},
	}
	m.GenerateNormals()
	for i := 0; i < 3; i++ {
		assert.True(t, m.Vertices[i].Normal.ApproxEqual(common.Vec3Z, eps))
	}
	// Vertices referenced by no triangle end up with a zero normal.
	assert.Equal(t, common.Vec3Zero, m.Vertices[3].Normal)
}

func TestVertexAndIndexData(t *testing.T) {
	m := Cube()
	vb := m.VertexData()
	require.Len(t, vb, 8*VertexSize)
	assert.Equal(t, float32(-0.5), math.Float32frombits(binary.LittleEndian.Uint32(vb[0:])))
	assert.Equal(t, m.Vertices[1].Normal.Z, math.Float32frombits(binary.LittleEndian.Uint32(vb[VertexSize+20:])))

	ib := m.IndexData()
	require.Len(t, ib, 36*4)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(ib[8:]))

	assert.Nil(t, Mesh{Vertices: m.Vertices}.IndexData())
}

func TestClone(t *testing.T) {
	a := Cube()
	b := a.Clone()
	b.Vertices[0].Position = common.V3(9, 9, 9)
	b.Indices[0] = 7
	assert.Equal(t, common.V3(-0.5, -0.5, 0.5), a.Vertices[0].Position)
	assert.Equal(t, uint32(0), a.Indices[0])
}

func TestGenerateBatch(t *testing.T) {
	meshes, err := GenerateBatch(2,
		Request{Shape: ShapeSphere, Segments: 4},
		Request{Shape: ShapeCube},
		Request{Shape: ShapeCone, Segments: 6},
		Request{Shape: ShapeCylinder, Segments: 5},
	)
	require.NoError(t, err)
	require.Len(t, meshes, 4)
	assert.Len(t, meshes[0].Vertices, 25)
	assert.Len(t, meshes[1].Vertices, 8)
	assert.Len(t, meshes[2].Vertices, 8)
	assert.Len(t, meshes[3].Vertices, 20)

	_, err = GenerateBatch(1, Request{Shape: Shape(42)})
	assert.Error(t, err)

	empty, err := GenerateBatch(4)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGenerateBatch_ReusesWorkers(t *testing.T) {
	_, err := GenerateBatch(4, Request{Shape: ShapeCube})
	require.NoError(t, err)
	baseline := runtime.NumGoroutine()

	for range 10 {
		meshes, err := GenerateBatch(4, Request{Shape: ShapeCube}, Request{Shape: ShapeSphere, Segments: 8})
		require.NoError(t, err)
		require.Len(t, meshes, 2)
	}

	assert.LessOrEqual(t, runtime.NumGoroutine(), baseline)

	_, err = GenerateBatch(2, Request{Shape: ShapeCube})
	require.NoError(t, err)
	batchMu.Lock()
	defer batchMu.Unlock()
	assert.Equal(t, 4, sharedPool(1).GetMaxWorkers())
}

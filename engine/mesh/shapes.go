package mesh

import (
	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/chewxy/math32"
)

// MinSegments is the smallest segment count a round shape accepts; lower values are raised to it.
const MinSegments = 3

func vert(x, y, z float32) Vertex {
	return Vertex{Position: common.V3(x, y, z)}
}

// Cube builds a unit cube centered on the origin with 8 shared corners and 36 indices.
func Cube() Mesh {
	m := Mesh{
		Vertices: []Vertex{
			vert(-0.5, -0.5, 0.5),
			vert(0.5, -0.5, 0.5),
			vert(0.5, 0.5, 0.5),
			vert(-0.5, 0.5, 0.5),
			vert(-0.5, -0.5, -0.5),
			vert(0.5, -0.5, -0.5),
			vert(0.5, 0.5, -0.5),
			vert(-0.5, 0.5, -0.5),
		},
		Indices: []uint32{
			0, 1, 2, 2, 3, 0, // front
			5, 4, 7, 7, 6, 5, // back
			4, 0, 3, 3, 7, 4, // left
			1, 5, 6, 6, 2, 1, // right
			3, 2, 6, 6, 7, 3, // top
			4, 5, 1, 1, 0, 4, // bottom
		},
	}
	m.GenerateNormals()
	return m
}

// Cone builds a cone of radius 0.5 and height 1 centered on the origin with its apex at +Y.
// Vertex 0 is the apex, vertex 1 the base center, followed by the base ring.
//
// Parameters:
//   - segments: number of ring vertices, at least MinSegments
//
// Returns:
//   - Mesh: segments+2 vertices and 6*segments indices
func Cone(segments int) Mesh {
	segments = max(segments, MinSegments)
	m := Mesh{
		Vertices: make([]Vertex, 0, segments+2),
		Indices:  make([]uint32, 0, segments*6),
	}
	m.Vertices = append(m.Vertices, vert(0, 0.5, 0), vert(0, -0.5, 0))
	for i := 0; i < segments; i++ {
		s, c := math32.Sincos(float32(i) / float32(segments) * 2 * math32.Pi)
		m.Vertices = append(m.Vertices, vert(0.5*c, -0.5, 0.5*s))
	}
	n := uint32(segments)
	for i := uint32(0); i < n; i++ {
		next := (i + 1) % n
		m.Indices = append(m.Indices, 0, 2+next, 2+i)
		m.Indices = append(m.Indices, 1, 2+i, 2+next)
	}
	m.GenerateNormals()
	return m
}

// Cylinder builds a cylinder of radius 1 and height 1 centered on the origin along Y.
// Each end has an outer ring and an inner ring of radius 0, so the caps are ring quads
// that collapse to fans around the axis.
//
// Parameters:
//   - segments: number of vertices per ring, at least MinSegments
//
// Returns:
//   - Mesh: 4*segments vertices and 24*segments indices
func Cylinder(segments int) Mesh {
	segments = max(segments, MinSegments)
	n := uint32(segments)
	m := Mesh{
		Vertices: make([]Vertex, 0, segments*4),
		Indices:  make([]uint32, 0, segments*24),
	}
	for _, y := range [2]float32{-0.5, 0.5} {
		for _, r := range [2]float32{1, 0} {
			for i := 0; i < segments; i++ {
				s, c := math32.Sincos(float32(i) / float32(segments) * 2 * math32.Pi)
				m.Vertices = append(m.Vertices, vert(r*c, y, r*s))
			}
		}
	}

	// Ring offsets: bottom outer, bottom inner, top outer, top inner.
	bo, bi, to, ti := uint32(0), n, 2*n, 3*n
	for i := uint32(0); i < n; i++ {
		next := (i + 1) % n
		// bottom cap, facing -Y
		m.Indices = append(m.Indices,
			bo+i, bi+next, bi+i,
			bo+i, bo+next, bi+next,
		)
		// top cap, facing +Y
		m.Indices = append(m.Indices,
			to+i, ti+i, ti+next,
			to+i, ti+next, to+next,
		)
		// outer wall
		m.Indices = append(m.Indices,
			to+i, to+next, bo+next,
			to+i, bo+next, bo+i,
		)
		// inner wall, degenerate for a solid cylinder
		m.Indices = append(m.Indices,
			ti+i, bi+next, ti+next,
			ti+i, bi+i, bi+next,
		)
	}
	m.GenerateNormals()
	return m
}

// Sphere builds a unit UV sphere on a (segments+1)x(segments+1) grid. Every normal equals its
// position, so no normal generation pass runs.
//
// Parameters:
//   - segments: grid subdivisions along latitude and longitude, at least MinSegments
//
// Returns:
//   - Mesh: (segments+1)^2 vertices and 6*segments^2 indices
func Sphere(segments int) Mesh {
	segments = max(segments, MinSegments)
	ring := uint32(segments + 1)
	m := Mesh{
		Vertices: make([]Vertex, 0, int(ring*ring)),
		Indices:  make([]uint32, 0, segments*segments*6),
	}
	for y := 0; y <= segments; y++ {
		theta := float32(y) / float32(segments) * math32.Pi
		st, ct := math32.Sincos(theta)
		for x := 0; x <= segments; x++ {
			phi := float32(x) / float32(segments) * 2 * math32.Pi
			sp, cp := math32.Sincos(phi)
			p := common.V3(st*cp, ct, st*sp)
			m.Vertices = append(m.Vertices, Vertex{Position: p, Normal: p})
		}
	}
	for y := uint32(0); y < uint32(segments); y++ {
		for x := uint32(0); x < uint32(segments); x++ {
			i := y*ring + x
			m.Indices = append(m.Indices,
				i, i+1, i+ring,
				i+1, i+ring+1, i+ring,
			)
		}
	}
	return m
}

package common

import "github.com/chewxy/math32"

// Mat3 is a row-major 3x3 matrix, indexed m[row][col], that multiplies column vectors.
type Mat3 [3][3]float32

// Mat4 is a row-major 4x4 matrix, indexed m[row][col], that multiplies column vectors.
// Translation lives in the last column.
type Mat4 [4][4]float32

// Mat3Identity returns the 3x3 identity matrix.
func Mat3Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Mat4Identity returns the 4x4 identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// Mul returns the matrix product m·o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = m[r][0]*o[0][c] + m[r][1]*o[1][c] + m[r][2]*o[2][c]
		}
	}
	return out
}

// MulVec3 transforms v as a column vector.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns m with rows and columns swapped.
func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[c][r] = m[r][c]
		}
	}
	return out
}

// Determinant returns the determinant of m.
func (m Mat3) Determinant() float32 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse computes the inverse from the adjugate. A matrix whose determinant is negligible
// relative to the product of its column lengths is treated as singular and returned unchanged, so
// the test does not depend on the overall scale of m.
//
// Returns:
//   - Mat3: the inverse, or m when singular
//   - bool: true if the matrix was invertible
func (m Mat3) Inverse() (Mat3, bool) {
	det := m.Determinant()
	c := m.Transpose()
	if singular(det, lengthProduct(c[0][:], c[1][:], c[2][:])) {
		return m, false
	}
	inv := 1 / det
	return Mat3{
		{
			(m[1][1]*m[2][2] - m[1][2]*m[2][1]) * inv,
			(m[0][2]*m[2][1] - m[0][1]*m[2][2]) * inv,
			(m[0][1]*m[1][2] - m[0][2]*m[1][1]) * inv,
		},
		{
			(m[1][2]*m[2][0] - m[1][0]*m[2][2]) * inv,
			(m[0][0]*m[2][2] - m[0][2]*m[2][0]) * inv,
			(m[0][2]*m[1][0] - m[0][0]*m[1][2]) * inv,
		},
		{
			(m[1][0]*m[2][1] - m[1][1]*m[2][0]) * inv,
			(m[0][1]*m[2][0] - m[0][0]*m[2][1]) * inv,
			(m[0][0]*m[1][1] - m[0][1]*m[1][0]) * inv,
		},
	}, true
}

// singularRatio is the smallest |det| / ∏|column| accepted as invertible in float32.
const singularRatio = 1e-6

// singular reports whether det is negligible against bound, the Hadamard bound of the matrix.
func singular(det, bound float32) bool {
	return bound == 0 || math32.Abs(det) <= singularRatio*bound
}

// lengthProduct returns the product of the Euclidean lengths of vs.
func lengthProduct(vs ...[]float32) float32 {
	p := float32(1)
	for _, vec := range vs {
		var sq float32
		for _, v := range vec {
			sq += v * v
		}
		p *= math32.Sqrt(sq)
	}
	return p
}

// Mat4 embeds m in the upper-left of an identity 4x4 matrix.
func (m Mat3) Mat4() Mat4 {
	out := Mat4Identity()
	for r := 0; r < 3; r++ {
		copy(out[r][:3], m[r][:])
	}
	return out
}

// Translation returns a matrix translating by t.
func Translation(t Vec3) Mat4 {
	out := Mat4Identity()
	out[0][3], out[1][3], out[2][3] = t.X, t.Y, t.Z
	return out
}

// Scaling returns a matrix scaling each axis by s.
func Scaling(s Vec3) Mat4 {
	out := Mat4Identity()
	out[0][0], out[1][1], out[2][2] = s.X, s.Y, s.Z
	return out
}

// TRS builds the model matrix T*R*S from a translation, rotation and scale.
// The rotation columns are scaled by the matching scale component and the
// translation is placed in the last column.
//
// Parameters:
//   - t: translation
//   - r: rotation, expected to be unit length
//   - s: per-axis scale
//
// Returns:
//   - Mat4: the composed model matrix
func TRS(t Vec3, r Quat, s Vec3) Mat4 {
	rot := r.Mat3()
	scale := [3]float32{s.X, s.Y, s.Z}
	out := Mat4Identity()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[row][col] = rot[row][col] * scale[col]
		}
	}
	out[0][3], out[1][3], out[2][3] = t.X, t.Y, t.Z
	return out
}

// Mul returns the matrix product m·o, so o is applied to a vector first.
//
// Parameters:
//   - o: the right-hand matrix
//
// Returns:
//   - Mat4: the product
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = m[r][0]*o[0][c] + m[r][1]*o[1][c] + m[r][2]*o[2][c] + m[r][3]*o[3][c]
		}
	}
	return out
}

// MulVec4 multiplies the column vector (x, y, z, w).
func (m Mat4) MulVec4(x, y, z, w float32) [4]float32 {
	var out [4]float32
	for r := 0; r < 4; r++ {
		out[r] = m[r][0]*x + m[r][1]*y + m[r][2]*z + m[r][3]*w
	}
	return out
}

// MulPoint transforms p with w = 1 and applies the perspective divide when w != 1.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	v := m.MulVec4(p.X, p.Y, p.Z, 1)
	if v[3] != 0 && v[3] != 1 {
		return Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
	}
	return Vec3{v[0], v[1], v[2]}
}

// MulDir transforms d with w = 0, ignoring translation.
func (m Mat4) MulDir(d Vec3) Vec3 {
	v := m.MulVec4(d.X, d.Y, d.Z, 0)
	return Vec3{v[0], v[1], v[2]}
}

// Transpose returns m with rows and columns swapped.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[c][r] = m[r][c]
		}
	}
	return out
}

// Mat3 returns the upper-left 3x3 block.
func (m Mat4) Mat3() Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		copy(out[r][:], m[r][:3])
	}
	return out
}

// Inverse computes the inverse using cofactor expansion over 2x2 sub-determinants.
// A matrix whose determinant is negligible relative to the product of its column lengths is
// returned unchanged with ok set to false.
//
// Returns:
//   - Mat4: the inverse, or m when singular
//   - bool: true if the matrix was invertible
func (m Mat4) Inverse() (Mat4, bool) {
	s0 := m[0][0]*m[1][1] - m[1][0]*m[0][1]
	s1 := m[0][0]*m[1][2] - m[1][0]*m[0][2]
	s2 := m[0][0]*m[1][3] - m[1][0]*m[0][3]
	s3 := m[0][1]*m[1][2] - m[1][1]*m[0][2]
	s4 := m[0][1]*m[1][3] - m[1][1]*m[0][3]
	s5 := m[0][2]*m[1][3] - m[1][2]*m[0][3]

	c5 := m[2][2]*m[3][3] - m[3][2]*m[2][3]
	c4 := m[2][1]*m[3][3] - m[3][1]*m[2][3]
	c3 := m[2][1]*m[3][2] - m[3][1]*m[2][2]
	c2 := m[2][0]*m[3][3] - m[3][0]*m[2][3]
	c1 := m[2][0]*m[3][2] - m[3][0]*m[2][2]
	c0 := m[2][0]*m[3][1] - m[3][0]*m[2][1]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	c := m.Transpose()
	if singular(det, lengthProduct(c[0][:], c[1][:], c[2][:], c[3][:])) {
		return m, false
	}
	inv := 1 / det

	var out Mat4
	out[0][0] = (m[1][1]*c5 - m[1][2]*c4 + m[1][3]*c3) * inv
	out[0][1] = (-m[0][1]*c5 + m[0][2]*c4 - m[0][3]*c3) * inv
	out[0][2] = (m[3][1]*s5 - m[3][2]*s4 + m[3][3]*s3) * inv
	out[0][3] = (-m[2][1]*s5 + m[2][2]*s4 - m[2][3]*s3) * inv

	out[1][0] = (-m[1][0]*c5 + m[1][2]*c2 - m[1][3]*c1) * inv
	out[1][1] = (m[0][0]*c5 - m[0][2]*c2 + m[0][3]*c1) * inv
	out[1][2] = (-m[3][0]*s5 + m[3][2]*s2 - m[3][3]*s1) * inv
	out[1][3] = (m[2][0]*s5 - m[2][2]*s2 + m[2][3]*s1) * inv

	out[2][0] = (m[1][0]*c4 - m[1][1]*c2 + m[1][3]*c0) * inv
	out[2][1] = (-m[0][0]*c4 + m[0][1]*c2 - m[0][3]*c0) * inv
	out[2][2] = (m[3][0]*s4 - m[3][1]*s2 + m[3][3]*s0) * inv
	out[2][3] = (-m[2][0]*s4 + m[2][1]*s2 - m[2][3]*s0) * inv

	out[3][0] = (-m[1][0]*c3 + m[1][1]*c1 - m[1][2]*c0) * inv
	out[3][1] = (m[0][0]*c3 - m[0][1]*c1 + m[0][2]*c0) * inv
	out[3][2] = (-m[3][0]*s3 + m[3][1]*s1 - m[3][2]*s0) * inv
	out[3][3] = (m[2][0]*s3 - m[2][1]*s1 + m[2][2]*s0) * inv
	return out, true
}

// NormalMatrix returns the inverse-transpose of the upper 3x3 of m embedded in a 4x4 matrix,
// used to carry normals through a model matrix with non-uniform scale. Translation does not
// affect it. A singular m yields the identity.
func (m Mat4) NormalMatrix() Mat4 {
	inv, ok := m.Mat3().Inverse()
	if !ok {
		return Mat4Identity()
	}
	return inv.Transpose().Mat4()
}

// Array flattens m in column-major order, the layout WGSL expects for mat4x4<f32>.
func (m Mat4) Array() [16]float32 {
	var out [16]float32
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[r][c]
		}
	}
	return out
}

// ApproxEqual reports whether every element of m is within eps of o.
func (m Mat4) ApproxEqual(o Mat4, eps float32) bool {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if math32.Abs(m[r][c]-o[r][c]) > eps {
				return false
			}
		}
	}
	return true
}

package common

import "github.com/chewxy/math32"

// Quat is a rotation quaternion with vector part (X, Y, Z) and scalar part W.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat { return Quat{0, 0, 0, 1} }

// QuatFromAxisAngle builds a unit quaternion rotating by angle radians about axis.
// The axis is normalized first; a zero axis yields the identity.
//
// Parameters:
//   - axis: rotation axis
//   - angle: rotation in radians, counter-clockwise looking down the axis (right-hand rule)
//
// Returns:
//   - Quat: the rotation
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	a := axis.Normalize()
	if a == (Vec3{}) {
		return QuatIdentity()
	}
	s, c := math32.Sincos(angle / 2)
	return Quat{a.X * s, a.Y * s, a.Z * s, c}
}

// Add returns the component-wise sum of q and o.
func (q Quat) Add(o Quat) Quat { return Quat{q.X + o.X, q.Y + o.Y, q.Z + o.Z, q.W + o.W} }

// Sub returns the component-wise difference q - o.
func (q Quat) Sub(o Quat) Quat { return Quat{q.X - o.X, q.Y - o.Y, q.Z - o.Z, q.W - o.W} }

// Scale multiplies every component by s.
func (q Quat) Scale(s float32) Quat { return Quat{q.X * s, q.Y * s, q.Z * s, q.W * s} }

// Neg returns -q, which encodes the same rotation as q.
func (q Quat) Neg() Quat { return Quat{-q.X, -q.Y, -q.Z, -q.W} }

// Dot returns the 4D dot product of q and o.
func (q Quat) Dot(o Quat) float32 { return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W }

// Length returns the norm of q.
func (q Quat) Length() float32 { return math32.Sqrt(q.Dot(q)) }

// Normalize returns q scaled to unit length. A zero quaternion becomes the identity.
func (q Quat) Normalize() Quat {
	l := q.Length()
	if l == 0 {
		return QuatIdentity()
	}
	return q.Scale(1 / l)
}

// Conjugate negates the vector part. For unit quaternions this is the inverse rotation.
func (q Quat) Conjugate() Quat { return Quat{-q.X, -q.Y, -q.Z, q.W} }

// Inverse returns the multiplicative inverse conj(q)/|q|².
func (q Quat) Inverse() Quat {
	n := q.Dot(q)
	if n == 0 {
		return QuatIdentity()
	}
	return q.Conjugate().Scale(1 / n)
}

// Mul returns the Hamilton product q*o, the rotation o followed by q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate applies the rotation to v using v + 2w(u×v) + 2u×(u×v), with u the vector part.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	uv := u.Cross(v)
	uuv := u.Cross(uv)
	return v.Add(uv.Scale(2 * q.W)).Add(uuv.Scale(2))
}

// Lerp linearly interpolates component-wise and normalizes the result.
func (q Quat) Lerp(o Quat, t float32) Quat {
	return q.Add(o.Sub(q).Scale(t)).Normalize()
}

// Slerp spherically interpolates from q to o along the shortest arc.
// Nearly parallel inputs fall back to a normalized linear interpolation.
//
// Parameters:
//   - o: target rotation
//   - t: interpolation factor in [0, 1]
//
// Returns:
//   - Quat: the interpolated unit rotation
func (q Quat) Slerp(o Quat, t float32) Quat {
	cos := q.Dot(o)
	if cos < 0 {
		o = o.Neg()
		cos = -cos
	}
	if cos > 0.9995 {
		return q.Lerp(o, t)
	}
	theta := math32.Acos(cos)
	sin := math32.Sin(theta)
	a := math32.Sin((1-t)*theta) / sin
	b := math32.Sin(t*theta) / sin
	return q.Scale(a).Add(o.Scale(b)).Normalize()
}

// Mat3 converts the rotation to a row-major 3x3 matrix acting on column vectors.
func (q Quat) Mat3() Mat3 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	return Mat3{
		{1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy)},
		{2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx)},
		{2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy)},
	}
}

// ApproxEqual reports whether every component of q is within eps of o.
func (q Quat) ApproxEqual(o Quat, eps float32) bool {
	return math32.Abs(q.X-o.X) <= eps && math32.Abs(q.Y-o.Y) <= eps &&
		math32.Abs(q.Z-o.Z) <= eps && math32.Abs(q.W-o.W) <= eps
}

// QuatFromMat3 extracts the rotation of an orthonormal row-major matrix.
func QuatFromMat3(m Mat3) Quat {
	trace := m[0][0] + m[1][1] + m[2][2]
	switch {
	case trace > 0:
		s := 2 * math32.Sqrt(trace+1)
		return Quat{
			X: (m[2][1] - m[1][2]) / s,
			Y: (m[0][2] - m[2][0]) / s,
			Z: (m[1][0] - m[0][1]) / s,
			W: 0.25 * s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2 * math32.Sqrt(1+m[0][0]-m[1][1]-m[2][2])
		return Quat{
			X: 0.25 * s,
			Y: (m[0][1] + m[1][0]) / s,
			Z: (m[0][2] + m[2][0]) / s,
			W: (m[2][1] - m[1][2]) / s,
		}
	case m[1][1] > m[2][2]:
		s := 2 * math32.Sqrt(1+m[1][1]-m[0][0]-m[2][2])
		return Quat{
			X: (m[0][1] + m[1][0]) / s,
			Y: 0.25 * s,
			Z: (m[1][2] + m[2][1]) / s,
			W: (m[0][2] - m[2][0]) / s,
		}
	default:
		s := 2 * math32.Sqrt(1+m[2][2]-m[0][0]-m[1][1])
		return Quat{
			X: (m[0][2] + m[2][0]) / s,
			Y: (m[1][2] + m[2][1]) / s,
			Z: 0.25 * s,
			W: (m[1][0] - m[0][1]) / s,
		}
	}
}

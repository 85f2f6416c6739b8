package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func toMgl(m Mat4) mgl32.Mat4 {
	return mgl32.Mat4(m.Array())
}

func assertVec3(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
	assert.InDelta(t, want.Z, got.Z, eps, "z")
}

func TestVec3_NormalizeZero(t *testing.T) {
	assert.Equal(t, Vec3Zero, Vec3Zero.Normalize())
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
}

func TestVec3_Algebra(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(-4, 5, 0.5)

	assert.Equal(t, V3(-3, 7, 3.5), a.Add(b))
	assert.Equal(t, V3(5, -3, 2.5), a.Sub(b))
	assert.InDelta(t, float32(7.5), a.Dot(b), eps)
	assertVec3(t, Vec3Z, Vec3X.Cross(Vec3Y))
	assertVec3(t, Vec3X, Vec3Y.Cross(Vec3Z))
	assert.InDelta(t, float32(1), V3(3, 4, 12).Normalize().Length(), eps)
	assertVec3(t, V3(1, -1, 0), V3(1, 1, 0).Reflect(Vec3Y))
	assertVec3(t, V3(0.5, 0.5, 0.5), Vec3Zero.Lerp(Vec3One, 0.5))
}

func TestQuat_NormalizeAndInverse(t *testing.T) {
	qs := []Quat{
		QuatFromAxisAngle(V3(1, 2, 3), 0.7),
		QuatFromAxisAngle(Vec3Y, math32.Pi),
		{X: 3, Y: -1, Z: 2, W: 5},
		{X: -0.44, Y: -0.34, Z: -0.19, W: 0.81},
	}
	for _, q := range qs {
		n := q.Normalize()
		assert.InDelta(t, float32(1), n.Length(), eps)
		assert.True(t, n.Mul(n.Inverse()).ApproxEqual(QuatIdentity(), eps), "q*q^-1 for %v", q)
		assert.True(t, q.Mul(q.Inverse()).ApproxEqual(QuatIdentity(), eps), "unnormalized q*q^-1 for %v", q)
	}
}

func TestQuat_Slerp(t *testing.T) {
	a := QuatFromAxisAngle(V3(0, 1, 0), 0.3)
	b := QuatFromAxisAngle(V3(1, 1, 0), 2.1)

	assert.True(t, a.Slerp(b, 0).ApproxEqual(a, eps))
	assert.True(t, a.Slerp(b, 1).ApproxEqual(b, eps))
	for i := 0; i <= 20; i++ {
		tt := float32(i) / 20
		assert.InDelta(t, float32(1), a.Slerp(b, tt).Length(), eps, "t=%v", tt)
	}

	// Nearly parallel inputs take the lerp branch.
	c := QuatFromAxisAngle(Vec3Y, 0.301)
	assert.InDelta(t, float32(1), a.Slerp(c, 0.5).Length(), eps)

	// The shortest path is taken when the inputs are in opposite hemispheres.
	mid := a.Slerp(b.Neg(), 0.5)
	want := a.Slerp(b, 0.5)
	assert.True(t, mid.ApproxEqual(want, eps))
}

func TestQuat_RotateHandedness(t *testing.T) {
	q := QuatFromAxisAngle(Vec3Y, math32.Pi/2)
	assertVec3(t, Vec3Z.Neg(), q.Rotate(Vec3X))
}

func TestQuat_MatchesMathgl(t *testing.T) {
	axis := V3(0.3, -1, 0.5)
	q := QuatFromAxisAngle(axis, 1.2)
	ref := mgl32.QuatRotate(1.2, mgl32.Vec3{0.3, -1, 0.5}.Normalize())

	v := V3(2, -3, 4)
	got := q.Rotate(v)
	want := ref.Rotate(mgl32.Vec3{2, -3, 4})
	assertVec3(t, V3(want[0], want[1], want[2]), got)

	// Mat3 agrees with the vector rotation.
	assertVec3(t, got, q.Mat3().MulVec3(v))

	// Composition agrees with applying both rotations in sequence.
	p := QuatFromAxisAngle(Vec3X, -0.4)
	assertVec3(t, p.Rotate(q.Rotate(v)), p.Mul(q).Rotate(v))
}

func TestMat4_TRS(t *testing.T) {
	pos := V3(1, 2, 3)
	rot := QuatFromAxisAngle(Vec3Z, math32.Pi/2)
	scale := V3(2, 3, 4)

	m := TRS(pos, rot, scale)
	want := Translation(pos).Mul(rot.Mat3().Mat4()).Mul(Scaling(scale))
	assert.True(t, m.ApproxEqual(want, eps))

	// +X scaled by 2, rotated onto +Y, then translated.
	assertVec3(t, V3(1, 4, 3), m.MulPoint(Vec3X))
}

func TestMat4_InverseAndNormalMatrix(t *testing.T) {
	m := TRS(V3(-2, 5, 1), QuatFromAxisAngle(V3(1, 1, 1), 0.9), V3(1, 2, 0.5))
	inv, ok := m.Inverse()
	require.True(t, ok)
	assert.True(t, m.Mul(inv).ApproxEqual(Mat4Identity(), eps))

	ref := toMgl(m).Inv()
	assert.True(t, toMgl(inv).ApproxEqualThreshold(ref, eps))

	var zero Mat4
	_, ok = zero.Inverse()
	assert.False(t, ok)
	assert.Equal(t, Mat4Identity(), zero.NormalMatrix())

	nm := m.NormalMatrix()
	assert.True(t, nm.ApproxEqual(inv.Transpose().Mat3().Mat4(), eps))
}

func TestMat3_Inverse(t *testing.T) {
	m := QuatFromAxisAngle(V3(1, 2, 3), 1.1).Mat3().Mul(Mat3{{2, 0, 0}, {0, 0.5, 0}, {0, 0, 3}})
	inv, ok := m.Inverse()
	require.True(t, ok)
	assert.True(t, m.Mul(inv).Mat4().ApproxEqual(Mat4Identity(), eps))

	_, ok = Mat3{{1, 2, 3}, {2, 4, 6}, {0, 0, 1}}.Inverse()
	assert.False(t, ok, "rank-deficient")

	tiny := Mat3{{1e-5, 0, 0}, {0, 1e-5, 0}, {0, 0, 1e-5}}
	inv, ok = tiny.Inverse()
	require.True(t, ok, "uniform scale is invertible at any magnitude")
	assert.InDelta(t, 1e5, inv[1][1], 1)
}

func TestMat4_NormalMatrixTinyUniformScale(t *testing.T) {
	const s = 1e-4
	q := QuatFromAxisAngle(Vec3Y, 0.7)
	m := TRS(V3(30, -10, 20), q, V3(s, s, s))

	n := m.NormalMatrix().Mat3().MulVec3(Vec3X).Normalize()
	assertVec3(t, q.Rotate(Vec3X), n)

	_, ok := m.Inverse()
	assert.True(t, ok)
}

func TestMat4_ArrayIsColumnMajor(t *testing.T) {
	m := Translation(V3(7, 8, 9))
	a := m.Array()
	assert.Equal(t, [3]float32{7, 8, 9}, [3]float32{a[12], a[13], a[14]})
	assert.Equal(t, toMgl(m), mgl32.Translate3D(7, 8, 9))
}

func TestPerspective_DepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	p := Perspective(Radians(90), 1.5, near, far)

	assert.InDelta(t, float32(0), p.MulPoint(V3(0, 0, -near)).Z, eps)
	assert.InDelta(t, float32(1), p.MulPoint(V3(0, 0, -far)).Z, eps)
	// 90 degrees: the top edge of the near plane lands on y = 1.
	assert.InDelta(t, float32(1), p.MulPoint(V3(0, near, -near)).Y, eps)
	assert.InDelta(t, float32(1), p.MulPoint(V3(near*1.5, 0, -near)).X, eps)
}

func TestLookAt_MatchesMathgl(t *testing.T) {
	eye := V3(3, 4, 5)
	target := V3(-1, 0, 2)
	up := Vec3Y

	got := LookAt(eye, target, up)
	want := mgl32.LookAtV(mgl32.Vec3{3, 4, 5}, mgl32.Vec3{-1, 0, 2}, mgl32.Vec3{0, 1, 0})
	assert.True(t, toMgl(got).ApproxEqualThreshold(want, eps))

	assertVec3(t, Vec3Zero, got.MulPoint(eye))
	dir := target.Sub(eye).Normalize()
	assertVec3(t, V3(0, 0, -1), got.MulDir(dir))
}

func TestRadians(t *testing.T) {
	assert.InDelta(t, math32.Pi/2, Radians(90), eps)
	assert.InDelta(t, float32(180), Degrees(math32.Pi), eps)
	assert.Equal(t, float32(1), Clamp(3, -1, 1))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}

func TestQuatFromMat3_RoundTrip(t *testing.T) {
	for _, q := range []Quat{
		QuatIdentity(),
		QuatFromAxisAngle(V3(1, 2, 3), 0.7),
		QuatFromAxisAngle(Vec3X, 3),
		QuatFromAxisAngle(Vec3Y, -2.9),
		QuatFromAxisAngle(Vec3Z, 3.1),
	} {
		got := QuatFromMat3(q.Mat3())
		if got.Dot(q) < 0 {
			got = got.Neg()
		}
		assert.True(t, got.ApproxEqual(q, eps), "want %v got %v", q, got)
	}
}

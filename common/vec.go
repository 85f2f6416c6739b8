package common

import "github.com/chewxy/math32"

// Vec2 is a two component float32 vector.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a three component float32 vector used for positions, directions, colors and scales.
type Vec3 struct {
	X, Y, Z float32
}

var (
	// Vec3Zero is the zero vector.
	Vec3Zero = Vec3{}
	// Vec3One has every component set to one.
	Vec3One = Vec3{1, 1, 1}
	// Vec3X is the unit +X axis.
	Vec3X = Vec3{1, 0, 0}
	// Vec3Y is the unit +Y axis.
	Vec3Y = Vec3{0, 1, 0}
	// Vec3Z is the unit +Z axis.
	Vec3Z = Vec3{0, 0, 1}
)

// V2 builds a Vec2.
func V2(x, y float32) Vec2 { return Vec2{x, y} }

// V3 builds a Vec3.
func V3(x, y, z float32) Vec3 { return Vec3{x, y, z} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale multiplies both components by s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// Length returns the Euclidean length of v.
func (v Vec2) Length() float32 { return math32.Sqrt(v.Dot(v)) }

// Lerp interpolates linearly from v to o; t = 0 yields v and t = 1 yields o.
func (v Vec2) Lerp(o Vec2, t float32) Vec2 { return v.Add(o.Sub(v).Scale(t)) }

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Reflect reflects v about the plane with unit normal n.
func (v Vec2) Reflect(n Vec2) Vec2 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale multiplies every component by s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Neg returns -v.
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Mul multiplies component-wise.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Div divides every component by s. Division by zero yields the zero vector.
func (v Vec3) Div(s float32) Vec3 {
	if s == 0 {
		return Vec3{}
	}
	return v.Scale(1 / s)
}

// Cross returns the right-handed cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LengthSquared returns the squared length of v.
func (v Vec3) LengthSquared() float32 { return v.Dot(v) }

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 { return math32.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Lerp linearly interpolates from v to o by t.
func (v Vec3) Lerp(o Vec3, t float32) Vec3 { return v.Add(o.Sub(v).Scale(t)) }

// Reflect reflects v about the plane with unit normal n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// ApproxEqual reports whether every component of v is within eps of o.
func (v Vec3) ApproxEqual(o Vec3, eps float32) bool {
	return math32.Abs(v.X-o.X) <= eps && math32.Abs(v.Y-o.Y) <= eps && math32.Abs(v.Z-o.Z) <= eps
}

// Array returns the components as a fixed array.
func (v Vec3) Array() [3]float32 { return [3]float32{v.X, v.Y, v.Z} }

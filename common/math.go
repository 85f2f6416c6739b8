package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 {
	return rad * 180 / math32.Pi
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Perspective creates a right-handed perspective projection with WebGPU clip depth in [0, 1].
// A view-space point at z = -near maps to depth 0 and z = -far maps to depth 1.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	var out Mat4
	out[0][0] = f / aspect
	out[1][1] = f
	out[2][2] = far / (near - far)
	out[2][3] = (near * far) / (near - far)
	out[3][2] = -1
	return out
}

// FlipY mirrors clip-space Y. Used when a render target's texel rows must line up with
// texture sampling coordinates rather than screen coordinates.
func FlipY() Mat4 {
	out := Mat4Identity()
	out[1][1] = -1
	return out
}

// LookAt creates a view matrix that positions and orients the eye.
// The resulting matrix transforms world coordinates to view space, with the eye looking along -Z.
//
// Parameters:
//   - eye: eye position in world space
//   - target: point the eye looks at
//   - up: approximate up direction, must not be parallel to target - eye
//
// Returns:
//   - Mat4: the view matrix
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return Mat4{
		{s.X, s.Y, s.Z, -s.Dot(eye)},
		{u.X, u.Y, u.Z, -u.Dot(eye)},
		{-f.X, -f.Y, -f.Z, f.Dot(eye)},
		{0, 0, 0, 1},
	}
}

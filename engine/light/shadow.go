package light

import (
	"fmt"

	"github.com/Carmen-Shannon/neothauma/common"
)

// DefaultShadowResolution is the default edge length in texels of each cube shadow face.
// The shadow target never follows the window size.
const DefaultShadowResolution = 1024

// DefaultShadowNear is the default near plane of the cube shadow projection.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the default far plane of the cube shadow projection. Fragment depths
// are linearized against this value in the main pass.
const DefaultShadowFar float32 = 100.0

// DefaultShadowDepthBias is the constant depth bias applied by the shadow pipeline to reduce acne.
const DefaultShadowDepthBias int32 = 2

// DefaultShadowSlopeScale is the slope-scaled depth bias applied by the shadow pipeline.
const DefaultShadowSlopeScale float32 = 2.0

// CubeFaceCount is the number of faces rendered per point-light shadow.
const CubeFaceCount = 6

// CubeFace indexes a cube map face in WebGPU layer order.
type CubeFace int

const (
	CubeFacePosX CubeFace = iota
	CubeFaceNegX
	CubeFacePosY
	CubeFaceNegY
	CubeFacePosZ
	CubeFaceNegZ
)

var cubeFaceDirections = [CubeFaceCount]common.Vec3{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// ±Y faces use ±Z as up so the basis never degenerates; every other face uses -Y.
var cubeFaceUps = [CubeFaceCount]common.Vec3{
	{Y: -1}, {Y: -1},
	{Z: 1}, {Z: -1},
	{Y: -1}, {Y: -1},
}

var cubeFaceNames = [CubeFaceCount]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

func (f CubeFace) String() string {
	if f < 0 || f >= CubeFaceCount {
		return fmt.Sprintf("CubeFace(%d)", int(f))
	}
	return cubeFaceNames[f]
}

// Direction returns the axis the face looks along.
func (f CubeFace) Direction() common.Vec3 { return cubeFaceDirections[f] }

// Up returns the up vector used when building the face view matrix.
func (f CubeFace) Up() common.Vec3 { return cubeFaceUps[f] }

// CubeFaceView builds the view matrix looking from pos along the face direction.
func CubeFaceView(pos common.Vec3, face CubeFace) common.Mat4 {
	return common.LookAt(pos, pos.Add(face.Direction()), face.Up())
}

// CubeFaceProjection is the 90 degree, aspect 1 projection shared by all six faces. Clip Y is
// flipped so texel rows of each rendered face match cube map sampling coordinates.
func CubeFaceProjection(near, far float32) common.Mat4 {
	return common.FlipY().Mul(common.Perspective(common.Radians(90), 1, near, far))
}

// ShadowMatrices derives the six light-space matrices of a point light at pos, in CubeFace order.
//
// Parameters:
//   - pos: world-space light position
//   - near: shadow projection near plane
//   - far: shadow projection far plane
//
// Returns:
//   - [CubeFaceCount]common.Mat4: projection * view for every face
func ShadowMatrices(pos common.Vec3, near, far float32) [CubeFaceCount]common.Mat4 {
	proj := CubeFaceProjection(near, far)
	var out [CubeFaceCount]common.Mat4
	for f := CubeFace(0); f < CubeFaceCount; f++ {
		out[f] = proj.Mul(CubeFaceView(pos, f))
	}
	return out
}

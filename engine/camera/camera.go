package camera

import (
	"math"

	"github.com/Carmen-Shannon/neothauma/common"
)

// MinFov and MaxFov bound the vertical field of view in radians.
const (
	MinFov float32 = 1 * math.Pi / 180
	MaxFov float32 = 179 * math.Pi / 180
)

// cameraImpl is the implementation of the Camera interface.
type cameraImpl struct {
	position common.Vec3
	rotation common.Quat

	fov    float32 // radians
	aspect float32
	near   float32
	far    float32
}

// Camera is a perspective eye with a quaternion orientation.
//
// The camera looks along its local -Z axis with +Y up and +X right. All movement and
// rotation operations act on the current local axes, which are derived from the
// orientation on every call. Cameras are not safe for concurrent use; mutate them
// between frames from the thread that renders.
type Camera interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - common.Vec3: the eye position
	Position() common.Vec3

	// Rotation returns the unit orientation quaternion.
	//
	// Returns:
	//   - common.Quat: the orientation
	Rotation() common.Quat

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: the field of view
	Fov() float32

	// Aspect returns the last aspect ratio set through SetAspect.
	//
	// Returns:
	//   - float32: width / height
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: the near plane
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: the far plane
	Far() float32

	// Forward returns the world-space direction the camera looks along.
	//
	// Returns:
	//   - common.Vec3: the orientation applied to -Z
	Forward() common.Vec3

	// Right returns the world-space right direction.
	//
	// Returns:
	//   - common.Vec3: the orientation applied to +X
	Right() common.Vec3

	// Up returns the world-space up direction.
	//
	// Returns:
	//   - common.Vec3: the orientation applied to +Y
	Up() common.Vec3

	// ViewMatrix returns the world-to-view transform. It is built directly from the
	// conjugate rotation and the negated, rotated position.
	//
	// Returns:
	//   - common.Mat4: the view matrix
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the perspective projection for the given aspect ratio.
	//
	// Parameters:
	//   - aspect: viewport width / height
	//
	// Returns:
	//   - common.Mat4: the projection matrix with WebGPU [0, 1] depth
	ProjectionMatrix(aspect float32) common.Mat4

	// MoveForward translates along Forward.
	//
	// Parameters:
	//   - distance: world units, negative moves backward
	MoveForward(distance float32)

	// MoveRight translates along Right.
	//
	// Parameters:
	//   - distance: world units, negative moves left
	MoveRight(distance float32)

	// MoveUp translates along Up.
	//
	// Parameters:
	//   - distance: world units, negative moves down
	MoveUp(distance float32)

	// RotatePitch rotates about the current right axis and renormalizes.
	//
	// Parameters:
	//   - angle: radians, positive tilts the view upward
	RotatePitch(angle float32)

	// RotateYaw rotates about the current up axis and renormalizes.
	//
	// Parameters:
	//   - angle: radians, positive turns left
	RotateYaw(angle float32)

	// RotateRoll rotates about the current forward axis and renormalizes.
	//
	// Parameters:
	//   - angle: radians
	RotateRoll(angle float32)

	// AdjustFov changes the field of view, clamped to [MinFov, MaxFov].
	//
	// Parameters:
	//   - delta: radians to add
	AdjustFov(delta float32)

	// LookAt orients the camera toward target, keeping world +Y as up where possible.
	//
	// Parameters:
	//   - target: world-space point to face
	LookAt(target common.Vec3)

	SetPosition(pos common.Vec3)

	// SetRotation replaces the orientation. The quaternion is normalized.
	SetRotation(rot common.Quat)

	SetFov(fov float32)

	SetAspect(aspect float32)

	SetNear(near float32)

	SetFar(far float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at the origin looking down -Z with a 90 degree field of view.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		rotation: common.QuatIdentity(),
		fov:      common.Radians(90),
		aspect:   1,
		near:     0.1,
		far:      100,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// NewDefaultCamera creates the stock scene camera, placed above and to the side of the origin.
func NewDefaultCamera(options ...CameraBuilderOption) Camera {
	base := []CameraBuilderOption{
		WithPosition(common.V3(-1.52, 3.77, 1.55)),
		WithRotation(common.Quat{X: -0.44, Y: -0.34, Z: -0.19, W: 0.81}),
	}
	return NewCamera(append(base, options...)...)
}

func (c *cameraImpl) Position() common.Vec3 {
	return c.position
}

func (c *cameraImpl) Rotation() common.Quat {
	return c.rotation
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) Forward() common.Vec3 {
	return c.rotation.Rotate(common.Vec3Z.Neg())
}

func (c *cameraImpl) Right() common.Vec3 {
	return c.rotation.Rotate(common.Vec3X)
}

func (c *cameraImpl) Up() common.Vec3 {
	return c.rotation.Rotate(common.Vec3Y)
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	rot := c.rotation.Conjugate().Mat3()
	t := rot.MulVec3(c.position.Neg())
	return common.Mat4{
		{rot[0][0], rot[0][1], rot[0][2], t.X},
		{rot[1][0], rot[1][1], rot[1][2], t.Y},
		{rot[2][0], rot[2][1], rot[2][2], t.Z},
		{0, 0, 0, 1},
	}
}

func (c *cameraImpl) ProjectionMatrix(aspect float32) common.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return common.Perspective(c.fov, aspect, c.near, c.far)
}

func (c *cameraImpl) MoveForward(distance float32) {
	c.position = c.position.Add(c.Forward().Scale(distance))
}

func (c *cameraImpl) MoveRight(distance float32) {
	c.position = c.position.Add(c.Right().Scale(distance))
}

func (c *cameraImpl) MoveUp(distance float32) {
	c.position = c.position.Add(c.Up().Scale(distance))
}

func (c *cameraImpl) RotatePitch(angle float32) {
	c.rotateAbout(c.Right(), angle)
}

func (c *cameraImpl) RotateYaw(angle float32) {
	c.rotateAbout(c.Up(), angle)
}

func (c *cameraImpl) RotateRoll(angle float32) {
	c.rotateAbout(c.Forward(), angle)
}

// rotateAbout pre-multiplies a world-space rotation about axis, which for a local axis
// equals rotating in the camera's own frame.
func (c *cameraImpl) rotateAbout(axis common.Vec3, angle float32) {
	c.rotation = common.QuatFromAxisAngle(axis, angle).Mul(c.rotation).Normalize()
}

func (c *cameraImpl) AdjustFov(delta float32) {
	c.fov = common.Clamp(c.fov+delta, MinFov, MaxFov)
}

func (c *cameraImpl) LookAt(target common.Vec3) {
	dir := target.Sub(c.position).Normalize()
	if dir == (common.Vec3{}) {
		return
	}
	up := common.Vec3Y
	if abs := dir.Dot(up); abs > 0.999 || abs < -0.999 {
		up = common.Vec3Z
	}
	// LookAt's upper 3x3 is the inverse rotation; its transpose is the camera basis.
	basis := common.LookAt(c.position, target, up).Mat3().Transpose()
	c.rotation = common.QuatFromMat3(basis).Normalize()
}

func (c *cameraImpl) SetPosition(pos common.Vec3) {
	c.position = pos
}

func (c *cameraImpl) SetRotation(rot common.Quat) {
	c.rotation = rot.Normalize()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.fov = common.Clamp(fov, MinFov, MaxFov)
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect > 0 {
		c.aspect = aspect
	}
}

func (c *cameraImpl) SetNear(near float32) {
	c.near = near
}

func (c *cameraImpl) SetFar(far float32) {
	c.far = far
}

package camera

import "github.com/Carmen-Shannon/neothauma/common"

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's world-space position.
//
// Parameters:
//   - pos: eye position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(pos common.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = pos
	}
}

// WithRotation sets the camera's orientation. The quaternion is normalized.
//
// Parameters:
//   - rot: orientation quaternion
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's rotation
func WithRotation(rot common.Quat) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rotation = rot.Normalize()
	}
}

// WithTarget orients the camera toward a world-space point. Apply it after WithPosition.
//
// Parameters:
//   - target: point to look at
//
// Returns:
//   - CameraBuilderOption: a function that orients the camera
func WithTarget(target common.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.LookAt(target)
	}
}

// WithFov sets the camera's field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetFov(fov)
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetAspect(aspect)
	}
}

// WithClipPlanes sets the near and far clipping distances.
//
// Parameters:
//   - near: near plane distance, greater than zero
//   - far: far plane distance, greater than near
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

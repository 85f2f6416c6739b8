package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithMoveStep sets the translation applied per movement key press.
//
// Parameters:
//   - step: world units per press
//
// Returns:
//   - CameraControllerOption: a function that sets the move step
func WithMoveStep(step float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.steps.Move = step
	}
}

// WithRotateStep sets the rotation applied per pitch, yaw or roll key press.
//
// Parameters:
//   - step: radians per press
//
// Returns:
//   - CameraControllerOption: a function that sets the rotate step
func WithRotateStep(step float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.steps.Rotate = step
	}
}

// WithFovStep sets the field of view change per zoom key press.
//
// Parameters:
//   - step: radians per press
//
// Returns:
//   - CameraControllerOption: a function that sets the field of view step
func WithFovStep(step float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.steps.Fov = step
	}
}

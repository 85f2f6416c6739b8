package camera

import (
	"github.com/Carmen-Shannon/neothauma/common"
)

// CameraController translates discrete key presses into camera commands.
//
// The default bindings are:
//
//	W / S            move forward / backward
//	D / A            move right / left
//	Space / LShift   move up / down
//	Up / Down        pitch up / down
//	Left / Right     yaw left / right
//	E / Q            roll
//	= / -            widen / narrow the field of view
type CameraController interface {
	// HandleKey applies the command bound to key, if any.
	//
	// Parameters:
	//   - key: GLFW key code
	//
	// Returns:
	//   - bool: true if the key was bound and the camera changed
	HandleKey(key int) bool

	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera the controller mutates
	Camera() Camera

	// SetCamera replaces the controlled camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam Camera)

	// Bind maps key to a command, replacing any previous binding.
	//
	// Parameters:
	//   - key: GLFW key code
	//   - cmd: the command to run
	Bind(key int, cmd Command)
}

// Command is one camera mutation triggered by a key press.
type Command func(c Camera, steps Steps)

// Steps holds the increments applied by each command.
type Steps struct {
	// Move is the translation per press in world units.
	Move float32
	// Rotate is the rotation per press in radians.
	Rotate float32
	// Fov is the field of view change per press in radians.
	Fov float32
}

type cameraControllerImpl struct {
	camera   Camera
	steps    Steps
	bindings map[int]Command
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a key-driven controller for cam with the default bindings:
// 0.5 units per move, 0.2 radians per rotation and 1 degree per field of view step.
//
// Parameters:
//   - cam: the camera to control, may be nil and set later
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		camera: cam,
		steps: Steps{
			Move:   0.5,
			Rotate: 0.2,
			Fov:    common.Radians(1),
		},
		bindings: map[int]Command{
			common.KeyW:          func(c Camera, s Steps) { c.MoveForward(s.Move) },
			common.KeyS:          func(c Camera, s Steps) { c.MoveForward(-s.Move) },
			common.KeyD:          func(c Camera, s Steps) { c.MoveRight(s.Move) },
			common.KeyA:          func(c Camera, s Steps) { c.MoveRight(-s.Move) },
			common.KeySpace:      func(c Camera, s Steps) { c.MoveUp(s.Move) },
			common.KeyLeftShift:  func(c Camera, s Steps) { c.MoveUp(-s.Move) },
			common.KeyUp:         func(c Camera, s Steps) { c.RotatePitch(s.Rotate) },
			common.KeyDown:       func(c Camera, s Steps) { c.RotatePitch(-s.Rotate) },
			common.KeyLeft:       func(c Camera, s Steps) { c.RotateYaw(s.Rotate) },
			common.KeyRight:      func(c Camera, s Steps) { c.RotateYaw(-s.Rotate) },
			common.KeyE:          func(c Camera, s Steps) { c.RotateRoll(s.Rotate) },
			common.KeyQ:          func(c Camera, s Steps) { c.RotateRoll(-s.Rotate) },
			common.KeyEqual:      func(c Camera, s Steps) { c.AdjustFov(s.Fov) },
			common.KeyKPAdd:      func(c Camera, s Steps) { c.AdjustFov(s.Fov) },
			common.KeyMinus:      func(c Camera, s Steps) { c.AdjustFov(-s.Fov) },
			common.KeyKPSubtract: func(c Camera, s Steps) { c.AdjustFov(-s.Fov) },
		},
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) HandleKey(key int) bool {
	if cc.camera == nil {
		return false
	}
	cmd, ok := cc.bindings[key]
	if !ok {
		return false
	}
	cmd(cc.camera, cc.steps)
	return true
}

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.camera
}

func (cc *cameraControllerImpl) SetCamera(cam Camera) {
	cc.camera = cam
}

func (cc *cameraControllerImpl) Bind(key int, cmd Command) {
	if cmd == nil {
		delete(cc.bindings, key)
		return
	}
	cc.bindings[key] = cmd
}

package renderer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSurfaceLost is returned when the output surface was lost and has been reconfigured.
	// The frame is skipped and the next one can be attempted.
	ErrSurfaceLost = errors.New("renderer: surface lost")

	// ErrSurfaceOutdated is returned when the output surface no longer matches the window,
	// usually after a resize. The surface has been reconfigured.
	ErrSurfaceOutdated = errors.New("renderer: surface outdated")

	// ErrSurfaceTimeout is returned when no output frame became available in time.
	ErrSurfaceTimeout = errors.New("renderer: surface acquire timed out")

	// ErrPipelineNotFound is returned when a draw names a pipeline that was never registered.
	ErrPipelineNotFound = errors.New("renderer: pipeline not found")

	// ErrFrameInProgress is returned when a frame is begun while the previous one is unpresented.
	ErrFrameInProgress = errors.New("renderer: previous frame not yet presented")
)

// IsRecoverable reports whether err is a transient frame-acquire failure after which the frame
// should be skipped rather than treated as fatal.
//
// Parameters:
//   - err: the error returned by a frame operation
//
// Returns:
//   - bool: true for surface lost, outdated and timeout errors
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated) || errors.Is(err, ErrSurfaceTimeout)
}

// checkSurfaceSize rejects framebuffer sizes a surface cannot be configured with. A minimized
// window reports 0x0; frames are skipped as outdated until it is restored.
func checkSurfaceSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: framebuffer is %dx%d", ErrSurfaceOutdated, width, height)
	}
	return nil
}

// classifySurfaceError maps an error from acquiring the surface texture onto the renderer's
// sentinels. Unknown failures are wrapped unchanged.
func classifySurfaceError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "device"):
		return fmt.Errorf("renderer: acquire surface texture: %w", err)
	case strings.Contains(msg, "outdated"):
		return fmt.Errorf("%w: %v", ErrSurfaceOutdated, err)
	case strings.Contains(msg, "lost"):
		return fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	case strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", ErrSurfaceTimeout, err)
	default:
		return fmt.Errorf("renderer: acquire surface texture: %w", err)
	}
}

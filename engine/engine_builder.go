package engine

import (
	"github.com/Carmen-Shannon/neothauma/engine/camera"
	"github.com/Carmen-Shannon/neothauma/engine/config"
	"github.com/Carmen-Shannon/neothauma/engine/profiler"
	"github.com/Carmen-Shannon/neothauma/engine/renderer"
	"github.com/Carmen-Shannon/neothauma/engine/scene"
	"github.com/Carmen-Shannon/neothauma/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithConfig sets the configuration the engine starts with.
//
// Parameters:
//   - cfg: a validated configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
	}
}

// WithConfigPath makes Run watch the file at path and apply reloaded configurations between frames.
//
// Parameters:
//   - path: TOML configuration file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfigPath(path string) EngineBuilderOption {
	return func(e *engine) {
		e.configPath = path
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window the engine polls and renders to.
//
// Parameters:
//   - w: an opened Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer instead of creating one on the window.
//
// Parameters:
//   - r: the renderer shared by the engine's scenes
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithController sets the keyboard camera controller.
func WithController(c camera.CameraController) EngineBuilderOption {
	return func(e *engine) {
		e.controller = c
	}
}

// WithScene registers a scene at the given key during engine construction.
//
// Parameters:
//   - key: the priority of the scene (lower wins)
//   - s: the Scene to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scenes[key] = s
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

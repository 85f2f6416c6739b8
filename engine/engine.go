package engine

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/camera"
	"github.com/Carmen-Shannon/neothauma/engine/config"
	"github.com/Carmen-Shannon/neothauma/engine/ecs"
	"github.com/Carmen-Shannon/neothauma/engine/logger"
	"github.com/Carmen-Shannon/neothauma/engine/profiler"
	"github.com/Carmen-Shannon/neothauma/engine/renderer"
	"github.com/Carmen-Shannon/neothauma/engine/scene"
	"github.com/Carmen-Shannon/neothauma/engine/window"
)

// ErrNoWindow is returned by Run on an engine built without a window.
var ErrNoWindow = errors.New("engine: no window")

// engine implements the Engine interface.
type engine struct {
	cfg        config.Config
	configPath string
	reloads    <-chan config.Config

	window     window.Window
	renderer   renderer.Renderer
	controller camera.CameraController

	scenes map[int]scene.Scene

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback     func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	lastFrame     time.Time
	runErr        error
	missingCamera bool
}

// Engine drives the window, the renderer and the scenes from a single thread. Each iteration
// polls window events, applies pending configuration reloads, runs the tick callback, renders the
// first active scene and feeds the profiler. Scene stores are only mutated from callbacks on
// this thread, so they are never touched during a render.
type Engine interface {
	// Window returns the window, or nil for a headless engine.
	Window() window.Window

	// Renderer returns the renderer shared by every scene.
	Renderer() renderer.Renderer

	// Controller returns the keyboard camera controller. It follows the active scene's camera.
	Controller() camera.CameraController

	// Config returns the configuration currently applied.
	Config() config.Config

	// ApplyConfig applies the hot-reloadable settings of next: log level, ambient color, clear
	// color and profiler toggle. Changes to structural settings are logged as requiring a restart.
	//
	// Parameters:
	//   - next: a validated configuration
	ApplyConfig(next config.Config)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called before every frame.
	// Use it for scene logic; it may mutate scene stores freely.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given key. The active scene with the lowest key is rendered.
	//
	// Parameters:
	//   - key: the priority of the scene (lower wins)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given key.
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given key, or nil.
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by priority.
	Scenes() map[int]scene.Scene

	// ActiveScene returns the scene the next frame renders, or nil when none is active.
	ActiveScene() scene.Scene

	// Frame runs one iteration without polling the window: reloads, tick, render, profile.
	//
	// Returns:
	//   - scene.FrameStats: statistics of the rendered frame
	//   - error: the render error, if any
	Frame() (scene.FrameStats, error)

	// Resize forwards a framebuffer resize to every scene.
	Resize(width, height int)

	// Run runs the window message loop until the window closes or ctx is cancelled. When the engine
	// was built with a configuration path the file is watched and reloads are applied between frames.
	//
	// Parameters:
	//   - ctx: cancels the loop and the configuration watcher
	//
	// Returns:
	//   - error: ErrNoWindow, or the first non-recoverable render error
	Run(ctx context.Context) error

	// Quit closes the window, ending Run after the current frame. Safe to call multiple times.
	Quit()

	// Release frees the renderer and every scene's GPU resources.
	Release()
}

var _ Engine = &engine{}

// NewEngine creates an Engine. When a window is supplied and no renderer is, a WebGPU renderer is
// created on the window from the configuration.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		cfg:      config.Default(),
		scenes:   make(map[int]scene.Scene),
		profiler: profiler.NewProfiler(),
	}
	for _, opt := range options {
		opt(e)
	}

	if err := logger.SetLevel(e.cfg.Log.Level); err != nil {
		logger.Warn("engine: %v", err)
	}
	e.profilingEnabled = e.profilingEnabled || e.cfg.Profiler.Enabled

	if e.renderer == nil && e.window != nil {
		e.renderer = renderer.NewRenderer(e.window, renderer.WithConfig(e.cfg))
	}
	if e.controller == nil {
		e.controller = camera.NewCameraController(nil)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
		e.window.SetKeyDownCallback(func(key int) {
			e.followActiveCamera()
			e.controller.HandleKey(key)
		})
		e.window.SetScrollCallback(func(delta float32) {
			e.followActiveCamera()
			if cam := e.controller.Camera(); cam != nil {
				cam.AdjustFov(-delta * common.Radians(1))
			}
		})
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Controller() camera.CameraController {
	return e.controller
}

func (e *engine) Config() config.Config {
	return e.cfg
}

func (e *engine) ApplyConfig(next config.Config) {
	if e.cfg.RequiresRestart(next) {
		logger.Warn("config: window, msaa, present mode, shadow or light capacity changes need a restart")
	}
	if err := logger.SetLevel(next.Log.Level); err != nil {
		logger.Warn("config: %v", err)
	}
	if e.renderer != nil {
		e.renderer.SetClearColor(next.Renderer.ClearColor)
	}
	for _, s := range e.scenes {
		s.SetAmbient(next.AmbientColor())
	}
	if next.Profiler.Enabled && !e.profilingEnabled {
		e.EnableProfiler()
	} else if !next.Profiler.Enabled && e.profilingEnabled {
		e.DisableProfiler()
	}
	e.cfg = next
	logger.Info("config: reloaded")
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
	e.profiler.Reset()
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	return maps.Clone(e.scenes)
}

func (e *engine) ActiveScene() scene.Scene {
	for _, k := range slices.Sorted(maps.Keys(e.scenes)) {
		if s := e.scenes[k]; s.Active() {
			return s
		}
	}
	return nil
}

// followActiveCamera points the controller at the active scene's camera.
func (e *engine) followActiveCamera() {
	s := e.ActiveScene()
	if s == nil {
		return
	}
	if cam, err := s.Store().Camera(); err == nil && cam != e.controller.Camera() {
		e.controller.SetCamera(cam)
	}
}

func (e *engine) drainReloads() {
	for {
		select {
		case next, ok := <-e.reloads:
			if !ok {
				e.reloads = nil
				return
			}
			e.ApplyConfig(next)
		default:
			return
		}
	}
}

func (e *engine) Frame() (scene.FrameStats, error) {
	now := time.Now()
	var dt float32
	if !e.lastFrame.IsZero() {
		dt = float32(now.Sub(e.lastFrame).Seconds())
	}
	e.lastFrame = now

	e.drainReloads()
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	s := e.ActiveScene()
	if s == nil {
		return scene.FrameStats{}, nil
	}
	stats, err := s.Render()
	if e.profilingEnabled {
		e.profiler.Tick(stats.ShadowDraws+stats.MainDraws, stats.Skipped)
	}
	return stats, err
}

func (e *engine) Resize(width, height int) {
	for _, s := range e.scenes {
		s.Resize(width, height)
	}
}

func (e *engine) Run(ctx context.Context) error {
	if e.window == nil {
		return ErrNoWindow
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if e.configPath != "" {
		reloads, err := config.Watch(ctx, e.configPath)
		if err != nil {
			logger.Warn("engine: config hot reload disabled: %v", err)
		} else {
			e.reloads = reloads
		}
	}

	e.window.SetFrameCallback(func() {
		if ctx.Err() != nil {
			e.Quit()
			return
		}
		start := time.Now()
		_, err := e.Frame()
		switch {
		case err == nil:
			e.missingCamera = false
		case errors.Is(err, ecs.ErrNoActiveCamera):
			if !e.missingCamera {
				logger.Error("engine: %v, frames are skipped until a camera is set", err)
				e.missingCamera = true
			}
		default:
			e.runErr = fmt.Errorf("engine: render: %w", err)
			e.Quit()
			return
		}
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
	e.window.ProcessMessages()
	return e.runErr
}

func (e *engine) Quit() {
	if e.window != nil && e.window.IsRunning() {
		if err := e.window.Close(); err != nil {
			logger.Warn("engine: close window: %v", err)
		}
	}
}

func (e *engine) Release() {
	for _, s := range e.scenes {
		s.Store().Clear()
	}
	if e.renderer != nil {
		e.renderer.Release()
	}
}

package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/ecs"
	"github.com/Carmen-Shannon/neothauma/engine/light"
	"github.com/Carmen-Shannon/neothauma/engine/logger"
	"github.com/Carmen-Shannon/neothauma/engine/renderer"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// FrameStats summarizes one Render call.
type FrameStats struct {
	// Lights is the number of lights uploaded to the GPU.
	Lights int
	// ShadowDraws counts draw calls across all six shadow faces.
	ShadowDraws int
	// MainDraws counts draw calls in the main pass.
	MainDraws int
	// Skipped is set when the frame was dropped because of a recoverable surface error.
	Skipped bool
}

type scene struct {
	id     string
	name   string
	active bool

	store    ecs.Store
	renderer renderer.Renderer
	log      *log.Logger

	ambient    common.Vec3
	shadowNear float32
	shadowFar  float32
}

// Scene binds an entity store to a renderer and runs the per-frame shadow and main passes over it.
//
// A Scene is not safe for concurrent use. The store may only be mutated between Render calls.
type Scene interface {
	// ID returns the scene's unique instance id.
	ID() string

	// Name returns the scene's display name.
	Name() string

	// SetName sets the scene's display name.
	SetName(name string)

	// Active returns whether this scene is currently rendered by the engine.
	Active() bool

	// SetActive sets whether this scene is rendered by the engine.
	SetActive(active bool)

	// Store returns the scene's entity store.
	//
	// Returns:
	//   - ecs.Store: the store authored by scene-setup code
	Store() ecs.Store

	// Renderer returns the renderer the scene draws with.
	Renderer() renderer.Renderer

	// Ambient returns the ambient light color.
	Ambient() common.Vec3

	// SetAmbient sets the ambient light color uploaded with the light array.
	//
	// Parameters:
	//   - color: RGB ambient color
	SetAmbient(color common.Vec3)

	// ShadowPlanes returns the near and far planes of the point-light shadow projection.
	ShadowPlanes() (near, far float32)

	// Render draws one frame. The steps run in a fixed order: light collection and upload, shadow
	// matrix derivation for the first shadow-casting point light, the six shadow faces, the main
	// pass, submission and present. With no shadow caster the shadow pass is skipped and the main
	// pass still runs.
	//
	// Returns:
	//   - FrameStats: counts of lights and draws issued
	//   - error: ecs.ErrNoActiveCamera before any GPU work, or a non-recoverable GPU error.
	//     Recoverable surface errors skip the frame and return nil with Skipped set.
	Render() (FrameStats, error)

	// Resize reconfigures the renderer's surface and the camera's aspect ratio. Zero sizes are ignored.
	//
	// Parameters:
	//   - width: new surface width in pixels
	//   - height: new surface height in pixels
	Resize(width, height int)
}

var _ Scene = &scene{}

// NewScene creates a Scene drawing with r. Unless WithStore supplies one, the scene owns a new
// ecs.Store that creates renderables through r and holds at most r.MaxLights() lights.
//
// Parameters:
//   - r: the renderer to draw with
//   - options: functional options configuring the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if r == nil {
		panic("scene: nil renderer")
	}
	s := &scene{
		id:         uuid.NewString(),
		name:       "scene",
		active:     true,
		renderer:   r,
		ambient:    common.V3(0.1, 0.1, 0.1),
		shadowNear: light.DefaultShadowNear,
		shadowFar:  light.DefaultShadowFar,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.store == nil {
		s.store = ecs.NewStore(
			ecs.WithRenderableFactory(r),
			ecs.WithMaxLights(r.MaxLights()),
		)
	}
	s.log = logger.With("scene", s.name, "id", s.id)
	return s
}

func (s *scene) ID() string {
	return s.id
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) SetName(name string) {
	s.name = name
	s.log = logger.With("scene", s.name, "id", s.id)
}

func (s *scene) Active() bool {
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.active = active
}

func (s *scene) Store() ecs.Store {
	return s.store
}

func (s *scene) Renderer() renderer.Renderer {
	return s.renderer
}

func (s *scene) Ambient() common.Vec3 {
	return s.ambient
}

func (s *scene) SetAmbient(color common.Vec3) {
	s.ambient = color
}

func (s *scene) ShadowPlanes() (float32, float32) {
	return s.shadowNear, s.shadowFar
}

func (s *scene) Render() (FrameStats, error) {
	var stats FrameStats

	cam, err := s.store.Camera()
	if err != nil {
		return stats, err
	}

	lights := s.store.CollectLights()
	stats.Lights = int(s.renderer.UploadLights(lights, s.ambient))
	items := s.store.Renderables()

	var shadow shadowState
	if caster, ok := shadowCaster(lights[:stats.Lights]); ok {
		shadow = shadowState{
			enabled:  true,
			position: caster.Position,
			faces:    light.ShadowMatrices(caster.Position, s.shadowNear, s.shadowFar),
		}
		n, err := s.renderShadows(items, shadow.faces)
		stats.ShadowDraws = n
		if err != nil {
			return stats, err
		}
	}

	if err := s.renderer.BeginFrame(); err != nil {
		if renderer.IsRecoverable(err) {
			s.log.Warnf("frame skipped: %v", err)
			stats.Skipped = true
			return stats, nil
		}
		return stats, fmt.Errorf("scene: begin frame: %w", err)
	}

	view := cam.ViewMatrix()
	projection := cam.ProjectionMatrix(s.renderer.Aspect())
	for _, item := range items {
		model := item.Transform.Matrix()
		u := renderer.GPUObjectUniform{
			Model:          model,
			View:           view,
			Projection:     projection,
			NormalMatrix:   model.NormalMatrix(),
			LightSpace:     shadow.faces[light.CubeFacePosX],
			CameraPosition: cam.Position(),
			LightPosition:  shadow.position,
			LightNear:      s.shadowNear,
			LightFar:       s.shadowFar,
			ShadowEnabled:  shadow.enabled,
		}
		if err := s.renderer.Draw(item.Renderable, u); err != nil {
			s.renderer.EndFrame()
			return stats, fmt.Errorf("scene: draw entity %d: %w", item.Entity, err)
		}
		stats.MainDraws++
	}
	s.renderer.EndFrame()
	s.renderer.Present()
	return stats, nil
}

type shadowState struct {
	enabled  bool
	position common.Vec3
	faces    [light.CubeFaceCount]common.Mat4
}

func shadowCaster(lights []light.Light) (light.Light, bool) {
	for _, l := range lights {
		if l.IsShadowCaster() {
			return l, true
		}
	}
	return light.Light{}, false
}

// renderShadows records the six cube faces, drawing every renderable into each.
func (s *scene) renderShadows(items []ecs.RenderItem, faces [light.CubeFaceCount]common.Mat4) (int, error) {
	if err := s.renderer.BeginShadowFrame(); err != nil {
		return 0, fmt.Errorf("scene: begin shadow frame: %w", err)
	}

	models := make([]common.Mat4, len(items))
	for i, item := range items {
		models[i] = item.Transform.Matrix()
	}

	draws := 0
	for face := light.CubeFace(0); face < light.CubeFaceCount; face++ {
		s.renderer.BeginShadowFace(face)
		for i, item := range items {
			u := light.GPUShadowUniform{Model: models[i], LightSpace: faces[face]}
			if err := s.renderer.DrawShadow(item.Renderable, face, u); err != nil {
				s.renderer.EndShadowFace()
				s.renderer.EndShadowFrame()
				return draws, fmt.Errorf("scene: shadow face %s entity %d: %w", face, item.Entity, err)
			}
			draws++
		}
		s.renderer.EndShadowFace()
	}
	s.renderer.EndShadowFrame()
	return draws, nil
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.renderer.Resize(width, height)
	if cam, err := s.store.Camera(); err == nil {
		cam.SetAspect(s.renderer.Aspect())
	}
}

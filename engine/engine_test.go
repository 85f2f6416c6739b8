package engine

import (
	"context"
	"testing"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/camera"
	"github.com/Carmen-Shannon/neothauma/engine/config"
	"github.com/Carmen-Shannon/neothauma/engine/ecs"
	"github.com/Carmen-Shannon/neothauma/engine/logger"
	"github.com/Carmen-Shannon/neothauma/engine/mesh"
	"github.com/Carmen-Shannon/neothauma/engine/renderer"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/neothauma/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadlessEngine(t *testing.T, opts ...EngineBuilderOption) (Engine, *renderertest.Backend) {
	t.Helper()
	backend := renderertest.NewBackend()
	r := renderer.NewRenderer(nil, renderer.WithBackend(backend), renderer.WithSurfaceSize(640, 480))
	e := NewEngine(append([]EngineBuilderOption{WithRenderer(r)}, opts...)...)
	t.Cleanup(e.Release)
	return e, backend
}

func cubeScene(t *testing.T, r renderer.Renderer, active bool) scene.Scene {
	t.Helper()
	s := scene.NewScene(r, scene.WithActive(active))
	s.Store().SetCamera(camera.NewDefaultCamera())
	id := s.Store().CreateEntity()
	require.NoError(t, s.Store().AddMesh(id, mesh.Cube()))
	return s
}

func TestRunWithoutWindow(t *testing.T) {
	e, _ := newHeadlessEngine(t)
	assert.ErrorIs(t, e.Run(context.Background()), ErrNoWindow)
}

func TestFrameRendersLowestActiveScene(t *testing.T) {
	e, backend := newHeadlessEngine(t)
	inactive := cubeScene(t, e.Renderer(), false)
	active := cubeScene(t, e.Renderer(), true)
	e.AddScene(0, inactive)
	e.AddScene(1, active)
	assert.Same(t, active, e.ActiveScene())

	backend.Reset()
	stats, err := e.Frame()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MainDraws)
	require.Len(t, backend.MainDraws, 1)
	assert.Equal(t, "entity-1 mesh", backend.MainDraws[0].Mesh)

	e.RemoveScene(1)
	assert.Nil(t, e.ActiveScene())
	stats, err = e.Frame()
	require.NoError(t, err)
	assert.Equal(t, scene.FrameStats{}, stats)
}

func TestFrameRunsTickBeforeRender(t *testing.T) {
	e, _ := newHeadlessEngine(t)
	s := scene.NewScene(e.Renderer())
	e.AddScene(0, s)

	var ticks int
	e.SetTickCallback(func(float32) {
		ticks++
		s.Store().SetCamera(camera.NewDefaultCamera())
	})
	_, err := e.Frame()
	require.NoError(t, err)
	assert.Equal(t, 1, ticks)
}

func TestFrameWithoutCamera(t *testing.T) {
	e, _ := newHeadlessEngine(t)
	e.AddScene(0, scene.NewScene(e.Renderer()))
	_, err := e.Frame()
	assert.ErrorIs(t, err, ecs.ErrNoActiveCamera)
}

func TestApplyConfigHotReload(t *testing.T) {
	e, backend := newHeadlessEngine(t)
	s := cubeScene(t, e.Renderer(), true)
	e.AddScene(0, s)

	next := config.Default()
	next.Renderer.ClearColor = [3]float64{0.3, 0.2, 0.1}
	next.Scene.Ambient = [3]float32{0.5, 0.5, 0.5}
	next.Profiler.Enabled = true
	next.Log.Level = "debug"
	e.ApplyConfig(next)
	t.Cleanup(func() { _ = logger.SetLevel("info") })

	assert.Equal(t, [3]float64{0.3, 0.2, 0.1}, backend.ClearColor)
	assert.Equal(t, common.V3(0.5, 0.5, 0.5), s.Ambient())
	assert.Equal(t, next, e.Config())

	_, err := e.Frame()
	assert.NoError(t, err)
}

func TestDrainReloads(t *testing.T) {
	e, backend := newHeadlessEngine(t)
	impl := e.(*engine)
	reloads := make(chan config.Config, 1)
	impl.reloads = reloads

	next := config.Default()
	next.Renderer.ClearColor = [3]float64{1, 1, 1}
	reloads <- next
	close(reloads)

	_, err := e.Frame()
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 1, 1}, backend.ClearColor)
	assert.Nil(t, impl.reloads)
}

func TestResizeForwardsToScenes(t *testing.T) {
	e, backend := newHeadlessEngine(t)
	s := cubeScene(t, e.Renderer(), true)
	e.AddScene(0, s)

	e.Resize(1600, 900)
	assert.Equal(t, 1600, backend.Width)
	cam, err := s.Store().Camera()
	require.NoError(t, err)
	assert.InDelta(t, 1600.0/900.0, cam.Aspect(), 1e-5)
}

func TestControllerFollowsActiveCamera(t *testing.T) {
	e, _ := newHeadlessEngine(t)
	s := cubeScene(t, e.Renderer(), true)
	e.AddScene(0, s)

	impl := e.(*engine)
	impl.followActiveCamera()
	cam, _ := s.Store().Camera()
	assert.Same(t, cam, e.Controller().Camera())

	before := cam.Position()
	assert.True(t, e.Controller().HandleKey(common.KeyW))
	assert.NotEqual(t, before, cam.Position())
}

func TestSetRenderFrameLimit(t *testing.T) {
	e, _ := newHeadlessEngine(t, WithRenderFrameLimit(50))
	impl := e.(*engine)
	assert.Equal(t, int64(20_000_000), impl.renderFrameLimit.Nanoseconds())
	e.SetRenderFrameLimit(0)
	assert.Zero(t, impl.renderFrameLimit)
}

func TestScenesReturnsCopy(t *testing.T) {
	e, _ := newHeadlessEngine(t)
	e.AddScene(3, cubeScene(t, e.Renderer(), true))
	scenes := e.Scenes()
	delete(scenes, 3)
	assert.NotNil(t, e.Scene(3))
}

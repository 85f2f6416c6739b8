package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/camera"
	"github.com/Carmen-Shannon/neothauma/engine/ecs"
	"github.com/Carmen-Shannon/neothauma/engine/light"
	"github.com/Carmen-Shannon/neothauma/engine/mesh"
	"github.com/Carmen-Shannon/neothauma/engine/renderer"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, opts ...SceneBuilderOption) (Scene, *renderertest.Backend) {
	t.Helper()
	backend := renderertest.NewBackend()
	r := renderer.NewRenderer(nil, renderer.WithBackend(backend), renderer.WithSurfaceSize(800, 600))
	t.Cleanup(r.Release)
	return NewScene(r, opts...), backend
}

func lookAtOrigin() camera.Camera {
	return camera.NewCamera(
		camera.WithPosition(common.V3(0, 0, 5)),
		camera.WithTarget(common.Vec3Zero),
	)
}

func addCube(t *testing.T, s ecs.Store, pos common.Vec3) ecs.Entity {
	t.Helper()
	id := s.CreateEntity()
	tr := ecs.NewTransform()
	tr.Position = pos
	s.AddTransform(id, tr)
	require.NoError(t, s.AddMesh(id, mesh.Cube()))
	return id
}

func addLight(t *testing.T, s ecs.Store, pos common.Vec3, opts ...light.LightBuilderOption) ecs.Entity {
	t.Helper()
	id := s.CreateEntity()
	tr := ecs.NewTransform()
	tr.Position = pos
	s.AddTransform(id, tr)
	require.NoError(t, s.AddLight(id, light.NewLight(opts...)))
	return id
}

func TestRenderCubeWithoutLights(t *testing.T) {
	sc, backend := newTestScene(t)
	sc.Store().SetCamera(lookAtOrigin())
	addCube(t, sc.Store(), common.Vec3Zero)
	backend.Reset()

	stats, err := sc.Render()
	require.NoError(t, err)
	assert.Equal(t, FrameStats{MainDraws: 1}, stats)

	assert.Empty(t, backend.ShadowDraws)
	require.Len(t, backend.MainDraws, 1)
	assert.Equal(t, 36, backend.MainDraws[0].IndexCount)
	assert.Equal(t, 1, backend.Presents)
	assert.NotContains(t, backend.Ops, "BeginShadowFrame")
}

func TestRenderWithShadowCaster(t *testing.T) {
	sc, backend := newTestScene(t)
	sc.Store().SetCamera(lookAtOrigin())
	addCube(t, sc.Store(), common.Vec3Zero)
	addLight(t, sc.Store(), common.V3(0, 5, 0), light.WithIntensity(10), light.WithRange(1000))
	backend.Reset()

	stats, err := sc.Render()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Lights)
	assert.Equal(t, light.CubeFaceCount, stats.ShadowDraws)
	assert.Equal(t, 1, stats.MainDraws)

	require.Len(t, backend.ShadowDraws, light.CubeFaceCount)
	for i, d := range backend.ShadowDraws {
		assert.Equal(t, i, d.Face)
		assert.Equal(t, 36, d.IndexCount)
	}
	require.Len(t, backend.MainDraws, 1)

	// shadow submission strictly precedes the main pass
	endShadow := indexOf(backend.Ops, "EndShadowFrame")
	beginMain := indexOf(backend.Ops, "BeginFrame")
	require.NotEqual(t, -1, endShadow)
	assert.Less(t, endShadow, beginMain)

	data, ok := backend.LastWrite("entity-1 object", 0)
	require.True(t, ok)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[352:356]), "shadow enabled")
}

func TestRenderLightCountMatchesGPU(t *testing.T) {
	sc, backend := newTestScene(t)
	sc.Store().SetCamera(lookAtOrigin())
	for i := range 3 {
		addLight(t, sc.Store(), common.V3(float32(i), 2, 0))
	}
	backend.Reset()

	stats, err := sc.Render()
	require.NoError(t, err)

	collected := sc.Store().CollectLights()
	info, ok := backend.LastWrite("lighting", shader.BindingLightInfo)
	require.True(t, ok)
	assert.Equal(t, uint32(len(collected)), binary.LittleEndian.Uint32(info[12:16]))
	assert.Equal(t, len(collected), stats.Lights)
	assert.Zero(t, stats.ShadowDraws, "no renderables to draw into the shadow map")
}

func TestRenderDirectionalLightSkipsShadows(t *testing.T) {
	sc, backend := newTestScene(t)
	sc.Store().SetCamera(lookAtOrigin())
	addCube(t, sc.Store(), common.Vec3Zero)
	addLight(t, sc.Store(), common.V3(0, 1, 0), light.WithType(light.LightTypeDirectional))
	backend.Reset()

	stats, err := sc.Render()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Lights)
	assert.Zero(t, stats.ShadowDraws)
	assert.Equal(t, 1, stats.MainDraws)

	data, ok := backend.LastWrite("entity-1 object", 0)
	require.True(t, ok)
	assert.Zero(t, binary.LittleEndian.Uint32(data[352:356]))
}

func TestRenderWithoutCamera(t *testing.T) {
	sc, backend := newTestScene(t)
	addCube(t, sc.Store(), common.Vec3Zero)
	backend.Reset()

	_, err := sc.Render()
	assert.ErrorIs(t, err, ecs.ErrNoActiveCamera)
	assert.Empty(t, backend.MainDraws)
	assert.Empty(t, backend.ShadowDraws)
	assert.Empty(t, backend.Ops)
}

func TestRenderSkipsRecoverableSurfaceError(t *testing.T) {
	sc, backend := newTestScene(t)
	sc.Store().SetCamera(lookAtOrigin())
	addCube(t, sc.Store(), common.Vec3Zero)
	backend.Reset()
	backend.FailNextFrame(renderer.ErrSurfaceLost)

	stats, err := sc.Render()
	require.NoError(t, err)
	assert.True(t, stats.Skipped)
	assert.Empty(t, backend.MainDraws)
	assert.Zero(t, backend.Presents)

	stats, err = sc.Render()
	require.NoError(t, err)
	assert.False(t, stats.Skipped)
	assert.Len(t, backend.MainDraws, 1)
}

func TestRenderPropagatesFatalSurfaceError(t *testing.T) {
	sc, backend := newTestScene(t)
	sc.Store().SetCamera(lookAtOrigin())
	fatal := errors.New("device destroyed")
	backend.FailNextFrame(fatal)

	_, err := sc.Render()
	assert.ErrorIs(t, err, fatal)
}

func TestRenderDrawsInEntityOrder(t *testing.T) {
	sc, backend := newTestScene(t)
	sc.Store().SetCamera(lookAtOrigin())
	for i := range 4 {
		addCube(t, sc.Store(), common.V3(float32(i), 0, 0))
	}
	backend.Reset()

	_, err := sc.Render()
	require.NoError(t, err)
	require.Len(t, backend.MainDraws, 4)
	for i, d := range backend.MainDraws {
		assert.Equal(t, renderableLabel(i+1)+" mesh", d.Mesh)
	}
}

func TestResizeUpdatesCameraAspect(t *testing.T) {
	sc, backend := newTestScene(t)
	cam := lookAtOrigin()
	sc.Store().SetCamera(cam)

	sc.Resize(1920, 1080)
	assert.Equal(t, 1920, backend.Width)
	assert.InDelta(t, 1920.0/1080.0, cam.Aspect(), 1e-5)

	sc.Resize(0, 1080)
	assert.Equal(t, 1920, backend.Width)
}

func TestSceneDefaultsAndOptions(t *testing.T) {
	sc, _ := newTestScene(t,
		WithName("demo"),
		WithActive(false),
		WithAmbient(common.V3(0.2, 0.2, 0.2)),
		WithShadowPlanes(0.5, 50),
	)
	assert.Equal(t, "demo", sc.Name())
	assert.False(t, sc.Active())
	assert.Equal(t, common.V3(0.2, 0.2, 0.2), sc.Ambient())
	near, far := sc.ShadowPlanes()
	assert.Equal(t, float32(0.5), near)
	assert.Equal(t, float32(50), far)
	assert.Len(t, sc.ID(), 36)
	assert.Equal(t, sc.Renderer().MaxLights(), sc.Store().MaxLights())

	assert.Panics(t, func() { NewScene(nil) })
}

func indexOf(ops []string, op string) int {
	for i, o := range ops {
		if o == op {
			return i
		}
	}
	return -1
}

func renderableLabel(id int) string {
	return fmt.Sprintf("entity-%d", id)
}

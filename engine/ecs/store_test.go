package ecs

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/camera"
	"github.com/Carmen-Shannon/neothauma/engine/light"
	"github.com/Carmen-Shannon/neothauma/engine/mesh"
	"github.com/Carmen-Shannon/neothauma/engine/renderer"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts ...StoreBuilderOption) Store {
	t.Helper()
	r := renderer.NewRenderer(nil, renderer.WithBackend(renderertest.NewBackend()))
	t.Cleanup(r.Release)
	return NewStore(append([]StoreBuilderOption{WithRenderableFactory(r)}, opts...)...)
}

type failingFactory struct{}

func (failingFactory) NewRenderable(string, mesh.Mesh) (renderer.RenderableMesh, error) {
	return nil, errors.New("out of memory")
}

func TestCreateEntityIncreases(t *testing.T) {
	s := NewStore()
	prev := s.CreateEntity()
	for range 10 {
		next := s.CreateEntity()
		assert.Greater(t, next, prev)
		prev = next
	}
	s.DeleteEntity(prev)
	assert.Greater(t, s.CreateEntity(), prev)
}

func TestDeleteEntityDropsComponents(t *testing.T) {
	s := newTestStore(t)
	id := s.CreateEntity()
	s.AddTransform(id, NewTransform())
	require.NoError(t, s.AddMesh(id, mesh.Cube()))
	require.NoError(t, s.AddLight(id, light.NewLight()))

	r, ok := s.Renderable(id)
	require.True(t, ok)
	require.Equal(t, 36, r.IndexCount())

	s.DeleteEntity(id)
	_, ok = s.Transform(id)
	assert.False(t, ok)
	_, ok = s.Mesh(id)
	assert.False(t, ok)
	_, ok = s.Light(id)
	assert.False(t, ok)
	_, ok = s.Renderable(id)
	assert.False(t, ok)
	assert.Equal(t, 0, r.IndexCount(), "renderable released")
	assert.Empty(t, s.Entities())

	assert.NotPanics(t, func() { s.DeleteEntity(id) })
}

func TestAddMeshAddsDefaultTransform(t *testing.T) {
	s := newTestStore(t)
	id := s.CreateEntity()
	require.NoError(t, s.AddMesh(id, mesh.Sphere(8)))

	tr, ok := s.Transform(id)
	require.True(t, ok)
	assert.Equal(t, NewTransform(), tr)

	items := s.Renderables()
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].Entity)
	assert.Equal(t, "entity-1", items[0].Renderable.Label())
}

func TestAddMeshReplacesRenderable(t *testing.T) {
	s := newTestStore(t)
	id := s.CreateEntity()
	require.NoError(t, s.AddMesh(id, mesh.Cube()))
	first, _ := s.Renderable(id)

	require.NoError(t, s.AddMesh(id, mesh.Cone(8)))
	second, _ := s.Renderable(id)
	assert.Equal(t, 0, first.IndexCount())
	assert.Equal(t, 48, second.IndexCount())

	s.RemoveMesh(id)
	_, ok := s.Renderable(id)
	assert.False(t, ok)
	_, ok = s.Transform(id)
	assert.True(t, ok)
}

func TestAddMeshErrors(t *testing.T) {
	s := NewStore()
	id := s.CreateEntity()
	assert.ErrorIs(t, s.AddMesh(id, mesh.Cube()), ErrNoRenderableFactory)
	assert.ErrorIs(t, s.AddMesh(99, mesh.Cube()), ErrUnknownEntity)

	s = NewStore(WithRenderableFactory(failingFactory{}))
	id = s.CreateEntity()
	err := s.AddMesh(id, mesh.Cube())
	assert.ErrorContains(t, err, "out of memory")
	_, ok := s.Mesh(id)
	assert.False(t, ok)
}

func TestAddTransformUnknownEntityIgnored(t *testing.T) {
	s := NewStore()
	s.AddTransform(42, NewTransform())
	_, ok := s.Transform(42)
	assert.False(t, ok)
}

func TestLightCapacity(t *testing.T) {
	s := NewStore(WithMaxLights(2))
	a, b, c := s.CreateEntity(), s.CreateEntity(), s.CreateEntity()

	require.NoError(t, s.AddLight(a, light.NewLight()))
	require.NoError(t, s.AddLight(b, light.NewLight()))
	assert.ErrorIs(t, s.AddLight(c, light.NewLight()), ErrLightCapacity)
	assert.NoError(t, s.AddLight(b, light.NewLight(light.WithIntensity(3))), "replacing is allowed")
	assert.Equal(t, 2, s.LightCount())

	s.RemoveLight(a)
	assert.NoError(t, s.AddLight(c, light.NewLight()))
}

func TestEditLight(t *testing.T) {
	s := NewStore()
	id := s.CreateEntity()
	s.EditLight(id, common.Vec3One, 2, 3)
	_, ok := s.Light(id)
	assert.False(t, ok, "edit without a light is a no-op")

	require.NoError(t, s.AddLight(id, light.NewLight()))
	s.EditLight(id, common.V3(1, 0, 0), 5, 50)
	l, ok := s.Light(id)
	require.True(t, ok)
	assert.Equal(t, common.V3(1, 0, 0), l.Color)
	assert.Equal(t, float32(5), l.Intensity)
	assert.Equal(t, float32(50), l.Range)
}

func TestCollectLightsSyncsPosition(t *testing.T) {
	s := NewStore()
	id := s.CreateEntity()
	tr := NewTransform()
	tr.Position = common.V3(0, 5, 0)
	s.AddTransform(id, tr)
	require.NoError(t, s.AddLight(id, light.NewLight(light.WithIntensity(10), light.WithRange(1000))))

	lights := s.CollectLights()
	require.Len(t, lights, 1)
	assert.Equal(t, common.V3(0, 5, 0), lights[0].Position)

	tr.Translate(common.V3(1, 0, 0))
	s.AddTransform(id, tr)
	lights = s.CollectLights()
	assert.Equal(t, common.V3(1, 5, 0), lights[0].Position)
	l, _ := s.Light(id)
	assert.Equal(t, common.V3(1, 5, 0), l.Position)
}

func TestCollectLightsOrder(t *testing.T) {
	s := NewStore()
	var ids []Entity
	for i := range 8 {
		id := s.CreateEntity()
		ids = append(ids, id)
		tr := NewTransform()
		tr.Position = common.V3(float32(i), 0, 0)
		s.AddTransform(id, tr)
		require.NoError(t, s.AddLight(id, light.NewLight()))
	}

	first := s.CollectLights()
	require.Len(t, first, len(ids))
	assert.Equal(t, s.LightCount(), len(first))
	for i, l := range first {
		assert.Equal(t, float32(i), l.Position.X)
	}
	assert.Equal(t, first, s.CollectLights())
}

func TestCamera(t *testing.T) {
	s := NewStore()
	_, err := s.Camera()
	assert.ErrorIs(t, err, ErrNoActiveCamera)

	cam := camera.NewDefaultCamera()
	s.SetCamera(cam)
	got, err := s.Camera()
	require.NoError(t, err)
	assert.Same(t, cam, got)

	s = NewStore(WithCamera(cam))
	_, err = s.Camera()
	assert.NoError(t, err)
}

func TestClearKeepsCamera(t *testing.T) {
	s := newTestStore(t, WithCamera(camera.NewDefaultCamera()))
	for range 3 {
		id := s.CreateEntity()
		require.NoError(t, s.AddMesh(id, mesh.Cube()))
	}
	s.Clear()
	assert.Empty(t, s.Entities())
	assert.Empty(t, s.Renderables())
	_, err := s.Camera()
	assert.NoError(t, err)
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	assert.True(t, tr.Matrix().ApproxEqual(common.Mat4Identity(), 1e-6))

	tr.Position = common.V3(1, 2, 3)
	tr.Scale = common.V3(2, 2, 2)
	tr.Rotate(common.QuatFromAxisAngle(common.Vec3Y, common.Radians(90)))
	p := tr.Matrix().MulPoint(common.Vec3X)
	assert.InDelta(t, 1, p.X, 1e-5)
	assert.InDelta(t, 2, p.Y, 1e-5)
	assert.InDelta(t, 1, p.Z, 1e-5)
}

package main

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/camera"
	"github.com/Carmen-Shannon/neothauma/engine/config"
	"github.com/Carmen-Shannon/neothauma/engine/ecs"
	"github.com/Carmen-Shannon/neothauma/engine/light"
	"github.com/Carmen-Shannon/neothauma/engine/mesh"
)

type placement struct {
	request  mesh.Request
	position common.Vec3
	scale    common.Vec3
}

// demoLayout is a floor slab, the stretched and the offset cube, and one of each round primitive.
var demoLayout = []placement{
	{mesh.Request{Shape: mesh.ShapeCube}, common.V3(0, -1, 0), common.V3(20, 0.2, 20)},
	{mesh.Request{Shape: mesh.ShapeCube}, common.V3(0, 0, 0), common.V3(6, 1, 1)},
	{mesh.Request{Shape: mesh.ShapeCube}, common.V3(0, 0, 4), common.Vec3One},
	{mesh.Request{Shape: mesh.ShapeCone, Segments: 32}, common.V3(-3, 0, -3), common.Vec3One},
	{mesh.Request{Shape: mesh.ShapeCylinder, Segments: 32}, common.V3(0, 0, -3), common.Vec3One},
	{mesh.Request{Shape: mesh.ShapeSphere, Segments: 32}, common.V3(3, 0, -3), common.V3(0.5, 0.5, 0.5)},
}

// buildDemo populates store with the demo entities, a shadow-casting point light and the camera.
func buildDemo(store ecs.Store, cfg config.Config, aspect float32) error {
	requests := make([]mesh.Request, len(demoLayout))
	for i, p := range demoLayout {
		requests[i] = p.request
	}
	meshes, err := mesh.GenerateBatch(runtime.NumCPU(), requests...)
	if err != nil {
		return err
	}

	for i, p := range demoLayout {
		id := store.CreateEntity()
		t := ecs.NewTransform()
		t.Position, t.Scale = p.position, p.scale
		store.AddTransform(id, t)
		if err := store.AddMesh(id, meshes[i]); err != nil {
			return fmt.Errorf("%s %d: %w", p.request.Shape, id, err)
		}
	}

	lamp := store.CreateEntity()
	t := ecs.NewTransform()
	t.Position = common.V3(0, 5, 0)
	store.AddTransform(lamp, t)
	if err := store.AddLight(lamp, light.NewLight(
		light.WithColor(1, 0.95, 0.85),
		light.WithIntensity(10),
		light.WithRange(1000),
	)); err != nil {
		return err
	}

	store.SetCamera(camera.NewDefaultCamera(
		camera.WithFov(common.Radians(cfg.Scene.FOVDegrees)),
		camera.WithClipPlanes(cfg.Scene.Near, cfg.Scene.Far),
		camera.WithAspect(aspect),
	))
	return nil
}

// Package ecs holds every per-entity component in one map per component kind, plus the single
// active camera. Entity counts are small, so lookups favour simplicity over memory layout.
package ecs

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/camera"
	"github.com/Carmen-Shannon/neothauma/engine/config"
	"github.com/Carmen-Shannon/neothauma/engine/light"
	"github.com/Carmen-Shannon/neothauma/engine/logger"
	"github.com/Carmen-Shannon/neothauma/engine/mesh"
	"github.com/Carmen-Shannon/neothauma/engine/renderer"
)

var (
	// ErrNoActiveCamera is returned when the camera is requested before one is set.
	ErrNoActiveCamera = errors.New("ecs: no active camera")

	// ErrLightCapacity is returned when adding a light to a store that already holds MaxLights lights.
	ErrLightCapacity = errors.New("ecs: light capacity reached")

	// ErrNoRenderableFactory is returned by AddMesh on a store built without a renderable factory.
	ErrNoRenderableFactory = errors.New("ecs: no renderable factory")

	// ErrUnknownEntity is returned when a component is attached to an id the store never created
	// or has already deleted.
	ErrUnknownEntity = errors.New("ecs: unknown entity")
)

// RenderableFactory creates the GPU-resident form of a mesh. renderer.Renderer satisfies it.
type RenderableFactory interface {
	NewRenderable(label string, m mesh.Mesh) (renderer.RenderableMesh, error)
}

// RenderItem is one drawable entity as seen by a frame.
type RenderItem struct {
	Entity     Entity
	Transform  Transform
	Renderable renderer.RenderableMesh
}

type store struct {
	nextID   Entity
	entities map[Entity]struct{}

	transforms  map[Entity]Transform
	meshes      map[Entity]mesh.Mesh
	lights      map[Entity]light.Light
	renderables map[Entity]renderer.RenderableMesh

	camera    camera.Camera
	factory   RenderableFactory
	maxLights int
}

// Store owns all entity components and the active camera.
//
// A Store is not safe for concurrent use. It must only be mutated between frames, from the same
// thread that renders.
type Store interface {
	// CreateEntity allocates a new entity id. Ids strictly increase and are never reused.
	//
	// Returns:
	//   - Entity: the new id
	CreateEntity() Entity

	// DeleteEntity drops every component of id and releases its renderable. Unknown ids are ignored.
	//
	// Parameters:
	//   - id: the entity to delete
	DeleteEntity(id Entity)

	// AddTransform inserts or replaces the transform of id. Unknown ids are ignored with a warning.
	//
	// Parameters:
	//   - id: the entity
	//   - t: the transform
	AddTransform(id Entity, t Transform)

	// AddMesh inserts or replaces the mesh of id and eagerly creates its renderable. An entity
	// without a transform gets the identity transform. A replaced renderable is released.
	//
	// Parameters:
	//   - id: the entity
	//   - m: the mesh, copied into the store
	//
	// Returns:
	//   - error: ErrUnknownEntity, ErrNoRenderableFactory or a renderable creation failure
	AddMesh(id Entity, m mesh.Mesh) error

	// RemoveMesh drops the mesh of id and releases its renderable. The transform is kept.
	//
	// Parameters:
	//   - id: the entity
	RemoveMesh(id Entity)

	// AddLight inserts or replaces the light of id. Replacing never fails on capacity.
	//
	// Parameters:
	//   - id: the entity
	//   - l: the light; its position is overwritten from the transform on collection
	//
	// Returns:
	//   - error: ErrUnknownEntity or ErrLightCapacity
	AddLight(id Entity, l light.Light) error

	// EditLight changes a light's color, intensity and range in place. No-op without a light.
	//
	// Parameters:
	//   - id: the entity
	//   - color: RGB color
	//   - intensity: brightness multiplier
	//   - lightRange: attenuation range
	EditLight(id Entity, color common.Vec3, intensity, lightRange float32)

	// RemoveLight drops the light of id.
	//
	// Parameters:
	//   - id: the entity
	RemoveLight(id Entity)

	// CollectLights copies each entity's transform position into its light and returns the lights
	// in ascending entity order. The order is stable across calls while no lights are added or removed.
	//
	// Returns:
	//   - []light.Light: snapshot of every light
	CollectLights() []light.Light

	// SetCamera sets the active camera. nil clears it.
	//
	// Parameters:
	//   - cam: the camera
	SetCamera(cam camera.Camera)

	// Camera returns the active camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	//   - error: ErrNoActiveCamera when none is set
	Camera() (camera.Camera, error)

	// Transform looks up the transform of id.
	Transform(id Entity) (Transform, bool)

	// Mesh looks up the CPU mesh of id.
	Mesh(id Entity) (mesh.Mesh, bool)

	// Light looks up the light of id.
	Light(id Entity) (light.Light, bool)

	// Renderable looks up the GPU-resident mesh of id.
	Renderable(id Entity) (renderer.RenderableMesh, bool)

	// Entities returns every live entity in ascending order.
	Entities() []Entity

	// Renderables returns every entity with a renderable, in ascending entity order.
	//
	// Returns:
	//   - []RenderItem: entity, transform and renderable of each drawable entity
	Renderables() []RenderItem

	// LightCount returns the number of lights held.
	LightCount() int

	// MaxLights returns the light capacity.
	MaxLights() int

	// Clear deletes every entity. The camera is kept.
	Clear()
}

var _ Store = &store{}

// NewStore creates an empty Store. Without WithRenderableFactory, AddMesh fails with
// ErrNoRenderableFactory.
//
// Parameters:
//   - options: functional options configuring the store
//
// Returns:
//   - Store: the new store
func NewStore(options ...StoreBuilderOption) Store {
	s := &store{
		entities:    make(map[Entity]struct{}),
		transforms:  make(map[Entity]Transform),
		meshes:      make(map[Entity]mesh.Mesh),
		lights:      make(map[Entity]light.Light),
		renderables: make(map[Entity]renderer.RenderableMesh),
		maxLights:   config.DefaultMaxLights,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *store) CreateEntity() Entity {
	s.nextID++
	s.entities[s.nextID] = struct{}{}
	return s.nextID
}

func (s *store) alive(id Entity) bool {
	_, ok := s.entities[id]
	return ok
}

func (s *store) DeleteEntity(id Entity) {
	s.releaseRenderable(id)
	delete(s.meshes, id)
	delete(s.transforms, id)
	delete(s.lights, id)
	delete(s.entities, id)
}

func (s *store) AddTransform(id Entity, t Transform) {
	if !s.alive(id) {
		logger.Warn("ecs: transform for unknown entity %d ignored", id)
		return
	}
	s.transforms[id] = t
}

func (s *store) AddMesh(id Entity, m mesh.Mesh) error {
	if !s.alive(id) {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	if s.factory == nil {
		return ErrNoRenderableFactory
	}

	m = m.Clone()
	r, err := s.factory.NewRenderable(fmt.Sprintf("entity-%d", id), m)
	if err != nil {
		return fmt.Errorf("ecs: create renderable for entity %d: %w", id, err)
	}

	s.releaseRenderable(id)
	s.meshes[id] = m
	s.renderables[id] = r
	if _, ok := s.transforms[id]; !ok {
		s.transforms[id] = NewTransform()
	}
	return nil
}

func (s *store) RemoveMesh(id Entity) {
	s.releaseRenderable(id)
	delete(s.meshes, id)
}

func (s *store) releaseRenderable(id Entity) {
	if r, ok := s.renderables[id]; ok {
		r.Release()
		delete(s.renderables, id)
	}
}

func (s *store) AddLight(id Entity, l light.Light) error {
	if !s.alive(id) {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	if _, replacing := s.lights[id]; !replacing && len(s.lights) >= s.maxLights {
		return fmt.Errorf("%w: %d lights", ErrLightCapacity, s.maxLights)
	}
	if t, ok := s.transforms[id]; ok {
		l.Position = t.Position
	}
	s.lights[id] = l
	return nil
}

func (s *store) EditLight(id Entity, color common.Vec3, intensity, lightRange float32) {
	l, ok := s.lights[id]
	if !ok {
		return
	}
	l.Edit(color, intensity, lightRange)
	s.lights[id] = l
}

func (s *store) RemoveLight(id Entity) {
	delete(s.lights, id)
}

func (s *store) CollectLights() []light.Light {
	ids := slices.Sorted(maps.Keys(s.lights))
	out := make([]light.Light, 0, len(ids))
	for _, id := range ids {
		l := s.lights[id]
		if t, ok := s.transforms[id]; ok {
			l.Position = t.Position
			s.lights[id] = l
		}
		out = append(out, l)
	}
	return out
}

func (s *store) SetCamera(cam camera.Camera) {
	s.camera = cam
}

func (s *store) Camera() (camera.Camera, error) {
	if s.camera == nil {
		return nil, ErrNoActiveCamera
	}
	return s.camera, nil
}

func (s *store) Transform(id Entity) (Transform, bool) {
	t, ok := s.transforms[id]
	return t, ok
}

func (s *store) Mesh(id Entity) (mesh.Mesh, bool) {
	m, ok := s.meshes[id]
	return m, ok
}

func (s *store) Light(id Entity) (light.Light, bool) {
	l, ok := s.lights[id]
	return l, ok
}

func (s *store) Renderable(id Entity) (renderer.RenderableMesh, bool) {
	r, ok := s.renderables[id]
	return r, ok
}

func (s *store) Entities() []Entity {
	return slices.Sorted(maps.Keys(s.entities))
}

func (s *store) Renderables() []RenderItem {
	ids := slices.Sorted(maps.Keys(s.renderables))
	out := make([]RenderItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, RenderItem{
			Entity:     id,
			Transform:  s.transforms[id],
			Renderable: s.renderables[id],
		})
	}
	return out
}

func (s *store) LightCount() int {
	return len(s.lights)
}

func (s *store) MaxLights() int {
	return s.maxLights
}

func (s *store) Clear() {
	for id := range s.entities {
		s.DeleteEntity(id)
	}
}

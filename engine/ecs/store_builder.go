package ecs

import "github.com/Carmen-Shannon/neothauma/engine/camera"

// StoreBuilderOption is a functional option for configuring a Store.
type StoreBuilderOption func(*store)

// WithRenderableFactory sets the factory AddMesh uses to create GPU-resident meshes.
//
// Parameters:
//   - factory: usually the engine's renderer.Renderer
//
// Returns:
//   - StoreBuilderOption: a function that sets the factory
func WithRenderableFactory(factory RenderableFactory) StoreBuilderOption {
	return func(s *store) {
		s.factory = factory
	}
}

// WithMaxLights sets the light capacity. Values below 1 are ignored.
//
// Parameters:
//   - n: maximum number of lights
//
// Returns:
//   - StoreBuilderOption: a function that sets the capacity
func WithMaxLights(n int) StoreBuilderOption {
	return func(s *store) {
		if n > 0 {
			s.maxLights = n
		}
	}
}

// WithCamera sets the initial active camera.
func WithCamera(cam camera.Camera) StoreBuilderOption {
	return func(s *store) {
		s.camera = cam
	}
}

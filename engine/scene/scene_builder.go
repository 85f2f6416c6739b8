package scene

import (
	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/ecs"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's display name.
//
// Parameters:
//   - name: the name used in logs
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithStore uses an existing entity store instead of creating one.
//
// Parameters:
//   - store: the store to render
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithStore(store ecs.Store) SceneBuilderOption {
	return func(s *scene) {
		s.store = store
	}
}

// WithAmbient sets the ambient light color.
//
// Parameters:
//   - color: RGB ambient color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAmbient(color common.Vec3) SceneBuilderOption {
	return func(s *scene) {
		s.ambient = color
	}
}

// WithShadowPlanes sets the near and far planes of the point-light shadow projection. The far
// plane also linearizes shadow depth in the main pass. Invalid ranges are ignored.
//
// Parameters:
//   - near: near plane distance, greater than zero
//   - far: far plane distance, greater than near
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowPlanes(near, far float32) SceneBuilderOption {
	return func(s *scene) {
		if near > 0 && far > near {
			s.shadowNear, s.shadowFar = near, far
		}
	}
}

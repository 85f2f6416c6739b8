package ecs

import "github.com/Carmen-Shannon/neothauma/common"

// Entity is an opaque entity identifier. Ids start at 1 and are never reused by a Store.
type Entity uint64

// Transform places an entity in the world.
type Transform struct {
	Position common.Vec3
	Rotation common.Quat
	Scale    common.Vec3
}

// NewTransform returns the identity transform: origin, no rotation, unit scale.
func NewTransform() Transform {
	return Transform{
		Rotation: common.QuatIdentity(),
		Scale:    common.Vec3One,
	}
}

// Matrix builds the model matrix, scale first, then rotation, then translation.
//
// Returns:
//   - common.Mat4: the TRS model matrix
func (t Transform) Matrix() common.Mat4 {
	return common.TRS(t.Position, t.Rotation, t.Scale)
}

// Translate moves the transform by delta.
func (t *Transform) Translate(delta common.Vec3) {
	t.Position = t.Position.Add(delta)
}

// Rotate applies r after the current rotation and renormalizes.
func (t *Transform) Rotate(r common.Quat) {
	t.Rotation = r.Mul(t.Rotation).Normalize()
}

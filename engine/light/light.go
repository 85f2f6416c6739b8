package light

import "github.com/Carmen-Shannon/neothauma/common"

// LightType identifies the kind of light source.
type LightType uint32

const (
	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates with distance up to a configurable range and can cast cube map shadows.
	LightTypePoint LightType = iota

	// LightTypeDirectional represents a distant source with no attenuation. Its Position
	// is read as the direction pointing toward the light. Directional lights never cast shadows.
	LightTypeDirectional
)

func (t LightType) String() string {
	switch t {
	case LightTypePoint:
		return "point"
	case LightTypeDirectional:
		return "directional"
	default:
		return "unknown"
	}
}

// Light is the CPU-side light record. Its shape mirrors the GPU light struct; Position is
// owned by the entity's transform and is overwritten every time lights are collected.
type Light struct {
	Position     common.Vec3
	Type         LightType
	Color        common.Vec3
	Intensity    float32
	Range        float32
	CastsShadows bool
}

// NewLight creates a Light with the given options applied on top of the defaults:
// a white point light with intensity 1, range 10, that casts shadows.
//
// Parameters:
//   - options: variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the configured light
func NewLight(options ...LightBuilderOption) Light {
	l := Light{
		Type:         LightTypePoint,
		Color:        common.Vec3One,
		Intensity:    1,
		Range:        10,
		CastsShadows: true,
	}
	for _, opt := range options {
		opt(&l)
	}
	return l
}

// Edit replaces the color, intensity and range, leaving position, type and shadow casting untouched.
func (l *Light) Edit(color common.Vec3, intensity, lightRange float32) {
	l.Color = color
	l.Intensity = intensity
	l.Range = lightRange
}

// IsShadowCaster reports whether the light can drive the point-light cube shadow pass.
func (l Light) IsShadowCaster() bool {
	return l.Type == LightTypePoint && l.CastsShadows
}

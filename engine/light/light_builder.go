package light

import "github.com/Carmen-Shannon/neothauma/common"

// LightBuilderOption is a function that configures a Light during construction.
type LightBuilderOption func(*Light)

// WithType is an option builder that sets the kind of light source.
//
// Parameters:
//   - t: the light type
//
// Returns:
//   - LightBuilderOption: a function that applies the type option to a Light
func WithType(t LightType) LightBuilderOption {
	return func(l *Light) {
		l.Type = t
	}
}

// WithPosition is an option builder that sets the initial position. Lights attached to an
// entity take their position from the entity transform instead.
//
// Parameters:
//   - x, y, z: the position components
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a Light
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *Light) {
		l.Position = common.V3(x, y, z)
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a Light
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *Light) {
		l.Color = common.V3(r, g, b)
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a Light
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *Light) {
		l.Intensity = intensity
	}
}

// WithRange is an option builder that sets the maximum attenuation distance.
//
// Parameters:
//   - lightRange: the range value
//
// Returns:
//   - LightBuilderOption: a function that applies the range option to a Light
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *Light) {
		l.Range = lightRange
	}
}

// WithCastsShadows is an option builder that toggles shadow casting.
//
// Parameters:
//   - casts: true if the light should render a shadow cube map
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow option to a Light
func WithCastsShadows(casts bool) LightBuilderOption {
	return func(l *Light) {
		l.CastsShadows = casts
	}
}

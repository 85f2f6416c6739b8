package renderer

import "github.com/Carmen-Shannon/neothauma/engine/config"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend supplies the GPU command layer instead of creating a WebGPU backend from the surface.
//
// Parameters:
//   - backend: the backend to drive
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(backend RendererBackend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = backend
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff, MSAA4x, MSAA8x, or MSAA16x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithMaxLights sets the capacity of the light storage buffer. Values below 1 are ignored.
//
// Parameters:
//   - n: number of light records
//
// Returns:
//   - RendererBuilderOption: a function that applies the capacity to a renderer
func WithMaxLights(n int) RendererBuilderOption {
	return func(r *renderer) {
		if n > 0 {
			r.maxLights = n
		}
	}
}

// WithShadow configures the shadow cube map resolution and the shadow pipeline depth bias.
//
// Parameters:
//   - resolution: texels per cube face edge, ignored when 0
//   - depthBias: constant depth bias
//   - slopeScale: slope-scaled depth bias
//
// Returns:
//   - RendererBuilderOption: a function that applies the shadow settings to a renderer
func WithShadow(resolution uint32, depthBias int32, slopeScale float32) RendererBuilderOption {
	return func(r *renderer) {
		if resolution > 0 {
			r.shadowResolution = resolution
		}
		r.depthBias = depthBias
		r.slopeScale = slopeScale
	}
}

// WithClearColor sets the color the main pass clears to.
//
// Parameters:
//   - color: RGB in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color to a renderer
func WithClearColor(color [3]float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}

// WithSurfaceSize sets the initial surface size used when no SurfaceSource is given.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the size to a renderer
func WithSurfaceSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width, r.height = width, height
	}
}

// WithConfig applies the [renderer] and [shadow] sections and the scene light capacity of the
// engine configuration.
//
// Parameters:
//   - c: a validated engine configuration
//
// Returns:
//   - RendererBuilderOption: a function that applies every configured setting to a renderer
func WithConfig(c config.Config) RendererBuilderOption {
	return func(r *renderer) {
		for _, opt := range []RendererBuilderOption{
			WithPresentMode(ParsePresentMode(c.Renderer.PresentMode)),
			WithMSAA(MSAASampleCount(c.Renderer.MSAA)),
			WithClearColor(c.Renderer.ClearColor),
			WithMaxLights(c.Scene.MaxLights),
			WithShadow(uint32(c.Shadow.Resolution), c.Shadow.DepthBias, c.Shadow.SlopeScale),
		} {
			opt(r)
		}
	}
}

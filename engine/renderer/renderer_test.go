package renderer_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/config"
	"github.com/Carmen-Shannon/neothauma/engine/light"
	"github.com/Carmen-Shannon/neothauma/engine/mesh"
	"github.com/Carmen-Shannon/neothauma/engine/renderer"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T, opts ...renderer.RendererBuilderOption) (renderer.Renderer, *renderertest.Backend) {
	t.Helper()
	backend := renderertest.NewBackend()
	opts = append([]renderer.RendererBuilderOption{
		renderer.WithBackend(backend),
		renderer.WithSurfaceSize(800, 600),
	}, opts...)
	r := renderer.NewRenderer(nil, opts...)
	t.Cleanup(r.Release)
	return r, backend
}

func TestNewRendererRegistersPipelines(t *testing.T) {
	r, backend := newTestRenderer(t)

	assert.Len(t, backend.Pipelines, 2)
	assert.Contains(t, backend.Pipelines, pipeline.KeyMain)
	assert.Contains(t, backend.Pipelines, pipeline.KeyShadow)
	assert.Equal(t, 800, backend.Width)
	assert.Equal(t, 600, backend.Height)
	assert.Equal(t, uint32(light.DefaultShadowResolution), backend.ShadowSize)
	require.Len(t, backend.Samplers, 1)
	assert.Equal(t, config.DefaultMaxLights, r.MaxLights())

	data, ok := backend.LastWrite("lighting", shader.BindingLights)
	require.True(t, ok)
	assert.Len(t, data, config.DefaultMaxLights*light.GPULightSize)
}

func TestNewRendererWithoutSurfaceOrBackendPanics(t *testing.T) {
	assert.Panics(t, func() { renderer.NewRenderer(nil) })
}

func TestNewRenderableCreatesGroups(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.BindGroups = nil

	rm, err := r.NewRenderable("cube", mesh.Cube())
	require.NoError(t, err)

	assert.Equal(t, "cube", rm.Label())
	assert.Equal(t, 36, rm.IndexCount())
	assert.Equal(t, 8, rm.VertexCount())
	assert.True(t, rm.Indexed())
	assert.Len(t, backend.BindGroups, 1+light.CubeFaceCount)
	assert.True(t, rm.ObjectProvider().HasBuffer(0))
	assert.Equal(t, "cube shadow -Z", rm.ShadowProvider(light.CubeFaceNegZ).Label())

	rm.Release()
	assert.Equal(t, 0, rm.IndexCount())
}

func TestNewRenderableGeneratesLabel(t *testing.T) {
	r, _ := newTestRenderer(t)
	rm, err := r.NewRenderable("", mesh.Cube())
	require.NoError(t, err)
	assert.Regexp(t, `^mesh-[0-9a-f-]{36}$`, rm.Label())
}

func TestUploadLightsTruncates(t *testing.T) {
	r, backend := newTestRenderer(t, renderer.WithMaxLights(2))

	lights := []light.Light{
		light.NewLight(light.WithPosition(1, 0, 0)),
		light.NewLight(light.WithPosition(2, 0, 0)),
		light.NewLight(light.WithPosition(3, 0, 0)),
	}
	count := r.UploadLights(lights, common.V3(0.1, 0.2, 0.3))
	assert.Equal(t, uint32(2), count)

	info, ok := backend.LastWrite("lighting", shader.BindingLightInfo)
	require.True(t, ok)
	require.Len(t, info, 16)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(info[12:16]))

	data, ok := backend.LastWrite("lighting", shader.BindingLights)
	require.True(t, ok)
	assert.Len(t, data, 2*light.GPULightSize)
}

func TestDrawWritesObjectUniform(t *testing.T) {
	r, backend := newTestRenderer(t)
	rm, err := r.NewRenderable("cube", mesh.Cube())
	require.NoError(t, err)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.Draw(rm, renderer.GPUObjectUniform{
		Model:         common.Mat4Identity(),
		ShadowEnabled: true,
	}))
	r.EndFrame()
	r.Present()

	data, ok := backend.LastWrite("cube object", 0)
	require.True(t, ok)
	assert.Len(t, data, renderer.GPUObjectUniformSize)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[352:356]))

	require.Len(t, backend.MainDraws, 1)
	draw := backend.MainDraws[0]
	assert.Equal(t, pipeline.KeyMain, draw.Pipeline)
	assert.Equal(t, 36, draw.IndexCount)
	assert.Equal(t, []string{"cube object", "lighting"}, draw.BindGroups)
	assert.Equal(t, 1, backend.Presents)
}

func TestDrawShadowUsesFaceProvider(t *testing.T) {
	r, backend := newTestRenderer(t)
	rm, err := r.NewRenderable("cube", mesh.Cube())
	require.NoError(t, err)

	require.NoError(t, r.BeginShadowFrame())
	r.BeginShadowFace(light.CubeFaceNegY)
	require.NoError(t, r.DrawShadow(rm, light.CubeFaceNegY, light.GPUShadowUniform{
		Model:      common.Mat4Identity(),
		LightSpace: common.Mat4Identity(),
	}))
	r.EndShadowFace()
	r.EndShadowFrame()

	require.Len(t, backend.ShadowDraws, 1)
	draw := backend.ShadowDraws[0]
	assert.Equal(t, pipeline.KeyShadow, draw.Pipeline)
	assert.Equal(t, int(light.CubeFaceNegY), draw.Face)
	assert.Equal(t, []string{"cube shadow -Y"}, draw.BindGroups)

	data, ok := backend.LastWrite("cube shadow -Y", 0)
	require.True(t, ok)
	assert.Len(t, data, light.GPUShadowUniformSize)
}

func TestBeginFrameSurfacesBackendError(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.FailNextFrame(renderer.ErrSurfaceOutdated)

	err := r.BeginFrame()
	assert.True(t, errors.Is(err, renderer.ErrSurfaceOutdated))
	assert.True(t, renderer.IsRecoverable(err))
	assert.NoError(t, r.BeginFrame())
}

func TestResizeAndAspect(t *testing.T) {
	r, backend := newTestRenderer(t)
	assert.InDelta(t, 800.0/600.0, r.Aspect(), 1e-6)

	configures := backend.Configures
	r.Resize(0, 0)
	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, configures, backend.Configures)

	r.Resize(1000, 500)
	assert.InDelta(t, 2.0, r.Aspect(), 1e-6)
	assert.Equal(t, 1000, backend.Width)
	assert.Equal(t, configures+1, backend.Configures)
}

func TestSetPresentModeAndClearColor(t *testing.T) {
	r, backend := newTestRenderer(t, renderer.WithPresentMode(renderer.PresentModeUncapped))
	assert.Equal(t, renderer.PresentModeUncapped, backend.PresentMode)

	r.SetPresentMode(renderer.PresentModeVSync)
	assert.Equal(t, renderer.PresentModeVSync, backend.PresentMode)

	r.SetClearColor([3]float64{0.5, 0.25, 0})
	assert.Equal(t, [3]float64{0.5, 0.25, 0}, backend.ClearColor)
}

func TestReleaseReleasesBackend(t *testing.T) {
	backend := renderertest.NewBackend()
	r := renderer.NewRenderer(nil, renderer.WithBackend(backend))
	r.Release()
	assert.True(t, backend.Released)
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Renderer.PresentMode = "uncapped"
	cfg.Renderer.ClearColor = [3]float64{1, 0, 0}
	cfg.Scene.MaxLights = 7
	cfg.Shadow.Resolution = 256

	r, backend := newTestRenderer(t, renderer.WithConfig(cfg))
	assert.Equal(t, 7, r.MaxLights())
	assert.Equal(t, uint32(256), r.ShadowResolution())
	assert.Equal(t, uint32(256), backend.ShadowSize)
	assert.Equal(t, renderer.PresentModeUncapped, backend.PresentMode)
	assert.Equal(t, [3]float64{1, 0, 0}, backend.ClearColor)
}

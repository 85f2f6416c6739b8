package main

import (
	"testing"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/config"
	"github.com/Carmen-Shannon/neothauma/engine/renderer"
	"github.com/Carmen-Shannon/neothauma/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/neothauma/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDemoRenders(t *testing.T) {
	backend := renderertest.NewBackend()
	r := renderer.NewRenderer(nil, renderer.WithBackend(backend))
	t.Cleanup(r.Release)
	sc := scene.NewScene(r)

	cfg := config.Default()
	require.NoError(t, buildDemo(sc.Store(), cfg, r.Aspect()))
	assert.Len(t, sc.Store().Renderables(), len(demoLayout))
	assert.Equal(t, 1, sc.Store().LightCount())

	cam, err := sc.Store().Camera()
	require.NoError(t, err)
	assert.InDelta(t, common.Radians(cfg.Scene.FOVDegrees), cam.Fov(), 1e-6)

	stats, err := sc.Render()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Lights)
	assert.Equal(t, len(demoLayout), stats.MainDraws)
	assert.Equal(t, 6*len(demoLayout), stats.ShadowDraws)
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[window]
title = "demo"

[scene]
max_lights = 8
`))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, def.Window.Width, cfg.Window.Width)
	assert.Equal(t, 8, cfg.Scene.MaxLights)
	assert.Equal(t, def.Shadow, cfg.Shadow)
	assert.False(t, def.RequiresRestart(def))
	assert.True(t, def.RequiresRestart(cfg))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Scene.Near = 10
	cfg.Scene.Far = 1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Renderer.MSAA = 3
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Scene.MaxLights = 0
	assert.Error(t, cfg.Validate())

	_, err := Parse([]byte("[shadow]\nnear = 5.0\nfar = 1.0\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("not = [valid"))
	assert.Error(t, err)
}

func TestLoad_MissingFileIsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestWatch_DeliversReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"info\"\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := Watch(ctx, path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case cfg := <-ch:
			// A truncating write can surface an intermediate empty file first.
			reloaded = cfg.Log.Level == "debug"
		case <-deadline:
			t.Fatal("no reload delivered")
		}
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

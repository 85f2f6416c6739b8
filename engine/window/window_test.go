package window

import (
	"testing"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/config"
	"github.com/stretchr/testify/assert"
)

func TestNewEngineWindowDefaults(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, "neothauma", w.Title())
	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.True(t, w.closeOnEscape)
	assert.False(t, w.IsRunning(), "no platform window yet")
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}

func TestNewEngineWindowClampsSize(t *testing.T) {
	w := newEngineWindow(WithMinSize(640, 480), WithMaxSize(1920, 1080), WithSize(100, 4000))
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 1080, w.Height())

	w = newEngineWindow(WithMaxSize(0, 0), WithSize(5000, 5000))
	assert.Equal(t, 5000, w.Width())
}

func TestWithConfig(t *testing.T) {
	w := newEngineWindow(WithConfig(config.WindowConfig{Title: "demo", Width: 800, Height: 600}))
	assert.Equal(t, "demo", w.Title())
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())

	w = newEngineWindow(WithConfig(config.WindowConfig{}))
	assert.Equal(t, "neothauma", w.Title())
	assert.Equal(t, 1280, w.Width())
}

func TestDispatchKey(t *testing.T) {
	w := newEngineWindow()
	var down, up []int
	w.SetKeyDownCallback(func(k int) { down = append(down, k) })
	w.SetKeyUpCallback(func(k int) { up = append(up, k) })

	assert.True(t, w.dispatchKey(common.KeyW, true))
	assert.True(t, w.dispatchKey(common.KeyW, false))
	assert.False(t, w.dispatchKey(common.KeyEsc, true))
	assert.Equal(t, []int{common.KeyW}, down)
	assert.Equal(t, []int{common.KeyW}, up)

	w = newEngineWindow(WithCloseOnEscape(false))
	assert.True(t, w.dispatchKey(common.KeyEsc, true))
}

func TestDispatchResize(t *testing.T) {
	w := newEngineWindow()
	var got [2]int
	w.SetResizeCallback(func(width, height int) { got = [2]int{width, height} })
	w.dispatchResize(1024, 768)
	assert.Equal(t, [2]int{1024, 768}, got)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
}

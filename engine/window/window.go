package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the platform window, its input events and the WebGPU surface source.
// All methods must be called from the thread that created the window.
type Window interface {
	// SetFrameCallback sets the function called once per message loop iteration, after events
	// have been dispatched. The engine renders from it.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetFrameCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized. Minimizing
	// reports a 0x0 size.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up, negative = down)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code, matching the common.Key* constants
	SetKeyDownCallback(callback func(key int))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(key int))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor for the window, or nil before the
	// platform window exists.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true while the window is open.
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never opened
	Close() error

	// ProcessMessages runs the message loop until the window closes, calling the frame callback
	// after every poll.
	ProcessMessages()

	// Title returns the window title.
	Title() string

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	// size limits applied while the user resizes
	minWidth, minHeight int
	maxWidth, maxHeight int

	width, height int

	closeOnEscape bool
	resizable     bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onFrame   func()
	onResize  func(width, height int)
	onScroll  func(delta float32)
	onKeyDown func(key int)
	onKeyUp   func(key int)
}

var _ Window = &engineWindow{}

// NewWindow opens a platform window with the given options. Failing to open the window is fatal
// and panics.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the opened window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("window: create platform window: %v", err))
	}
	return w
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:         "neothauma",
		minWidth:      320,
		minHeight:     200,
		maxWidth:      3840,
		maxHeight:     2160,
		width:         1280,
		height:        720,
		closeOnEscape: true,
		resizable:     true,
	}
	for _, opt := range options {
		opt(w)
	}
	w.width = clampSize(w.width, w.minWidth, w.maxWidth)
	w.height = clampSize(w.height, w.minHeight, w.maxHeight)
	return w
}

func clampSize(v, lo, hi int) int {
	if hi > 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

func (w *engineWindow) SetFrameCallback(callback func()) {
	w.onFrame = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(key int)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(key int)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if ok := platformProcessMessages(w); !ok {
			break
		}
		if w.onFrame != nil {
			w.onFrame()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// dispatchResize records the new framebuffer size and forwards it.
func (w *engineWindow) dispatchResize(width, height int) {
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// dispatchKey forwards a key event. It reports false when the event requested the window to close.
func (w *engineWindow) dispatchKey(key int, pressed bool) bool {
	if pressed && w.closeOnEscape && key == common.KeyEsc {
		return false
	}
	switch {
	case pressed && w.onKeyDown != nil:
		w.onKeyDown(key)
	case !pressed && w.onKeyUp != nil:
		w.onKeyUp(key)
	}
	return true
}

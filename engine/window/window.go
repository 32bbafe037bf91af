package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps the GLFW window with a small callback interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the button and the cursor position
	SetMouseDownCallback(callback func(button common.MouseButton, x, y int32))

	// SetMouseUpCallback sets the callback for mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the button and the cursor position
	SetMouseUpCallback(callback func(button common.MouseButton, x, y int32))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor x, y position in framebuffer pixels
	SetMouseMoveCallback(callback func(x, y int32))

	// CursorPos returns the last known cursor position.
	//
	// Returns:
	//   - int32: x in framebuffer pixels
	//   - int32: y in framebuffer pixels
	CursorPos() (int32, int32)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title         string
	width, height int
	resizable     bool

	cursorX, cursorY int32

	// cursorScaleX and cursorScaleY map screen coordinates to framebuffer pixels; zero means 1.
	cursorScaleX, cursorScaleY float64

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate    func()
	onResize    func(width, height int)
	onKeyDown   func(keyCode uint32)
	onKeyUp     func(keyCode uint32)
	onMouseDown func(button common.MouseButton, x, y int32)
	onMouseUp   func(button common.MouseButton, x, y int32)
	onMouseMove func(x, y int32)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a new Window with the specified options.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:     "oxy-tiles",
		width:     1280,
		height:    720,
		resizable: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseDownCallback(callback func(button common.MouseButton, x, y int32)) {
	w.onMouseDown = callback
}

func (w *engineWindow) SetMouseUpCallback(callback func(button common.MouseButton, x, y int32)) {
	w.onMouseUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y int32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) CursorPos() (int32, int32) {
	return w.cursorX, w.cursorY
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
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// dispatch helpers shared by the platform callbacks.

func (w *engineWindow) handleMouseButton(button common.MouseButton, pressed bool) {
	if pressed {
		if w.onMouseDown != nil {
			w.onMouseDown(button, w.cursorX, w.cursorY)
		}
		return
	}
	if w.onMouseUp != nil {
		w.onMouseUp(button, w.cursorX, w.cursorY)
	}
}

func (w *engineWindow) handleCursor(x, y float64) {
	w.cursorX, w.cursorY = w.scaleCursor(x, y)
	if w.onMouseMove != nil {
		w.onMouseMove(w.cursorX, w.cursorY)
	}
}

// scaleCursor converts a position in screen coordinates to framebuffer pixels.
func (w *engineWindow) scaleCursor(x, y float64) (int32, int32) {
	if w.cursorScaleX > 0 {
		x *= w.cursorScaleX
	}
	if w.cursorScaleY > 0 {
		y *= w.cursorScaleY
	}
	return int32(x), int32(y)
}

// setCursorScale derives the cursor scale from the framebuffer and window sizes. A minimised
// window reports zero sizes and keeps the previous scale.
func (w *engineWindow) setCursorScale(fbWidth, fbHeight, winWidth, winHeight int) {
	if fbWidth <= 0 || fbHeight <= 0 || winWidth <= 0 || winHeight <= 0 {
		return
	}
	w.cursorScaleX = float64(fbWidth) / float64(winWidth)
	w.cursorScaleY = float64(fbHeight) / float64(winHeight)
}

func (w *engineWindow) handleResize(width, height int) {
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

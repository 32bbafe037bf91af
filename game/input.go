package game

import "github.com/Carmen-Shannon/oxy-tiles/common"

// Input accumulates window events between frames. The window callbacks write it and the tick
// and render callbacks drain it, all on the main thread.
type Input struct {
	keys map[uint32]bool

	dragging         bool
	cursorX, cursorY int32
	overUI           bool

	lookX, lookY float32
	moved        bool

	click        bool
	clickX       int32
	clickY       int32
	clickOverlay bool
}

// NewInput returns an empty input state.
func NewInput() *Input {
	return &Input{keys: make(map[uint32]bool)}
}

func (in *Input) KeyDown(code uint32) { in.keys[code] = true }

func (in *Input) KeyUp(code uint32) { delete(in.keys, code) }

// MouseDown starts a look drag and queues a click with the left button. Presses over the
// overlay do neither; they are still recorded so the click is not forwarded to the map.
func (in *Input) MouseDown(button common.MouseButton, x, y int32, overUI bool) {
	if button != common.MouseButtonLeft {
		return
	}
	in.cursorX, in.cursorY = x, y
	in.dragging = !overUI
	in.click = true
	in.clickX, in.clickY = x, y
	in.clickOverlay = overUI
}

// MouseUp ends a look drag.
func (in *Input) MouseUp(button common.MouseButton) {
	if button == common.MouseButtonLeft {
		in.dragging = false
	}
}

// MouseMove records the cursor and, while dragging, the look delta.
func (in *Input) MouseMove(x, y int32, overUI bool) {
	if in.dragging {
		in.lookX += float32(x - in.cursorX)
		in.lookY += float32(y - in.cursorY)
	}
	in.cursorX, in.cursorY = x, y
	in.overUI = overUI
	in.moved = true
}

// Movement returns the camera step along each axis from the held keys: W/S forward, D/A
// right, Space/Shift up.
func (in *Input) Movement() (forward, right, up float32) {
	axis := func(pos, neg uint32) float32 {
		var v float32
		if in.keys[pos] {
			v++
		}
		if in.keys[neg] {
			v--
		}
		return v
	}
	forward = axis(common.KeyW, common.KeyS)
	right = axis(common.KeyD, common.KeyA)
	up = axis(common.KeySpace, common.KeyLeftShift)
	if in.keys[common.KeyRightShift] && !in.keys[common.KeyLeftShift] {
		up--
	}
	return forward, right, up
}

// TakeLook returns and clears the accumulated look delta in pixels.
func (in *Input) TakeLook() (dx, dy float32) {
	dx, dy = in.lookX, in.lookY
	in.lookX, in.lookY = 0, 0
	return dx, dy
}

// Cursor returns the cursor position and whether it lies over the overlay.
func (in *Input) Cursor() (x, y int32, overUI bool) {
	return in.cursorX, in.cursorY, in.overUI
}

// TakeMoved reports and clears whether the cursor moved since the last call.
func (in *Input) TakeMoved() bool {
	moved := in.moved
	in.moved = false
	return moved
}

// TakeClick returns and clears the pending click. ok is false when there is none or the click
// landed on the overlay.
func (in *Input) TakeClick() (x, y int32, ok bool) {
	if !in.click {
		return 0, 0, false
	}
	in.click = false
	return in.clickX, in.clickY, !in.clickOverlay
}

package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tiles/common"
)

type buttonEvent struct {
	button  common.MouseButton
	pressed bool
	x, y    int32
}

func TestMouseDispatchUsesLastCursor(t *testing.T) {
	w := &engineWindow{}
	var events []buttonEvent
	w.SetMouseDownCallback(func(b common.MouseButton, x, y int32) {
		events = append(events, buttonEvent{b, true, x, y})
	})
	w.SetMouseUpCallback(func(b common.MouseButton, x, y int32) {
		events = append(events, buttonEvent{b, false, x, y})
	})

	var moves int
	w.SetMouseMoveCallback(func(x, y int32) { moves++ })

	w.handleCursor(10.7, 20.2)
	w.handleMouseButton(common.MouseButtonLeft, true)
	w.handleCursor(30, 40)
	w.handleMouseButton(common.MouseButtonLeft, false)

	want := []buttonEvent{
		{common.MouseButtonLeft, true, 10, 20},
		{common.MouseButtonLeft, false, 30, 40},
	}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
	if moves != 2 {
		t.Errorf("moves = %d, want 2", moves)
	}
	if x, y := w.CursorPos(); x != 30 || y != 40 {
		t.Errorf("CursorPos() = %d,%d, want 30,40", x, y)
	}
}

func TestHandleResizeWithoutCallback(t *testing.T) {
	w := &engineWindow{}
	w.handleResize(640, 480)
	if w.Width() != 640 || w.Height() != 480 {
		t.Errorf("size = %dx%d, want 640x480", w.Width(), w.Height())
	}
}

func TestWithSizeKeepsDefaultsForZero(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720}
	WithSize(0, 900)(w)
	if w.width != 1280 || w.height != 900 {
		t.Errorf("size = %dx%d, want 1280x900", w.width, w.height)
	}
}

func TestCursorScaledToFramebuffer(t *testing.T) {
	tests := []struct {
		name         string
		fbW, fbH     int
		winW, winH   int
		x, y         float64
		wantX, wantY int32
	}{
		{"unscaled", 800, 600, 800, 600, 790, 590, 790, 590},
		{"double density", 1600, 1200, 800, 600, 790, 590, 1580, 1180},
		{"fractional", 1200, 900, 800, 600, 100, 50, 150, 75},
		{"minimised keeps unit scale", 0, 0, 0, 0, 12, 34, 12, 34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &engineWindow{}
			var moveX, moveY int32
			w.SetMouseMoveCallback(func(x, y int32) { moveX, moveY = x, y })

			w.setCursorScale(tt.fbW, tt.fbH, tt.winW, tt.winH)
			w.handleCursor(tt.x, tt.y)

			if x, y := w.CursorPos(); x != tt.wantX || y != tt.wantY {
				t.Errorf("CursorPos() = %d,%d, want %d,%d", x, y, tt.wantX, tt.wantY)
			}
			if moveX != tt.wantX || moveY != tt.wantY {
				t.Errorf("move callback got %d,%d, want %d,%d", moveX, moveY, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestCursorScaleSurvivesMinimise(t *testing.T) {
	w := &engineWindow{}
	w.setCursorScale(1600, 1200, 800, 600)
	w.setCursorScale(0, 0, 0, 0)
	w.handleCursor(10, 10)
	if x, y := w.CursorPos(); x != 20 || y != 20 {
		t.Errorf("CursorPos() = %d,%d, want 20,20", x, y)
	}
}

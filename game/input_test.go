package game

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tiles/common"
)

func TestMovement(t *testing.T) {
	tests := []struct {
		name               string
		keys               []uint32
		forward, right, up float32
	}{
		{"idle", nil, 0, 0, 0},
		{"forward", []uint32{common.KeyW}, 1, 0, 0},
		{"opposite keys cancel", []uint32{common.KeyW, common.KeyS}, 0, 0, 0},
		{"strafe left and rise", []uint32{common.KeyA, common.KeySpace}, 0, -1, 1},
		{"right shift descends", []uint32{common.KeyRightShift}, 0, 0, -1},
		{"both shifts descend once", []uint32{common.KeyLeftShift, common.KeyRightShift}, 0, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInput()
			for _, k := range tt.keys {
				in.KeyDown(k)
			}
			f, r, u := in.Movement()
			if f != tt.forward || r != tt.right || u != tt.up {
				t.Errorf("Movement() = %v,%v,%v, want %v,%v,%v", f, r, u, tt.forward, tt.right, tt.up)
			}
		})
	}
}

func TestKeyUpReleases(t *testing.T) {
	in := NewInput()
	in.KeyDown(common.KeyD)
	in.KeyUp(common.KeyD)
	if _, r, _ := in.Movement(); r != 0 {
		t.Errorf("right = %v after release, want 0", r)
	}
}

func TestDragAccumulatesLook(t *testing.T) {
	in := NewInput()
	in.MouseMove(100, 100, false)
	in.MouseDown(common.MouseButtonLeft, 100, 100, false)
	in.MouseMove(110, 95, false)
	in.MouseMove(115, 90, false)
	in.MouseUp(common.MouseButtonLeft)
	in.MouseMove(200, 200, false)

	dx, dy := in.TakeLook()
	if dx != 15 || dy != -10 {
		t.Errorf("look = %v,%v, want 15,-10", dx, dy)
	}
	if dx, dy := in.TakeLook(); dx != 0 || dy != 0 {
		t.Errorf("second TakeLook = %v,%v, want 0,0", dx, dy)
	}
}

func TestDragStartingOverOverlayDoesNotLook(t *testing.T) {
	in := NewInput()
	in.MouseDown(common.MouseButtonLeft, 20, 20, true)
	in.MouseMove(60, 20, false)
	if dx, _ := in.TakeLook(); dx != 0 {
		t.Errorf("look dx = %v, want 0", dx)
	}
	if _, _, ok := in.TakeClick(); ok {
		t.Error("click over the overlay was forwarded")
	}
}

func TestClickIsTakenOnce(t *testing.T) {
	in := NewInput()
	in.MouseDown(common.MouseButtonRight, 5, 5, false)
	if _, _, ok := in.TakeClick(); ok {
		t.Fatal("right button queued a click")
	}

	in.MouseDown(common.MouseButtonLeft, 40, 50, false)
	x, y, ok := in.TakeClick()
	if !ok || x != 40 || y != 50 {
		t.Errorf("TakeClick() = %d,%d,%v, want 40,50,true", x, y, ok)
	}
	if _, _, ok := in.TakeClick(); ok {
		t.Error("click returned twice")
	}
}

func TestTakeMoved(t *testing.T) {
	in := NewInput()
	if in.TakeMoved() {
		t.Fatal("moved before any event")
	}
	in.MouseMove(1, 2, true)
	if !in.TakeMoved() || in.TakeMoved() {
		t.Error("TakeMoved did not report exactly once")
	}
	if x, y, over := in.Cursor(); x != 1 || y != 2 || !over {
		t.Errorf("Cursor() = %d,%d,%v", x, y, over)
	}
}

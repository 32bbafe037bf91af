package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrustumIntersectsAABB(t *testing.T) {
	proj := Perspective(45, 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustum(proj.Mul4(view))

	tests := []struct {
		name     string
		min, max mgl32.Vec3
		want     bool
	}{
		{"in front", mgl32.Vec3{-0.5, -0.5, -6}, mgl32.Vec3{0.5, 0.5, -5}, true},
		{"behind camera", mgl32.Vec3{-0.5, -0.5, 5}, mgl32.Vec3{0.5, 0.5, 6}, false},
		{"beyond far plane", mgl32.Vec3{-0.5, -0.5, -200}, mgl32.Vec3{0.5, 0.5, -150}, false},
		{"far to the left", mgl32.Vec3{-100, -0.5, -6}, mgl32.Vec3{-90, 0.5, -5}, false},
		{"straddles near plane", mgl32.Vec3{-0.5, -0.5, -1}, mgl32.Vec3{0.5, 0.5, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IntersectsAABB(tt.min, tt.max); got != tt.want {
				t.Errorf("IntersectsAABB(%v, %v) = %v, want %v", tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	const near, far = 0.5, 50
	proj := Perspective(45, 16.0/9.0, near, far)

	depth := func(z float32) float32 {
		clip := proj.Mul4x1(mgl32.Vec4{0, 0, z, 1})
		return clip.Z() / clip.W()
	}

	if d := depth(-near); d < -1e-4 || d > 1e-4 {
		t.Errorf("depth at near plane = %v, want 0", d)
	}
	if d := depth(-far); d < 1-1e-4 || d > 1+1e-4 {
		t.Errorf("depth at far plane = %v, want 1", d)
	}
}

func TestPutFloat32s(t *testing.T) {
	buf := make([]byte, 12)
	end := PutFloat32s(buf, 0, 1.5, -2, 3.25)
	if end != 12 {
		t.Fatalf("end offset = %d, want 12", end)
	}
	for i, want := range []float32{1.5, -2, 3.25} {
		if got := Float32At(buf, i*4); got != want {
			t.Errorf("value %d = %v, want %v", i, got, want)
		}
	}
}

package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// near compares component-wise with an absolute tolerance; float32 trig leaves residues
// around 1e-8 where the expected value is zero.
func near(got, want mgl32.Vec3) bool {
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			return false
		}
	}
	return true
}

func TestControllerDefaultFront(t *testing.T) {
	cc := NewController()
	if !near(cc.Front(), mgl32.Vec3{0, 0, -1}) {
		t.Errorf("default front = %v, want -Z", cc.Front())
	}
}

func TestControllerPitchClamp(t *testing.T) {
	cc := NewController(WithSensitivity(1))
	cc.Look(0, -500)
	if cc.Pitch() != maxPitch {
		t.Errorf("pitch = %v, want clamp at %v", cc.Pitch(), maxPitch)
	}
	cc.Look(0, 1000)
	if cc.Pitch() != -maxPitch {
		t.Errorf("pitch = %v, want clamp at %v", cc.Pitch(), -maxPitch)
	}
}

func TestControllerMove(t *testing.T) {
	tests := []struct {
		name               string
		forward, right, up float32
		want               mgl32.Vec3
	}{
		{"forward", 1, 0, 0, mgl32.Vec3{0, 0, -1}},
		{"back", -1, 0, 0, mgl32.Vec3{0, 0, 1}},
		{"right", 0, 1, 0, mgl32.Vec3{1, 0, 0}},
		{"up", 0, 0, 1, mgl32.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewController(WithSpeed(1))
			cc.Move(tt.forward, tt.right, tt.up)
			if got := mgl32.Vec3(cc.Position()); !near(got, tt.want) {
				t.Errorf("position = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCameraProjectsInFrontOfEye(t *testing.T) {
	cc := NewController(WithPosition(0, 0, 5))
	cam := NewCamera(WithController(cc), WithAspect(16.0/9.0))

	clip := cam.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	if math.Abs(float64(ndc.X())) > 1e-5 || math.Abs(float64(ndc.Y())) > 1e-5 {
		t.Errorf("origin projects to %v, want screen centre", ndc)
	}
	if ndc.Z() <= 0 || ndc.Z() >= 1 {
		t.Errorf("depth = %v, want inside (0, 1)", ndc.Z())
	}

	u := cam.Uniform()
	if u.CameraPosition != [3]float32{0, 0, 5} {
		t.Errorf("uniform position = %v", u.CameraPosition)
	}
	if len(u.Marshal()) != 80 {
		t.Errorf("uniform is %d bytes, want 80", len(u.Marshal()))
	}
	if !cam.Frustum().IntersectsAABB(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Error("box at the origin should be inside the frustum")
	}
}

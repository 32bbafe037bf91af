package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/go-gl/mathgl/mgl32"
)

// maxPitch keeps the free-fly camera from flipping over the vertical axis.
const maxPitch = 89.0

// Controller defines the interface for a free-fly camera controller.
// The controller owns position and orientation (yaw/pitch in degrees). Yaw -90
// looks down -Z. Movement steps are scaled by Speed, mouse deltas by Sensitivity.
type Controller interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - [3]float32: world-space position
	Position() [3]float32

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Front returns the normalized view direction derived from yaw and pitch.
	//
	// Returns:
	//   - mgl32.Vec3: the unit forward vector
	Front() mgl32.Vec3

	// Yaw returns the horizontal angle in degrees.
	Yaw() float32

	// Pitch returns the vertical angle in degrees, clamped to [-89, 89].
	Pitch() float32

	// Look rotates the view by a mouse delta in pixels.
	// Moving the mouse right turns right; moving it up looks up.
	//
	// Parameters:
	//   - dx: horizontal cursor delta
	//   - dy: vertical cursor delta (screen space, down is positive)
	Look(dx, dy float32)

	// Move translates the camera by one step per non-zero axis.
	// forward moves along Front, right along the horizontal right vector and
	// up along world +Y. Each argument is usually -1, 0 or 1.
	//
	// Parameters:
	//   - forward: steps along the view direction
	//   - right: steps along the right vector
	//   - up: steps along world up
	Move(forward, right, up float32)
}

type controllerImpl struct {
	mu *sync.Mutex

	position    mgl32.Vec3
	yaw         float32
	pitch       float32
	speed       float32
	sensitivity float32
}

var _ Controller = &controllerImpl{}

// NewController creates a free-fly Controller with the given options applied.
// Defaults: origin, yaw -90, pitch 0, speed 0.1, sensitivity 0.5.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerOption) Controller {
	cc := &controllerImpl{
		mu:          &sync.Mutex{},
		yaw:         -90,
		speed:       0.1,
		sensitivity: 0.5,
	}
	for _, option := range options {
		option(cc)
	}
	cc.pitch = common.Clamp(cc.pitch, -maxPitch, maxPitch)
	return cc
}

func (cc *controllerImpl) Position() [3]float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *controllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = mgl32.Vec3{x, y, z}
}

func (cc *controllerImpl) Front() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.front()
}

func (cc *controllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *controllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *controllerImpl) Look(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw += dx * cc.sensitivity
	cc.pitch = common.Clamp(cc.pitch-dy*cc.sensitivity, -maxPitch, maxPitch)
}

func (cc *controllerImpl) Move(forward, right, up float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	front := cc.front()
	rightVec := front.Cross(mgl32.Vec3{0, 1, 0})
	if rightVec.Len() > 1e-6 {
		rightVec = rightVec.Normalize()
	}
	step := front.Mul(forward).Add(rightVec.Mul(right)).Add(mgl32.Vec3{0, up, 0})
	cc.position = cc.position.Add(step.Mul(cc.speed))
}

// front computes the unit view direction. Caller must hold the mutex.
func (cc *controllerImpl) front() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(cc.yaw))
	pitch := float64(mgl32.DegToRad(cc.pitch))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

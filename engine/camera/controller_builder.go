package camera

// ControllerOption is a functional option for configuring a Controller via NewController.
type ControllerOption func(*controllerImpl)

// WithPosition sets the starting world-space position.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - ControllerOption: a function that applies the position option
func WithPosition(x, y, z float32) ControllerOption {
	return func(cc *controllerImpl) {
		cc.position = [3]float32{x, y, z}
	}
}

// WithOrientation sets the starting yaw and pitch in degrees.
//
// Parameters:
//   - yaw: horizontal angle, -90 looks down -Z
//   - pitch: vertical angle, clamped to [-89, 89]
//
// Returns:
//   - ControllerOption: a function that applies the orientation option
func WithOrientation(yaw, pitch float32) ControllerOption {
	return func(cc *controllerImpl) {
		cc.yaw = yaw
		cc.pitch = pitch
	}
}

// WithSpeed sets the distance covered by one Move step.
//
// Parameters:
//   - speed: world units per step
//
// Returns:
//   - ControllerOption: a function that applies the speed option
func WithSpeed(speed float32) ControllerOption {
	return func(cc *controllerImpl) {
		cc.speed = speed
	}
}

// WithSensitivity sets the degrees turned per pixel of mouse movement.
//
// Parameters:
//   - sensitivity: degrees per pixel
//
// Returns:
//   - ControllerOption: a function that applies the sensitivity option
func WithSensitivity(sensitivity float32) ControllerOption {
	return func(cc *controllerImpl) {
		cc.sensitivity = sensitivity
	}
}

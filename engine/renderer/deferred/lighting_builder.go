package deferred

import "github.com/cogentcore/webgpu/wgpu"

// LightingOption is a functional option for configuring the Lighting pass.
type LightingOption func(*Lighting)

// WithIntensity sets the scalar applied to every point light. Defaults to light.DefaultIntensity.
//
// Parameters:
//   - intensity: the point light intensity
//
// Returns:
//   - LightingOption: the option
func WithIntensity(intensity float32) LightingOption {
	return func(l *Lighting) {
		l.intensity = intensity
	}
}

// WithClearColor sets the color shown where no geometry was drawn.
//
// Parameters:
//   - rgb: the background color
//
// Returns:
//   - LightingOption: the option
func WithClearColor(rgb [3]float32) LightingOption {
	return func(l *Lighting) {
		l.clearColor = wgpu.Color{R: float64(rgb[0]), G: float64(rgb[1]), B: float64(rgb[2]), A: 1}
	}
}

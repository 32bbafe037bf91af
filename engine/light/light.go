package light

import "math"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient represents a constant term added to every lit fragment.
	// Its position is ignored.
	LightTypeAmbient LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Its contribution decays with Attenuation over the distance to the fragment.
	LightTypePoint
)

// DefaultIntensity is the scalar applied to every point light contribution.
const DefaultIntensity float32 = 4.0

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType LightType
	position  [3]float32
	color     [3]float32
	enabled   bool
}

// Light defines the interface for a light source in the lighting pass.
//
// Ambient lights contribute color*albedo to every covered pixel. Point lights
// contribute color*albedo*Attenuation(distance)*intensity, where intensity is
// shared by the whole pass.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (ambient or point)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for ambient lights.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Enabled reports whether the light takes part in the lighting pass.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x: the x position component
	//   - y: the y position component
	//   - z: the z position component
	SetPosition(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r: the red component
	//   - g: the green component
	//   - b: the blue component
	SetColor(r, g, b float32)

	// SetEnabled toggles whether the light takes part in the lighting pass.
	//
	// Parameters:
	//   - enabled: the new enabled state
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the given type with the provided options applied.
// Lights default to white and enabled.
//
// Parameters:
//   - lightType: the kind of light to create (ambient or point)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		color:     [3]float32{1, 1, 1},
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Attenuation returns the point light falloff for a fragment at distance d.
// The curve is an exponential decay, 1/exp(d/10), not inverse-square.
//
// Parameters:
//   - d: the distance between the light and the fragment
//
// Returns:
//   - float32: the attenuation factor in (0, 1] for d >= 0
func Attenuation(d float32) float32 {
	return float32(1 / math.Exp(float64(d)/10))
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

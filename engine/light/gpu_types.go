package light

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// MaxPointLights is the number of point lights the lighting storage buffer holds.
// Lights past this budget are dropped by PackLights.
const MaxPointLights = 16

// GPUPointLightSource is the canonical WGSL definition of the PointLight struct.
// Matches GPUPointLight layout exactly (32 bytes, vec3f fields padded to 16).
//
//go:embed assets/light.wgsl
var GPUPointLightSource string

// GPULightingUniformSource is the canonical WGSL definition of the LightingUniform struct.
// Matches GPULightingUniform layout exactly (32 bytes).
//
//go:embed assets/lighting_uniform.wgsl
var GPULightingUniformSource string

// GPUPointLight is the GPU-aligned representation of a single point light.
type GPUPointLight struct {
	Position [3]float32 // offset  0
	_pad0    float32    // offset 12
	Color    [3]float32 // offset 16
	_pad1    float32    // offset 28
}

// Size returns the size of the GPUPointLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUPointLight) Size() int {
	return 32
}

// Marshal serializes the GPUPointLight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUPointLight) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	return buf
}

// GPULightingUniform is the per-frame lighting header read by the lighting pass.
// WGSL places count directly after the vec3f ambient and rounds the struct to 32 bytes.
type GPULightingUniform struct {
	Ambient   [3]float32 // offset  0
	Count     uint32     // offset 12
	Intensity float32    // offset 16
}

// Size returns the size of the GPULightingUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPULightingUniform) Size() int {
	return 32
}

// Marshal serializes the GPULightingUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULightingUniform) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Ambient[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Ambient[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Ambient[2]))
	binary.LittleEndian.PutUint32(buf[12:16], g.Count)
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Intensity))
	return buf
}

// PackLights folds the given lights into the lighting uniform and the point light
// storage payload. Ambient lights are summed; enabled point lights are packed in
// order up to MaxPointLights. Disabled lights are skipped.
//
// Parameters:
//   - lights: the lights to pack
//   - intensity: the scalar applied to every point light
//
// Returns:
//   - GPULightingUniform: the header with the summed ambient and the packed count
//   - []byte: the point light storage payload, Count*32 bytes
func PackLights(lights []Light, intensity float32) (GPULightingUniform, []byte) {
	header := GPULightingUniform{Intensity: intensity}
	payload := make([]byte, 0, MaxPointLights*32)
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		switch l.Type() {
		case LightTypeAmbient:
			c := l.Color()
			header.Ambient[0] += c[0]
			header.Ambient[1] += c[1]
			header.Ambient[2] += c[2]
		case LightTypePoint:
			if header.Count >= MaxPointLights {
				continue
			}
			gl := GPUPointLight{Position: l.Position(), Color: l.Color()}
			payload = append(payload, gl.Marshal()...)
			header.Count++
		}
	}
	return header, payload
}

package picker

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Recorder records geometry into a render pass. The picker runs it inside its own pass, so it
// must bind a pipeline whose color target is the RGBA8Unorm object-ID image.
type Recorder func(pass *wgpu.RenderPassEncoder)

// Backend performs the GPU side of a pick.
type Backend interface {
	// Resize recreates the ID and depth images at the given size.
	//
	// Parameters:
	//   - width: the viewport width in pixels
	//   - height: the viewport height in pixels
	Resize(width, height uint32)

	// Render clears the ID image to zero alpha, runs record, copies the texel at (x, y) into the
	// readback buffer and blocks until the copy is visible to the host.
	//
	// Parameters:
	//   - record: the geometry recording
	//   - x: the texel column, inside the current size
	//   - y: the texel row, inside the current size
	//
	// Returns:
	//   - [4]byte: the RGBA bytes of the texel
	Render(record Recorder, x, y uint32) [4]byte

	// Release frees the backend's GPU resources.
	Release()
}

// Picker answers "which tile is under the cursor" by rendering object IDs offscreen and reading
// back a single texel.
type Picker struct {
	backend Backend
	width   uint32
	height  uint32
}

// New creates a Picker over backend. The backend is sized on the first Pick.
//
// Parameters:
//   - backend: the GPU backend
//
// Returns:
//   - *Picker: the picker
func New(backend Backend) *Picker {
	return &Picker{backend: backend}
}

// Pick renders the scene with record at width by height and returns the id under (x, y).
// A cursor outside the viewport returns no id without rendering anything.
//
// Parameters:
//   - width: the viewport width in pixels
//   - height: the viewport height in pixels
//   - record: the object-ID geometry recording
//   - x: the cursor column in pixels
//   - y: the cursor row in pixels
//
// Returns:
//   - uint32: the picked id
//   - bool: false when nothing was hit
func (p *Picker) Pick(width, height uint32, record Recorder, x, y int) (uint32, bool) {
	if width != p.width || height != p.height {
		p.backend.Resize(width, height)
		p.width, p.height = width, height
	}

	if x < 0 || y < 0 || x >= int(width) || y >= int(height) {
		return 0, false
	}

	return Decode(p.backend.Render(record, uint32(x), uint32(y)))
}

// Release frees the backend.
func (p *Picker) Release() {
	p.backend.Release()
}

// Size returns the size of the last Pick.
func (p *Picker) Size() (uint32, uint32) {
	return p.width, p.height
}

// Decode turns an ID texel back into a tile id. Zero alpha means nothing was drawn there.
//
// Parameters:
//   - px: the RGBA texel
//
// Returns:
//   - uint32: the id packed in red, green and blue
//   - bool: false for a background texel
func Decode(px [4]byte) (uint32, bool) {
	if px[3] == 0 {
		return 0, false
	}
	return uint32(px[0]) | uint32(px[1])<<8 | uint32(px[2])<<16, true
}

package deferred

import (
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/targets"
	"github.com/cogentcore/webgpu/wgpu"
)

// G-buffer formats. Position uses RGBA16Float because multisampled RGBA32Float color targets
// are not allowed.
const (
	AlbedoFormat   = wgpu.TextureFormatRGBA8Unorm
	NormalFormat   = wgpu.TextureFormatRGBA16Float
	PositionFormat = wgpu.TextureFormatRGBA16Float
	DepthFormat    = wgpu.TextureFormatDepth32Float
)

// Indices of the G-buffer targets within the Geometry target set.
const (
	TargetAlbedo = iota
	TargetNormal
	TargetPosition
	TargetDepth
)

// Recorder records draw commands into an open render pass.
type Recorder func(pass *wgpu.RenderPassEncoder)

// GBufferDescs returns the G-buffer declaration at the given sample count.
//
// Parameters:
//   - sampleCount: 1 or 4
//
// Returns:
//   - []targets.Desc: albedo, normal, position and depth in attachment order
func GBufferDescs(sampleCount uint32) []targets.Desc {
	return []targets.Desc{
		{Label: "GBuffer Albedo", Format: AlbedoFormat, SampleCount: sampleCount},
		{Label: "GBuffer Normal", Format: NormalFormat, SampleCount: sampleCount},
		{Label: "GBuffer Position", Format: PositionFormat, SampleCount: sampleCount},
		{Label: "GBuffer Depth", Format: DepthFormat, SampleCount: sampleCount},
	}
}

// Geometry is the first pass of a frame. It owns the G-buffer and opens the render pass the
// scene's geometry is recorded into.
type Geometry struct {
	set         *targets.Set
	sampleCount uint32
}

// NewGeometry declares the G-buffer. Targets are allocated by the first Resize.
//
// Parameters:
//   - alloc: the target allocator, normally the renderer
//   - sampleCount: the G-buffer sample count, 1 or 4
//
// Returns:
//   - *Geometry: the geometry pass
func NewGeometry(alloc targets.Allocator, sampleCount uint32) *Geometry {
	return &Geometry{
		set:         targets.NewSet(alloc, GBufferDescs(sampleCount)...),
		sampleCount: sampleCount,
	}
}

// Resize rebuilds the G-buffer when the viewport size changed.
func (g *Geometry) Resize(width, height uint32) bool {
	return g.set.Resize(width, height)
}

// Targets returns the G-buffer target set.
func (g *Geometry) Targets() *targets.Set {
	return g.set
}

// SampleCount returns the G-buffer sample count.
func (g *Geometry) SampleCount() uint32 {
	return g.sampleCount
}

// ColorFormats returns the color target formats a geometry pipeline must declare.
func (g *Geometry) ColorFormats() []wgpu.TextureFormat {
	return []wgpu.TextureFormat{AlbedoFormat, NormalFormat, PositionFormat}
}

// Begin opens the geometry render pass on encoder. Color targets are cleared to zero and
// depth to 1. The caller records into the pass and ends it.
//
// Parameters:
//   - encoder: the frame's command encoder
//
// Returns:
//   - *wgpu.RenderPassEncoder: the open pass
func (g *Geometry) Begin(encoder *wgpu.CommandEncoder) *wgpu.RenderPassEncoder {
	colors, depth := g.set.Attachments(wgpu.Color{})
	return encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:                  "Geometry Pass",
		ColorAttachments:       colors,
		DepthStencilAttachment: depth,
	})
}

// Release frees the G-buffer.
func (g *Geometry) Release() {
	g.set.Release()
}

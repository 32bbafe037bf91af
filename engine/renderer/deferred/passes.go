package deferred

import (
	"github.com/Carmen-Shannon/oxy-tiles/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
)

// UI draws over the lit image. The overlay implements it.
type UI interface {
	Draw(encoder *wgpu.CommandEncoder, target *wgpu.TextureView) error
}

// Passes is the GPU implementation of Stages.
type Passes struct {
	Geometry *Geometry
	Lighting *Lighting
	Overlay  UI
}

var _ Stages = &Passes{}

// Resize rebuilds the G-buffer for a new viewport size.
func (p *Passes) Resize(width, height uint32) bool {
	return p.Geometry.Resize(width, height)
}

// HasUI reports whether an overlay is attached.
func (p *Passes) HasUI() bool {
	return p.Overlay != nil
}

func (p *Passes) RecordGeometry(encoder *wgpu.CommandEncoder, record Recorder) error {
	pass := p.Geometry.Begin(encoder)
	record(pass)
	pass.End()
	return nil
}

func (p *Passes) RecordLighting(encoder *wgpu.CommandEncoder, target *wgpu.TextureView, lights []light.Light) error {
	return p.Lighting.Draw(encoder, target, lights)
}

func (p *Passes) RecordUI(encoder *wgpu.CommandEncoder, target *wgpu.TextureView) error {
	if p.Overlay == nil {
		return nil
	}
	return p.Overlay.Draw(encoder, target)
}

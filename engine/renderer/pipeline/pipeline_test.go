package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("p")

	if p.SampleCount() != 1 {
		t.Errorf("SampleCount() = %d, want 1", p.SampleCount())
	}
	if p.DepthFormat() != wgpu.TextureFormatUndefined {
		t.Errorf("DepthFormat() = %v, want undefined", p.DepthFormat())
	}
	if p.DepthTestEnabled() || p.DepthWriteEnabled() {
		t.Error("depth state enabled without a depth format")
	}
	if p.BlendEnabled() || p.BlendState() != nil {
		t.Error("blending enabled by default")
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("Topology() = %v, want triangle list", p.Topology())
	}
	if p.CullMode() != wgpu.CullModeNone || p.WriteMask() != wgpu.ColorWriteMaskAll {
		t.Errorf("cull %v mask %v, want none/all", p.CullMode(), p.WriteMask())
	}
}

func TestNewPipelineOptions(t *testing.T) {
	p := NewPipeline("gbuffer",
		WithColorTargets(wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA16Float),
		WithDepthFormat(wgpu.TextureFormatDepth32Float),
		WithSampleCount(4),
		WithBlendEnabled(true),
	)

	if got := p.ColorTargets(); len(got) != 2 || got[1] != wgpu.TextureFormatRGBA16Float {
		t.Errorf("ColorTargets() = %v", got)
	}
	if p.SampleCount() != 4 {
		t.Errorf("SampleCount() = %d, want 4", p.SampleCount())
	}
	if !p.DepthTestEnabled() {
		t.Error("DepthTestEnabled() = false, want true")
	}
	if !p.DepthWriteEnabled() {
		t.Error("DepthWriteEnabled() = false, want true")
	}
	if p.BlendState() == nil {
		t.Fatal("BlendState() = nil with blending enabled")
	}
	if p.BlendState().Color.SrcFactor != wgpu.BlendFactorSrcAlpha {
		t.Errorf("default blend src = %v", p.BlendState().Color.SrcFactor)
	}
}

func TestRasterOptions(t *testing.T) {
	p := NewPipeline("blocks",
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)
	if p.CullMode() != wgpu.CullModeBack || p.FrontFace() != wgpu.FrontFaceCW || p.WriteMask() != wgpu.ColorWriteMaskRed {
		t.Errorf("cull %v front %v mask %v", p.CullMode(), p.FrontFace(), p.WriteMask())
	}
}

func TestWithSampleCountClampsZero(t *testing.T) {
	if got := NewPipeline("p", WithSampleCount(0)).SampleCount(); got != 1 {
		t.Errorf("SampleCount() = %d, want 1", got)
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "camera", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 2, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
		2: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := MergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 3 {
		t.Fatalf("len(merged) = %d, want 3", len(merged))
	}

	g0 := merged[0]
	if g0.Label != "camera" {
		t.Errorf("group 0 label = %q, want camera", g0.Label)
	}
	if len(g0.Entries) != 2 {
		t.Fatalf("group 0 entries = %d, want 2", len(g0.Entries))
	}
	if g0.Entries[0].Binding != 0 || g0.Entries[1].Binding != 2 {
		t.Errorf("group 0 bindings not sorted: %+v", g0.Entries)
	}
	if want := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment; g0.Entries[0].Visibility != want {
		t.Errorf("shared binding visibility = %v, want %v", g0.Entries[0].Visibility, want)
	}
	if merged[1].Entries[0].Visibility != wgpu.ShaderStageVertex {
		t.Error("vertex-only group lost its visibility")
	}
	if merged[2].Entries[0].Visibility != wgpu.ShaderStageFragment {
		t.Error("fragment-only group lost its visibility")
	}
}

package deferred

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/targets"
	"github.com/cogentcore/webgpu/wgpu"
)

type countingAllocator struct {
	live int
}

func (a *countingAllocator) CreateTarget(desc targets.Desc, width, height uint32) (targets.Target, error) {
	a.live++
	return targets.Target{Desc: desc, Width: width, Height: height}, nil
}

func (a *countingAllocator) ReleaseTarget(targets.Target) {
	a.live--
}

func TestGBufferLayout(t *testing.T) {
	for _, samples := range []uint32{1, 4} {
		descs := GBufferDescs(samples)
		want := []wgpu.TextureFormat{AlbedoFormat, NormalFormat, PositionFormat, DepthFormat}
		if len(descs) != len(want) {
			t.Fatalf("len(descs) = %d, want %d", len(descs), len(want))
		}
		for i, d := range descs {
			if d.Format != want[i] || d.SampleCount != samples {
				t.Errorf("samples %d desc %d = %v/%d", samples, i, d.Format, d.SampleCount)
			}
			if err := targets.Validate(d); err != nil {
				t.Errorf("samples %d desc %d invalid: %v", samples, i, err)
			}
		}
		if !targets.IsDepth(descs[TargetDepth].Format) {
			t.Error("depth target is not a depth format")
		}
	}
}

func TestGeometryResize(t *testing.T) {
	alloc := &countingAllocator{}
	g := NewGeometry(alloc, 4)

	g.Resize(640, 480)
	g.Resize(800, 600)
	if alloc.live != 4 {
		t.Errorf("live targets = %d, want 4", alloc.live)
	}
	if w, h := g.Targets().Size(); w != 800 || h != 600 {
		t.Errorf("Size() = %dx%d, want 800x600", w, h)
	}

	g.Release()
	if alloc.live != 0 {
		t.Errorf("live targets after Release = %d, want 0", alloc.live)
	}
}

func TestGeometryColorFormatsMatchTargets(t *testing.T) {
	g := NewGeometry(&countingAllocator{}, 1)
	colors := g.ColorFormats()
	descs := g.Targets().Descs()
	for i, f := range colors {
		if descs[i].Format != f {
			t.Errorf("color %d = %v, target %d = %v", i, f, i, descs[i].Format)
		}
	}
}

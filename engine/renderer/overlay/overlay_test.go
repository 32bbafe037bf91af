package overlay

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/Carmen-Shannon/oxy-tiles/engine/profiler"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestLayout(t *testing.T) {
	stats, preview := Layout(800, 600)

	if stats != (common.Rect{X: 10, Y: 10, W: StatsWidth, H: StatsHeight}) {
		t.Errorf("stats = %+v", stats)
	}
	want := common.Rect{X: 590, Y: 440, W: 200, H: 150}
	if preview != want {
		t.Errorf("preview = %+v, want %+v", preview, want)
	}
}

func TestClipRect(t *testing.T) {
	tests := []struct {
		name string
		rect common.Rect
		want [4]float32
	}{
		{"full viewport", common.Rect{W: 100, H: 50}, [4]float32{-1, 1, 1, -1}},
		{"bottom right quarter", common.Rect{X: 50, Y: 25, W: 50, H: 25}, [4]float32{0, 0, 1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClipRect(tt.rect, 100, 50); got != tt.want {
				t.Errorf("ClipRect() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := ClipRect(common.Rect{W: 1, H: 1}, 0, 10); got != ([4]float32{}) {
		t.Errorf("zero viewport = %v, want zero", got)
	}
}

func TestHovered(t *testing.T) {
	o := &Overlay{showPreview: true}
	o.Resize(800, 600)

	tests := []struct {
		name    string
		x, y    float32
		preview bool
		want    bool
	}{
		{"stats panel", 20, 20, true, true},
		{"preview panel", 700, 500, true, true},
		{"preview hidden", 700, 500, false, false},
		{"scene", 400, 300, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o.showPreview = tt.preview
			if got := o.Hovered(tt.x, tt.y); got != tt.want {
				t.Errorf("Hovered(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSetLinesMarksDirtyOnlyOnChange(t *testing.T) {
	o := &Overlay{}
	o.SetLines("FPS: 60.0")
	if !o.textDirty {
		t.Fatal("new text not marked dirty")
	}
	o.textDirty = false
	o.SetLines("FPS: 60.0")
	if o.textDirty {
		t.Error("unchanged text marked dirty")
	}
}

func TestStatsLines(t *testing.T) {
	lines := StatsLines(profiler.Stats{FPS: 59.94, FrameTime: 16680 * time.Microsecond})
	if lines[0] != "FPS: 59.9" || lines[1] != "Frame: 16.68 ms" {
		t.Errorf("lines = %q", lines)
	}
}

func TestTextRenderer(t *testing.T) {
	tr, err := NewTextRenderer(14)
	if err != nil {
		t.Fatalf("NewTextRenderer: %v", err)
	}
	defer tr.Close()

	blank := tr.Render(nil, StatsWidth, StatsHeight)
	if len(blank.Pixels) != StatsWidth*StatsHeight*4 {
		t.Fatalf("len(Pixels) = %d", len(blank.Pixels))
	}
	if blank.Pixels[3] != panelBackground.A {
		t.Errorf("background alpha = %d, want %d", blank.Pixels[3], panelBackground.A)
	}

	text := tr.Render([]string{"FPS: 60.0"}, StatsWidth, StatsHeight)
	var lit int
	for i := 0; i < len(text.Pixels); i += 4 {
		if text.Pixels[i] > 128 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("no glyph pixels were drawn")
	}
}

func TestPanelPipelineKeepsSurfaceAlpha(t *testing.T) {
	for _, blend := range []bool{true, false} {
		p := panelPipeline("panel", nil, nil, wgpu.TextureFormatBGRA8Unorm, blend)
		if p.WriteMask()&wgpu.ColorWriteMaskAlpha != 0 {
			t.Errorf("blend %v: panel writes surface alpha", blend)
		}
		if want := wgpu.ColorWriteMaskRed | wgpu.ColorWriteMaskGreen | wgpu.ColorWriteMaskBlue; p.WriteMask() != want {
			t.Errorf("blend %v: write mask = %v, want %v", blend, p.WriteMask(), want)
		}
		if p.BlendEnabled() != blend {
			t.Errorf("BlendEnabled() = %v, want %v", p.BlendEnabled(), blend)
		}
		if p.DepthFormat() != wgpu.TextureFormatUndefined {
			t.Error("panel pipeline has a depth attachment")
		}
	}
}

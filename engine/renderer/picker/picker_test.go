package picker

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tiles/game/tilemap"
	"github.com/cogentcore/webgpu/wgpu"
)

type fakeBackend struct {
	resizes [][2]uint32
	renders int
	lastX   uint32
	lastY   uint32
	texel   [4]byte
}

func (f *fakeBackend) Resize(width, height uint32) {
	f.resizes = append(f.resizes, [2]uint32{width, height})
}

func (f *fakeBackend) Render(record Recorder, x, y uint32) [4]byte {
	f.renders++
	f.lastX, f.lastY = x, y
	record(nil)
	return f.texel
}

func (f *fakeBackend) Release() {}

func noop(*wgpu.RenderPassEncoder) {}

func TestPickOutOfBoundsSkipsRender(t *testing.T) {
	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 10},
		{"negative y", 10, -1},
		{"x at width", 800, 10},
		{"y at height", 10, 600},
		{"far outside", 5000, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{texel: [4]byte{1, 0, 0, 255}}
			p := New(b)
			id, ok := p.Pick(800, 600, noop, tt.x, tt.y)
			if ok || id != 0 {
				t.Errorf("Pick() = (%d, %v), want (0, false)", id, ok)
			}
			if b.renders != 0 {
				t.Errorf("Render called %d times, want 0", b.renders)
			}
		})
	}
}

func TestPickZeroAlphaIsNone(t *testing.T) {
	b := &fakeBackend{texel: [4]byte{12, 34, 56, 0}}
	if id, ok := New(b).Pick(10, 10, noop, 5, 5); ok {
		t.Errorf("Pick() = (%d, true), want none for zero alpha", id)
	}
	if b.renders != 1 {
		t.Errorf("Render called %d times, want 1", b.renders)
	}
}

func TestPickResizesOnlyOnChange(t *testing.T) {
	b := &fakeBackend{}
	p := New(b)
	p.Pick(800, 600, noop, 1, 1)
	p.Pick(800, 600, noop, 2, 2)
	p.Pick(1024, 768, noop, 3, 3)

	want := [][2]uint32{{800, 600}, {1024, 768}}
	if len(b.resizes) != len(want) {
		t.Fatalf("resizes = %v, want %v", b.resizes, want)
	}
	for i := range want {
		if b.resizes[i] != want[i] {
			t.Errorf("resize %d = %v, want %v", i, b.resizes[i], want[i])
		}
	}
	if b.lastX != 3 || b.lastY != 3 {
		t.Errorf("Render at (%d, %d), want (3, 3)", b.lastX, b.lastY)
	}
}

func TestDecodeRoundTripsEncodedIDs(t *testing.T) {
	for _, id := range []uint32{0, 1, 5, 255, 256, 1599, 65535, 65536, 0xFFFFFF} {
		c := tilemap.EncodeObjectID(id)
		// the GPU stores unorm channels as round(v * 255)
		px := [4]byte{
			byte(c[0]*255 + 0.5),
			byte(c[1]*255 + 0.5),
			byte(c[2]*255 + 0.5),
			byte(c[3]*255 + 0.5),
		}
		got, ok := Decode(px)
		if !ok || got != id {
			t.Errorf("Decode(EncodeObjectID(%d)) = (%d, %v)", id, got, ok)
		}
	}
}

func TestDecodeIgnoresRGBWhenTransparent(t *testing.T) {
	if _, ok := Decode([4]byte{255, 255, 255, 0}); ok {
		t.Error("Decode reported a hit for zero alpha")
	}
}

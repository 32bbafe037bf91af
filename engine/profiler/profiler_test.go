package profiler

import (
	"testing"
	"time"
)

func TestTickSnapshot(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(WithClock(func() time.Time { return now }))

	for i := 0; i < 59; i++ {
		now = now.Add(time.Second / 60)
		if p.Tick() {
			t.Fatalf("tick %d refreshed before the interval elapsed", i)
		}
	}
	if p.Stats().FPS != 0 {
		t.Errorf("FPS before first refresh = %v, want 0", p.Stats().FPS)
	}

	now = now.Add(time.Second / 60)
	now = now.Add(time.Millisecond)
	if !p.Tick() {
		t.Fatal("tick after the interval did not refresh")
	}
	stats := p.Stats()
	if stats.FPS < 59 || stats.FPS > 60 {
		t.Errorf("FPS = %v, want about 60", stats.FPS)
	}
	if stats.FrameTime < 16*time.Millisecond || stats.FrameTime > 17*time.Millisecond {
		t.Errorf("FrameTime = %v, want about 16.7ms", stats.FrameTime)
	}
}

func TestWithInterval(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewProfiler(WithClock(func() time.Time { return now }), WithInterval(100*time.Millisecond))

	now = now.Add(100 * time.Millisecond)
	if !p.Tick() {
		t.Fatal("expected a refresh at the interval boundary")
	}
	if got := p.Stats().FPS; got != 10 {
		t.Errorf("FPS = %v, want 10", got)
	}
}

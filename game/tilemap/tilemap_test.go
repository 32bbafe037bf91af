package tilemap

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time           { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMap(t *testing.T, w, h, excluded int, clock *fakeClock) *Map {
	t.Helper()
	m, err := New(w, h, excluded, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("New(%d, %d, %d): %v", w, h, excluded, err)
	}
	return m
}

func TestNewExcludesCross(t *testing.T) {
	m := newTestMap(t, 10, 10, 3, newFakeClock())

	if got := len(m.Tiles()); got != 81 {
		t.Fatalf("tile count = %d, want 81", got)
	}
	seen := make(map[uint32]bool)
	for _, tile := range m.Tiles() {
		if tile.X == 3 || tile.Y == 3 {
			t.Errorf("tile %d at (%d, %d) should be excluded", tile.ID, tile.X, tile.Y)
		}
		if seen[tile.ID] {
			t.Errorf("duplicate tile id %d", tile.ID)
		}
		seen[tile.ID] = true
		if tile.State != Normal || tile.Selected || tile.Highlighted {
			t.Errorf("tile %d starts as %+v, want a fresh normal tile", tile.ID, tile)
		}
	}
	if _, ok := m.Tile(TileID(3, 0, 10)); ok {
		t.Error("tile (3, 0) should not exist")
	}
	if _, ok := m.Tile(TileID(4, 5, 10)); !ok {
		t.Error("tile (4, 5) should exist")
	}
}

func TestTileIDRoundTrip(t *testing.T) {
	grids := []struct{ w, h, excluded int }{
		{10, 10, 3},
		{40, 40, 3},
		{7, 13, -1},
		{2, 5, 0},
		{300, 2, 1},
	}
	for _, g := range grids {
		m, err := New(g.w, g.h, g.excluded)
		if err != nil {
			t.Fatalf("New(%v): %v", g, err)
		}
		for _, tile := range m.Tiles() {
			if tile.ID != uint32(tile.Y*g.w+tile.X) {
				t.Errorf("grid %v: tile (%d, %d) has id %d", g, tile.X, tile.Y, tile.ID)
			}
			x, y := Position(tile.ID, g.w)
			if x != tile.X || y != tile.Y {
				t.Errorf("grid %v: Position(%d) = (%d, %d), want (%d, %d)", g, tile.ID, x, y, tile.X, tile.Y)
			}
		}
	}
}

func TestNewRejectsEmptyGrids(t *testing.T) {
	if _, err := New(0, 4, -1); err == nil {
		t.Error("expected an error for a zero width")
	}
	if _, err := New(1, 1, 0); !errors.Is(err, ErrNoTiles) {
		t.Errorf("New(1, 1, 0) error = %v, want ErrNoTiles", err)
	}
	if _, err := New(1, 5, 0); !errors.Is(err, ErrNoTiles) {
		t.Errorf("New(1, 5, 0) error = %v, want ErrNoTiles", err)
	}
}

func TestHighlightStampsOnlyOnEdge(t *testing.T) {
	clock := newFakeClock()
	m := newTestMap(t, 10, 10, 3, clock)
	first := clock.Now()

	m.Highlight(5, true)
	if !m.Changed() {
		t.Fatal("highlighting a tile should mark the map changed")
	}
	tile, _ := m.Tile(5)
	if !tile.Highlighted || tile.State != Highlighted || !tile.HighlightedAt.Equal(first) {
		t.Fatalf("after first highlight tile = %+v", tile)
	}

	clock.Advance(100 * time.Millisecond)
	m.Highlight(5, true)
	if m.Changed() {
		t.Error("re-highlighting the same tile should not mark the map changed")
	}
	tile, _ = m.Tile(5)
	if !tile.HighlightedAt.Equal(first) {
		t.Errorf("highlight time reset to %v, want %v", tile.HighlightedAt, first)
	}

	clock.Advance(100 * time.Millisecond)
	m.Highlight(6, true)
	if !m.Changed() {
		t.Error("moving the highlight should mark the map changed")
	}
	old, _ := m.Tile(5)
	if old.Highlighted || old.State != Normal {
		t.Errorf("previous tile still highlighted: %+v", old)
	}
	next, _ := m.Tile(6)
	if !next.HighlightedAt.Equal(clock.Now()) {
		t.Errorf("new highlight time = %v, want %v", next.HighlightedAt, clock.Now())
	}

	m.Highlight(0, false)
	for _, tile := range m.Tiles() {
		if tile.Highlighted {
			t.Errorf("tile %d still highlighted after clearing", tile.ID)
		}
	}
}

func TestSelectToggles(t *testing.T) {
	clock := newFakeClock()
	m := newTestMap(t, 10, 10, 3, clock)

	m.Select(5, true)
	tile, _ := m.Tile(5)
	if !tile.Selected || !tile.SelectedAt.Equal(clock.Now()) {
		t.Fatalf("after select tile = %+v", tile)
	}

	clock.Advance(10 * time.Millisecond)
	m.Select(5, true)
	tile, _ = m.Tile(5)
	if tile.Selected {
		t.Error("second select should deselect")
	}

	m.Changed()
	m.Select(5, false)
	m.Select(3, true) // excluded column
	if m.Changed() {
		t.Error("selecting nothing or an excluded tile should not change the map")
	}
}

func TestUpdateBoundary(t *testing.T) {
	tests := []struct {
		name        string
		elapsed     time.Duration
		wantCleared bool
	}{
		{"immediately", 0, false},
		{"before delay", 499 * time.Millisecond, false},
		{"exactly at delay", 500 * time.Millisecond, false},
		{"just past delay", 500*time.Millisecond + time.Nanosecond, true},
		{"well past delay", 2 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			m := newTestMap(t, 10, 10, 3, clock)
			m.Select(5, true)

			clock.Advance(tt.elapsed)
			m.Update()

			tile, _ := m.Tile(5)
			if tt.wantCleared {
				if tile.Selected || tile.Highlighted || tile.State != Cleared {
					t.Errorf("tile = %+v, want cleared", tile)
				}
			} else if !tile.Selected || tile.State == Cleared {
				t.Errorf("tile = %+v, want still selected", tile)
			}
		})
	}
}

func TestSelectThenClearScenario(t *testing.T) {
	clock := newFakeClock()
	m := newTestMap(t, 10, 10, 3, clock)

	m.Select(5, true)
	if n := m.Update(); n != 0 {
		t.Fatalf("Update cleared %d tiles immediately", n)
	}
	tile, _ := m.Tile(5)
	if !tile.Selected {
		t.Fatal("tile 5 should still be selected right after selecting it")
	}

	clock.Advance(600 * time.Millisecond)
	if n := m.Update(); n != 1 {
		t.Fatalf("Update cleared %d tiles, want 1", n)
	}
	tile, _ = m.Tile(5)
	if tile.Selected || tile.State != Cleared {
		t.Fatalf("tile 5 = %+v, want cleared and deselected", tile)
	}
	if got := m.Visible(); got != 80 {
		t.Errorf("visible = %d, want 80", got)
	}

	// cleared tiles ignore further input
	m.Changed()
	m.Select(5, true)
	m.Highlight(5, true)
	if m.Changed() {
		t.Error("cleared tile reacted to input")
	}
}

func TestWithClearDelay(t *testing.T) {
	clock := newFakeClock()
	m, err := New(4, 4, -1, WithClock(clock.Now), WithClearDelay(2*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	m.Select(0, true)
	clock.Advance(time.Second)
	m.Update()
	if tile, _ := m.Tile(0); tile.State == Cleared {
		t.Error("tile cleared before the configured delay")
	}
	clock.Advance(time.Second + time.Millisecond)
	m.Update()
	if tile, _ := m.Tile(0); tile.State != Cleared {
		t.Error("tile not cleared after the configured delay")
	}
}

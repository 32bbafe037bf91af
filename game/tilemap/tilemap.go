// Package tilemap holds the tile game state: a flat grid of blocks that can be highlighted
// by the cursor, selected by a click and cleared once a selection has aged past the clear delay.
package tilemap

import (
	"errors"
	"fmt"
	"time"
)

// DefaultClearDelay is how long a tile stays selected before Update clears it.
const DefaultClearDelay = 500 * time.Millisecond

// ErrNoTiles is returned when the grid and exclusion leave no tile to build.
var ErrNoTiles = errors.New("tile map has no tiles")

// State is the lifecycle state of a tile.
type State int

const (
	// Normal tiles are drawn and pickable.
	Normal State = iota
	// Cleared tiles were selected long enough to be removed. They are never drawn again.
	Cleared
	// Highlighted tiles are under the cursor. The state reverts to Normal when the cursor leaves.
	Highlighted
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case Cleared:
		return "cleared"
	case Highlighted:
		return "highlighted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Tile is one cell of the grid.
type Tile struct {
	ID            uint32
	X, Y          int
	State         State
	Selected      bool
	Highlighted   bool
	SelectedAt    time.Time
	HighlightedAt time.Time
}

// Map owns the tiles of a W x H grid minus an excluded cross: the row and column whose
// index equals the exclusion are never built. It is not safe for concurrent mutation;
// the event loop is its only writer.
type Map struct {
	width, height int
	excluded      int
	clearDelay    time.Duration
	now           func() time.Time

	tiles []Tile
	index map[uint32]int

	changed bool
}

// New builds the tile grid. Tile ids are y*width + x, so the id of every retained tile is unique
// and decodes back to its grid position.
//
// Parameters:
//   - width: number of columns
//   - height: number of rows
//   - excluded: the row and column index left out of the grid, negative for none
//   - options: functional options for the clock and clear delay
//
// Returns:
//   - *Map: the populated map
//   - error: ErrNoTiles if nothing is left after the exclusion, or an error for invalid sizes
func New(width, height, excluded int, options ...MapOption) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tile map size %dx%d must be positive", width, height)
	}
	if width*height > 1<<24 {
		return nil, fmt.Errorf("tile map size %dx%d exceeds the 24-bit id range", width, height)
	}

	m := &Map{
		width:      width,
		height:     height,
		excluded:   excluded,
		clearDelay: DefaultClearDelay,
		now:        time.Now,
		index:      make(map[uint32]int),
	}
	for _, opt := range options {
		opt(m)
	}

	for y := 0; y < height; y++ {
		if y == excluded {
			continue
		}
		for x := 0; x < width; x++ {
			if x == excluded {
				continue
			}
			id := TileID(x, y, width)
			m.index[id] = len(m.tiles)
			m.tiles = append(m.tiles, Tile{ID: id, X: x, Y: y, State: Normal})
		}
	}
	if len(m.tiles) == 0 {
		return nil, ErrNoTiles
	}
	return m, nil
}

// TileID encodes a grid position for a grid of the given width.
func TileID(x, y, width int) uint32 {
	return uint32(y*width + x)
}

// Position decodes a tile id back into its grid position.
func Position(id uint32, width int) (x, y int) {
	return int(id) % width, int(id) / width
}

func (m *Map) Width() int  { return m.width }
func (m *Map) Height() int { return m.height }

// Tiles returns the tiles in id order. The slice is owned by the map and must not be modified.
func (m *Map) Tiles() []Tile {
	return m.tiles
}

// Tile returns a copy of the tile with the given id.
func (m *Map) Tile(id uint32) (Tile, bool) {
	i, ok := m.index[id]
	if !ok {
		return Tile{}, false
	}
	return m.tiles[i], true
}

// Visible counts the tiles that have not been cleared.
func (m *Map) Visible() int {
	n := 0
	for i := range m.tiles {
		if m.tiles[i].State != Cleared {
			n++
		}
	}
	return n
}

// Changed reports whether any tile flag flipped since the last call, and resets the flag.
func (m *Map) Changed() bool {
	c := m.changed
	m.changed = false
	return c
}

// Highlight marks the tile with the given id as highlighted and every other tile as not.
// ok == false clears all highlights. The highlight time is stamped only on the
// false -> true edge so a repeated highlight of the same tile keeps its animation phase.
// Cleared tiles are never highlighted.
//
// Parameters:
//   - id: the picked tile id
//   - ok: whether a tile was picked at all
func (m *Map) Highlight(id uint32, ok bool) {
	now := m.now()
	for i := range m.tiles {
		t := &m.tiles[i]
		if t.State == Cleared {
			continue
		}
		want := ok && t.ID == id
		if want == t.Highlighted {
			continue
		}
		t.Highlighted = want
		if want {
			t.HighlightedAt = now
			t.State = Highlighted
		} else {
			t.State = Normal
		}
		m.changed = true
	}
}

// Select toggles the selection of the tile with the given id and stamps the selection time.
// ok == false and ids that are unknown or already cleared are ignored.
func (m *Map) Select(id uint32, ok bool) {
	if !ok {
		return
	}
	i, found := m.index[id]
	if !found {
		return
	}
	t := &m.tiles[i]
	if t.State == Cleared {
		return
	}
	t.Selected = !t.Selected
	t.SelectedAt = m.now()
	m.changed = true
}

// Update clears every tile whose selection is older than the clear delay.
// The comparison is strict: a tile selected exactly one delay ago is still selected.
//
// Returns:
//   - int: the number of tiles cleared by this call
func (m *Map) Update() int {
	now := m.now()
	cleared := 0
	for i := range m.tiles {
		t := &m.tiles[i]
		if !t.Selected || now.Sub(t.SelectedAt) <= m.clearDelay {
			continue
		}
		t.Selected = false
		t.Highlighted = false
		t.State = Cleared
		cleared++
	}
	if cleared > 0 {
		m.changed = true
	}
	return cleared
}

package overlay

import "github.com/Carmen-Shannon/oxy-tiles/common"

const (
	margin = 10

	// StatsWidth and StatsHeight are the size of the stats panel and its text texture.
	StatsWidth  = 220
	StatsHeight = 56
)

// Layout places the overlay panels for a viewport: the stats panel in the top-left corner and
// the normal preview, a quarter of the viewport, in the bottom-right corner.
//
// Parameters:
//   - width: the viewport width in pixels
//   - height: the viewport height in pixels
//
// Returns:
//   - common.Rect: the stats panel
//   - common.Rect: the normal preview panel
func Layout(width, height uint32) (stats, preview common.Rect) {
	stats = common.Rect{X: margin, Y: margin, W: StatsWidth, H: StatsHeight}

	pw := float32(width) / 4
	ph := float32(height) / 4
	preview = common.Rect{
		X: float32(width) - pw - margin,
		Y: float32(height) - ph - margin,
		W: pw,
		H: ph,
	}
	return stats, preview
}

// ClipRect converts a pixel rectangle with a top-left origin into clip space
// (left, top, right, bottom), where y points up.
//
// Parameters:
//   - r: the rectangle in pixels
//   - width: the viewport width in pixels
//   - height: the viewport height in pixels
//
// Returns:
//   - [4]float32: left, top, right, bottom in clip space
func ClipRect(r common.Rect, width, height uint32) [4]float32 {
	if width == 0 || height == 0 {
		return [4]float32{}
	}
	w, h := float32(width), float32(height)
	return [4]float32{
		r.X/w*2 - 1,
		1 - r.Y/h*2,
		(r.X+r.W)/w*2 - 1,
		1 - (r.Y+r.H)/h*2,
	}
}

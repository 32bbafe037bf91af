package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var panelBackground = color.RGBA{R: 0, G: 0, B: 0, A: 160}

// TextRenderer rasterises lines of text into RGBA panels using the Go Regular font.
type TextRenderer struct {
	face       font.Face
	lineHeight int
}

// NewTextRenderer parses the embedded Go Regular font at the given size.
//
// Parameters:
//   - size: the font size in points at 72 DPI
//
// Returns:
//   - *TextRenderer: the renderer
//   - error: an error if the font could not be parsed
func NewTextRenderer(size float64) (*TextRenderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("overlay: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay: font face: %w", err)
	}
	return &TextRenderer{
		face:       face,
		lineHeight: face.Metrics().Height.Ceil(),
	}, nil
}

// Render draws lines top to bottom over a translucent background.
//
// Parameters:
//   - lines: the text, one entry per line; lines that do not fit are clipped
//   - width: the panel width in pixels
//   - height: the panel height in pixels
//
// Returns:
//   - common.TextureStagingData: the RGBA8 pixels ready for upload
func (t *TextRenderer) Render(lines []string, width, height int) common.TextureStagingData {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(panelBackground), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: t.face,
	}
	ascent := t.face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		d.Dot = fixed.P(6, 4+ascent+i*t.lineHeight)
		d.DrawString(line)
	}

	return common.TextureStagingData{
		Pixels: img.Pix,
		Width:  uint32(width),
		Height: uint32(height),
	}
}

// Close releases the font face.
func (t *TextRenderer) Close() error {
	return t.face.Close()
}

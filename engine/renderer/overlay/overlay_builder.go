package overlay

// OverlayOption is a functional option for configuring an Overlay.
type OverlayOption func(*Overlay)

// WithNormalPreview toggles the G-buffer normal preview panel. Enabled by default.
//
// Parameters:
//   - enabled: whether the preview is drawn
//
// Returns:
//   - OverlayOption: the option
func WithNormalPreview(enabled bool) OverlayOption {
	return func(o *Overlay) {
		o.showPreview = enabled
	}
}

// WithFontSize sets the stats panel font size in points. Defaults to 14.
func WithFontSize(size float64) OverlayOption {
	return func(o *Overlay) {
		if size > 0 {
			o.fontSize = size
		}
	}
}

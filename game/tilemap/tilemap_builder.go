package tilemap

import "time"

// MapOption is a functional option applied to a Map during construction via New.
type MapOption func(*Map)

// WithClock replaces time.Now as the source of highlight and selection timestamps.
//
// Parameters:
//   - now: the clock to use
//
// Returns:
//   - MapOption: a function that sets the map clock
func WithClock(now func() time.Time) MapOption {
	return func(m *Map) {
		if now != nil {
			m.now = now
		}
	}
}

// WithClearDelay sets how long a tile stays selected before Update clears it.
//
// Parameters:
//   - d: the delay, non-positive values keep the default
//
// Returns:
//   - MapOption: a function that sets the clear delay
func WithClearDelay(d time.Duration) MapOption {
	return func(m *Map) {
		if d > 0 {
			m.clearDelay = d
		}
	}
}

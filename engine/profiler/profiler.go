package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is the snapshot taken at the end of each update interval.
type Stats struct {
	FPS       float64
	FrameTime time.Duration
	HeapMB    float64
	NumGC     uint32
}

// Profiler tracks frame rate and memory statistics for the stats panel.
// Optionally logs each snapshot.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	stats          Stats
	logEnabled     bool
	now            func() time.Time
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithLogging enables the "[Profiler]" log line written on every update.
func WithLogging(enabled bool) ProfilerOption {
	return func(p *Profiler) {
		p.logEnabled = enabled
	}
}

// WithInterval sets how often the snapshot is refreshed. Defaults to 1 second.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - opts: optional configuration
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(opts ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per rendered frame.
// Refreshes the snapshot when the update interval has elapsed.
//
// Returns:
//   - bool: true if the snapshot was refreshed this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	p.stats = Stats{
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		FrameTime: elapsed / time.Duration(p.frameCount),
		HeapMB:    float64(p.memStats.Alloc) / 1024 / 1024,
		NumGC:     p.memStats.NumGC,
	}

	if p.logEnabled {
		log.Printf("[Profiler] FPS: %.2f | Frame: %s | Heap: %.2f MB | GC: %d",
			p.stats.FPS, p.stats.FrameTime, p.stats.HeapMB, p.stats.NumGC)
	}

	p.frameCount = 0
	p.lastTime = currentTime
	return true
}

// Stats returns the most recent snapshot. Zero until the first interval has elapsed.
func (p *Profiler) Stats() Stats {
	return p.stats
}

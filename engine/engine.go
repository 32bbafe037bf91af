package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tiles/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tiles/engine/window"
)

// engine implements the Engine interface.
// Every callback runs on the window's thread, driven by the message pump.
type engine struct {
	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate       time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)
	resizeCallback func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	lastTick   time.Time
	lastRender time.Time
	started    bool

	quitOnce sync.Once
	quit     bool
	failed   bool

	now   func() time.Time
	sleep func(time.Duration)
}

// Engine drives the application: it pumps window messages and, on every iteration, runs the
// tick callback at a fixed rate and the render callback once.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, or nil if none was configured
	Window() window.Window

	// Profiler returns the frame profiler. It is ticked after every render callback.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for game logic and input processing.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each render frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetResizeCallback registers the function called when the framebuffer size changes.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run pumps window messages until the window closes or Quit is called.
	//
	// Returns:
	//   - error: ErrRenderPanic if a render callback panicked, nil otherwise
	Run() error

	// Quit stops the loop and closes the window. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRate: time.Second / 60,
		now:      time.Now,
		sleep:    time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogging(e.profilingEnabled))
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.resizeCallback != nil {
				e.resizeCallback(width, height)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	e.window.SetUpdateCallback(func() {
		if !e.step() {
			e.Quit()
		}
	})
	e.window.ProcessMessages()
	e.Quit()
	if e.failed {
		return ErrRenderPanic
	}
	return nil
}

// Quit stops the loop and closes the window.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.quit = true
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				log.Printf("closing window: %v", err)
			}
		}
	})
}

// step runs one loop iteration: any due ticks, one render, the profiler and the frame limiter.
// Returns false once the loop should stop.
func (e *engine) step() bool {
	if e.quit {
		return false
	}

	now := e.now()
	if !e.started {
		e.started = true
		e.lastTick = now
		e.lastRender = now
	}

	if elapsed := now.Sub(e.lastTick); elapsed >= e.tickRate {
		e.lastTick = now
		if e.tickCallback != nil {
			e.tickCallback(float32(elapsed.Seconds()))
		}
	}

	dt := float32(now.Sub(e.lastRender).Seconds())
	e.lastRender = now
	if !e.render(dt) {
		e.failed = true
		return false
	}

	if e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(now); remaining > 0 {
			e.sleep(remaining)
		}
	}
	return true
}

// render runs the render callback and recovers from panics inside it.
func (e *engine) render(dt float32) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render loop recovered from panic: %v", r)
			ok = false
		}
	}()
	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	return true
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	e.tickRate = time.Duration(float64(time.Second) / fps)
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.resizeCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

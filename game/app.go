// Package game wires the tile game together: window, renderer, deferred passes, picking and
// the tile map.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/Carmen-Shannon/oxy-tiles/config"
	"github.com/Carmen-Shannon/oxy-tiles/engine"
	"github.com/Carmen-Shannon/oxy-tiles/engine/camera"
	"github.com/Carmen-Shannon/oxy-tiles/engine/light"
	"github.com/Carmen-Shannon/oxy-tiles/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/deferred"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/overlay"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/picker"
	"github.com/Carmen-Shannon/oxy-tiles/engine/window"
	"github.com/Carmen-Shannon/oxy-tiles/game/terrain"
	"github.com/Carmen-Shannon/oxy-tiles/game/tilemap"
)

// App owns every component of the running game.
type App struct {
	cfg config.Config

	engine   engine.Engine
	renderer renderer.Renderer
	camera   camera.Camera
	input    *Input

	tiles *tilemap.Map
	pool  worker.DynamicWorkerPool

	gbuffer  *deferred.Geometry
	lighting *deferred.Lighting
	overlay  *overlay.Overlay
	passes   *deferred.Passes
	terrain  *terrain.Terrain
	picker   *picker.Picker

	ambient [3]float32
	lights  []light.Light

	frameIndex uint64
}

// NewApp opens the window and builds the GPU resources described by cfg.
//
// Parameters:
//   - cfg: a validated configuration
//
// Returns:
//   - *App: the app, ready to Run
//   - error: an error if the tile map cannot be built
func NewApp(cfg config.Config) (*App, error) {
	tiles, err := tilemap.New(cfg.Map.Width, cfg.Map.Height, cfg.Map.Excluded,
		tilemap.WithClearDelay(cfg.Map.ClearDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("tile map: %w", err)
	}

	a := &App{
		cfg:     cfg,
		input:   NewInput(),
		tiles:   tiles,
		pool:    worker.NewDynamicWorkerPool(cfg.Workers, 256, time.Second),
		ambient: cfg.Lights.Ambient,
	}

	a.engine = engine.NewEngine(
		engine.WithTickRate(60),
		engine.WithRenderFrameLimit(float64(cfg.Window.FPSLimit)),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithLogging(cfg.Profiler.Log))),
		engine.WithWindow(window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)),
	)

	presentMode := renderer.PresentModeUncapped
	if cfg.Window.VSync {
		presentMode = renderer.PresentModeVSync
	}
	a.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, a.engine.Window(),
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Render.MSAASamples)),
		renderer.WithForceSoftwareRenderer(cfg.Render.ForceFallbackAdapter),
	)

	win := a.engine.Window()
	a.camera = camera.NewCamera(
		camera.WithFov(cfg.Camera.FOV),
		camera.WithAspect(float32(win.Width())/float32(max(win.Height(), 1))),
		camera.WithClip(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithController(camera.NewController(
			camera.WithPosition(cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2]),
			camera.WithOrientation(cfg.Camera.Yaw, cfg.Camera.Pitch),
			camera.WithSpeed(cfg.Camera.Speed),
			camera.WithSensitivity(cfg.Camera.Sensitivity),
		)),
	)

	for _, p := range cfg.Lights.Points {
		a.lights = append(a.lights, light.NewLight(light.LightTypePoint,
			light.WithPosition(p.Position[0], p.Position[1], p.Position[2]),
			light.WithColor(p.Color[0], p.Color[1], p.Color[2]),
		))
	}

	bg := cfg.Render.ClearColor
	a.gbuffer = deferred.NewGeometry(a.renderer, a.renderer.SampleCount())
	a.lighting = deferred.NewLighting(a.renderer, a.gbuffer,
		deferred.WithIntensity(cfg.Lights.Intensity),
		deferred.WithClearColor([3]float32{float32(bg[0]), float32(bg[1]), float32(bg[2])}),
	)
	a.overlay = overlay.NewOverlay(a.renderer, a.gbuffer, overlay.WithNormalPreview(cfg.Render.NormalPreview))
	a.passes = &deferred.Passes{Geometry: a.gbuffer, Lighting: a.lighting, Overlay: a.overlay}
	a.terrain = terrain.NewTerrain(a.renderer, a.gbuffer, len(tiles.Tiles()))
	a.picker = picker.New(picker.NewWGPUBackend(a.renderer))

	a.bindInput()
	a.engine.SetResizeCallback(a.resize)
	a.engine.SetTickCallback(a.tick)
	a.engine.SetRenderCallback(a.render)

	common.Logger().Info("app ready",
		"tiles", tiles.Visible(),
		"msaa", a.renderer.SampleCount(),
		"surface", a.renderer.SurfaceFormat(),
	)
	return a, nil
}

func (a *App) bindInput() {
	win := a.engine.Window()
	win.SetKeyDownCallback(a.input.KeyDown)
	win.SetKeyUpCallback(a.input.KeyUp)
	win.SetMouseDownCallback(func(button common.MouseButton, x, y int32) {
		a.input.MouseDown(button, x, y, a.overlay.Hovered(float32(x), float32(y)))
	})
	win.SetMouseUpCallback(func(button common.MouseButton, _, _ int32) {
		a.input.MouseUp(button)
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		a.input.MouseMove(x, y, a.overlay.Hovered(float32(x), float32(y)))
	})
}

// Run blocks until the window is closed.
func (a *App) Run() error {
	defer a.release()
	return a.engine.Run()
}

func (a *App) resize(width, height int) {
	a.renderer.Resize(width, height)
	if height > 0 {
		a.camera.SetAspect(float32(width) / float32(height))
	}
}

// tick advances the camera and the tile map.
func (a *App) tick(float32) {
	ctrl := a.camera.Controller()
	if dx, dy := a.input.TakeLook(); dx != 0 || dy != 0 {
		ctrl.Look(dx, dy)
	}
	if f, r, u := a.input.Movement(); f != 0 || r != 0 || u != 0 {
		ctrl.Move(f, r, u)
	}
	a.camera.Update()

	if cleared := a.tiles.Update(); cleared > 0 {
		common.Logger().Debug("tiles cleared", "count", cleared, "visible", a.tiles.Visible())
	}
}

// render uploads the scene, runs picking and records one frame.
func (a *App) render(float32) {
	frustum := a.camera.Frustum()
	a.terrain.Update(a.camera, a.tiles.Instances(&frustum, a.pool))

	a.pick()

	frame, err := a.renderer.BeginFrame()
	if errors.Is(err, renderer.ErrFrameSkipped) {
		return
	}
	if err != nil {
		panic(err)
	}

	a.passes.Resize(frame.Width, frame.Height)
	a.overlay.Resize(frame.Width, frame.Height)
	a.overlay.SetStats(a.engine.Profiler().Stats())

	f := deferred.NewFrame(a.frameIndex, a.passes, frame.Encoder, frame.View, a.passes.HasUI())
	var final deferred.Token
	for pass := f.NextPass(); pass != nil; pass = f.NextPass() {
		if fin, ok := pass.(*deferred.FinishedPass); ok {
			final = fin.Token()
			continue
		}
		if err := a.runPass(pass); err != nil {
			panic(fmt.Errorf("frame %d %v pass: %w", a.frameIndex, pass.Stage(), err))
		}
	}

	a.renderer.Submit(frame.Encoder)
	a.renderer.Present()
	a.frameIndex = final.Frame + 1
}

func (a *App) runPass(pass deferred.Pass) error {
	switch p := pass.(type) {
	case *deferred.DeferredPass:
		return p.Execute(deferred.Recorder(a.terrain.Record(terrain.VariantDiffuse)))
	case *deferred.LightingPass:
		p.Ambient(a.ambient)
		for _, l := range a.lights {
			p.PointLight(l)
		}
		return p.Draw()
	case *deferred.UIPass:
		return p.Draw()
	}
	return fmt.Errorf("unexpected pass %T", pass)
}

// pick reads the tile under the cursor when the cursor moved or the map changed, and the tile
// under a pending click.
func (a *App) pick() {
	width, height := uint32(a.engine.Window().Width()), uint32(a.engine.Window().Height())
	record := picker.Recorder(a.terrain.Record(terrain.VariantObjectID))

	if x, y, ok := a.input.TakeClick(); ok {
		id, hit := a.picker.Pick(width, height, record, int(x), int(y))
		a.tiles.Select(id, hit)
		if hit {
			common.Logger().Debug("tile selected", "id", id)
		}
	}

	if !pickDue(a.input, a.tiles) {
		return
	}
	x, y, overUI := a.input.Cursor()
	if overUI {
		a.tiles.Highlight(0, false)
		return
	}
	a.tiles.Highlight(a.picker.Pick(width, height, record, int(x), int(y)))
}

// pickDue drains both the cursor-moved and map-changed flags and reports whether either was
// set.
func pickDue(in *Input, tiles *tilemap.Map) bool {
	moved := in.TakeMoved()
	changed := tiles.Changed()
	return moved || changed
}

func (a *App) release() {
	a.picker.Release()
	a.terrain.Release()
	a.overlay.Release()
	a.lighting.Release()
	a.gbuffer.Release()
	a.renderer.Release()
	a.pool.Stop()
}

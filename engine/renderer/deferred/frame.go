package deferred

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-tiles/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrStalePass is returned when a pass is run after the frame has moved past it.
var ErrStalePass = errors.New("deferred: stale pass")

// Stage names a step of the frame.
type Stage int

const (
	// StageAcquired is the stage of the token a frame starts with.
	StageAcquired Stage = iota
	StageDeferred
	StageLighting
	StageUI
	StageFinished
)

func (s Stage) String() string {
	switch s {
	case StageAcquired:
		return "acquired"
	case StageDeferred:
		return "deferred"
	case StageLighting:
		return "lighting"
	case StageUI:
		return "ui"
	case StageFinished:
		return "finished"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Token proves that every stage up to and including Stage has been recorded for frame Frame.
// Only the most recent token of a frame is valid. GPU ordering itself follows the submission
// order of the frame's single command encoder.
type Token struct {
	Frame uint64
	Stage Stage
}

// Stages performs the GPU work of each step. Passes implements it; tests use a fake.
type Stages interface {
	RecordGeometry(encoder *wgpu.CommandEncoder, record Recorder) error
	RecordLighting(encoder *wgpu.CommandEncoder, target *wgpu.TextureView, lights []light.Light) error
	RecordUI(encoder *wgpu.CommandEncoder, target *wgpu.TextureView) error
}

// Pass is one step of a Frame: *DeferredPass, *LightingPass, *UIPass or *FinishedPass.
type Pass interface {
	Stage() Stage
}

// Frame walks a frame through Deferred, Lighting, the optional UI step and Finished. Each pass
// consumes the frame's current token and produces the next one, so steps can be neither
// skipped nor reordered.
type Frame struct {
	stages  Stages
	encoder *wgpu.CommandEncoder
	target  *wgpu.TextureView
	hasUI   bool

	token   Token
	pending Pass
}

// NewFrame starts frame number index.
//
// Parameters:
//   - index: the frame number carried by every token
//   - stages: the GPU work of each step
//   - encoder: the command encoder every step records into
//   - target: the swapchain view the frame ends up in
//   - hasUI: whether a UI step runs between Lighting and Finished
//
// Returns:
//   - *Frame: the frame, positioned before the Deferred step
func NewFrame(index uint64, stages Stages, encoder *wgpu.CommandEncoder, target *wgpu.TextureView, hasUI bool) *Frame {
	return &Frame{
		stages:  stages,
		encoder: encoder,
		target:  target,
		hasUI:   hasUI,
		token:   Token{Frame: index, Stage: StageAcquired},
	}
}

// Token returns the frame's current token.
func (f *Frame) Token() Token {
	return f.token
}

// NextPass returns the pass that must run next. Until that pass has run the same pass is
// returned again. After the Finished pass has produced its token NextPass returns nil.
func (f *Frame) NextPass() Pass {
	if f.pending != nil {
		return f.pending
	}

	switch f.token.Stage {
	case StageAcquired:
		f.pending = &DeferredPass{frame: f, token: f.token}
	case StageDeferred:
		f.pending = &LightingPass{frame: f, token: f.token}
	case StageLighting:
		if f.hasUI {
			f.pending = &UIPass{frame: f, token: f.token}
		} else {
			f.pending = &FinishedPass{frame: f, token: f.token}
		}
	case StageUI:
		f.pending = &FinishedPass{frame: f, token: f.token}
	case StageFinished:
		return nil
	}
	return f.pending
}

func (f *Frame) check(consumed Token) error {
	if consumed != f.token {
		return fmt.Errorf("%w: holds %v/%v, frame is at %v/%v", ErrStalePass,
			consumed.Frame, consumed.Stage, f.token.Frame, f.token.Stage)
	}
	return nil
}

func (f *Frame) advance(stage Stage) Token {
	f.token = Token{Frame: f.token.Frame, Stage: stage}
	f.pending = nil
	return f.token
}

// DeferredPass records the scene geometry into the G-buffer.
type DeferredPass struct {
	frame *Frame
	token Token
}

func (*DeferredPass) Stage() Stage { return StageDeferred }

// Execute opens the geometry render pass, runs record and ends the pass.
//
// Parameters:
//   - record: the geometry recording
//
// Returns:
//   - error: ErrStalePass if the pass already ran, or the geometry error
func (p *DeferredPass) Execute(record Recorder) error {
	if err := p.frame.check(p.token); err != nil {
		return err
	}
	if err := p.frame.stages.RecordGeometry(p.frame.encoder, record); err != nil {
		return err
	}
	p.frame.advance(StageDeferred)
	return nil
}

// LightingPass lights the G-buffer into the frame target.
type LightingPass struct {
	frame  *Frame
	token  Token
	lights []light.Light
}

func (*LightingPass) Stage() Stage { return StageLighting }

// Ambient adds an ambient contribution.
//
// Parameters:
//   - rgb: the ambient color
func (p *LightingPass) Ambient(rgb [3]float32) {
	p.lights = append(p.lights, light.NewLight(light.LightTypeAmbient, light.WithColor(rgb[0], rgb[1], rgb[2])))
}

// PointLight adds a light. Ambient lights are accepted too.
//
// Parameters:
//   - l: the light
func (p *LightingPass) PointLight(l light.Light) {
	p.lights = append(p.lights, l)
}

// Draw records the lighting pass with the lights added so far.
//
// Returns:
//   - error: ErrStalePass if the pass already ran, or the lighting error
func (p *LightingPass) Draw() error {
	if err := p.frame.check(p.token); err != nil {
		return err
	}
	if err := p.frame.stages.RecordLighting(p.frame.encoder, p.frame.target, p.lights); err != nil {
		return err
	}
	p.frame.advance(StageLighting)
	return nil
}

// UIPass composites the overlay over the lit image.
type UIPass struct {
	frame *Frame
	token Token
}

func (*UIPass) Stage() Stage { return StageUI }

// Draw records the overlay.
//
// Returns:
//   - error: ErrStalePass if the pass already ran, or the overlay error
func (p *UIPass) Draw() error {
	if err := p.frame.check(p.token); err != nil {
		return err
	}
	if err := p.frame.stages.RecordUI(p.frame.encoder, p.frame.target); err != nil {
		return err
	}
	p.frame.advance(StageUI)
	return nil
}

// FinishedPass hands the final token to the caller, which then submits the encoder and
// presents.
type FinishedPass struct {
	frame *Frame
	token Token
}

func (*FinishedPass) Stage() Stage { return StageFinished }

// Token completes the frame and returns its final token. Calling it again returns the same
// token.
func (p *FinishedPass) Token() Token {
	if p.frame.check(p.token) == nil {
		return p.frame.advance(StageFinished)
	}
	return p.frame.token
}

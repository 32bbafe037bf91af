package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/targets"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrFrameSkipped is returned by BeginFrame when no swapchain image could be acquired. The
// caller drops the frame; the surface is reconfigured before the next attempt.
var ErrFrameSkipped = errors.New("renderer: frame skipped")

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples of the multisampled G-buffer. WebGPU guarantees
// support for 1 (off) and 4, which are the only counts the frame pipeline accepts.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// Frame is one acquired swapchain image together with the command encoder every pass of the
// frame records into.
type Frame struct {
	Encoder *wgpu.CommandEncoder
	View    *wgpu.TextureView
	Width   uint32
	Height  uint32
}

// RendererBackend is the GPU API specific half of the Renderer.
type RendererBackend interface {
	targets.Allocator

	// ConfigureSurface records the surface size. The surface is (re)configured lazily by the
	// next BeginFrame.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	ConfigureSurface(width, height int)

	SetPresentMode(mode PresentMode)
	SurfaceFormat() wgpu.TextureFormat
	SurfaceSize() (uint32, uint32)
	Device() *wgpu.Device
	Queue() *wgpu.Queue

	// RegisterRenderPipeline compiles both shader stages, creates the merged bind group
	// layouts and the GPU pipeline, and stores them on p.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error
	CreateBindGroup(label string, layout *wgpu.BindGroupLayout, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error)
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	WriteTexture(texture *wgpu.Texture, stagingData common.TextureStagingData)

	// BeginFrame acquires the next swapchain image and creates the frame's command encoder.
	//
	// Returns:
	//   - Frame: the acquired frame
	//   - error: ErrFrameSkipped if no image could be acquired
	BeginFrame() (Frame, error)

	// Submit finishes encoder and submits it to the queue. The encoder is released.
	//
	// Parameters:
	//   - encoder: the encoder to finish
	Submit(encoder *wgpu.CommandEncoder)

	// Present shows the image acquired by the last BeginFrame.
	Present()

	Release()
}

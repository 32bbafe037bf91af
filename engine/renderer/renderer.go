package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/targets"
	"github.com/Carmen-Shannon/oxy-tiles/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingPipelines     []pipeline.Pipeline
	sampleCount          MSAASampleCount
}

// Renderer is the GPU context shared by every pass: it owns the device, the queue and the
// window surface, caches registered pipelines, allocates render targets and hands out one
// command encoder per frame.
type Renderer interface {
	targets.Allocator

	// Pipeline retrieves the registered Pipeline with the given key, or nil.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline, or nil if not registered
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for each pipeline and caches it by key.
	// Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize records a new surface size. The surface is reconfigured at the start of the next
	// frame.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the presentation mode of the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SampleCount returns the configured G-buffer sample count.
	//
	// Returns:
	//   - uint32: 1 or 4
	SampleCount() uint32

	// SurfaceFormat returns the swapchain format, the color target format of any pipeline that
	// draws into the frame view.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// SurfaceSize returns the surface size the next frame is rendered at.
	//
	// Returns:
	//   - uint32: the width in pixels
	//   - uint32: the height in pixels
	SurfaceSize() (uint32, uint32)

	Device() *wgpu.Device
	Queue() *wgpu.Queue

	// InitMeshBuffers creates and fills the vertex and index buffers of a mesh provider.
	//
	// Parameters:
	//   - provider: the provider receiving the buffers
	//   - vertexData: raw vertex bytes
	//   - indexData: raw uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates any missing buffers for the descriptor's buffer bindings and the
	// bind group itself. Texture and sampler bindings must have been set on the provider first.
	// When the provider has no layout one is created from the descriptor and owned by it.
	//
	// Parameters:
	//   - provider: the provider to initialize
	//   - descriptor: the layout descriptor of the group
	//   - bufferUsageOverrides: extra usage flags per binding
	//   - bufferSizeOverrides: buffer sizes per binding, for runtime-sized storage arrays
	//
	// Returns:
	//   - error: an error if a GPU object could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// CreateBindGroup creates a bind group over resources the caller owns, such as render target
	// views.
	//
	// Parameters:
	//   - label: the debug label
	//   - layout: the layout to create the group against
	//   - entries: the bind group entries
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	//   - error: an error if the GPU rejects the group
	CreateBindGroup(label string, layout *wgpu.BindGroupLayout, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error)

	// InitTextureView creates an RGBA8Unorm texture from staging data, stores it and its view on
	// the provider and uploads the pixels.
	//
	// Parameters:
	//   - provider: the provider receiving the texture
	//   - bindingKey: the binding index of the texture
	//   - stagingData: the pixel data
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler on the provider.
	//
	// Parameters:
	//   - provider: the provider receiving the sampler
	//   - bindingKey: the binding index of the sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues every write. Writes to a binding without a buffer are ignored.
	//
	// Parameters:
	//   - writes: the writes to perform
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// WriteTexture uploads RGBA8 pixels into an existing texture of the same size.
	//
	// Parameters:
	//   - texture: the destination texture
	//   - stagingData: the pixel data
	WriteTexture(texture *wgpu.Texture, stagingData common.TextureStagingData)

	// BeginFrame reconfigures the surface if needed, acquires the next swapchain image and
	// creates the frame's command encoder.
	//
	// Returns:
	//   - Frame: the acquired frame
	//   - error: ErrFrameSkipped when the frame should be dropped
	BeginFrame() (Frame, error)

	// DrawCall binds a registered pipeline, the given bind groups in order and the mesh buffers
	// of meshProvider, then issues an indexed draw.
	//
	// Parameters:
	//   - pass: the render pass to record into
	//   - pipelineKey: the key of a registered pipeline
	//   - meshProvider: the provider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: providers bound to groups 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is not registered
	DrawCall(pass *wgpu.RenderPassEncoder, pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups ...bind_group_provider.BindGroupProvider) error

	// Submit finishes and submits an encoder.
	//
	// Parameters:
	//   - encoder: the encoder to submit
	Submit(encoder *wgpu.CommandEncoder)

	// Present shows the image acquired by the last BeginFrame.
	Present()

	// Release frees every registered pipeline and the GPU context.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the window's surface and registers the pipelines given
// through WithPipeline. GPU setup failures panic.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface is rendered to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the new Renderer
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		sampleCount:   MSAA4x,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(window.Width(), window.Height())

	if err := r.RegisterPipelines(r.pendingPipelines...); err != nil {
		panic(err)
	}
	r.pendingPipelines = nil

	return r
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pipelines {
		if _, exists := r.pipelineCache[p.Key()]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", p.Key(), err)
		}
		r.pipelineCache[p.Key()] = p
	}
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SampleCount() uint32 {
	return uint32(r.sampleCount)
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) SurfaceSize() (uint32, uint32) {
	return r.backend.SurfaceSize()
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Queue() *wgpu.Queue {
	return r.backend.Queue()
}

func (r *renderer) CreateTarget(desc targets.Desc, width, height uint32) (targets.Target, error) {
	return r.backend.CreateTarget(desc, width, height)
}

func (r *renderer) ReleaseTarget(t targets.Target) {
	r.backend.ReleaseTarget(t)
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) CreateBindGroup(label string, layout *wgpu.BindGroupLayout, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error) {
	return r.backend.CreateBindGroup(label, layout, entries)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) WriteTexture(texture *wgpu.Texture, stagingData common.TextureStagingData) {
	r.backend.WriteTexture(texture, stagingData)
}

func (r *renderer) BeginFrame() (Frame, error) {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pass *wgpu.RenderPassEncoder, pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups ...bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil || p.Pipeline() == nil {
		return fmt.Errorf("pipeline %q is not registered", pipelineKey)
	}

	pass.SetPipeline(p.Pipeline())
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}
	pass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(uint32(meshProvider.IndexCount()), instanceCount, 0, 0, 0)
	return nil
}

func (r *renderer) Submit(encoder *wgpu.CommandEncoder) {
	r.backend.Submit(encoder)
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}

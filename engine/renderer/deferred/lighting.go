package deferred

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/Carmen-Shannon/oxy-tiles/engine/light"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/fullscreen.wgsl
var fullscreenSource string

//go:embed assets/lighting.wgsl
var lightingSource string

// LightingPipelineKey is the key of the lighting pipeline in the renderer cache.
const LightingPipelineKey = "deferred_lighting"

const (
	groupGBuffer = 0
	groupLights  = 1

	bindingLightingUniform = 0
	bindingPointLights     = 1
)

// Lighting is the second pass of a frame. It reads the G-buffer with a manual multisample
// resolve and writes the lit image into the frame's swapchain view.
type Lighting struct {
	r        renderer.Renderer
	gbuffer  *Geometry
	pipeline pipeline.Pipeline
	lights   bind_group_provider.BindGroupProvider

	gbufferGroup      *wgpu.BindGroup
	gbufferGeneration uint64

	intensity  float32
	clearColor wgpu.Color
}

// lightingShaders builds the fullscreen vertex shader and the resolving lighting fragment
// shader for a G-buffer with sampleCount samples.
func lightingShaders(sampleCount uint32) (shader.Shader, shader.Shader) {
	vs := shader.NewShader("lighting_vs", shader.ShaderTypeVertex, fullscreenSource)
	fs := shader.NewShader("lighting_fs", shader.ShaderTypeFragment, lightingSource,
		shader.WithIncludes(map[string]string{
			"point_light":      light.GPUPointLightSource,
			"lighting_uniform": light.GPULightingUniformSource,
		}),
		shader.WithDefines(shader.SampleDefines(sampleCount)),
	)
	return vs, fs
}

// NewLighting builds and registers the lighting pipeline for the G-buffer's sample count and
// allocates the light buffers. Failures are configuration errors and panic.
//
// Parameters:
//   - r: the renderer
//   - gbuffer: the geometry pass whose targets are read
//   - options: lighting options
//
// Returns:
//   - *Lighting: the lighting pass
func NewLighting(r renderer.Renderer, gbuffer *Geometry, options ...LightingOption) *Lighting {
	l := &Lighting{
		r:          r,
		gbuffer:    gbuffer,
		intensity:  light.DefaultIntensity,
		clearColor: wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
	}
	for _, opt := range options {
		opt(l)
	}

	vs, fs := lightingShaders(gbuffer.SampleCount())
	p := pipeline.NewPipeline(LightingPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargets(r.SurfaceFormat()),
	)
	if err := r.RegisterPipelines(p); err != nil {
		panic(err)
	}
	l.pipeline = r.Pipeline(LightingPipelineKey)

	desc, ok := l.pipeline.BindGroupLayoutDescriptor(groupLights)
	if !ok {
		panic("deferred: lighting pipeline has no light bind group")
	}
	l.lights = bind_group_provider.NewBindGroupProvider("Lighting",
		bind_group_provider.WithBindGroupLayout(l.pipeline.BindGroupLayout(groupLights)),
	)
	err := r.InitBindGroup(l.lights, desc, nil, map[int]uint64{
		bindingPointLights: light.MaxPointLights * uint64(new(light.GPUPointLight).Size()),
	})
	if err != nil {
		panic(fmt.Errorf("deferred: lighting bind group: %w", err))
	}

	return l
}

// Intensity returns the scalar applied to every point light.
func (l *Lighting) Intensity() float32 {
	return l.intensity
}

// SetIntensity changes the point light intensity.
func (l *Lighting) SetIntensity(intensity float32) {
	l.intensity = intensity
}

// Draw uploads the lights and records the fullscreen lighting pass into target. The G-buffer
// bind group is rebuilt first if the G-buffer was resized since the last draw.
//
// Parameters:
//   - encoder: the frame's command encoder, holding the recorded geometry pass
//   - target: the swapchain view to write
//   - lights: ambient and point lights; disabled lights are ignored
//
// Returns:
//   - error: an error if the G-buffer bind group could not be created
func (l *Lighting) Draw(encoder *wgpu.CommandEncoder, target *wgpu.TextureView, lights []light.Light) error {
	if err := l.refreshGBufferGroup(); err != nil {
		return err
	}

	header, payload := light.PackLights(lights, l.intensity)
	writes := []bind_group_provider.BufferWrite{
		{Provider: l.lights, Binding: bindingLightingUniform, Data: header.Marshal()},
	}
	if len(payload) > 0 {
		writes = append(writes, bind_group_provider.BufferWrite{Provider: l.lights, Binding: bindingPointLights, Data: payload})
	}
	l.r.WriteBuffers(writes)

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Lighting Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: l.clearColor,
		}},
	})
	pass.SetPipeline(l.pipeline.Pipeline())
	pass.SetBindGroup(groupGBuffer, l.gbufferGroup, nil)
	pass.SetBindGroup(groupLights, l.lights.BindGroup(), nil)
	pass.Draw(3, 1, 0, 0)
	pass.End()

	return nil
}

// refreshGBufferGroup recreates the bind group over the G-buffer views whenever the target set
// has been rebuilt; the old views are already released at that point.
func (l *Lighting) refreshGBufferGroup() error {
	set := l.gbuffer.Targets()
	if l.gbufferGroup != nil && l.gbufferGeneration == set.Generation() {
		return nil
	}

	entries := make([]wgpu.BindGroupEntry, set.Len())
	for i := range entries {
		entries[i] = wgpu.BindGroupEntry{Binding: uint32(i), TextureView: set.View(i)}
	}
	group, err := l.r.CreateBindGroup("GBuffer Bind Group", l.pipeline.BindGroupLayout(groupGBuffer), entries)
	if err != nil {
		return fmt.Errorf("deferred: gbuffer bind group: %w", err)
	}

	if l.gbufferGroup != nil {
		l.gbufferGroup.Release()
	}
	l.gbufferGroup = group
	l.gbufferGeneration = set.Generation()
	common.Logger().Debug("gbuffer bind group rebuilt", "generation", l.gbufferGeneration)
	return nil
}

// Release frees the light buffers and the G-buffer bind group. The pipeline belongs to the
// renderer cache.
func (l *Lighting) Release() {
	if l.gbufferGroup != nil {
		l.gbufferGroup.Release()
		l.gbufferGroup = nil
	}
	l.lights.Release()
}

package overlay

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/Carmen-Shannon/oxy-tiles/engine/profiler"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/deferred"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/panel_vs.wgsl
var panelVertexSource string

//go:embed assets/text_fs.wgsl
var textFragmentSource string

//go:embed assets/normal_preview_fs.wgsl
var normalPreviewSource string

const (
	TextPipelineKey          = "overlay_text"
	NormalPreviewPipelineKey = "overlay_normal_preview"

	bindingPanel   = 0
	bindingTexture = 1
	bindingSampler = 2

	groupPanel  = 0
	groupNormal = 1
)

// Overlay draws the UI panels over the lit image: a text panel with frame statistics and an
// optional preview of the G-buffer normal target.
type Overlay struct {
	r       renderer.Renderer
	gbuffer *deferred.Geometry
	text    *TextRenderer

	textPipeline    pipeline.Pipeline
	previewPipeline pipeline.Pipeline

	statsPanel   bind_group_provider.BindGroupProvider
	previewPanel bind_group_provider.BindGroupProvider

	normalGroup      *wgpu.BindGroup
	normalGeneration uint64

	statsRect   common.Rect
	previewRect common.Rect
	width       uint32
	height      uint32

	lines       []string
	textDirty   bool
	layoutDirty bool

	showPreview bool
	fontSize    float64
}

var _ deferred.UI = &Overlay{}

// NewOverlay builds the overlay pipelines and panel resources. Failures are configuration
// errors and panic.
//
// Parameters:
//   - r: the renderer
//   - gbuffer: the geometry pass whose normal target is previewed
//   - options: overlay options
//
// Returns:
//   - *Overlay: the overlay, sized to the current surface
func NewOverlay(r renderer.Renderer, gbuffer *deferred.Geometry, options ...OverlayOption) *Overlay {
	o := &Overlay{
		r:           r,
		gbuffer:     gbuffer,
		showPreview: true,
		fontSize:    14,
		textDirty:   true,
		layoutDirty: true,
	}
	for _, opt := range options {
		opt(o)
	}

	text, err := NewTextRenderer(o.fontSize)
	if err != nil {
		panic(err)
	}
	o.text = text

	includes := map[string]string{"panel_uniform": GPUPanelUniformSource}
	vs := shader.NewShader("overlay_panel_vs", shader.ShaderTypeVertex, panelVertexSource, shader.WithIncludes(includes))

	textFS := shader.NewShader("overlay_text_fs", shader.ShaderTypeFragment, textFragmentSource)
	o.textPipeline = o.register(panelPipeline(TextPipelineKey, vs, textFS, r.SurfaceFormat(), true))
	o.statsPanel = o.newPanel("Overlay Stats", o.textPipeline, func(p bind_group_provider.BindGroupProvider) error {
		if err := r.InitTextureView(p, bindingTexture, o.text.Render(nil, StatsWidth, StatsHeight)); err != nil {
			return err
		}
		return r.InitSampler(p, bindingSampler, common.SamplerStagingData{})
	})

	if o.showPreview {
		fs := shader.NewShader("overlay_normal_preview_fs", shader.ShaderTypeFragment, normalPreviewSource,
			shader.WithDefines(shader.SampleDefines(gbuffer.SampleCount())),
		)
		o.previewPipeline = o.register(panelPipeline(NormalPreviewPipelineKey, vs, fs, r.SurfaceFormat(), false))
		o.previewPanel = o.newPanel("Overlay Normal Preview", o.previewPipeline, nil)
	}

	o.Resize(r.SurfaceSize())
	return o
}

// panelPipeline describes a panel quad drawn over the lit frame. Panels leave the surface alpha
// untouched so the swapchain stays opaque under translucent text.
func panelPipeline(key string, vs, fs shader.Shader, format wgpu.TextureFormat, blend bool) pipeline.Pipeline {
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargets(format),
		pipeline.WithBlendEnabled(blend),
		pipeline.WithWriteMask(wgpu.ColorWriteMaskRed|wgpu.ColorWriteMaskGreen|wgpu.ColorWriteMaskBlue),
	)
}

func (o *Overlay) register(p pipeline.Pipeline) pipeline.Pipeline {
	if err := o.r.RegisterPipelines(p); err != nil {
		panic(err)
	}
	return o.r.Pipeline(p.Key())
}

// newPanel creates the group 0 provider of a panel pipeline. prepare stages any textures and
// samplers before the bind group is built.
func (o *Overlay) newPanel(label string, p pipeline.Pipeline, prepare func(bind_group_provider.BindGroupProvider) error) bind_group_provider.BindGroupProvider {
	desc, ok := p.BindGroupLayoutDescriptor(groupPanel)
	if !ok {
		panic(fmt.Sprintf("overlay: pipeline %q has no panel bind group", p.Key()))
	}
	provider := bind_group_provider.NewBindGroupProvider(label,
		bind_group_provider.WithBindGroupLayout(p.BindGroupLayout(groupPanel)),
	)
	if prepare != nil {
		if err := prepare(provider); err != nil {
			panic(fmt.Errorf("overlay: %s: %w", label, err))
		}
	}
	size := uint64(new(GPUPanelUniform).Size())
	if err := o.r.InitBindGroup(provider, desc, nil, map[int]uint64{bindingPanel: size}); err != nil {
		panic(fmt.Errorf("overlay: %s bind group: %w", label, err))
	}
	return provider
}

// Resize recomputes the panel layout for a new viewport.
//
// Parameters:
//   - width: the viewport width in pixels
//   - height: the viewport height in pixels
func (o *Overlay) Resize(width, height uint32) {
	if width == o.width && height == o.height {
		return
	}
	o.width, o.height = width, height
	o.statsRect, o.previewRect = Layout(width, height)
	o.layoutDirty = true
}

// SetStats replaces the stats panel text with a profiler snapshot.
func (o *Overlay) SetStats(stats profiler.Stats) {
	o.SetLines(StatsLines(stats)...)
}

// SetLines replaces the stats panel text. The texture is only re-uploaded when the text changed.
func (o *Overlay) SetLines(lines ...string) {
	if slices.Equal(lines, o.lines) {
		return
	}
	o.lines = slices.Clone(lines)
	o.textDirty = true
}

// Hovered reports whether a cursor position lies over a panel. Mouse look ignores input while
// the cursor is over the overlay.
//
// Parameters:
//   - x: cursor x in pixels
//   - y: cursor y in pixels
//
// Returns:
//   - bool: true if a panel is under the cursor
func (o *Overlay) Hovered(x, y float32) bool {
	if o.statsRect.Contains(x, y) {
		return true
	}
	return o.showPreview && o.previewRect.Contains(x, y)
}

// Draw records the overlay render pass on top of target.
func (o *Overlay) Draw(encoder *wgpu.CommandEncoder, target *wgpu.TextureView) error {
	o.upload()
	if o.showPreview {
		if err := o.refreshNormalGroup(); err != nil {
			return err
		}
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Overlay Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    target,
			LoadOp:  wgpu.LoadOpLoad,
			StoreOp: wgpu.StoreOpStore,
		}},
	})

	pass.SetPipeline(o.textPipeline.Pipeline())
	pass.SetBindGroup(groupPanel, o.statsPanel.BindGroup(), nil)
	pass.Draw(6, 1, 0, 0)

	if o.showPreview {
		pass.SetPipeline(o.previewPipeline.Pipeline())
		pass.SetBindGroup(groupPanel, o.previewPanel.BindGroup(), nil)
		pass.SetBindGroup(groupNormal, o.normalGroup, nil)
		pass.Draw(6, 1, 0, 0)
	}

	pass.End()
	return nil
}

// upload writes the panel rectangles and the stats texture when they changed.
func (o *Overlay) upload() {
	if o.layoutDirty {
		stats := GPUPanelUniform{Rect: ClipRect(o.statsRect, o.width, o.height)}
		writes := []bind_group_provider.BufferWrite{
			{Provider: o.statsPanel, Binding: bindingPanel, Data: stats.Marshal()},
		}
		if o.showPreview {
			preview := GPUPanelUniform{Rect: ClipRect(o.previewRect, o.width, o.height)}
			writes = append(writes, bind_group_provider.BufferWrite{Provider: o.previewPanel, Binding: bindingPanel, Data: preview.Marshal()})
		}
		o.r.WriteBuffers(writes)
		o.layoutDirty = false
	}

	if o.textDirty {
		o.r.WriteTexture(o.statsPanel.Texture(bindingTexture), o.text.Render(o.lines, StatsWidth, StatsHeight))
		o.textDirty = false
	}
}

func (o *Overlay) refreshNormalGroup() error {
	set := o.gbuffer.Targets()
	if o.normalGroup != nil && o.normalGeneration == set.Generation() {
		return nil
	}

	group, err := o.r.CreateBindGroup("Overlay Normal Bind Group", o.previewPipeline.BindGroupLayout(groupNormal),
		[]wgpu.BindGroupEntry{{Binding: 0, TextureView: set.View(deferred.TargetNormal)}})
	if err != nil {
		return fmt.Errorf("overlay: normal bind group: %w", err)
	}
	if o.normalGroup != nil {
		o.normalGroup.Release()
	}
	o.normalGroup = group
	o.normalGeneration = set.Generation()
	return nil
}

// Release frees the panel resources. Pipelines belong to the renderer cache.
func (o *Overlay) Release() {
	if o.normalGroup != nil {
		o.normalGroup.Release()
		o.normalGroup = nil
	}
	if o.previewPanel != nil {
		o.previewPanel.Release()
	}
	o.statsPanel.Release()
	if err := o.text.Close(); err != nil {
		common.Logger().Warn("closing overlay font", "err", err)
	}
}

// StatsLines formats a profiler snapshot for the stats panel.
func StatsLines(stats profiler.Stats) []string {
	return []string{
		fmt.Sprintf("FPS: %.1f", stats.FPS),
		fmt.Sprintf("Frame: %.2f ms", float64(stats.FrameTime.Microseconds())/1000),
	}
}

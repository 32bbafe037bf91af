package pipeline

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key            string
	renderPipeline *wgpu.RenderPipeline
	vertexShader   shader.Shader
	fragmentShader shader.Shader

	colorTargets []wgpu.TextureFormat
	depthFormat  wgpu.TextureFormat
	sampleCount  uint32

	blendEnabled bool
	blendState   *wgpu.BlendState
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask

	bindGroupLayouts     map[int]*wgpu.BindGroupLayout
	bindGroupLayoutDescs map[int]wgpu.BindGroupLayoutDescriptor
}

// Pipeline describes a render pipeline: its shader pair, the formats of the targets it writes,
// its MSAA sample count and the fixed-function state. The renderer builds the GPU object from the
// description and hands it back through SetPipeline and SetBindGroupLayouts.
type Pipeline interface {
	// Key returns the unique key used to cache and look up the pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	Key() string

	// Pipeline returns the compiled GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU render pipeline
	Pipeline() *wgpu.RenderPipeline

	// SetPipeline stores the compiled GPU pipeline.
	//
	// Parameters:
	//   - p: the GPU render pipeline
	SetPipeline(p *wgpu.RenderPipeline)

	// VertexShader returns the vertex stage shader.
	//
	// Returns:
	//   - shader.Shader: the vertex shader
	VertexShader() shader.Shader

	// FragmentShader returns the fragment stage shader, or nil for depth-only pipelines.
	//
	// Returns:
	//   - shader.Shader: the fragment shader
	FragmentShader() shader.Shader

	// ColorTargets returns the formats of the color attachments in attachment order.
	//
	// Returns:
	//   - []wgpu.TextureFormat: the color target formats
	ColorTargets() []wgpu.TextureFormat

	// DepthFormat returns the depth attachment format, TextureFormatUndefined when the pipeline
	// has no depth attachment.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth format
	DepthFormat() wgpu.TextureFormat

	// SampleCount returns the MSAA sample count of every attachment the pipeline writes.
	//
	// Returns:
	//   - uint32: 1 or 4
	SampleCount() uint32

	DepthTestEnabled() bool
	DepthWriteEnabled() bool
	BlendEnabled() bool
	BlendState() *wgpu.BlendState
	CullMode() wgpu.CullMode
	Topology() wgpu.PrimitiveTopology
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask

	// MergedBindGroupLayoutDescriptors combines the bind group layouts reflected from both
	// stages. A binding used by both stages gets the union of their visibilities.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	MergedBindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// SetBindGroupLayouts stores the GPU layouts created for the pipeline together with the
	// descriptors they were created from.
	//
	// Parameters:
	//   - layouts: GPU layouts keyed by group index
	//   - descs: the descriptors keyed by group index
	SetBindGroupLayouts(layouts map[int]*wgpu.BindGroupLayout, descs map[int]wgpu.BindGroupLayoutDescriptor)

	// BindGroupLayout returns the GPU layout for a group. Bind groups used with this pipeline
	// must be created against it.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout, or nil if the group is unused
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// BindGroupLayoutDescriptor returns the merged descriptor for a group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor
	//   - bool: false if the group is unused
	BindGroupLayoutDescriptor(group int) (wgpu.BindGroupLayoutDescriptor, bool)

	// Release frees the GPU pipeline and its bind group layouts.
	Release()
}

var _ Pipeline = &pipeline{}

var defaultBlendState = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// NewPipeline creates a render pipeline description. Defaults: no color targets, no depth,
// one sample, depth test and write enabled when a depth format is set, no blending, no culling,
// triangle lists with counter-clockwise front faces.
//
// Parameters:
//   - key: the unique pipeline key
//   - options: builder options
//
// Returns:
//   - Pipeline: the pipeline description
func NewPipeline(key string, options ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		key:         key,
		depthFormat: wgpu.TextureFormatUndefined,
		sampleCount: 1,
		cullMode:    wgpu.CullModeNone,
		topology:    wgpu.PrimitiveTopologyTriangleList,
		frontFace:   wgpu.FrontFaceCCW,
		writeMask:   wgpu.ColorWriteMaskAll,
	}

	for _, opt := range options {
		opt(p)
	}

	if p.blendEnabled && p.blendState == nil {
		bs := defaultBlendState
		p.blendState = &bs
	}

	return p
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) VertexShader() shader.Shader {
	return p.vertexShader
}

func (p *pipeline) FragmentShader() shader.Shader {
	return p.fragmentShader
}

func (p *pipeline) ColorTargets() []wgpu.TextureFormat {
	return p.colorTargets
}

func (p *pipeline) DepthFormat() wgpu.TextureFormat {
	return p.depthFormat
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthFormat != wgpu.TextureFormatUndefined
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthFormat != wgpu.TextureFormatUndefined
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) MergedBindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	var vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor
	if p.vertexShader != nil {
		vertexLayouts = p.vertexShader.BindGroupLayoutDescriptors()
	}
	if p.fragmentShader != nil {
		fragmentLayouts = p.fragmentShader.BindGroupLayoutDescriptors()
	}
	return MergeBindGroupLayouts(vertexLayouts, fragmentLayouts)
}

func (p *pipeline) SetBindGroupLayouts(layouts map[int]*wgpu.BindGroupLayout, descs map[int]wgpu.BindGroupLayoutDescriptor) {
	p.bindGroupLayouts = layouts
	p.bindGroupLayoutDescs = descs
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	return p.bindGroupLayouts[group]
}

func (p *pipeline) BindGroupLayoutDescriptor(group int) (wgpu.BindGroupLayoutDescriptor, bool) {
	d, ok := p.bindGroupLayoutDescs[group]
	return d, ok
}

func (p *pipeline) Release() {
	for g, l := range p.bindGroupLayouts {
		if l != nil {
			l.Release()
		}
		delete(p.bindGroupLayouts, g)
	}
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}

// MergeBindGroupLayouts combines the bind group layout descriptors of a vertex and a fragment
// shader into one set suitable for a render pipeline layout.
//
// For each group index present in either shader:
//   - Entries with the same binding number have their Visibility flags ORed together
//   - Entries unique to one shader are included with their original visibility
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func MergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	groups := make(map[int]bool)
	for g := range vertexLayouts {
		groups[g] = true
	}
	for g := range fragmentLayouts {
		groups[g] = true
	}

	for g := range groups {
		vDesc, hasV := vertexLayouts[g]
		fDesc, hasF := fragmentLayouts[g]

		switch {
		case hasV && !hasF:
			merged[g] = vDesc
		case hasF && !hasV:
			merged[g] = fDesc
		default:
			byBinding := make(map[uint32]wgpu.BindGroupLayoutEntry)
			for _, e := range vDesc.Entries {
				byBinding[e.Binding] = e
			}
			for _, e := range fDesc.Entries {
				if existing, ok := byBinding[e.Binding]; ok {
					existing.Visibility |= e.Visibility
					byBinding[e.Binding] = existing
				} else {
					byBinding[e.Binding] = e
				}
			}

			entries := make([]wgpu.BindGroupLayoutEntry, 0, len(byBinding))
			for _, e := range byBinding {
				entries = append(entries, e)
			}
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Binding < entries[j].Binding
			})

			merged[g] = wgpu.BindGroupLayoutDescriptor{
				Label:   vDesc.Label,
				Entries: entries,
			}
		}
	}

	return merged
}

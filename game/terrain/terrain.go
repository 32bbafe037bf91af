package terrain

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/Carmen-Shannon/oxy-tiles/engine/camera"
	"github.com/Carmen-Shannon/oxy-tiles/engine/model"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/deferred"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/picker"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-tiles/game/tilemap"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/block_vs.wgsl
var blockVertexSource string

//go:embed assets/diffuse_fs.wgsl
var diffuseFragmentSource string

//go:embed assets/object_id_fs.wgsl
var objectIDFragmentSource string

// Variant selects what the block pipeline writes.
type Variant int

const (
	// VariantDiffuse writes albedo, normal and position into the G-buffer.
	VariantDiffuse Variant = iota
	// VariantObjectID writes the encoded tile id into the picking image.
	VariantObjectID
)

func (v Variant) String() string {
	switch v {
	case VariantDiffuse:
		return "diffuse"
	case VariantObjectID:
		return "object_id"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// PipelineKey returns the renderer cache key of the variant's pipeline.
func (v Variant) PipelineKey() string {
	return "terrain_" + v.String()
}

const (
	groupScene = 0

	bindingCamera    = 0
	bindingInstances = 1
)

// Shaders builds the vertex and fragment shader of a variant.
//
// Parameters:
//   - v: the pipeline variant
//
// Returns:
//   - shader.Shader: the block vertex shader
//   - shader.Shader: the variant's fragment shader
func Shaders(v Variant) (shader.Shader, shader.Shader) {
	vs := shader.NewShader("terrain_vs", shader.ShaderTypeVertex, blockVertexSource,
		shader.WithIncludes(map[string]string{
			"vertex_input":   model.GPUVertexSource,
			"camera_uniform": camera.GPUCameraUniformSource,
			"tile_instance":  tilemap.GPUTileInstanceSource,
		}),
	)
	source := diffuseFragmentSource
	if v == VariantObjectID {
		source = objectIDFragmentSource
	}
	fs := shader.NewShader("terrain_"+v.String()+"_fs", shader.ShaderTypeFragment, source)
	return vs, fs
}

// variantPipeline describes the block pipeline for one variant. Blocks are closed boxes wound
// counter-clockwise, so back faces are culled.
func variantPipeline(v Variant, colors []wgpu.TextureFormat, depth wgpu.TextureFormat, samples uint32) pipeline.Pipeline {
	vs, fs := Shaders(v)
	return pipeline.NewPipeline(v.PipelineKey(),
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargets(colors...),
		pipeline.WithDepthFormat(depth),
		pipeline.WithSampleCount(samples),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
}

// Terrain draws the tile map as instanced blocks. The same instance data feeds the Diffuse
// variant in the geometry pass and the ObjectID variant in the picking pass.
type Terrain struct {
	r renderer.Renderer

	mesh     bind_group_provider.BindGroupProvider
	scene    bind_group_provider.BindGroupProvider
	idScene  bind_group_provider.BindGroupProvider
	capacity int

	instanceCount uint32
}

// NewTerrain registers both block pipelines and allocates the block mesh, camera uniform and
// an instance buffer large enough for every tile of the map. Failures panic.
//
// Parameters:
//   - r: the renderer
//   - gbuffer: the geometry pass the Diffuse variant renders into
//   - tileCount: the number of tiles in the map
//
// Returns:
//   - *Terrain: the terrain
func NewTerrain(r renderer.Renderer, gbuffer *deferred.Geometry, tileCount int) *Terrain {
	t := &Terrain{r: r, capacity: max(tileCount, 1)}

	diffuse := variantPipeline(VariantDiffuse, gbuffer.ColorFormats(), deferred.DepthFormat, gbuffer.SampleCount())
	objectID := variantPipeline(VariantObjectID, []wgpu.TextureFormat{picker.IDFormat}, picker.DepthFormat, 1)
	if err := r.RegisterPipelines(diffuse, objectID); err != nil {
		panic(err)
	}
	diffuse = r.Pipeline(diffuse.Key())
	objectID = r.Pipeline(objectID.Key())

	block := model.NewBlock(tilemap.BlockHeight)
	t.mesh = bind_group_provider.NewBindGroupProvider("Terrain Block")
	if err := r.InitMeshBuffers(t.mesh, block.VertexBytes(), block.IndexBytes(), len(block.Indices)); err != nil {
		panic(fmt.Errorf("terrain: block mesh: %w", err))
	}

	desc, ok := diffuse.BindGroupLayoutDescriptor(groupScene)
	if !ok {
		panic("terrain: diffuse pipeline has no scene bind group")
	}
	t.scene = bind_group_provider.NewBindGroupProvider("Terrain Scene",
		bind_group_provider.WithBindGroupLayout(diffuse.BindGroupLayout(groupScene)),
	)
	err := r.InitBindGroup(t.scene, desc, nil, map[int]uint64{
		bindingCamera:    uint64(new(camera.GPUCameraUniform).Size()),
		bindingInstances: uint64(t.capacity * tilemap.TileInstance{}.Size()),
	})
	if err != nil {
		panic(fmt.Errorf("terrain: scene bind group: %w", err))
	}

	// The ObjectID variant reads the same buffers through its own layout.
	group, err := r.CreateBindGroup("Terrain ObjectID Bind Group", objectID.BindGroupLayout(groupScene), []wgpu.BindGroupEntry{
		{Binding: bindingCamera, Buffer: t.scene.Buffer(bindingCamera), Size: wgpu.WholeSize},
		{Binding: bindingInstances, Buffer: t.scene.Buffer(bindingInstances), Size: wgpu.WholeSize},
	})
	if err != nil {
		panic(fmt.Errorf("terrain: object id bind group: %w", err))
	}
	t.idScene = bind_group_provider.NewBindGroupProvider("Terrain ObjectID")
	t.idScene.SetBindGroup(group)

	return t
}

// Update uploads the camera and the instances for this frame. Instances past the buffer
// capacity are dropped.
//
// Parameters:
//   - cam: the camera
//   - instances: the tiles to draw
func (t *Terrain) Update(cam camera.Camera, instances []tilemap.TileInstance) {
	if len(instances) > t.capacity {
		common.Logger().Warn("terrain instances exceed buffer capacity", "count", len(instances), "capacity", t.capacity)
		instances = instances[:t.capacity]
	}
	t.instanceCount = uint32(len(instances))

	uniform := cam.Uniform()
	t.r.WriteBuffers(bind_group_provider.Writes(t.scene, map[int][]byte{
		bindingCamera:    uniform.Marshal(),
		bindingInstances: tilemap.MarshalInstances(instances),
	}))
}

// InstanceCount returns the number of instances uploaded by the last Update.
func (t *Terrain) InstanceCount() uint32 {
	return t.instanceCount
}

// Record returns the recording that draws the blocks with the given variant. A failed draw
// panics like any other GPU failure.
//
// Parameters:
//   - v: the pipeline variant
//
// Returns:
//   - func(*wgpu.RenderPassEncoder): the recording, usable as a deferred or picker Recorder
func (t *Terrain) Record(v Variant) func(pass *wgpu.RenderPassEncoder) {
	scene := t.scene
	if v == VariantObjectID {
		scene = t.idScene
	}
	return func(pass *wgpu.RenderPassEncoder) {
		if t.instanceCount == 0 {
			return
		}
		if err := t.r.DrawCall(pass, v.PipelineKey(), t.mesh, t.instanceCount, scene); err != nil {
			panic(fmt.Errorf("terrain: %v draw: %w", v, err))
		}
	}
}

// Release frees the mesh, buffers and bind groups.
func (t *Terrain) Release() {
	t.idScene.Release()
	t.scene.Release()
	t.mesh.Release()
}

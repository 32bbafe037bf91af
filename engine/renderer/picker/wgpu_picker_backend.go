package picker

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-tiles/common"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer"
	"github.com/Carmen-Shannon/oxy-tiles/engine/renderer/targets"
	"github.com/cogentcore/webgpu/wgpu"
)

// readbackSize holds one texel but is padded to the row alignment copies require. It does not
// depend on the viewport size.
const readbackSize = 256

// IDFormat is the color format of the object-ID image. Pipelines recorded into a pick must
// target it.
const IDFormat = wgpu.TextureFormatRGBA8Unorm

// DepthFormat is the depth format of the pick pass.
const DepthFormat = wgpu.TextureFormatDepth32Float

type wgpuPickerBackend struct {
	r        renderer.Renderer
	targets  *targets.Set
	readback *wgpu.Buffer
}

var _ Backend = &wgpuPickerBackend{}

// NewWGPUBackend creates the GPU picker backend. Failing to create the readback buffer panics.
//
// Parameters:
//   - r: the renderer providing the device and the target allocator
//
// Returns:
//   - Backend: the backend
func NewWGPUBackend(r renderer.Renderer) Backend {
	readback, err := r.Device().CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Picker Readback Buffer",
		Size:  readbackSize,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}

	return &wgpuPickerBackend{
		r: r,
		targets: targets.NewSet(r,
			targets.Desc{
				Label:       "Picker Object ID",
				Format:      IDFormat,
				SampleCount: 1,
				Usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
			},
			targets.Desc{
				Label:       "Picker Depth",
				Format:      DepthFormat,
				SampleCount: 1,
				Usage:       wgpu.TextureUsageRenderAttachment,
			},
		),
		readback: readback,
	}
}

func (b *wgpuPickerBackend) Resize(width, height uint32) {
	b.targets.Resize(width, height)
	common.Logger().Debug("picker targets resized", "width", width, "height", height)
}

func (b *wgpuPickerBackend) Render(record Recorder, x, y uint32) [4]byte {
	encoder, err := b.r.Device().CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "Picker Encoder"})
	if err != nil {
		panic(err)
	}

	colors, depth := b.targets.Attachments(wgpu.Color{})
	depth.DepthStoreOp = wgpu.StoreOpDiscard
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:                  "Picker Pass",
		ColorAttachments:       colors,
		DepthStencilAttachment: depth,
	})
	record(pass)
	pass.End()

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  b.targets.Target(0).Texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: x, Y: y},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: b.readback,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  readbackSize,
				RowsPerImage: 1,
			},
		},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	b.r.Submit(encoder)

	// the map callback fires from inside Poll
	mapped := false
	status := wgpu.BufferMapAsyncStatusSuccess
	b.readback.MapAsync(wgpu.MapModeRead, 0, readbackSize, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		mapped = true
	})
	for !mapped {
		b.r.Device().Poll(true, nil)
	}
	if status != wgpu.BufferMapAsyncStatusSuccess {
		panic(fmt.Sprintf("picker: readback map failed with status %v", status))
	}

	var px [4]byte
	copy(px[:], b.readback.GetMappedRange(0, 4))
	b.readback.Unmap()
	return px
}

func (b *wgpuPickerBackend) Release() {
	b.targets.Release()
	b.readback.Release()
}

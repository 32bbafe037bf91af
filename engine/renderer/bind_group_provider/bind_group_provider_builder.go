package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroupLayout borrows a layout, normally one a pipeline created for the group this
// provider fills. A borrowed layout is not released with the provider.
//
// Parameters:
//   - bgl: the bind group layout to create the bind group against
//
// Returns:
//   - BindGroupProviderOption: the option
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
		p.ownsLayout = false
	}
}

// WithBuffer sets a buffer for a specific binding index. The provider takes ownership of it.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: the option
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

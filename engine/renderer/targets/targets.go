package targets

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultUsage is applied to a Desc that leaves Usage empty.
const DefaultUsage = wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding

// Desc is the declared shape of one render target. The size is not part of the declaration;
// every target of a Set shares the Set's size.
type Desc struct {
	Label       string
	Format      wgpu.TextureFormat
	SampleCount uint32
	Usage       wgpu.TextureUsage
}

// Target is the GPU image backing a Desc at a given size.
type Target struct {
	Desc    Desc
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Width   uint32
	Height  uint32
}

// Allocator creates and frees the GPU images behind a Set. The renderer implements it.
type Allocator interface {
	// CreateTarget allocates a texture and a default view for desc at the given size.
	//
	// Parameters:
	//   - desc: the target declaration
	//   - width: the width in pixels, at least 1
	//   - height: the height in pixels, at least 1
	//
	// Returns:
	//   - Target: the allocated target
	//   - error: an error if the GPU rejects the texture
	CreateTarget(desc Desc, width, height uint32) (Target, error)

	// ReleaseTarget frees the texture and view of a target.
	//
	// Parameters:
	//   - t: the target to release
	ReleaseTarget(t Target)
}

// Set is an ordered collection of render targets that are always the same size. Resizing a Set
// rebuilds every target with its declared format and sample count; views obtained before a
// rebuild are released and must not be used again. Generation tells holders of derived objects
// (bind groups over the views) when to rebuild them.
type Set struct {
	alloc      Allocator
	descs      []Desc
	targets    []Target
	width      uint32
	height     uint32
	generation uint64
}

// NewSet creates a Set over alloc with the given declarations. Nothing is allocated until the
// first Resize. An invalid declaration panics.
//
// Parameters:
//   - alloc: the allocator backing the set
//   - descs: the target declarations in attachment order
//
// Returns:
//   - *Set: the new set
func NewSet(alloc Allocator, descs ...Desc) *Set {
	s := &Set{alloc: alloc}
	s.Configure(descs...)
	return s
}

// Configure replaces the declarations of the set. Existing targets are released and the next
// Resize allocates the new ones. An invalid declaration panics.
//
// Parameters:
//   - descs: the target declarations in attachment order
func (s *Set) Configure(descs ...Desc) {
	for i := range descs {
		if err := Validate(descs[i]); err != nil {
			panic(fmt.Sprintf("targets: %s: %v", descs[i].Label, err))
		}
		if descs[i].Usage == 0 {
			descs[i].Usage = DefaultUsage
		}
	}
	s.release()
	s.descs = append([]Desc(nil), descs...)
	s.width, s.height = 0, 0
}

// Resize makes every target width by height, clamping zero dimensions to 1. When the size is
// unchanged and the targets exist nothing happens.
//
// Parameters:
//   - width: the new width in pixels
//   - height: the new height in pixels
//
// Returns:
//   - bool: true if the targets were rebuilt
func (s *Set) Resize(width, height uint32) bool {
	width, height = max(width, 1), max(height, 1)
	if width == s.width && height == s.height && len(s.targets) == len(s.descs) {
		return false
	}

	s.release()
	s.targets = make([]Target, 0, len(s.descs))
	for _, d := range s.descs {
		t, err := s.alloc.CreateTarget(d, width, height)
		if err != nil {
			panic(fmt.Errorf("targets: allocating %s %dx%d: %w", d.Label, width, height, err))
		}
		s.targets = append(s.targets, t)
	}
	s.width, s.height = width, height
	s.generation++
	return true
}

// View returns the view of target i. It panics if i is out of range or the set was never sized.
func (s *Set) View(i int) *wgpu.TextureView {
	return s.targets[i].View
}

// Target returns target i.
func (s *Set) Target(i int) Target {
	return s.targets[i]
}

// Len returns the number of declared targets.
func (s *Set) Len() int {
	return len(s.descs)
}

// Size returns the current size, zero before the first Resize.
func (s *Set) Size() (uint32, uint32) {
	return s.width, s.height
}

// Descs returns a copy of the declarations.
func (s *Set) Descs() []Desc {
	return append([]Desc(nil), s.descs...)
}

// Generation increases every time the targets are rebuilt.
func (s *Set) Generation() uint64 {
	return s.generation
}

// Attachments builds render pass attachments over the set. Color targets are cleared to clear
// and stored; a depth target is cleared to 1 and stored so later passes can read it.
//
// Parameters:
//   - clear: the clear color for every color target
//
// Returns:
//   - []wgpu.RenderPassColorAttachment: the color attachments in declaration order
//   - *wgpu.RenderPassDepthStencilAttachment: the depth attachment, or nil without a depth target
func (s *Set) Attachments(clear wgpu.Color) ([]wgpu.RenderPassColorAttachment, *wgpu.RenderPassDepthStencilAttachment) {
	var colors []wgpu.RenderPassColorAttachment
	var depth *wgpu.RenderPassDepthStencilAttachment
	for _, t := range s.targets {
		if IsDepth(t.Desc.Format) {
			depth = &wgpu.RenderPassDepthStencilAttachment{
				View:            t.View,
				DepthLoadOp:     wgpu.LoadOpClear,
				DepthStoreOp:    wgpu.StoreOpStore,
				DepthClearValue: 1.0,
			}
			continue
		}
		colors = append(colors, wgpu.RenderPassColorAttachment{
			View:       t.View,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear,
		})
	}
	return colors, depth
}

// Release frees every target. The declarations are kept, so a later Resize rebuilds them.
func (s *Set) Release() {
	s.release()
	s.width, s.height = 0, 0
}

func (s *Set) release() {
	for _, t := range s.targets {
		s.alloc.ReleaseTarget(t)
	}
	s.targets = nil
}

// IsDepth reports whether format is a depth format.
func IsDepth(format wgpu.TextureFormat) bool {
	switch format {
	case wgpu.TextureFormatDepth32Float, wgpu.TextureFormatDepth24Plus:
		return true
	}
	return false
}

// Validate checks a declaration against the formats and sample counts the frame pipeline
// supports.
//
// Parameters:
//   - d: the declaration
//
// Returns:
//   - error: nil if the declaration is usable
func Validate(d Desc) error {
	switch d.SampleCount {
	case 1, 4:
	default:
		return fmt.Errorf("unsupported sample count %d", d.SampleCount)
	}

	switch d.Format {
	case wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatRGBA16Float,
		wgpu.TextureFormatDepth32Float, wgpu.TextureFormatDepth24Plus:
	case wgpu.TextureFormatRGBA32Float:
		if d.SampleCount != 1 {
			return fmt.Errorf("format %v cannot be multisampled", d.Format)
		}
	default:
		return fmt.Errorf("unsupported format %v", d.Format)
	}
	return nil
}

package overlay

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-tiles/common"
)

//go:embed assets/panel_uniform.wgsl
var GPUPanelUniformSource string

// GPUPanelUniform places one panel: its clip-space rectangle as left, top, right, bottom.
type GPUPanelUniform struct {
	Rect [4]float32
}

func (g *GPUPanelUniform) Size() int {
	return 16
}

func (g *GPUPanelUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutFloat32s(buf, 0, g.Rect[:]...)
	return buf
}

package bind_group_provider

import "testing"

func TestNewBindGroupProviderLabel(t *testing.T) {
	p := NewBindGroupProvider("lighting")
	if p.Label() != "lighting" {
		t.Errorf("Label() = %q, want lighting", p.Label())
	}
	if p.BindGroup() != nil || p.Buffer(0) != nil || p.TextureView(0) != nil || p.Sampler(0) != nil {
		t.Error("fresh provider holds GPU resources")
	}
}

func TestReleaseWithoutResources(t *testing.T) {
	p := NewBindGroupProvider("empty")
	p.SetIndexCount(36)
	p.Release()
	if p.IndexCount() != 0 {
		t.Errorf("IndexCount() after Release = %d, want 0", p.IndexCount())
	}
}

func TestWritesSkipsEmptyPayloads(t *testing.T) {
	p := NewBindGroupProvider("camera")
	writes := Writes(p, map[int][]byte{
		0: {1, 2, 3, 4},
		1: nil,
	})
	if len(writes) != 1 {
		t.Fatalf("len(writes) = %d, want 1", len(writes))
	}
	if writes[0].Binding != 0 || writes[0].Provider != p || writes[0].Offset != 0 {
		t.Errorf("unexpected write %+v", writes[0])
	}
}

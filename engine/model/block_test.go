package model

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestNewBlockGeometry(t *testing.T) {
	const h = 3
	mesh := NewBlock(h)

	if len(mesh.Vertices) != 24 || len(mesh.Indices) != 36 {
		t.Fatalf("block has %d vertices and %d indices, want 24 and 36", len(mesh.Vertices), len(mesh.Indices))
	}
	for i, v := range mesh.Vertices {
		x, y, z := v.Position[0], v.Position[1], v.Position[2]
		if x < 0 || x > 1 || z < -1 || z > 0 || y < 0 || y > h {
			t.Errorf("vertex %d at %v is outside the block bounds", i, v.Position)
		}
	}
	for _, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}

	// every face lies in the plane its normal points out of
	for f := 0; f < 6; f++ {
		n := mesh.Vertices[f*4].Normal
		var axis int
		for a := 0; a < 3; a++ {
			if n[a] != 0 {
				axis = a
			}
		}
		first := mesh.Vertices[f*4].Position[axis]
		for c := 1; c < 4; c++ {
			if got := mesh.Vertices[f*4+c].Position[axis]; got != first {
				t.Errorf("face %d is not planar along axis %d", f, axis)
			}
		}
	}

	// triangles wind counter-clockwise around the outward normal
	for tri := 0; tri < len(mesh.Indices); tri += 3 {
		a := mesh.Vertices[mesh.Indices[tri]]
		b := mesh.Vertices[mesh.Indices[tri+1]]
		c := mesh.Vertices[mesh.Indices[tri+2]]
		var e1, e2 [3]float32
		for i := range e1 {
			e1[i] = b.Position[i] - a.Position[i]
			e2[i] = c.Position[i] - a.Position[i]
		}
		cross := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		if dot := cross[0]*a.Normal[0] + cross[1]*a.Normal[1] + cross[2]*a.Normal[2]; dot <= 0 {
			t.Errorf("triangle %d faces away from normal %v", tri/3, a.Normal)
		}
	}

	top := mesh.Vertices[0]
	if top.Normal != [3]float32{0, 1, 0} || top.Color != colorTop || top.Position[1] != h {
		t.Errorf("first face = %+v, want the green top face", top)
	}
}

func TestMeshBytes(t *testing.T) {
	mesh := NewBlock(2)
	vb := mesh.VertexBytes()
	if len(vb) != 24*36 {
		t.Fatalf("vertex bytes = %d, want %d", len(vb), 24*36)
	}
	v := (&GPUVertex{}).Size()
	if v != 36 {
		t.Errorf("GPUVertex size = %d, want 36", v)
	}
	// color of the first vertex starts at byte 24
	if g := math.Float32frombits(binary.LittleEndian.Uint32(vb[28:])); g != 1 {
		t.Errorf("first vertex green = %v, want 1", g)
	}

	ib := mesh.IndexBytes()
	if len(ib) != 36*4 {
		t.Fatalf("index bytes = %d, want %d", len(ib), 36*4)
	}
	if got := binary.LittleEndian.Uint32(ib[4:]); got != mesh.Indices[1] {
		t.Errorf("second index = %d, want %d", got, mesh.Indices[1])
	}
}

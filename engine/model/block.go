package model

import "encoding/binary"

// Mesh is an indexed triangle list ready for upload.
type Mesh struct {
	Vertices []GPUVertex
	Indices  []uint32
}

// VertexBytes packs the vertices for a vertex buffer.
func (m Mesh) VertexBytes() []byte {
	out := make([]byte, 0, len(m.Vertices)*36)
	for i := range m.Vertices {
		out = append(out, m.Vertices[i].Marshal()...)
	}
	return out
}

// IndexBytes packs the indices as little-endian uint32 for an index buffer.
func (m Mesh) IndexBytes() []byte {
	out := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out
}

var (
	colorTop   = [3]float32{0, 1, 0}
	colorFront = [3]float32{1, 0, 0}
	colorLeft  = [3]float32{0, 0, 1}
	colorWhite = [3]float32{1, 1, 1}
)

// NewBlock builds a box with a 1x1 footprint spanning x in [0, 1], z in [-1, 0] and
// y in [0, height]. Each face has its own four vertices so normals stay flat:
// the top is green, the front (+Z) red, the left (-X) blue and the rest white. Triangles are
// counter-clockwise seen from outside.
//
// Parameters:
//   - height: the box height in world units
//
// Returns:
//   - Mesh: 24 vertices and 36 indices
func NewBlock(height float32) Mesh {
	h := height
	type face struct {
		normal  [3]float32
		color   [3]float32
		corners [4][3]float32
	}
	faces := []face{
		{[3]float32{0, 1, 0}, colorTop, [4][3]float32{{0, h, 0}, {0, h, -1}, {1, h, -1}, {1, h, 0}}},
		{[3]float32{0, -1, 0}, colorWhite, [4][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, -1}, {0, 0, -1}}},
		{[3]float32{0, 0, 1}, colorFront, [4][3]float32{{0, 0, 0}, {0, h, 0}, {1, h, 0}, {1, 0, 0}}},
		{[3]float32{0, 0, -1}, colorWhite, [4][3]float32{{1, 0, -1}, {1, h, -1}, {0, h, -1}, {0, 0, -1}}},
		{[3]float32{-1, 0, 0}, colorLeft, [4][3]float32{{0, 0, -1}, {0, h, -1}, {0, h, 0}, {0, 0, 0}}},
		{[3]float32{1, 0, 0}, colorWhite, [4][3]float32{{1, 0, 0}, {1, h, 0}, {1, h, -1}, {1, 0, -1}}},
	}

	mesh := Mesh{
		Vertices: make([]GPUVertex, 0, len(faces)*4),
		Indices:  make([]uint32, 0, len(faces)*6),
	}
	for _, f := range faces {
		base := uint32(len(mesh.Vertices))
		for _, c := range f.corners {
			mesh.Vertices = append(mesh.Vertices, GPUVertex{Position: c, Normal: f.normal, Color: f.color})
		}
		mesh.Indices = append(mesh.Indices, base, base+3, base+1, base+1, base+3, base+2)
	}
	return mesh
}

package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts frustum planes from a view-projection matrix using the
// Gribb/Hartmann method. The projection must produce WebGPU clip space, where depth
// runs from 0 to 1, so the near plane is row2 alone rather than row3 + row2.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(viewProj mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Rows()

	var f Frustum
	f.setPlane(FrustumLeft, r3.Add(r0))
	f.setPlane(FrustumRight, r3.Sub(r0))
	f.setPlane(FrustumBottom, r3.Add(r1))
	f.setPlane(FrustumTop, r3.Sub(r1))
	f.setPlane(FrustumNear, r2)
	f.setPlane(FrustumFar, r3.Sub(r2))
	return f
}

// setPlane stores the plane coefficients and normalizes them so that the normal has unit length.
func (f *Frustum) setPlane(index int, coeffs mgl32.Vec4) {
	normal := coeffs.Vec3()
	length := normal.Len()
	if length > 0 {
		f.Planes[index] = Plane{Normal: normal.Mul(1 / length), Distance: coeffs.W() / length}
		return
	}
	f.Planes[index] = Plane{Normal: normal, Distance: coeffs.W()}
}

// IntersectsAABB reports whether the axis-aligned box [min, max] is at least partially inside the frustum.
// The test is conservative: boxes near a frustum corner may be reported visible.
//
// Parameters:
//   - min: the minimum corner of the box
//   - max: the maximum corner of the box
//
// Returns:
//   - bool: false only when the box lies entirely outside one of the planes
func (f Frustum) IntersectsAABB(min, max mgl32.Vec3) bool {
	for _, p := range f.Planes {
		// the corner furthest along the plane normal
		v := min
		if p.Normal[0] >= 0 {
			v[0] = max[0]
		}
		if p.Normal[1] >= 0 {
			v[1] = max[1]
		}
		if p.Normal[2] >= 0 {
			v[2] = max[2]
		}
		if p.Normal.Dot(v)+p.Distance < 0 {
			return false
		}
	}
	return true
}

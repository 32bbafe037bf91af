package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// DepthCorrection remaps OpenGL clip-space depth [-1, 1] into the WebGPU range [0, 1].
// The matrix is stored in column-major order and is applied after the projection.
var DepthCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Perspective builds a right-handed perspective projection that writes depth in [0, 1].
//
// Parameters:
//   - fovYDeg: vertical field of view in degrees
//   - aspect: viewport width divided by height
//   - near: distance to the near clip plane
//   - far: distance to the far clip plane
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovYDeg, aspect, near, far float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return DepthCorrection.Mul4(mgl32.Perspective(mgl32.DegToRad(fovYDeg), aspect, near, far))
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// PutFloat32s writes values into buf as little-endian float32s starting at offset.
// It returns the offset just past the last value written.
func PutFloat32s(buf []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
		offset += 4
	}
	return offset
}

// Float32At reads the little-endian float32 stored at offset.
func Float32At(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

// Package quad holds the full-screen quad shared by every grid pass: the vertex layout,
// the four corner vertices and the two-triangle index list.
package quad

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUQuadVertexSource is the canonical WGSL definition of the quad VertexInput struct.
// Matches GPUQuadVertex layout exactly (20 bytes).
//
//go:embed assets/quad_vertex.wgsl
var GPUQuadVertexSource string

// GPUQuadVertex is a single quad corner as laid out in the vertex buffer.
type GPUQuadVertex struct {
	Position [3]float32 // offset  0: clip-space position
	UV       [2]float32 // offset 12: texture coordinate
}

// Vertices are the corners of a quad covering clip space, top-right first, wound counter-clockwise.
var Vertices = [4]GPUQuadVertex{
	{Position: [3]float32{1, 1, 0}, UV: [2]float32{1, 1}},
	{Position: [3]float32{1, -1, 0}, UV: [2]float32{1, 0}},
	{Position: [3]float32{-1, -1, 0}, UV: [2]float32{0, 0}},
	{Position: [3]float32{-1, 1, 0}, UV: [2]float32{0, 1}},
}

// Indices split the quad into two triangles.
var Indices = [6]uint32{0, 1, 2, 2, 3, 0}

// IndexCount is the number of indices drawn per quad.
const IndexCount = uint32(len(Indices))

// Size returns the size of a single vertex in bytes.
func (v *GPUQuadVertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// VertexBytes serializes Vertices for upload into a vertex buffer.
func VertexBytes() []byte {
	stride := (&GPUQuadVertex{}).Size()
	buf := make([]byte, stride*len(Vertices))
	for i, v := range Vertices {
		o := i * stride
		for j := range 3 {
			binary.LittleEndian.PutUint32(buf[o+j*4:], math.Float32bits(v.Position[j]))
		}
		for j := range 2 {
			binary.LittleEndian.PutUint32(buf[o+12+j*4:], math.Float32bits(v.UV[j]))
		}
	}
	return buf
}

// IndexBytes serializes Indices for upload into an index buffer.
func IndexBytes() []byte {
	buf := make([]byte, 4*len(Indices))
	for i, idx := range Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

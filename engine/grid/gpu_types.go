package grid

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUGridParamsSource is the canonical WGSL definition of the GridParams struct.
// Matches GPUGridParams layout exactly (32 bytes).
//
//go:embed assets/grid_params.wgsl
var GPUGridParamsSource string

// GPUGridParams is the uniform block handed to the simulation fragment pass.
// Matches the WGSL GridParams struct layout exactly (see GPUGridParamsSource).
type GPUGridParams struct {
	Dims      [2]uint32 // offset  0: grid width and height in cells
	Birth     uint32    // offset  8: bit n set when n neighbours give birth
	Survive   uint32    // offset 12: bit n set when n neighbours keep a cell alive
	Wrap      uint32    // offset 16: 1 for toroidal, 0 for clamped
	Threshold float32   // offset 20: alive threshold
	_pad      [2]uint32 // offset 24: padding to 32 bytes
}

// NewGPUGridParams packs a rule and topology for a width x height grid.
func NewGPUGridParams(width, height int, rule Rule, topology Topology) GPUGridParams {
	p := GPUGridParams{
		Dims:      [2]uint32{uint32(width), uint32(height)},
		Birth:     uint32(rule.Birth),
		Survive:   uint32(rule.Survive),
		Threshold: AliveThreshold,
	}
	if topology == TopologyToroidal {
		p.Wrap = 1
	}
	return p
}

// Size returns the size of the GPUGridParams struct in bytes.
func (g *GPUGridParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUGridParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized 32 byte buffer
func (g *GPUGridParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], g.Dims[0])
	binary.LittleEndian.PutUint32(buf[4:], g.Dims[1])
	binary.LittleEndian.PutUint32(buf[8:], g.Birth)
	binary.LittleEndian.PutUint32(buf[12:], g.Survive)
	binary.LittleEndian.PutUint32(buf[16:], g.Wrap)
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(g.Threshold))
	return buf
}

// Rule decodes the birth/survive masks back into a Rule.
func (g *GPUGridParams) Rule() Rule {
	return Rule{Birth: uint16(g.Birth), Survive: uint16(g.Survive)}
}

// Topology decodes the wrap flag.
func (g *GPUGridParams) Topology() Topology {
	if g.Wrap != 0 {
		return TopologyToroidal
	}
	return TopologyClamped
}

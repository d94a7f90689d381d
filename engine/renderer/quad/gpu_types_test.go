package quad

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVertexBytes(t *testing.T) {
	b := VertexBytes()
	assert.Len(t, b, 4*20)
	// third vertex, position x
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(b[40:])))
	// fourth vertex, uv.y
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(b[60+16:])))
}

func TestIndexBytes(t *testing.T) {
	b := IndexBytes()
	assert.Len(t, b, 24)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(b[16:]))
	assert.Equal(t, uint32(6), IndexCount)
}

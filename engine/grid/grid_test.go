package grid

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g, err := New(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, 6, g.Len())
	assert.Zero(t, g.AliveCount())

	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-1, 4}} {
		_, err := New(dims[0], dims[1])
		assert.ErrorIs(t, err, ErrZeroDimension, "%v", dims)
	}
}

func TestFromValues(t *testing.T) {
	g, err := FromValues(2, 2, []float32{0, 0.5, 0.49, 1})
	require.NoError(t, err)
	assert.False(t, g.Alive(0, 0))
	assert.True(t, g.Alive(1, 0))
	assert.False(t, g.Alive(0, 1))
	assert.True(t, g.Alive(1, 1))
	assert.Equal(t, 2, g.AliveCount())

	_, err = FromValues(2, 2, []float32{1, 2, 3})
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestEqualAndClone(t *testing.T) {
	a, err := FromValues(2, 1, []float32{0.7, 0})
	require.NoError(t, err)
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Set(0, 0, 0.9)
	assert.False(t, a.Equal(b))
	assert.True(t, a.StateEqual(b))

	c, err := New(1, 2)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
	assert.False(t, a.StateEqual(c))
}

func TestRenderAndImage(t *testing.T) {
	g, err := FromValues(3, 2, []float32{1, 0, 0, 0, 0.5, 0.25})
	require.NoError(t, err)
	assert.Equal(t, "#..\n.#.\n", g.Render())

	img := g.Image()
	assert.Equal(t, uint8(255), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), img.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(64), img.GrayAt(2, 1).Y)
}

func TestParseTopology(t *testing.T) {
	for _, topo := range []Topology{TopologyToroidal, TopologyClamped} {
		got, err := ParseTopology(topo.String())
		require.NoError(t, err)
		assert.Equal(t, topo, got)
	}
	_, err := ParseTopology("klein")
	assert.Error(t, err)
}

func TestDiagnosticPrintout(t *testing.T) {
	g, err := FromValues(2, 2, []float32{1, 0, 0.5, 0})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, DiagnosticPrintout(&buf, g, 2))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"Pixel 0: 1", "Pixel 2: 0.5", "2x2 grid, 2 alive"}, lines)
}

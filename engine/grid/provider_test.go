package grid

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-life/common"
)

func TestNoiseProviderDeterministic(t *testing.T) {
	a, err := NoiseProvider{Seed: 7}.Generate(16, 16)
	require.NoError(t, err)
	b, err := NoiseProvider{Seed: 7}.Generate(16, 16)
	require.NoError(t, err)
	c, err := NoiseProvider{Seed: 8}.Generate(16, 16)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	for _, v := range a.Cells() {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.Less(t, v, float32(1))
	}
}

func TestNoiseProviderDensity(t *testing.T) {
	g, err := NoiseProvider{Seed: 1, Density: 1}.Generate(8, 8)
	require.NoError(t, err)
	assert.Equal(t, 64, g.AliveCount())
}

func TestPatternProvider(t *testing.T) {
	g, err := Blinker.Generate(5, 5)
	require.NoError(t, err)
	assert.Equal(t, ".....\n.....\n.###.\n.....\n.....\n", g.Render())

	_, err = Glider.Generate(2, 2)
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestParsePlaintext(t *testing.T) {
	src := "!Name: Glider\n.O.\n..O\nOOO\n"
	p, err := ParsePlaintext(strings.NewReader(src))
	require.NoError(t, err)
	assert.ElementsMatch(t, Glider.Cells, p.Cells)

	_, err = ParsePlaintext(strings.NewReader("!empty\n...\n"))
	assert.Error(t, err)
}

func TestImageProvider(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(1, 0, color.Gray{Y: 255})
	src.SetGray(0, 1, color.Gray{Y: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	g, err := ImageProvider{Image: &common.ImportedImage{Data: buf.Bytes()}}.Generate(4, 4)
	require.NoError(t, err)
	assert.Equal(t, "..##\n..##\n##..\n##..\n", g.Render())

	_, err = ImageProvider{}.Generate(4, 4)
	assert.Error(t, err)
}

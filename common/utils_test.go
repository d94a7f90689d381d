package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}

func TestFloat32Bytes(t *testing.T) {
	in := []float32{0, 1, 0.5, -2.25}
	b := Float32sToBytes(in)
	require.Len(t, b, 16)

	out := make([]float32, len(in))
	require.NoError(t, BytesToFloat32s(out, b))
	assert.Equal(t, in, out)

	assert.Error(t, BytesToFloat32s(out, b[:15]))
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint32(256), AlignUp(4, 256))
	assert.Equal(t, uint32(256), AlignUp(256, 256))
	assert.Equal(t, uint32(1024), AlignUp(1000, 256))
}

func TestImportedImageDecode(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(1, 0, color.Gray{Y: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img := &ImportedImage{Data: buf.Bytes()}
	pix, w, h, err := img.Decode()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), w)
	assert.Equal(t, uint32(1), h)
	assert.Equal(t, []byte{0, 0, 0, 255, 255, 255, 255, 255}, pix)

	_, _, _, err = (&ImportedImage{}).Decode()
	assert.Error(t, err)
}

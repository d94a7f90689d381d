// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// GridStagingData holds single-channel float cell data pending upload into an R32Float texture.
type GridStagingData struct {
	// Cells is the row-major cell data, one float32 per texel.
	Cells []float32
	// Width is the width of the texture in texels.
	Width uint32
	// Height is the height of the texture in texels.
	Height uint32
}

// Bytes returns the little-endian byte encoding of the staged cells.
func (s GridStagingData) Bytes() []byte {
	return Float32sToBytes(s.Cells)
}

// BytesPerRow returns the unpadded row pitch of the staged data.
func (s GridStagingData) BytesPerRow() uint32 {
	return s.Width * 4
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Grid textures are always sampled with nearest filtering, so only address modes and filters are carried.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV specify addressing for coordinates outside [0, 1]. Repeat for toroidal grids, clamp for bounded ones.
	AddressModeU, AddressModeV wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
}

// ImportedImage is an image on disk or in memory that can seed a grid.
type ImportedImage struct {
	// Path is the file path of the image (empty when Data is set).
	Path string

	// Data contains raw image bytes (PNG/JPEG).
	Data []byte

	// Width is the image width in pixels (populated after Decode).
	Width int

	// Height is the image height in pixels (populated after Decode).
	Height int
}

// Decode decodes the image to raw RGBA pixel data.
// Uses either the in-memory Data bytes or loads from Path on disk.
// Supports PNG and JPEG formats.
//
// Returns:
//   - []byte: raw RGBA pixel data (4 bytes per pixel, row-major order)
//   - uint32: image width in pixels
//   - uint32: image height in pixels
//   - error: error if decoding fails
func (t *ImportedImage) Decode() ([]byte, uint32, uint32, error) {
	if t == nil {
		return nil, 0, 0, fmt.Errorf("image is nil")
	}

	var img image.Image
	var err error

	switch {
	case len(t.Data) > 0:
		img, _, err = image.Decode(bytes.NewReader(t.Data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode image bytes: %w", err)
		}
	case t.Path != "":
		file, fileErr := os.Open(t.Path)
		if fileErr != nil {
			return nil, 0, 0, fmt.Errorf("failed to open image %s: %w", t.Path, fileErr)
		}
		defer file.Close()

		img, _, err = image.Decode(file)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode image %s: %w", t.Path, err)
		}
	default:
		return nil, 0, 0, fmt.Errorf("image has neither data nor path")
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	t.Width = bounds.Dx()
	t.Height = bounds.Dy()

	return rgba.Pix, uint32(t.Width), uint32(t.Height), nil
}

// Package presentation draws the published simulation texture to the surface. It only ever
// samples the texture it is handed and never writes to it.
package presentation

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-life/engine/renderer"
)

// OutputSource exposes the texture of the latest finished generation.
type OutputSource interface {
	// CurrentOutput returns the texture to present.
	//
	// Returns:
	//   - renderer.TextureHandle: the published texture
	//   - bool: false while there is nothing to present
	CurrentOutput() (renderer.TextureHandle, bool)
}

// Bridge presents an OutputSource once per frame through a present pipeline.
type Bridge struct {
	r           renderer.Renderer
	pipelineKey string
	presented   uint64
}

// NewBridge creates a Bridge that draws with the present pipeline registered under pipelineKey.
//
// Parameters:
//   - r: the renderer owning the surface
//   - pipelineKey: a PipelineTypePresent pipeline
//
// Returns:
//   - *Bridge: the new bridge
func NewBridge(r renderer.Renderer, pipelineKey string) *Bridge {
	return &Bridge{r: r, pipelineKey: pipelineKey}
}

// Present records one frame. When src has no output yet the frame is cleared and presented empty.
//
// Parameters:
//   - src: the source of the texture to draw
//
// Returns:
//   - error: a frame acquisition or draw error. The frame is still ended and presented when the draw fails.
func (b *Bridge) Present(src OutputSource) error {
	if err := b.r.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	var drawErr error
	if h, ok := src.CurrentOutput(); ok {
		if err := b.r.DrawTexture(b.pipelineKey, h); err != nil {
			drawErr = fmt.Errorf("draw texture %d: %w", h, err)
		}
	}

	// The surface image is presented even after a failed draw; the backend only gives it
	// back on Present, and the next BeginFrame would fail without it.
	b.r.EndFrame()
	b.r.Present()
	if drawErr != nil {
		return drawErr
	}
	b.presented++
	return nil
}

// Presented returns the number of frames presented successfully.
func (b *Bridge) Presented() uint64 {
	return b.presented
}

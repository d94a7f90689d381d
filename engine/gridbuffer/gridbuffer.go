// Package gridbuffer owns the pair of grid textures a simulation alternates between.
//
// Two publication strategies are available. Ping-pong keeps two interchangeable slots and flips
// which one is current after every step. Copy keeps a dedicated render target that every pass
// writes, and copies it into a separate publish texture on the device after every step. Either way
// the texture a pass reads is never the texture it writes.
package gridbuffer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer"
)

var (
	// ErrZeroDimension is returned by New when width or height is not positive.
	ErrZeroDimension = errors.New("grid buffer dimensions must be greater than zero")

	// ErrAllocation wraps any failure to allocate the buffer's textures.
	ErrAllocation = errors.New("grid buffer allocation failed")

	// ErrAlreadyStepped is returned by Seed once a generation has been promoted.
	ErrAlreadyStepped = errors.New("grid buffer has already been stepped")

	// ErrStrategy is returned when an operation is not available for the buffer's strategy.
	ErrStrategy = errors.New("operation not supported by strategy")

	// ErrDestroyed is returned by every operation after Destroy.
	ErrDestroyed = errors.New("grid buffer destroyed")
)

// Strategy selects how a finished generation is published.
type Strategy int

const (
	// StrategyPingPong flips between two slots in O(1) with no data movement.
	StrategyPingPong Strategy = iota

	// StrategyCopy renders into one target and copies it into a publish texture on the device.
	StrategyCopy
)

func (s Strategy) String() string {
	switch s {
	case StrategyPingPong:
		return "pingpong"
	case StrategyCopy:
		return "copy"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy resolves a configuration name into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pingpong", "ping-pong", "ping_pong":
		return StrategyPingPong, nil
	case "copy":
		return StrategyCopy, nil
	default:
		return 0, fmt.Errorf("unknown buffer strategy %q", s)
	}
}

// gridBuffer is the implementation of the GridBuffer interface.
type gridBuffer struct {
	r renderer.Renderer

	label    string
	strategy Strategy
	topology grid.Topology
	width    int
	height   int

	// slots are the two ping-pong textures; current indexes the readable one
	slots   [2]renderer.TextureHandle
	current int

	// target and publish are the copy strategy's render target and published texture
	target  renderer.TextureHandle
	publish renderer.TextureHandle

	generation uint64
	destroyed  bool
}

// GridBuffer holds the textures of a running simulation in two roles: the current generation,
// which is read by the next pass and published for display, and the next generation, which the
// next pass renders into.
type GridBuffer interface {
	// Strategy returns the publication strategy chosen at construction.
	//
	// Returns:
	//   - Strategy: StrategyPingPong or StrategyCopy
	Strategy() Strategy

	// Width returns the grid width in cells.
	Width() int

	// Height returns the grid height in cells.
	Height() int

	// Current returns the texture holding the last completed generation. A pass reads it and the
	// presentation layer draws it.
	//
	// Returns:
	//   - renderer.TextureHandle: the current texture
	Current() renderer.TextureHandle

	// Next returns the texture the next pass renders into. It is never equal to Current.
	//
	// Returns:
	//   - renderer.TextureHandle: the render target
	Next() renderer.TextureHandle

	// Seed uploads the initial generation. The copy strategy seeds the render target as well, so
	// both of its textures start identical.
	//
	// Parameters:
	//   - g: the initial grid, exactly Width x Height
	//
	// Returns:
	//   - error: grid.ErrSizeMismatch leaving state unchanged, ErrAlreadyStepped after the first
	//     promotion, or ErrDestroyed
	Seed(g *grid.Grid) error

	// Swap exchanges the current and next roles. Ping-pong only; two swaps restore the original roles.
	//
	// Returns:
	//   - error: ErrStrategy on the copy strategy, or ErrDestroyed
	Swap() error

	// CopyCurrentTo copies the most recently written simulation texture into dst on the device.
	// That is the render target for the copy strategy and the current slot for ping-pong.
	//
	// Parameters:
	//   - dst: a texture of the same size, not owned by the buffer's current role
	//
	// Returns:
	//   - error: a renderer error, or ErrDestroyed
	CopyCurrentTo(dst renderer.TextureHandle) error

	// Promote publishes the generation just written to Next: ping-pong swaps, copy copies the
	// render target into the publish texture. It increments the generation counter.
	//
	// Returns:
	//   - error: a renderer error, or ErrDestroyed
	Promote() error

	// Generation returns the number of promotions since construction.
	Generation() uint64

	// ReadBack synchronously copies the current texture into a new grid. Diagnostic only.
	//
	// Returns:
	//   - *grid.Grid: the current generation
	//   - error: a renderer error, or ErrDestroyed
	ReadBack() (*grid.Grid, error)

	// Destroy releases every texture. A second call returns ErrDestroyed.
	//
	// Returns:
	//   - error: ErrDestroyed on repeated calls, or the first release error
	Destroy() error
}

var _ GridBuffer = &gridBuffer{}

// New allocates a GridBuffer of width x height R32Float textures on r.
//
// Parameters:
//   - r: the renderer that owns the textures
//   - width, height: grid dimensions in cells
//   - opts: functional options (strategy, topology, label)
//
// Returns:
//   - GridBuffer: the new buffer
//   - error: ErrZeroDimension, or ErrAllocation wrapping the renderer error. Nothing is retained on failure.
func New(r renderer.Renderer, width, height int, opts ...GridBufferBuilderOption) (GridBuffer, error) {
	b := &gridBuffer{
		r:        r,
		label:    "Grid",
		strategy: StrategyPingPong,
		topology: grid.TopologyToroidal,
		width:    width,
		height:   height,
	}
	for _, opt := range opts {
		opt(b)
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%s %dx%d: %w", b.label, width, height, ErrZeroDimension)
	}

	var labels []string
	switch b.strategy {
	case StrategyPingPong:
		labels = []string{b.label + " Slot A", b.label + " Slot B"}
	case StrategyCopy:
		labels = []string{b.label + " Publish", b.label + " Target"}
	default:
		return nil, fmt.Errorf("%s: %v: %w", b.label, b.strategy, ErrStrategy)
	}

	handles := make([]renderer.TextureHandle, 0, len(labels))
	for _, label := range labels {
		h, err := r.CreateGridTexture(label, width, height, b.topology)
		if err != nil {
			for _, created := range handles {
				_ = r.ReleaseGridTexture(created)
			}
			return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
		}
		handles = append(handles, h)
	}

	if b.strategy == StrategyPingPong {
		b.slots = [2]renderer.TextureHandle{handles[0], handles[1]}
	} else {
		b.publish, b.target = handles[0], handles[1]
	}
	return b, nil
}

func (b *gridBuffer) Strategy() Strategy {
	return b.strategy
}

func (b *gridBuffer) Width() int {
	return b.width
}

func (b *gridBuffer) Height() int {
	return b.height
}

func (b *gridBuffer) Current() renderer.TextureHandle {
	if b.strategy == StrategyCopy {
		return b.publish
	}
	return b.slots[b.current]
}

func (b *gridBuffer) Next() renderer.TextureHandle {
	if b.strategy == StrategyCopy {
		return b.target
	}
	return b.slots[1-b.current]
}

func (b *gridBuffer) Seed(g *grid.Grid) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if b.generation > 0 {
		return fmt.Errorf("seed at generation %d: %w", b.generation, ErrAlreadyStepped)
	}
	if g == nil || g.Width() != b.width || g.Height() != b.height {
		return fmt.Errorf("seed %s %dx%d: %w", b.label, b.width, b.height, grid.ErrSizeMismatch)
	}

	// The render target goes first: it is never published, so a failed second write leaves
	// the published texture as it was.
	if b.strategy == StrategyCopy {
		if err := b.r.WriteGridTexture(b.target, g); err != nil {
			return err
		}
	}
	return b.r.WriteGridTexture(b.Current(), g)
}

func (b *gridBuffer) Swap() error {
	if b.destroyed {
		return ErrDestroyed
	}
	if b.strategy != StrategyPingPong {
		return fmt.Errorf("swap: %v: %w", b.strategy, ErrStrategy)
	}
	b.current = 1 - b.current
	return nil
}

func (b *gridBuffer) CopyCurrentTo(dst renderer.TextureHandle) error {
	if b.destroyed {
		return ErrDestroyed
	}
	src := b.Current()
	if b.strategy == StrategyCopy {
		src = b.target
	}
	return b.r.CopyGridTexture(src, dst)
}

func (b *gridBuffer) Promote() error {
	if b.destroyed {
		return ErrDestroyed
	}
	var err error
	switch b.strategy {
	case StrategyPingPong:
		err = b.Swap()
	case StrategyCopy:
		err = b.CopyCurrentTo(b.publish)
	}
	if err != nil {
		return err
	}
	b.generation++
	return nil
}

func (b *gridBuffer) Generation() uint64 {
	return b.generation
}

func (b *gridBuffer) ReadBack() (*grid.Grid, error) {
	if b.destroyed {
		return nil, ErrDestroyed
	}
	return b.r.ReadGridTexture(b.Current())
}

func (b *gridBuffer) Destroy() error {
	if b.destroyed {
		return ErrDestroyed
	}
	b.destroyed = true

	handles := b.slots[:]
	if b.strategy == StrategyCopy {
		handles = []renderer.TextureHandle{b.publish, b.target}
	}
	var errs []error
	for _, h := range handles {
		if err := b.r.ReleaseGridTexture(h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Package grid holds the CPU-side representation of an automaton grid: the cell store,
// the birth/survival rule, neighbourhood topology, initial-state providers and a
// reference stepper used to verify GPU output.
package grid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
)

// AliveThreshold is the value at or above which a cell counts as alive.
const AliveThreshold float32 = 0.5

var (
	// ErrSizeMismatch is returned when a value slice does not hold exactly width*height cells.
	ErrSizeMismatch = errors.New("grid size mismatch")

	// ErrZeroDimension is returned when a grid is created with a zero width or height.
	ErrZeroDimension = errors.New("grid dimensions must be greater than zero")
)

// Topology decides how neighbours beyond the grid edge are resolved.
type Topology int

const (
	// TopologyToroidal wraps edges so the grid behaves like the surface of a torus.
	TopologyToroidal Topology = iota
	// TopologyClamped treats every cell beyond the edge as dead.
	TopologyClamped
)

func (t Topology) String() string {
	switch t {
	case TopologyToroidal:
		return "toroidal"
	case TopologyClamped:
		return "clamped"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ParseTopology resolves a configuration name into a Topology.
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toroidal", "torus", "wrap", "repeat":
		return TopologyToroidal, nil
	case "clamped", "clamp", "bounded":
		return TopologyClamped, nil
	default:
		return 0, fmt.Errorf("unknown topology %q", s)
	}
}

// Grid is a rectangular, row-major array of cell values in [0, 1].
// Width and height are fixed at creation and len(Cells()) is always width*height.
type Grid struct {
	width  int
	height int
	cells  []float32
}

// New creates an all-dead grid.
//
// Parameters:
//   - width: the number of columns, must be > 0
//   - height: the number of rows, must be > 0
//
// Returns:
//   - *Grid: the new grid
//   - error: ErrZeroDimension if either dimension is zero or negative
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrZeroDimension)
	}
	return &Grid{width: width, height: height, cells: make([]float32, width*height)}, nil
}

// FromValues wraps a copy of values as a grid.
//
// Parameters:
//   - width: the number of columns, must be > 0
//   - height: the number of rows, must be > 0
//   - values: row-major cell values, len must equal width*height
//
// Returns:
//   - *Grid: the new grid
//   - error: ErrZeroDimension or ErrSizeMismatch
func FromValues(width, height int, values []float32) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("got %d values for %dx%d grid: %w", len(values), width, height, ErrSizeMismatch)
	}
	copy(g.cells, values)
	return g, nil
}

func (g *Grid) Width() int { return g.width }
func (g *Grid) Height() int { return g.height }
func (g *Grid) Len() int { return len(g.cells) }
func (g *Grid) Cells() []float32 { return g.cells }
func (g *Grid) Index(x, y int) int { return y*g.width + x }

// At returns the cell value at (x, y). Coordinates must be in range.
func (g *Grid) At(x, y int) float32 {
	return g.cells[y*g.width+x]
}

// Set writes the cell value at (x, y). Coordinates must be in range.
func (g *Grid) Set(x, y int, v float32) {
	g.cells[y*g.width+x] = v
}

// Alive reports whether the cell at (x, y) is at or above AliveThreshold.
func (g *Grid) Alive(x, y int) bool {
	return g.At(x, y) >= AliveThreshold
}

// AliveCount returns the number of live cells.
func (g *Grid) AliveCount() int {
	n := 0
	for _, v := range g.cells {
		if v >= AliveThreshold {
			n++
		}
	}
	return n
}

// SameSize reports whether other has the same dimensions as g.
func (g *Grid) SameSize(other *Grid) bool {
	return other != nil && g.width == other.width && g.height == other.height
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, cells: make([]float32, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same dimensions and identical cell values.
func (g *Grid) Equal(other *Grid) bool {
	if !g.SameSize(other) {
		return false
	}
	for i, v := range g.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// StateEqual reports whether both grids agree on which cells are alive, ignoring exact values.
func (g *Grid) StateEqual(other *Grid) bool {
	if !g.SameSize(other) {
		return false
	}
	for i, v := range g.cells {
		if (v >= AliveThreshold) != (other.cells[i] >= AliveThreshold) {
			return false
		}
	}
	return true
}

// Render draws the grid as text, one line per row, using '#' for alive and '.' for dead.
func (g *Grid) Render() string {
	var sb strings.Builder
	sb.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.Alive(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Image converts the grid to an 8-bit grayscale image, mapping 0 to black and 1 to white.
func (g *Grid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.width, g.height))
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			v := min(max(g.At(x, y), 0), 1)
			img.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}

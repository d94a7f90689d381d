package grid

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-life/common"
)

// Provider supplies the initial state of a simulation.
// Implementations own any randomness; the simulation only checks the size of what they return.
type Provider interface {
	// Generate builds a grid of exactly width*height cells with values in [0, 1].
	//
	// Parameters:
	//   - width: the number of columns
	//   - height: the number of rows
	//
	// Returns:
	//   - *Grid: the initial state
	//   - error: an error if the state cannot be produced at that size
	Generate(width, height int) (*Grid, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(width, height int) (*Grid, error)

func (f ProviderFunc) Generate(width, height int) (*Grid, error) {
	return f(width, height)
}

// EmptyProvider produces all-dead grids.
var EmptyProvider Provider = ProviderFunc(New)

// NoiseProvider fills each cell with a uniform float in [0, 1).
// With Density > 0 cells are instead set to exactly 1 with that probability, 0 otherwise.
type NoiseProvider struct {
	// Seed selects the PCG stream. Zero derives a seed from the wall clock on each Generate.
	Seed uint64
	// Density, when in (0, 1], produces binary cells alive with this probability.
	Density float64
}

func (p NoiseProvider) Generate(width, height int) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}

	seed := p.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	for i := range g.cells {
		if p.Density > 0 {
			if rng.Float64() < p.Density {
				g.cells[i] = 1
			}
			continue
		}
		g.cells[i] = rng.Float32()
	}
	return g, nil
}

// PatternProvider places a fixed pattern of live cells, centred in the grid.
type PatternProvider struct {
	// Cells are (x, y) offsets of live cells relative to the pattern's top-left corner.
	Cells [][2]int
}

// Glider is the classic south-east travelling glider.
var Glider = PatternProvider{Cells: [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}}

// Blinker is a period-2 oscillator.
var Blinker = PatternProvider{Cells: [][2]int{{0, 1}, {1, 1}, {2, 1}}}

func (p PatternProvider) Generate(width, height int) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}

	pw, ph := p.bounds()
	if pw > width || ph > height {
		return nil, fmt.Errorf("pattern %dx%d does not fit %dx%d grid: %w", pw, ph, width, height, ErrSizeMismatch)
	}
	ox, oy := (width-pw)/2, (height-ph)/2
	for _, c := range p.Cells {
		g.Set(ox+c[0], oy+c[1], 1)
	}
	return g, nil
}

func (p PatternProvider) bounds() (int, int) {
	w, h := 0, 0
	for _, c := range p.Cells {
		w = max(w, c[0]+1)
		h = max(h, c[1]+1)
	}
	return w, h
}

// ParsePlaintext reads a pattern in the plaintext ".cells" format.
// Lines starting with '!' are comments, 'O' or '*' marks a live cell and anything else is dead.
func ParsePlaintext(r io.Reader) (PatternProvider, error) {
	var p PatternProvider
	sc := bufio.NewScanner(r)
	y := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "!") {
			continue
		}
		for x, c := range line {
			if c == 'O' || c == '*' {
				p.Cells = append(p.Cells, [2]int{x, y})
			}
		}
		y++
	}
	if err := sc.Err(); err != nil {
		return PatternProvider{}, fmt.Errorf("failed to read pattern: %w", err)
	}
	if len(p.Cells) == 0 {
		return PatternProvider{}, fmt.Errorf("pattern has no live cells")
	}
	return p, nil
}

// ImageProvider derives cell values from the luminance of a PNG or JPEG image.
// The image is sampled with nearest-neighbour scaling to the requested grid size.
type ImageProvider struct {
	Image *common.ImportedImage
}

func (p ImageProvider) Generate(width, height int) (*Grid, error) {
	pix, iw, ih, err := p.Image.Decode()
	if err != nil {
		return nil, fmt.Errorf("image provider: %w", err)
	}
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}

	for y := 0; y < height; y++ {
		sy := y * int(ih) / height
		for x := 0; x < width; x++ {
			sx := x * int(iw) / width
			o := (sy*int(iw) + sx) * 4
			r, gr, b := float32(pix[o]), float32(pix[o+1]), float32(pix[o+2])
			g.Set(x, y, (0.299*r+0.587*gr+0.114*b)/255)
		}
	}
	return g, nil
}

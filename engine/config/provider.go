package config

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-life/common"
	"github.com/Carmen-Shannon/oxy-life/engine/grid"
)

var builtinPatterns = map[string]grid.PatternProvider{
	"glider":  grid.Glider,
	"blinker": grid.Blinker,
}

// Provider builds the initial-state provider selected by simulation.seed.
//
// Returns:
//   - grid.Provider: the provider
//   - error: an error if a pattern file cannot be read or parsed
func (c *Config) Provider() (grid.Provider, error) {
	s := c.Simulation.Seed
	switch s.Provider {
	case "noise":
		return grid.NoiseProvider{Seed: s.Seed, Density: s.Density}, nil
	case "pattern":
		if p, ok := builtinPatterns[s.Pattern]; ok {
			return p, nil
		}
		f, err := os.Open(expandPath(s.Pattern))
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", s.Pattern, err)
		}
		defer f.Close()
		p, err := grid.ParsePlaintext(f)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", s.Pattern, err)
		}
		return p, nil
	case "image":
		return grid.ImageProvider{Image: &common.ImportedImage{Path: s.Image}}, nil
	case "empty":
		return grid.EmptyProvider, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalid, s.Provider)
	}
}

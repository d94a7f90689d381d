package gridbuffer

import "github.com/Carmen-Shannon/oxy-life/engine/grid"

// GridBufferBuilderOption is a functional option applied to a grid buffer during construction via New.
type GridBufferBuilderOption func(*gridBuffer)

// WithStrategy selects the publication strategy. Defaults to StrategyPingPong.
//
// Parameters:
//   - s: the Strategy to use
//
// Returns:
//   - GridBufferBuilderOption: a function that applies the strategy to a grid buffer
func WithStrategy(s Strategy) GridBufferBuilderOption {
	return func(b *gridBuffer) {
		b.strategy = s
	}
}

// WithTopology selects the sampler address mode of the textures. Defaults to toroidal.
func WithTopology(t grid.Topology) GridBufferBuilderOption {
	return func(b *gridBuffer) {
		b.topology = t
	}
}

// WithLabel sets the debug label prefix of the textures.
func WithLabel(label string) GridBufferBuilderOption {
	return func(b *gridBuffer) {
		b.label = label
	}
}

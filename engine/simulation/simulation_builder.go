package simulation

import "github.com/Carmen-Shannon/oxy-life/engine/grid"

// SimulationBuilderOption is a functional option applied to a simulation during construction via New.
type SimulationBuilderOption func(*simulation)

// WithTopology sets the topology the grid textures are sampled with. Defaults to toroidal.
// The pass parameters must agree with it.
//
// Parameters:
//   - t: the grid topology
//
// Returns:
//   - SimulationBuilderOption: a function that applies the topology to a simulation
func WithTopology(t grid.Topology) SimulationBuilderOption {
	return func(s *simulation) {
		s.topology = t
	}
}

// WithLabel sets the debug label prefix for the grid textures.
func WithLabel(label string) SimulationBuilderOption {
	return func(s *simulation) {
		s.label = label
	}
}

package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighbours(t *testing.T) {
	g, err := FromValues(3, 3, []float32{
		1, 0, 0,
		0, 0, 0,
		0, 0, 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, Neighbours(g, 1, 1, TopologyClamped))
	// corners touch each other only through the wrap
	assert.Equal(t, 0, Neighbours(g, 0, 0, TopologyClamped))
	assert.Equal(t, 1, Neighbours(g, 0, 0, TopologyToroidal))
}

func TestStepIsolatedCellDies(t *testing.T) {
	g, err := New(4, 4)
	require.NoError(t, err)
	g.Set(1, 1, 1)

	for _, topo := range []Topology{TopologyToroidal, TopologyClamped} {
		next := Step(g, Conway, topo)
		assert.Zero(t, next.AliveCount(), topo.String())
	}
}

func TestStepBlinkerOscillates(t *testing.T) {
	g, err := Blinker.Generate(5, 5)
	require.NoError(t, err)

	one := Step(g, Conway, TopologyClamped)
	assert.False(t, g.StateEqual(one))
	assert.Equal(t, ".....\n..#..\n..#..\n..#..\n.....\n", one.Render())
	assert.True(t, g.StateEqual(StepN(g, Conway, TopologyClamped, 2)))
}

func TestStepGliderWraps(t *testing.T) {
	g, err := Glider.Generate(8, 8)
	require.NoError(t, err)

	// a glider translates by (1, 1) every 4 generations, so 32 bring it home on an 8x8 torus
	assert.True(t, g.StateEqual(StepN(g, Conway, TopologyToroidal, 32)))
	assert.Equal(t, 5, StepN(g, Conway, TopologyToroidal, 13).AliveCount())
}

func TestParallelStepperMatchesReference(t *testing.T) {
	g, err := NoiseProvider{Seed: 42, Density: 0.35}.Generate(67, 131)
	require.NoError(t, err)

	s := NewParallelStepper(4)
	src := g.Clone()
	dst, err := New(67, 131)
	require.NoError(t, err)

	want := g
	for range 5 {
		want = Step(want, Conway, TopologyToroidal)
		require.NoError(t, s.Step(src, dst, Conway, TopologyToroidal))
		src, dst = dst, src
	}
	assert.True(t, want.Equal(src))
}

func TestParallelStepperErrors(t *testing.T) {
	s := NewParallelStepper(2)
	a, err := New(4, 4)
	require.NoError(t, err)
	b, err := New(4, 5)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Step(a, b, Conway, TopologyClamped), ErrSizeMismatch)
	assert.Error(t, s.Step(a, a, Conway, TopologyClamped))
}

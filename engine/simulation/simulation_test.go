package simulation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-life/engine/computepass"
	"github.com/Carmen-Shannon/oxy-life/engine/grid"
	"github.com/Carmen-Shannon/oxy-life/engine/gridbuffer"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-life/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-life/shaders"
)

func newRenderer(t *testing.T, opts ...renderer.RendererBuilderOption) renderer.Renderer {
	t.Helper()
	vs, err := shader.NewShaderFromFS("quad", shader.ShaderTypeVertex, shaders.FS, shaders.Quad)
	require.NoError(t, err)
	fs, err := shader.NewShaderFromFS("life", shader.ShaderTypeFragment, shaders.FS, shaders.Life)
	require.NoError(t, err)
	p := pipeline.NewPipeline("life", pipeline.PipelineTypeSimulation, pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs))

	r := renderer.NewRenderer(renderer.BackendTypeSoftware, nil,
		append([]renderer.RendererBuilderOption{renderer.WithPipeline(p), renderer.WithWorkers(2)}, opts...)...)
	t.Cleanup(r.Release)
	return r
}

// spyPass records bindings and forwards to an inner pass.
type spyPass struct {
	inner         computepass.ComputePass
	input, output renderer.TextureHandle
	calls         int
	fail          error
}

func (s *spyPass) BindInput(h renderer.TextureHandle) {
	s.input = h
	s.inner.BindInput(h)
}

func (s *spyPass) BindOutput(h renderer.TextureHandle) {
	s.output = h
	s.inner.BindOutput(h)
}

func (s *spyPass) Invoke() error {
	s.calls++
	if s.fail != nil {
		s.inner.BindInput(0)
		s.inner.BindOutput(0)
		return s.fail
	}
	return s.inner.Invoke()
}

func (s *spyPass) Program() string { return s.inner.Program() }

func newSimulation(t *testing.T, r renderer.Renderer, w, h int, topology grid.Topology) (Simulation, *spyPass) {
	t.Helper()
	spy := &spyPass{inner: computepass.New(r, "life", grid.NewGPUGridParams(w, h, grid.Conway, topology))}
	s := New(r, spy, WithTopology(topology), WithLabel("test"))
	t.Cleanup(func() { _ = s.Destroy() })
	return s, spy
}

func TestLifecycle(t *testing.T) {
	r := newRenderer(t)
	s, _ := newSimulation(t, r, 8, 8, grid.TopologyToroidal)

	assert.Equal(t, StateUninitialized, s.State())
	_, ok := s.CurrentOutput()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Seed(nil), ErrNotInitialized)
	_, err := s.ReadBack()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Panics(t, func() { _ = s.Step() })

	require.NoError(t, s.Initialize(8, 8, gridbuffer.StrategyPingPong))
	assert.Equal(t, StateUninitialized, s.State())
	_, ok = s.CurrentOutput()
	assert.False(t, ok)

	g, err := grid.Glider.Generate(8, 8)
	require.NoError(t, err)
	require.NoError(t, s.Seed(g))
	assert.Equal(t, StateReady, s.State())
	_, ok = s.CurrentOutput()
	assert.True(t, ok)

	require.NoError(t, s.Step())
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, uint64(1), s.Generation())

	require.NoError(t, s.Destroy())
	assert.Equal(t, StateUninitialized, s.State())
	assert.Zero(t, s.Generation())
}

func TestStepBindsDistinctTextures(t *testing.T) {
	for _, strategy := range []gridbuffer.Strategy{gridbuffer.StrategyPingPong, gridbuffer.StrategyCopy} {
		t.Run(strategy.String(), func(t *testing.T) {
			r := newRenderer(t)
			s, spy := newSimulation(t, r, 6, 6, grid.TopologyToroidal)
			require.NoError(t, s.Initialize(6, 6, strategy))
			g, err := grid.Blinker.Generate(6, 6)
			require.NoError(t, err)
			require.NoError(t, s.Seed(g))

			for i := 0; i < 5; i++ {
				before, _ := s.CurrentOutput()
				require.NoError(t, s.Step())
				assert.NotEqual(t, spy.input, spy.output)
				assert.Equal(t, before, spy.input)

				after, ok := s.CurrentOutput()
				require.True(t, ok)
				if strategy == gridbuffer.StrategyPingPong {
					assert.Equal(t, spy.output, after)
				} else {
					assert.Equal(t, before, after)
				}
			}
			assert.Equal(t, 5, spy.calls)
		})
	}
}

func TestStepMatchesReference(t *testing.T) {
	seed, err := grid.NoiseProvider{Seed: 7, Density: 0.35}.Generate(23, 17)
	require.NoError(t, err)

	for _, topology := range []grid.Topology{grid.TopologyToroidal, grid.TopologyClamped} {
		for _, strategy := range []gridbuffer.Strategy{gridbuffer.StrategyPingPong, gridbuffer.StrategyCopy} {
			t.Run(topology.String()+"/"+strategy.String(), func(t *testing.T) {
				r := newRenderer(t)
				s, _ := newSimulation(t, r, 23, 17, topology)
				require.NoError(t, s.Initialize(23, 17, strategy))
				require.NoError(t, s.Seed(seed))

				for i := 0; i < 12; i++ {
					require.NoError(t, s.Step())
				}
				got, err := s.ReadBack()
				require.NoError(t, err)
				want := grid.StepN(seed, grid.Conway, topology, 12)
				assert.True(t, want.StateEqual(got), "got\n%s\nwant\n%s", got.Render(), want.Render())
				assert.Equal(t, uint64(12), s.Generation())
			})
		}
	}
}

func TestIsolatedCellDies(t *testing.T) {
	r := newRenderer(t)
	s, _ := newSimulation(t, r, 4, 4, grid.TopologyToroidal)
	require.NoError(t, s.Initialize(4, 4, gridbuffer.StrategyPingPong))

	g, err := grid.New(4, 4)
	require.NoError(t, err)
	g.Set(1, 1, 1)
	require.NoError(t, s.Seed(g))
	require.NoError(t, s.Step())

	got, err := s.ReadBack()
	require.NoError(t, err)
	assert.Zero(t, got.AliveCount())
}

func TestInvocationFailureKeepsOutput(t *testing.T) {
	r := newRenderer(t)
	s, spy := newSimulation(t, r, 6, 6, grid.TopologyToroidal)
	require.NoError(t, s.Initialize(6, 6, gridbuffer.StrategyPingPong))
	g, err := grid.Blinker.Generate(6, 6)
	require.NoError(t, err)
	require.NoError(t, s.Seed(g))
	require.NoError(t, s.Step())

	before, _ := s.CurrentOutput()
	spy.fail = errors.New("device lost")
	err = s.Step()
	assert.ErrorIs(t, err, ErrInvocation)
	assert.ErrorContains(t, err, "device lost")
	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, uint64(1), s.Generation())

	after, _ := s.CurrentOutput()
	assert.Equal(t, before, after)

	spy.fail = nil
	require.NoError(t, s.Step())
	got, err := s.ReadBack()
	require.NoError(t, err)
	assert.True(t, g.StateEqual(got))
}

func TestSeedErrors(t *testing.T) {
	r := newRenderer(t)
	s, _ := newSimulation(t, r, 4, 4, grid.TopologyClamped)
	require.NoError(t, s.Initialize(4, 4, gridbuffer.StrategyCopy))

	g, err := grid.New(5, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Seed(g), grid.ErrSizeMismatch)
	assert.Equal(t, StateUninitialized, s.State())
}

func TestInitializeFailureRetainsNothing(t *testing.T) {
	r := newRenderer(t, renderer.WithTextureBudget(40))
	s, _ := newSimulation(t, r, 4, 4, grid.TopologyClamped)

	assert.ErrorIs(t, s.Initialize(0, 4, gridbuffer.StrategyPingPong), gridbuffer.ErrZeroDimension)
	assert.ErrorIs(t, s.Initialize(5, 5, gridbuffer.StrategyCopy), gridbuffer.ErrAllocation)
	assert.Equal(t, StateUninitialized, s.State())
	_, err := s.ReadBack()
	assert.ErrorIs(t, err, ErrNotInitialized)

	// the first 5x5 texture was released, so two 4x4 textures fit
	require.NoError(t, s.Initialize(4, 4, gridbuffer.StrategyPingPong))
}

func TestReinitialize(t *testing.T) {
	r := newRenderer(t, renderer.WithTextureBudget(64))
	s, _ := newSimulation(t, r, 4, 4, grid.TopologyToroidal)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Initialize(4, 4, gridbuffer.StrategyPingPong))
		g, err := grid.Blinker.Generate(4, 4)
		require.NoError(t, err)
		require.NoError(t, s.Seed(g))
		require.NoError(t, s.Step())
	}
	assert.Equal(t, uint64(1), s.Generation())
}

func TestReinitializeAtNewSizeResizesPass(t *testing.T) {
	r := newRenderer(t)
	s, _ := newSimulation(t, r, 8, 8, grid.TopologyToroidal)

	require.NoError(t, s.Initialize(8, 8, gridbuffer.StrategyPingPong))
	g, err := grid.Glider.Generate(8, 8)
	require.NoError(t, err)
	require.NoError(t, s.Seed(g))
	require.NoError(t, s.Step())
	assert.Equal(t, [2]uint32{8, 8}, r.Stats().LastPassDims)

	require.NoError(t, s.Initialize(16, 12, gridbuffer.StrategyCopy))
	g, err = grid.Glider.Generate(16, 12)
	require.NoError(t, err)
	require.NoError(t, s.Seed(g))
	require.NoError(t, s.Step())
	assert.Equal(t, [2]uint32{16, 12}, r.Stats().LastPassDims)

	got, err := s.ReadBack()
	require.NoError(t, err)
	assert.True(t, grid.Step(g, grid.Conway, grid.TopologyToroidal).StateEqual(got))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "stepping", StateStepping.String())
	assert.Equal(t, "State(9)", State(9).String())
}

package profiler

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-life/engine/logging"
)

func TestTickReportsPerInterval(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)

	start := time.Unix(1000, 0)
	now := start
	p := NewProfiler(time.Second)
	p.lastTime = start
	p.now = func() time.Time { return now }

	// 10 frames over one second, every other frame steps
	for i := 1; i <= 9; i++ {
		now = start.Add(time.Duration(i) * 100 * time.Millisecond)
		assert.False(t, p.Tick(i%2 == 0, uint64(i/2)))
	}
	now = start.Add(time.Second)
	require.True(t, p.Tick(true, 5))

	s := p.Last()
	assert.InDelta(t, 10, s.FPS, 1e-9)
	assert.InDelta(t, 5, s.GenerationsPS, 1e-9)
	assert.Equal(t, uint64(5), s.Generation)
	assert.Contains(t, buf.String(), "gen_per_s=5")
	assert.Contains(t, buf.String(), "fps=10")

	// counters restart for the next window
	now = now.Add(500 * time.Millisecond)
	assert.False(t, p.Tick(false, 5))
	now = now.Add(500 * time.Millisecond)
	require.True(t, p.Tick(false, 5))
	assert.InDelta(t, 2, p.Last().FPS, 1e-9)
	assert.Zero(t, p.Last().GenerationsPS)
}

func TestDefaultInterval(t *testing.T) {
	p := NewProfiler(0)
	assert.Equal(t, time.Second, p.updateInterval)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.234))
	assert.Equal(t, 1.24, round2(1.235001))
}

package scheduler

// SimulationClock decides when a fixed-interval step is due. TimeRemaining starts at zero so the
// first tick always steps.
type SimulationClock struct {
	StepInterval  float64
	TimeRemaining float64
}

// Advance reports whether a step is due for the frame, then charges dt against the clock.
// The decision is taken against the TimeRemaining carried into the call. A due step resets
// TimeRemaining to StepInterval before dt is subtracted. Missed intervals are not caught up.
//
// Parameters:
//   - dt: the frame delta in seconds
//
// Returns:
//   - bool: true if a step should run this frame
func (c *SimulationClock) Advance(dt float64) bool {
	due := c.TimeRemaining <= 0
	if due {
		c.TimeRemaining = c.StepInterval
	}
	c.TimeRemaining -= dt
	return due
}

// Reset forces the next Advance to step.
func (c *SimulationClock) Reset() {
	c.TimeRemaining = 0
}

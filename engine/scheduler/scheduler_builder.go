package scheduler

// SchedulerBuilderOption is a functional option applied to a Scheduler during construction via New.
type SchedulerBuilderOption func(*Scheduler)

// WithPaused starts the scheduler paused. Ticks do nothing until Resume or RequestStep.
func WithPaused(paused bool) SchedulerBuilderOption {
	return func(s *Scheduler) {
		s.paused = paused
	}
}

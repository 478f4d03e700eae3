package jobs

// JobQueue provides an abstraction for enqueueing background maintenance
// jobs.
type JobQueue interface {
	EnqueueTimerStateCleanup() error
	EnqueueIdleSessionPrune() error
}

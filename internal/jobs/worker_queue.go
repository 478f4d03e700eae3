package jobs

import (
	"context"
	"time"

	"github.com/ghelleks/botany-battle-sub000/internal/clock"
	"github.com/ghelleks/botany-battle-sub000/internal/logger"
	"github.com/ghelleks/botany-battle-sub000/internal/repository"
	"github.com/ghelleks/botany-battle-sub000/internal/worker"
)

// WorkerQueue implements JobQueue on a worker.Pool.
type WorkerQueue struct {
	pool      *worker.Pool
	timerRepo repository.TimerStateRepository
	pruner    worker.SessionPruner
	clk       clock.Clock
	staleTTL  time.Duration
	idleFor   time.Duration
}

// NewWorkerQueue creates a new WorkerQueue implementation.
func NewWorkerQueue(pool *worker.Pool, timerRepo repository.TimerStateRepository, pruner worker.SessionPruner, clk clock.Clock, staleTTL, idleFor time.Duration) *WorkerQueue {
	if clk == nil {
		clk = clock.System
	}
	return &WorkerQueue{
		pool:      pool,
		timerRepo: timerRepo,
		pruner:    pruner,
		clk:       clk,
		staleTTL:  staleTTL,
		idleFor:   idleFor,
	}
}

func (q *WorkerQueue) EnqueueTimerStateCleanup() error {
	return q.pool.Submit(&worker.CleanupTimerStatesJob{
		Repo:  q.timerRepo,
		Clock: q.clk,
		TTL:   q.staleTTL,
	})
}

func (q *WorkerQueue) EnqueueIdleSessionPrune() error {
	return q.pool.Submit(&worker.PruneIdleSessionsJob{
		Pruner:  q.pruner,
		IdleFor: q.idleFor,
	})
}

// Schedule enqueues both maintenance jobs on a fixed interval until ctx
// is cancelled. Full-queue errors are logged and retried next cycle.
func (q *WorkerQueue) Schedule(ctx context.Context, interval time.Duration) {
	log := logger.Default().WithPrefix("janitor")
	log.Info("janitor scheduled: interval=%s, stale_ttl=%s, idle_for=%s", interval, q.staleTTL, q.idleFor)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("janitor stopped")
			return
		case <-ticker.C:
			if err := q.EnqueueTimerStateCleanup(); err != nil {
				log.Warn("failed to enqueue timer state cleanup: %v", err)
			}
			if err := q.EnqueueIdleSessionPrune(); err != nil {
				log.Warn("failed to enqueue idle session prune: %v", err)
			}
		}
	}
}

var _ JobQueue = (*WorkerQueue)(nil)

package worker

import (
	"context"
	"time"

	"github.com/ghelleks/botany-battle-sub000/internal/clock"
	"github.com/ghelleks/botany-battle-sub000/internal/logger"
	"github.com/ghelleks/botany-battle-sub000/internal/repository"
)

// SessionPruner unloads in-memory sessions that have gone quiet. Satisfied
// by services.GameService; declared here so jobs stay decoupled from the
// service package.
type SessionPruner interface {
	PruneIdle(ctx context.Context, idleFor time.Duration) int
}

// CleanupTimerStatesJob deletes timer checkpoints whose session never came
// back: crashed clients that were not recovered within the TTL.
type CleanupTimerStatesJob struct {
	Repo  repository.TimerStateRepository
	Clock clock.Clock
	TTL   time.Duration
}

func (j *CleanupTimerStatesJob) Name() string { return "cleanup_timer_states" }

func (j *CleanupTimerStatesJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	cutoff := j.Clock.Now().Add(-j.TTL)

	n, err := j.Repo.DeleteStale(ctx, cutoff)
	if err != nil {
		log.Error("failed to delete stale timer states: %v", err)
		return err
	}
	if n > 0 {
		log.Info("pruned %d stale timer states", n)
	}
	return nil
}

// PruneIdleSessionsJob checkpoints and unloads live sessions that have
// seen no activity for IdleFor. They remain recoverable from their
// checkpoint.
type PruneIdleSessionsJob struct {
	Pruner  SessionPruner
	IdleFor time.Duration
}

func (j *PruneIdleSessionsJob) Name() string { return "prune_idle_sessions" }

func (j *PruneIdleSessionsJob) Run(ctx context.Context) error {
	if n := j.Pruner.PruneIdle(ctx, j.IdleFor); n > 0 {
		logger.FromContext(ctx).Info("unloaded %d idle sessions", n)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

// TimerStateRepository handles durable timer checkpoints. Within one
// session id writes are last-checkpoint-wins; a missing record is
// reported as (nil, nil), not an error.
type TimerStateRepository interface {
	Save(ctx context.Context, rec *models.TimerStateRecord) error
	Load(ctx context.Context, sessionID string) (*models.TimerStateRecord, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// ScoreRepository handles score, personal-best, and leaderboard data
// access. SaveScore decides the new-record flag against the stored best
// in the same transaction that records the score.
type ScoreRepository interface {
	SaveScore(ctx context.Context, rec *models.ScoreRecord) error
	PersonalBest(ctx context.Context, mode models.Mode, difficulty models.Difficulty) (*models.ScoreRecord, error)
	PersonalBests(ctx context.Context) ([]models.ScoreRecord, error)
	Leaderboard(ctx context.Context, mode models.Mode, difficulty models.Difficulty, limit int) ([]models.ScoreRecord, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ghelleks/botany-battle-sub000/internal/logger"
	"github.com/ghelleks/botany-battle-sub000/internal/models"
	"github.com/ghelleks/botany-battle-sub000/internal/repository"
)

type timerStateRepository struct {
	db *sql.DB
}

// NewTimerStateRepository creates a new TimerStateRepository implementation
func NewTimerStateRepository(db *sql.DB) repository.TimerStateRepository {
	return &timerStateRepository{db: db}
}

func (r *timerStateRepository) Save(ctx context.Context, rec *models.TimerStateRecord) error {
	log := logger.FromContext(ctx).WithPrefix("timer_repo")
	log.Debug("saving timer state: session_id=%s, active=%t, paused=%.1fs", rec.SessionID, rec.WasActive, rec.PausedSeconds)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO timer_states (
    session_id, mode, difficulty, started_at, paused_seconds, was_active,
    last_saved_at, questions_answered, correct_answers, round_duration, question_target
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET
    mode = excluded.mode,
    difficulty = excluded.difficulty,
    started_at = excluded.started_at,
    paused_seconds = excluded.paused_seconds,
    was_active = excluded.was_active,
    last_saved_at = excluded.last_saved_at,
    questions_answered = excluded.questions_answered,
    correct_answers = excluded.correct_answers,
    round_duration = excluded.round_duration,
    question_target = excluded.question_target
`, rec.SessionID, rec.Mode, rec.Difficulty, rec.StartedAt, rec.PausedSeconds, rec.WasActive,
		rec.LastSavedAt, rec.QuestionsAnswered, rec.CorrectAnswers, rec.RoundDuration, rec.QuestionTarget)
	if err != nil {
		log.Error("failed to save timer state: %v", err)
	}
	return err
}

func (r *timerStateRepository) Load(ctx context.Context, sessionID string) (*models.TimerStateRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("timer_repo")
	log.Debug("loading timer state: session_id=%s", sessionID)

	var rec models.TimerStateRecord
	err := r.db.QueryRowContext(ctx, `
SELECT session_id, mode, difficulty, started_at, paused_seconds, was_active,
       last_saved_at, questions_answered, correct_answers, round_duration, question_target
FROM timer_states
WHERE session_id = ?
`, sessionID).Scan(&rec.SessionID, &rec.Mode, &rec.Difficulty, &rec.StartedAt, &rec.PausedSeconds, &rec.WasActive,
		&rec.LastSavedAt, &rec.QuestionsAnswered, &rec.CorrectAnswers, &rec.RoundDuration, &rec.QuestionTarget)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no timer state for session_id=%s", sessionID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load timer state: %v", err)
		return nil, err
	}
	return &rec, nil
}

func (r *timerStateRepository) Delete(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx).WithPrefix("timer_repo")
	log.Debug("deleting timer state: session_id=%s", sessionID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM timer_states WHERE session_id = ?`, sessionID)
	if err != nil {
		log.Error("failed to delete timer state: %v", err)
	}
	return err
}

func (r *timerStateRepository) DeleteStale(ctx context.Context, olderThan time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("timer_repo")
	log.Debug("deleting timer states last saved before %s", olderThan.Format(time.RFC3339))

	res, err := r.db.ExecContext(ctx, `DELETE FROM timer_states WHERE last_saved_at < ?`, olderThan)
	if err != nil {
		log.Error("failed to delete stale timer states: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("deleted %d stale timer states", n)
	}
	return n, nil
}

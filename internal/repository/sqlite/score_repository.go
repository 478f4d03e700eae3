package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/ghelleks/botany-battle-sub000/internal/logger"
	"github.com/ghelleks/botany-battle-sub000/internal/models"
	"github.com/ghelleks/botany-battle-sub000/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var scoreColumns = []string{
	"session_id", "mode", "difficulty", "correct_answers", "total_questions",
	"time_seconds", "accuracy", "points_per_second", "rating", "trophies", "achieved_at",
}

type scoreRepository struct {
	db *sql.DB
}

// NewScoreRepository creates a new ScoreRepository implementation
func NewScoreRepository(db *sql.DB) repository.ScoreRepository {
	return &scoreRepository{db: db}
}

// SaveScore records the score and settles the personal best in one
// transaction. rec.ID and rec.IsNewRecord are populated on return; the
// stored best is replaced only when rec is strictly better under its
// mode's ranking rule.
func (r *scoreRepository) SaveScore(ctx context.Context, rec *models.ScoreRecord) error {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("saving score: session_id=%s, mode=%s, difficulty=%s, correct=%d", rec.SessionID, rec.Mode, rec.Difficulty, rec.CorrectAnswers)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO scores (
    session_id, mode, difficulty, correct_answers, total_questions,
    time_seconds, accuracy, points_per_second, rating, trophies, achieved_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.SessionID, rec.Mode, rec.Difficulty, rec.CorrectAnswers, rec.TotalQuestions,
			rec.TimeSeconds, rec.Accuracy, rec.PointsPerSecond, rec.Rating, rec.Trophies, rec.AchievedAt)
		if err != nil {
			return err
		}
		if id, err := res.LastInsertId(); err == nil {
			rec.ID = id
		}

		best, err := personalBestTx(ctx, tx, rec.Mode, rec.Difficulty)
		if err != nil {
			return err
		}
		if !rec.BetterThan(best) {
			rec.IsNewRecord = false
			return nil
		}
		rec.IsNewRecord = true

		_, err = tx.ExecContext(ctx, `
INSERT INTO personal_bests (
    mode, difficulty, session_id, correct_answers, total_questions,
    time_seconds, accuracy, points_per_second, rating, trophies, achieved_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(mode, difficulty) DO UPDATE SET
    session_id = excluded.session_id,
    correct_answers = excluded.correct_answers,
    total_questions = excluded.total_questions,
    time_seconds = excluded.time_seconds,
    accuracy = excluded.accuracy,
    points_per_second = excluded.points_per_second,
    rating = excluded.rating,
    trophies = excluded.trophies,
    achieved_at = excluded.achieved_at
`, rec.Mode, rec.Difficulty, rec.SessionID, rec.CorrectAnswers, rec.TotalQuestions,
			rec.TimeSeconds, rec.Accuracy, rec.PointsPerSecond, rec.Rating, rec.Trophies, rec.AchievedAt)
		return err
	})
	if err != nil {
		log.Error("failed to save score: %v", err)
		return err
	}
	if rec.IsNewRecord {
		log.Info("new personal best: mode=%s, difficulty=%s, session_id=%s", rec.Mode, rec.Difficulty, rec.SessionID)
	}
	return nil
}

func personalBestTx(ctx context.Context, tx *sql.Tx, mode models.Mode, difficulty models.Difficulty) (*models.ScoreRecord, error) {
	var rec models.ScoreRecord
	err := tx.QueryRowContext(ctx, `
SELECT session_id, mode, difficulty, correct_answers, total_questions,
       time_seconds, accuracy, points_per_second, rating, trophies, achieved_at
FROM personal_bests
WHERE mode = ? AND difficulty = ?
`, mode, difficulty).Scan(&rec.SessionID, &rec.Mode, &rec.Difficulty, &rec.CorrectAnswers, &rec.TotalQuestions,
		&rec.TimeSeconds, &rec.Accuracy, &rec.PointsPerSecond, &rec.Rating, &rec.Trophies, &rec.AchievedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *scoreRepository) PersonalBest(ctx context.Context, mode models.Mode, difficulty models.Difficulty) (*models.ScoreRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("loading personal best: mode=%s, difficulty=%s", mode, difficulty)

	var rec models.ScoreRecord
	err := r.db.QueryRowContext(ctx, `
SELECT session_id, mode, difficulty, correct_answers, total_questions,
       time_seconds, accuracy, points_per_second, rating, trophies, achieved_at
FROM personal_bests
WHERE mode = ? AND difficulty = ?
`, mode, difficulty).Scan(&rec.SessionID, &rec.Mode, &rec.Difficulty, &rec.CorrectAnswers, &rec.TotalQuestions,
		&rec.TimeSeconds, &rec.Accuracy, &rec.PointsPerSecond, &rec.Rating, &rec.Trophies, &rec.AchievedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no personal best for mode=%s, difficulty=%s", mode, difficulty)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load personal best: %v", err)
		return nil, err
	}
	return &rec, nil
}

func (r *scoreRepository) PersonalBests(ctx context.Context) ([]models.ScoreRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("listing personal bests")

	query, args, err := sqlBuilder.Select(scoreColumns...).
		From("personal_bests").
		OrderBy("mode", "difficulty").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list personal bests: %v", err)
		return nil, err
	}
	defer rows.Close()

	records, err := scanScoreRecords(rows)
	if err != nil {
		log.Error("failed to scan personal best row: %v", err)
		return nil, err
	}
	log.Debug("found %d personal bests", len(records))
	return records, nil
}

// Leaderboard returns the top scores for a mode and difficulty, ordered
// by the mode's ranking rule: speedrun by rating, beat_the_clock by
// correct answers with accuracy and time as tie-breakers.
func (r *scoreRepository) Leaderboard(ctx context.Context, mode models.Mode, difficulty models.Difficulty, limit int) ([]models.ScoreRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("loading leaderboard: mode=%s, difficulty=%s, limit=%d", mode, difficulty, limit)

	if limit <= 0 {
		limit = 25
	}

	query := sqlBuilder.Select(scoreColumns...).
		From("scores").
		Where(squirrel.Eq{"mode": mode, "difficulty": difficulty})

	if mode == models.ModeSpeedrun {
		query = query.OrderBy("rating DESC", "achieved_at ASC")
	} else {
		query = query.OrderBy("correct_answers DESC", "accuracy DESC", "time_seconds ASC", "achieved_at ASC")
	}
	query = query.Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to load leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	records, err := scanScoreRecords(rows)
	if err != nil {
		log.Error("failed to scan leaderboard row: %v", err)
		return nil, err
	}
	log.Debug("leaderboard has %d entries", len(records))
	return records, nil
}

func (r *scoreRepository) Stats(ctx context.Context) (*models.Stats, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("computing stats")

	var stats models.Stats
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(total_questions), 0),
       COALESCE(SUM(correct_answers), 0),
       COALESCE(SUM(trophies), 0),
       COALESCE(SUM(time_seconds), 0)
FROM scores
`).Scan(&stats.TotalSessions, &stats.TotalQuestions, &stats.TotalCorrect, &stats.TotalTrophies, &stats.TotalPlayTime)
	if err != nil {
		log.Error("failed to compute summary stats: %v", err)
		return nil, err
	}
	if stats.TotalQuestions > 0 {
		stats.OverallAccuracy = float64(stats.TotalCorrect) / float64(stats.TotalQuestions)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT mode, difficulty, COUNT(*),
       COALESCE(MAX(correct_answers), 0),
       COALESCE(MAX(rating), 0),
       COALESCE(AVG(accuracy), 0),
       COALESCE(SUM(trophies), 0)
FROM scores
GROUP BY mode, difficulty
ORDER BY mode, difficulty
`)
	if err != nil {
		log.Error("failed to compute per-mode stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m models.ModeStat
		if err := rows.Scan(&m.Mode, &m.Difficulty, &m.Sessions, &m.BestCorrect, &m.BestRating, &m.AvgAccuracy, &m.TotalTrophies); err != nil {
			log.Error("failed to scan per-mode stat: %v", err)
			return nil, err
		}
		stats.ByMode = append(stats.ByMode, m)
	}
	return &stats, rows.Err()
}

func scanScoreRecords(rows *sql.Rows) ([]models.ScoreRecord, error) {
	var records []models.ScoreRecord
	for rows.Next() {
		var rec models.ScoreRecord
		if err := rows.Scan(&rec.SessionID, &rec.Mode, &rec.Difficulty, &rec.CorrectAnswers, &rec.TotalQuestions,
			&rec.TimeSeconds, &rec.Accuracy, &rec.PointsPerSecond, &rec.Rating, &rec.Trophies, &rec.AchievedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

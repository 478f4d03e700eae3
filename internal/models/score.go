package models

import "time"

// BeatTheClockScore is the result of a completed beat_the_clock session.
// Ranking: correct answers descending, then accuracy descending, then
// time used ascending.
type BeatTheClockScore struct {
	Difficulty      Difficulty `json:"difficulty"`
	CorrectAnswers  int        `json:"correct_answers"`
	TotalAnswers    int        `json:"total_answers"`
	TimeUsed        float64    `json:"time_used"` // seconds, capped at the round duration
	Accuracy        float64    `json:"accuracy"`
	PointsPerSecond float64    `json:"points_per_second"`
	AchievedAt      time.Time  `json:"achieved_at"`
	IsNewRecord     bool       `json:"is_new_record"`
}

// SpeedrunScore is the result of a completed speedrun session.
// Ranking: rating descending.
type SpeedrunScore struct {
	Difficulty     Difficulty `json:"difficulty"`
	CorrectAnswers int        `json:"correct_answers"`
	TotalQuestions int        `json:"total_questions"`
	CompletionTime float64    `json:"completion_time"` // seconds
	Accuracy       float64    `json:"accuracy"`
	Rating         float64    `json:"rating"`
	AchievedAt     time.Time  `json:"achieved_at"`
	IsNewRecord    bool       `json:"is_new_record"`
}

// ScoreRecord is the storage shape shared by both modes. PointsPerSecond
// is populated for beat_the_clock rows, Rating for speedrun rows.
type ScoreRecord struct {
	ID              int64      `json:"id"`
	SessionID       string     `json:"session_id"`
	Mode            Mode       `json:"mode"`
	Difficulty      Difficulty `json:"difficulty"`
	CorrectAnswers  int        `json:"correct_answers"`
	TotalQuestions  int        `json:"total_questions"`
	TimeSeconds     float64    `json:"time_seconds"`
	Accuracy        float64    `json:"accuracy"`
	PointsPerSecond float64    `json:"points_per_second,omitempty"`
	Rating          float64    `json:"rating,omitempty"`
	Trophies        int        `json:"trophies"`
	AchievedAt      time.Time  `json:"achieved_at"`
	IsNewRecord     bool       `json:"is_new_record"` // set at save time, not stored
}

// Record converts the score into its storage shape.
func (s BeatTheClockScore) Record(sessionID string) *ScoreRecord {
	return &ScoreRecord{
		SessionID:       sessionID,
		Mode:            ModeBeatTheClock,
		Difficulty:      s.Difficulty,
		CorrectAnswers:  s.CorrectAnswers,
		TotalQuestions:  s.TotalAnswers,
		TimeSeconds:     s.TimeUsed,
		Accuracy:        s.Accuracy,
		PointsPerSecond: s.PointsPerSecond,
		AchievedAt:      s.AchievedAt,
	}
}

// Record converts the score into its storage shape.
func (s SpeedrunScore) Record(sessionID string) *ScoreRecord {
	return &ScoreRecord{
		SessionID:      sessionID,
		Mode:           ModeSpeedrun,
		Difficulty:     s.Difficulty,
		CorrectAnswers: s.CorrectAnswers,
		TotalQuestions: s.TotalQuestions,
		TimeSeconds:    s.CompletionTime,
		Accuracy:       s.Accuracy,
		Rating:         s.Rating,
		AchievedAt:     s.AchievedAt,
	}
}

// BetterThan reports whether r outranks other under r's mode ranking rule.
// Strict: equal scores do not count as better.
func (r *ScoreRecord) BetterThan(other *ScoreRecord) bool {
	if other == nil {
		return true
	}
	if r.Mode == ModeSpeedrun {
		return r.Rating > other.Rating
	}
	if r.CorrectAnswers != other.CorrectAnswers {
		return r.CorrectAnswers > other.CorrectAnswers
	}
	if r.Accuracy != other.Accuracy {
		return r.Accuracy > other.Accuracy
	}
	return r.TimeSeconds < other.TimeSeconds
}

// GameResult bundles everything produced when a session finishes.
type GameResult struct {
	Session    *GameSession      `json:"session"`
	Score      *ScoreRecord      `json:"score"`
	Reward     *TrophyReward     `json:"reward"`
	Validation *ValidationResult `json:"validation"`
}

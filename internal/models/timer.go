package models

import "time"

// TimerSnapshot is the output of one timer tick. TimeRemaining and
// IsExpired only carry meaning for countdown (beat_the_clock) timers.
type TimerSnapshot struct {
	TotalTime     float64 `json:"total_time"`     // active seconds elapsed, excludes pauses
	TimeRemaining float64 `json:"time_remaining"` // seconds left, 0 for count-up timers
	PausedTime    float64 `json:"paused_time"`    // cumulative pause seconds, includes an in-flight pause
	IsExpired     bool    `json:"is_expired"`
}

// TimerStateRecord is the durable checkpoint for one session's timer,
// written on pause and on a periodic cadence, deleted on completion.
// For a record that was active at save time, elapsed play time is
// now - StartedAt - PausedSeconds; for a paused record the elapsed time
// is frozen at what it was at LastSavedAt.
type TimerStateRecord struct {
	SessionID         string     `json:"session_id"`
	Mode              Mode       `json:"mode"`
	Difficulty        Difficulty `json:"difficulty"`
	StartedAt         time.Time  `json:"started_at"`
	PausedSeconds     float64    `json:"paused_seconds"`
	WasActive         bool       `json:"was_active"`
	LastSavedAt       time.Time  `json:"last_saved_at"`
	QuestionsAnswered int        `json:"questions_answered"`
	CorrectAnswers    int        `json:"correct_answers"`
	RoundDuration     float64    `json:"round_duration"`  // seconds, 0 for speedrun
	QuestionTarget    int        `json:"question_target"` // 0 for beat_the_clock
}

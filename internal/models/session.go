package models

import "time"

// Mode identifies how a session ends: beat_the_clock runs a fixed
// countdown, speedrun runs until a fixed number of questions is answered.
type Mode string

const (
	ModeBeatTheClock Mode = "beat_the_clock"
	ModeSpeedrun     Mode = "speedrun"
)

func (m Mode) Valid() bool {
	return m == ModeBeatTheClock || m == ModeSpeedrun
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	default:
		return false
	}
}

type SessionState string

const (
	StateActive    SessionState = "active"
	StatePaused    SessionState = "paused"
	StateCompleted SessionState = "completed"
)

type GameSession struct {
	ID                string         `json:"id"`
	Mode              Mode           `json:"mode"`
	Difficulty        Difficulty     `json:"difficulty"`
	State             SessionState   `json:"state"`
	QuestionsAnswered int            `json:"questions_answered"`
	CorrectAnswers    int            `json:"correct_answers"`
	TotalGameTime     float64        `json:"total_game_time"`   // seconds, excludes pauses
	TotalPausedTime   float64        `json:"total_paused_time"` // seconds
	RoundDuration     float64        `json:"round_duration"`    // beat_the_clock countdown length, 0 for speedrun
	QuestionTarget    int            `json:"question_target"`   // speedrun target count, 0 for beat_the_clock
	Answers           []AnswerRecord `json:"answers"`
	StartedAt         time.Time      `json:"started_at"`
	LastActivityAt    time.Time      `json:"last_activity_at"`
	CompletedAt       *time.Time     `json:"completed_at"`
}

// Clone returns a deep copy that is safe to read after the caller has
// released the session's lock. The Answers slice is copied because play
// keeps appending to the original.
func (s *GameSession) Clone() *GameSession {
	c := *s
	if s.Answers != nil {
		c.Answers = make([]AnswerRecord, len(s.Answers))
		copy(c.Answers, s.Answers)
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

type AnswerRecord struct {
	PlantID      string    `json:"plant_id"`
	Selected     string    `json:"selected"`
	Correct      string    `json:"correct"`
	IsCorrect    bool      `json:"is_correct"`
	AnsweredAt   time.Time `json:"answered_at"`
	TimeToAnswer float64   `json:"time_to_answer"` // seconds of active play since the previous answer
}

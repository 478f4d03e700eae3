package game

import (
	"math"
	"time"

	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

// minTimeUsed guards the points-per-second division for sessions that
// recorded no measurable play time.
const minTimeUsed = 0.001

// ScoreBeatTheClock maps a finished beat_the_clock session to its score.
// Time used is capped at the round duration, so overshoot from the final
// tick never inflates the rate.
func ScoreBeatTheClock(s *models.GameSession, now time.Time) models.BeatTheClockScore {
	timeUsed := s.TotalGameTime
	if s.RoundDuration > 0 && timeUsed > s.RoundDuration {
		timeUsed = s.RoundDuration
	}
	if timeUsed < 0 {
		timeUsed = 0
	}
	return models.BeatTheClockScore{
		Difficulty:      s.Difficulty,
		CorrectAnswers:  s.CorrectAnswers,
		TotalAnswers:    s.QuestionsAnswered,
		TimeUsed:        timeUsed,
		Accuracy:        accuracy(s.CorrectAnswers, s.QuestionsAnswered),
		PointsPerSecond: float64(s.CorrectAnswers) / math.Max(minTimeUsed, timeUsed),
		AchievedAt:      now,
	}
}

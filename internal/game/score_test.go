package game_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ghelleks/botany-battle-sub000/internal/game"
	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

var scoreTestNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func TestScoreBeatTheClock_PerfectRound(t *testing.T) {
	session := &models.GameSession{
		Mode:              models.ModeBeatTheClock,
		Difficulty:        models.DifficultyMedium,
		RoundDuration:     60,
		QuestionsAnswered: 20,
		CorrectAnswers:    20,
		TotalGameTime:     60.0,
	}

	score := game.ScoreBeatTheClock(session, scoreTestNow)

	assert.Equal(t, 1.0, score.Accuracy)
	assert.Equal(t, 20, score.CorrectAnswers)
	assert.Equal(t, 20, score.TotalAnswers)
	assert.Equal(t, 60.0, score.TimeUsed)
	assert.InDelta(t, 0.333, score.PointsPerSecond, 0.001)
	assert.Equal(t, scoreTestNow, score.AchievedAt)
	assert.False(t, score.IsNewRecord, "new-record flag is decided at save time")
}

func TestScoreBeatTheClock_CapsTimeAtRoundDuration(t *testing.T) {
	session := &models.GameSession{
		Mode:              models.ModeBeatTheClock,
		Difficulty:        models.DifficultyMedium,
		RoundDuration:     60,
		QuestionsAnswered: 10,
		CorrectAnswers:    6,
		TotalGameTime:     60.4, // final tick overshoot
	}

	score := game.ScoreBeatTheClock(session, scoreTestNow)

	assert.Equal(t, 60.0, score.TimeUsed)
	assert.InDelta(t, 0.1, score.PointsPerSecond, 0.0001)
}

func TestScoreBeatTheClock_NoAnswers(t *testing.T) {
	session := &models.GameSession{
		Mode:          models.ModeBeatTheClock,
		Difficulty:    models.DifficultyEasy,
		RoundDuration: 60,
		TotalGameTime: 60.0,
	}

	score := game.ScoreBeatTheClock(session, scoreTestNow)

	assert.Equal(t, 0.0, score.Accuracy)
	assert.Equal(t, 0.0, score.PointsPerSecond)
}

func TestScoreBeatTheClock_ZeroTimeDoesNotDivideByZero(t *testing.T) {
	session := &models.GameSession{
		Mode:              models.ModeBeatTheClock,
		Difficulty:        models.DifficultyEasy,
		RoundDuration:     60,
		QuestionsAnswered: 3,
		CorrectAnswers:    3,
		TotalGameTime:     0,
	}

	score := game.ScoreBeatTheClock(session, scoreTestNow)

	assert.False(t, score.PointsPerSecond != score.PointsPerSecond, "rate must not be NaN")
	assert.Greater(t, score.PointsPerSecond, 0.0)
}

func TestScoreBeatTheClock_AccuracyStaysInRange(t *testing.T) {
	for answered := 0; answered <= 30; answered++ {
		for correct := 0; correct <= answered; correct++ {
			session := &models.GameSession{
				Mode:              models.ModeBeatTheClock,
				Difficulty:        models.DifficultyMedium,
				RoundDuration:     60,
				QuestionsAnswered: answered,
				CorrectAnswers:    correct,
				TotalGameTime:     45,
			}

			score := game.ScoreBeatTheClock(session, scoreTestNow)

			assert.GreaterOrEqual(t, score.Accuracy, 0.0)
			assert.LessOrEqual(t, score.Accuracy, 1.0)
		}
	}
}

func TestScoreSpeedrun_PerfectRun(t *testing.T) {
	session := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    25,
		TotalGameTime:     85.0,
	}

	score := game.ScoreSpeedrun(session, scoreTestNow)

	assert.Equal(t, 1.0, score.Accuracy)
	assert.Equal(t, 85.0, score.CompletionTime)
	// 1.0 * 1.0 * 1000 * 120 / 205
	assert.InDelta(t, 585.37, score.Rating, 0.001)
}

func TestScoreSpeedrun_PerfectFastRunBeatsNearMiss(t *testing.T) {
	perfect := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    25,
		TotalGameTime:     85.0,
	}
	nearMiss := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    24,
		TotalGameTime:     90.0,
	}

	a := game.ScoreSpeedrun(perfect, scoreTestNow)
	b := game.ScoreSpeedrun(nearMiss, scoreTestNow)

	assert.Greater(t, a.Rating, b.Rating, "more accurate and faster must rank strictly higher")
}

func TestScoreSpeedrun_MonotonicInTime(t *testing.T) {
	fast := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    20,
		TotalGameTime:     80.0,
	}
	slow := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    20,
		TotalGameTime:     95.0,
	}

	assert.Greater(t,
		game.ScoreSpeedrun(fast, scoreTestNow).Rating,
		game.ScoreSpeedrun(slow, scoreTestNow).Rating)
}

func TestScoreSpeedrun_MonotonicInAccuracy(t *testing.T) {
	better := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    23,
		TotalGameTime:     90.0,
	}
	worse := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    19,
		TotalGameTime:     90.0,
	}

	assert.Greater(t,
		game.ScoreSpeedrun(better, scoreTestNow).Rating,
		game.ScoreSpeedrun(worse, scoreTestNow).Rating)
}

func TestScoreSpeedrun_UnfinishedRunIsPenalized(t *testing.T) {
	finished := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    25,
		TotalGameTime:     100.0,
	}
	// Same perfect accuracy and time, but only 10 of 25 answered.
	abandoned := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 10,
		CorrectAnswers:    10,
		TotalGameTime:     100.0,
	}

	full := game.ScoreSpeedrun(finished, scoreTestNow)
	partial := game.ScoreSpeedrun(abandoned, scoreTestNow)

	assert.Greater(t, full.Rating, partial.Rating)
	assert.InDelta(t, full.Rating*10/25, partial.Rating, 0.01, "penalty tracks the completed fraction")
}

func TestScoreSpeedrun_RatingRoundsToTwoDecimals(t *testing.T) {
	session := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    17,
		TotalGameTime:     73.4,
	}

	score := game.ScoreSpeedrun(session, scoreTestNow)

	assert.Equal(t, score.Rating, float64(int(score.Rating*100+0.5))/100)
}

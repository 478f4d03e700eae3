package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghelleks/botany-battle-sub000/internal/game"
	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

func newValidator() *game.Validator {
	return game.NewValidator(game.DefaultValidatorConfig())
}

func TestValidator_CleanSessionPasses(t *testing.T) {
	session := &models.GameSession{
		Mode:              models.ModeBeatTheClock,
		Difficulty:        models.DifficultyMedium,
		RoundDuration:     60,
		QuestionsAnswered: 15,
		CorrectAnswers:    12,
	}
	snap := models.TimerSnapshot{TotalTime: 58.2, TimeRemaining: 1.8}

	result := newValidator().Validate(session, snap)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
	assert.Nil(t, result.AdjustedTime)
}

func TestValidator_NegativeTime(t *testing.T) {
	session := &models.GameSession{
		Mode:          models.ModeBeatTheClock,
		Difficulty:    models.DifficultyMedium,
		RoundDuration: 60,
	}
	snap := models.TimerSnapshot{TotalTime: -3.5}

	result := newValidator().Validate(session, snap)

	assert.False(t, result.Valid)
	require.NotNil(t, result.AdjustedTime, "negative time must produce a corrective value")
	assert.Equal(t, 0.0, *result.AdjustedTime)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], game.WarnNegativeTime)
}

func TestValidator_NegativeRemainingTime(t *testing.T) {
	session := &models.GameSession{
		Mode:          models.ModeBeatTheClock,
		Difficulty:    models.DifficultyMedium,
		RoundDuration: 60,
	}
	snap := models.TimerSnapshot{TotalTime: 30, TimeRemaining: -1}

	result := newValidator().Validate(session, snap)

	assert.False(t, result.Valid)
	require.NotNil(t, result.AdjustedTime)
	assert.Equal(t, 0.0, *result.AdjustedTime)
}

func TestValidator_ExcessiveTimeBeatTheClock(t *testing.T) {
	session := &models.GameSession{
		Mode:          models.ModeBeatTheClock,
		Difficulty:    models.DifficultyMedium,
		RoundDuration: 60,
	}
	// Double the round length is past the plausible ceiling.
	snap := models.TimerSnapshot{TotalTime: 120}

	result := newValidator().Validate(session, snap)

	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], game.WarnExcessiveTime)
	require.NotNil(t, result.AdjustedTime)
	assert.Equal(t, 120.0, *result.AdjustedTime, "adjusted time should be the ceiling")
}

func TestValidator_ExcessiveTimeSpeedrun(t *testing.T) {
	session := &models.GameSession{
		Mode:           models.ModeSpeedrun,
		Difficulty:     models.DifficultyHard,
		QuestionTarget: 25,
	}
	snap := models.TimerSnapshot{TotalTime: 2400}

	result := newValidator().Validate(session, snap)

	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], game.WarnExcessiveTime)
	require.NotNil(t, result.AdjustedTime)
	assert.Equal(t, 1800.0, *result.AdjustedTime)
}

func TestValidator_SuspiciouslyFastSpeedrun(t *testing.T) {
	session := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    25,
	}
	// 25 questions in 5 seconds: 0.2s per answer.
	snap := models.TimerSnapshot{TotalTime: 5}

	result := newValidator().Validate(session, snap)

	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], game.WarnSuspiciouslyFast)
	assert.Nil(t, result.AdjustedTime, "throughput check has no corrective value")
}

func TestValidator_ThroughputFloorsPerDifficulty(t *testing.T) {
	tests := []struct {
		name       string
		difficulty models.Difficulty
		totalTime  float64
		answered   int
		wantValid  bool
	}{
		{"easy at 0.8s per question passes", models.DifficultyEasy, 16, 20, true},
		{"easy at 0.5s per question flags", models.DifficultyEasy, 10, 20, false},
		{"medium at 1.2s per question passes", models.DifficultyMedium, 24, 20, true},
		{"medium at 0.9s per question flags", models.DifficultyMedium, 18, 20, false},
		{"hard at 1.8s per question passes", models.DifficultyHard, 36, 20, true},
		{"hard at 1.2s per question flags", models.DifficultyHard, 24, 20, false},
		{"expert at 2.5s per question passes", models.DifficultyExpert, 50, 20, true},
		{"expert at 1.8s per question flags", models.DifficultyExpert, 36, 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &models.GameSession{
				Mode:              models.ModeSpeedrun,
				Difficulty:        tt.difficulty,
				QuestionTarget:    25,
				QuestionsAnswered: tt.answered,
			}
			snap := models.TimerSnapshot{TotalTime: tt.totalTime}

			result := newValidator().Validate(session, snap)

			assert.Equal(t, tt.wantValid, result.Valid)
		})
	}
}

func TestValidator_ThroughputWithoutAnswers(t *testing.T) {
	session := &models.GameSession{
		Mode:           models.ModeSpeedrun,
		Difficulty:     models.DifficultyMedium,
		State:          models.StateActive,
		QuestionTarget: 25,
	}
	snap := models.TimerSnapshot{TotalTime: 0.5}

	result := newValidator().Validate(session, snap)
	assert.True(t, result.Valid, "a live session with no answers has no rate to judge yet")

	// Once completed, an empty session is measured against its target,
	// so finishing a speedrun in half a second cannot pass.
	session.State = models.StateCompleted
	result = newValidator().Validate(session, snap)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], game.WarnSuspiciouslyFast)
}

func TestValidator_FirstCorrectiveValueWins(t *testing.T) {
	session := &models.GameSession{
		Mode:          models.ModeBeatTheClock,
		Difficulty:    models.DifficultyMedium,
		RoundDuration: 60,
	}
	// Negative remaining trips the rollback rule first, excessive total
	// trips the ceiling rule second.
	snap := models.TimerSnapshot{TotalTime: 500, TimeRemaining: -2}

	result := newValidator().Validate(session, snap)

	assert.False(t, result.Valid)
	assert.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], game.WarnNegativeTime)
	assert.Contains(t, result.Warnings[1], game.WarnExcessiveTime)
	require.NotNil(t, result.AdjustedTime)
	assert.Equal(t, 0.0, *result.AdjustedTime, "the first rule's correction should stick")
}

func TestValidator_DoesNotMutateInputs(t *testing.T) {
	session := &models.GameSession{
		Mode:              models.ModeSpeedrun,
		Difficulty:        models.DifficultyMedium,
		QuestionTarget:    25,
		QuestionsAnswered: 25,
		CorrectAnswers:    20,
		TotalGameTime:     5,
	}
	snap := models.TimerSnapshot{TotalTime: 5}

	newValidator().Validate(session, snap)

	assert.Equal(t, 5.0, session.TotalGameTime)
	assert.Equal(t, 25, session.QuestionsAnswered)
	assert.Equal(t, 20, session.CorrectAnswers)
}

package game

import (
	"math"

	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

// Base trophies awarded per correct answer.
const (
	basePerCorrectBeatTheClock = 10
	basePerCorrectSpeedrun     = 8
)

// Accuracy below the floor earns no bonus; from the floor it scales
// linearly up to the cap at 100% accuracy.
const (
	accuracyBonusFloor = 0.5
	accuracyBonusCap   = 100
)

// Speed bonus cutoffs for a finished speedrun, in seconds.
const (
	speedBonusFastCutoff     = 60.0
	speedBonusModerateCutoff = 90.0
	speedBonusFast           = 50
	speedBonusModerate       = 25
)

// Completion bonus for meeting the session goal. Finishing under 1.5x
// the mode baseline earns the full bonus, slower finishes the reduced one.
const (
	completionFastFactor   = 1.5
	completionBonusFull    = 50
	completionBonusReduced = 20
)

var difficultyMultipliers = map[models.Difficulty]float64{
	models.DifficultyEasy:   0.8,
	models.DifficultyMedium: 1.0,
	models.DifficultyHard:   1.3,
	models.DifficultyExpert: 1.6,
}

// CalculateTrophies maps a completed session to its trophy award. Every
// component is computed from the session's counters and answer history
// alone, so the function is safe to call concurrently.
func CalculateTrophies(s *models.GameSession) models.TrophyReward {
	breakdown := models.TrophyBreakdown{
		BaseTrophies:         s.CorrectAnswers * basePerCorrect(s.Mode),
		AccuracyBonus:        accuracyBonus(accuracy(s.CorrectAnswers, s.QuestionsAnswered)),
		StreakBonus:          streakBonus(longestStreak(s.Answers)),
		DifficultyMultiplier: difficultyMultiplier(s.Difficulty),
	}

	goalMet := sessionGoalMet(s)
	if goalMet && s.Mode == models.ModeSpeedrun {
		breakdown.SpeedBonus = speedBonus(s.TotalGameTime)
	}
	if goalMet {
		breakdown.CompletionBonus = completionBonus(s)
	}

	sum := float64(breakdown.BaseTrophies +
		breakdown.AccuracyBonus +
		breakdown.StreakBonus +
		breakdown.SpeedBonus +
		breakdown.CompletionBonus)
	total := int(math.Round(sum * breakdown.DifficultyMultiplier))
	if total < 0 {
		total = 0
	}
	breakdown.FinalAmount = total

	return models.TrophyReward{
		TotalTrophies: total,
		Breakdown:     breakdown,
	}
}

func basePerCorrect(mode models.Mode) int {
	if mode == models.ModeSpeedrun {
		return basePerCorrectSpeedrun
	}
	return basePerCorrectBeatTheClock
}

func accuracyBonus(acc float64) int {
	if acc < accuracyBonusFloor {
		return 0
	}
	scale := (acc - accuracyBonusFloor) / (1 - accuracyBonusFloor)
	if scale > 1 {
		scale = 1
	}
	return int(math.Round(scale * accuracyBonusCap))
}

// longestStreak returns the longest unbroken run of correct answers.
// Only the single longest run counts; an incorrect answer resets the run.
func longestStreak(answers []models.AnswerRecord) int {
	longest, run := 0, 0
	for _, a := range answers {
		if a.IsCorrect {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

func streakBonus(streak int) int {
	switch {
	case streak >= 20:
		return 100
	case streak >= 15:
		return 75
	case streak >= 10:
		return 50
	case streak >= 5:
		return 25
	default:
		return 0
	}
}

func speedBonus(completionTime float64) int {
	switch {
	case completionTime <= speedBonusFastCutoff:
		return speedBonusFast
	case completionTime <= speedBonusModerateCutoff:
		return speedBonusModerate
	default:
		return 0
	}
}

func completionBonus(s *models.GameSession) int {
	baseline := speedrunBaseline
	if s.Mode == models.ModeBeatTheClock {
		baseline = s.RoundDuration
	}
	if baseline > 0 && s.TotalGameTime < completionFastFactor*baseline {
		return completionBonusFull
	}
	return completionBonusReduced
}

// sessionGoalMet reports whether the session reached its mode's finish
// line: a beat_the_clock round that ran to expiry, or a speedrun that
// answered its full target.
func sessionGoalMet(s *models.GameSession) bool {
	switch s.Mode {
	case models.ModeBeatTheClock:
		return s.RoundDuration > 0 && s.TotalGameTime >= s.RoundDuration
	case models.ModeSpeedrun:
		return s.QuestionTarget > 0 && s.QuestionsAnswered >= s.QuestionTarget
	default:
		return false
	}
}

func difficultyMultiplier(d models.Difficulty) float64 {
	if m, ok := difficultyMultipliers[d]; ok {
		return m
	}
	return 1.0
}

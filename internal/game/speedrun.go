package game

import (
	"time"

	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

// speedrunBaseline is the reference completion time in seconds: a perfect
// run at the baseline scores half the 1000-point scale.
const speedrunBaseline = 120.0

// ScoreSpeedrun maps a finished speedrun session to its score. The rating
// grows with accuracy, shrinks as completion time grows, and an
// unfinished run is penalized by its completed fraction of the target:
//
//	rating = accuracy × fraction × 1000 × baseline / (baseline + time)
//
// rounded to two decimals.
func ScoreSpeedrun(s *models.GameSession, now time.Time) models.SpeedrunScore {
	completionTime := s.TotalGameTime
	if completionTime < 0 {
		completionTime = 0
	}

	fraction := 1.0
	if s.QuestionTarget > 0 {
		fraction = float64(s.QuestionsAnswered) / float64(s.QuestionTarget)
		if fraction > 1 {
			fraction = 1
		}
	}

	acc := accuracy(s.CorrectAnswers, s.QuestionsAnswered)
	rating := acc * fraction * 1000 * speedrunBaseline / (speedrunBaseline + completionTime)

	return models.SpeedrunScore{
		Difficulty:     s.Difficulty,
		CorrectAnswers: s.CorrectAnswers,
		TotalQuestions: s.QuestionsAnswered,
		CompletionTime: completionTime,
		Accuracy:       acc,
		Rating:         round2(rating),
		AchievedAt:     now,
	}
}

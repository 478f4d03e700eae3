package game

import (
	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

// Warning prefixes attached by validation rules.
const (
	WarnNegativeTime     = "Negative time"
	WarnExcessiveTime    = "Excessive time"
	WarnSuspiciouslyFast = "Suspiciously fast"
)

// ValidatorConfig carries the tunable thresholds for anti-cheat checks.
type ValidatorConfig struct {
	// RoundTolerance scales a beat_the_clock round duration into the
	// maximum total time a session may plausibly report.
	RoundTolerance float64
	// SpeedrunCeiling is the maximum plausible speedrun total time in
	// seconds.
	SpeedrunCeiling float64
	// MinSecondsPerQuestion is the fastest plausible answer rate per
	// difficulty. Harder tiers need more reading time, so their floor
	// is higher.
	MinSecondsPerQuestion map[models.Difficulty]float64
}

// DefaultValidatorConfig returns the thresholds used in production.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		RoundTolerance:  2.0,
		SpeedrunCeiling: 1800,
		MinSecondsPerQuestion: map[models.Difficulty]float64{
			models.DifficultyEasy:   0.75,
			models.DifficultyMedium: 1.0,
			models.DifficultyHard:   1.5,
			models.DifficultyExpert: 2.0,
		},
	}
}

// Validator inspects a session and a timer snapshot for impossible or
// suspicious timing. It holds no mutable state and never modifies its
// inputs; callers decide what to do with a failed verdict.
type Validator struct {
	cfg ValidatorConfig
}

func NewValidator(cfg ValidatorConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate applies the anti-cheat rules in order. Any failing rule marks
// the result invalid and appends a warning; AdjustedTime carries the
// corrective value of the first rule that produced one.
func (v *Validator) Validate(session *models.GameSession, snap models.TimerSnapshot) models.ValidationResult {
	result := models.ValidationResult{Valid: true}

	if snap.TotalTime < 0 || snap.TimeRemaining < 0 {
		result.Valid = false
		result.Warnings = append(result.Warnings, WarnNegativeTime+": possible clock manipulation")
		setAdjusted(&result, 0)
	}

	if ceiling := v.ceiling(session); ceiling > 0 && snap.TotalTime >= ceiling {
		result.Valid = false
		result.Warnings = append(result.Warnings, WarnExcessiveTime+": session exceeded the plausible maximum")
		setAdjusted(&result, ceiling)
	}

	if denom := v.throughputDenominator(session); denom > 0 && snap.TotalTime >= 0 {
		floor, ok := v.cfg.MinSecondsPerQuestion[session.Difficulty]
		if ok && snap.TotalTime/float64(denom) < floor {
			result.Valid = false
			result.Warnings = append(result.Warnings, WarnSuspiciouslyFast+": answer rate is not humanly plausible")
		}
	}

	return result
}

// throughputDenominator picks the question count the answer-rate rule
// divides by. A live session with no answers has no rate to judge yet;
// a completed one that recorded none is judged against its goal, so a
// speedrun cannot dodge the check by finishing empty.
func (v *Validator) throughputDenominator(session *models.GameSession) int {
	if session.QuestionsAnswered > 0 {
		return session.QuestionsAnswered
	}
	if session.State != models.StateCompleted {
		return 0
	}
	if session.QuestionTarget > 0 {
		return session.QuestionTarget
	}
	return 1
}

func (v *Validator) ceiling(session *models.GameSession) float64 {
	switch session.Mode {
	case models.ModeBeatTheClock:
		if session.RoundDuration <= 0 {
			return 0
		}
		return session.RoundDuration * v.cfg.RoundTolerance
	case models.ModeSpeedrun:
		return v.cfg.SpeedrunCeiling
	default:
		return 0
	}
}

func setAdjusted(result *models.ValidationResult, value float64) {
	if result.AdjustedTime == nil {
		v := value
		result.AdjustedTime = &v
	}
}

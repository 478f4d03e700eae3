package models

type TrophyBreakdown struct {
	BaseTrophies         int     `json:"base_trophies"`
	AccuracyBonus        int     `json:"accuracy_bonus"`
	StreakBonus          int     `json:"streak_bonus"`
	SpeedBonus           int     `json:"speed_bonus"`
	CompletionBonus      int     `json:"completion_bonus"`
	DifficultyMultiplier float64 `json:"difficulty_multiplier"`
	FinalAmount          int     `json:"final_amount"` // round(sum × multiplier), floored at 0
}

type TrophyReward struct {
	TotalTrophies int             `json:"total_trophies"`
	Breakdown     TrophyBreakdown `json:"breakdown"`
}

package models

type ModeStat struct {
	Mode          Mode       `json:"mode"`
	Difficulty    Difficulty `json:"difficulty"`
	Sessions      int        `json:"sessions"`
	BestCorrect   int        `json:"best_correct"`
	BestRating    float64    `json:"best_rating"`
	AvgAccuracy   float64    `json:"avg_accuracy"`
	TotalTrophies int        `json:"total_trophies"`
}

type Stats struct {
	TotalSessions   int        `json:"total_sessions"`
	TotalQuestions  int        `json:"total_questions"`
	TotalCorrect    int        `json:"total_correct"`
	OverallAccuracy float64    `json:"overall_accuracy"`
	TotalTrophies   int        `json:"total_trophies"`
	TotalPlayTime   float64    `json:"total_play_time"` // seconds
	ByMode          []ModeStat `json:"by_mode"`
}

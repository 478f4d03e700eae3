package game

import "math"

// accuracy is correct / answered, 0 when nothing was answered.
func accuracy(correct, answered int) float64 {
	if answered < 1 {
		return 0
	}
	return float64(correct) / float64(answered)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

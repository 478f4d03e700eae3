package models

// ValidationResult is the verdict on one session/snapshot pair. Warnings
// are ordered by the rule that produced them; AdjustedTime carries the
// first corrective value when a rule rejects the raw time.
type ValidationResult struct {
	Valid        bool     `json:"valid"`
	Warnings     []string `json:"warnings,omitempty"`
	AdjustedTime *float64 `json:"adjusted_time,omitempty"`
}

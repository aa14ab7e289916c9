package review

import "math"

// perCardMinutes returns the expected study time per card for a tier.
func perCardMinutes(d Difficulty) float64 {
	switch d {
	case DifficultyEasy:
		return 0.5
	case DifficultyHard:
		return 1.5
	default:
		return 1.0
	}
}

// EstimateStudyMinutes estimates how long a study session of cardCount
// cards at the given difficulty will take, including a fixed minimum
// overhead for session setup. A non-positive card count estimates zero.
func EstimateStudyMinutes(cardCount int, difficulty Difficulty) int {
	if cardCount <= 0 {
		return 0
	}

	base := int(math.Ceil(float64(cardCount) * perCardMinutes(difficulty)))
	overhead := base / 10
	if overhead < 2 {
		overhead = 2
	}
	return base + overhead
}

// Package review implements the spaced-repetition engine: interval
// computation, difficulty adaptation, review prioritization, and study
// time estimation.
package review

// Difficulty classifies how hard an item is for a learner. It drives the
// base review interval and its growth rate.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Thresholds for difficulty adaptation based on rolling accuracy.
const (
	escalateAccuracy   = 85.0
	escalateSessions   = 3
	deescalateAccuracy = 60.0
	deescalateSessions = 2
)

// Valid reports whether d is one of the known difficulty tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// harder returns the next tier up. Hard is a ceiling.
func (d Difficulty) harder() Difficulty {
	switch d {
	case DifficultyEasy:
		return DifficultyMedium
	case DifficultyMedium:
		return DifficultyHard
	default:
		return DifficultyHard
	}
}

// easier returns the next tier down. Easy is a floor.
func (d Difficulty) easier() Difficulty {
	switch d {
	case DifficultyHard:
		return DifficultyMedium
	case DifficultyMedium:
		return DifficultyEasy
	default:
		return DifficultyEasy
	}
}

// RecommendDifficulty returns the difficulty tier an item should move to,
// given the learner's rolling average accuracy and how many recent sessions
// that average is based on.
//
// averageAccuracy uses AccuracyUnknown (any negative value) when no
// accuracy data exists, in which case Medium is returned. High accuracy
// over enough sessions escalates one tier, low accuracy de-escalates one
// tier, and anything in between keeps the current tier (Medium when the
// current tier is unset).
func RecommendDifficulty(averageAccuracy float64, current Difficulty, recentSessionCount int) Difficulty {
	if averageAccuracy < 0 {
		return DifficultyMedium
	}
	if !current.Valid() {
		current = DifficultyMedium
	}

	if averageAccuracy >= escalateAccuracy && recentSessionCount >= escalateSessions {
		return current.harder()
	}
	if averageAccuracy <= deescalateAccuracy && recentSessionCount >= deescalateSessions {
		return current.easier()
	}
	return current
}

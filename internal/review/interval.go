package review

import (
	"math"
	"time"
)

// AccuracyUnknown marks a missing accuracy value. Accuracy percentages are
// always in [0, 100], so any negative value means "no data".
const AccuracyUnknown = -1.0

const (
	// maxIntervalMultiplier caps exponential spacing growth so intervals
	// cannot run away after many repetitions.
	maxIntervalMultiplier = 10.0

	minIntervalHours = 1
	maxIntervalHours = 720 // 30 days
)

// baseIntervalHours returns the starting review interval for a tier.
func baseIntervalHours(d Difficulty) float64 {
	switch d {
	case DifficultyEasy:
		return 96
	case DifficultyHard:
		return 24
	default:
		return 48
	}
}

// growthFactor returns the per-repetition interval multiplier for a tier.
func growthFactor(d Difficulty) float64 {
	switch d {
	case DifficultyEasy:
		return 2.5
	case DifficultyHard:
		return 1.5
	default:
		return 2.0
	}
}

// accuracyAdjustment scales the interval by recall performance. Unknown
// accuracy is neutral; known-but-poor accuracy shortens the interval.
func accuracyAdjustment(accuracyPercent float64) float64 {
	switch {
	case accuracyPercent < 0:
		return 1.0
	case accuracyPercent >= 90:
		return 1.3
	case accuracyPercent >= 80:
		return 1.1
	case accuracyPercent >= 70:
		return 1.0
	case accuracyPercent >= 60:
		return 0.8
	default:
		return 0.6
	}
}

// NextReviewDate computes when an item should next be reviewed.
//
// lastReviewDate falls back to the current time when zero, and reviewCount
// below 1 is treated as 1 (first review). accuracyPercent may be
// AccuracyUnknown. All numeric edge cases are clamped rather than
// rejected: the resulting interval is always between 1 hour and 30 days.
func NextReviewDate(lastReviewDate time.Time, accuracyPercent float64, difficulty Difficulty, reviewCount int) time.Time {
	if lastReviewDate.IsZero() {
		lastReviewDate = time.Now()
	}
	if reviewCount < 1 {
		reviewCount = 1
	}

	multiplier := math.Pow(growthFactor(difficulty), float64(reviewCount-1))
	if multiplier > maxIntervalMultiplier {
		multiplier = maxIntervalMultiplier
	}

	hours := math.Round(baseIntervalHours(difficulty) * multiplier * accuracyAdjustment(accuracyPercent))
	if hours < minIntervalHours {
		hours = minIntervalHours
	}
	if hours > maxIntervalHours {
		hours = maxIntervalHours
	}

	return lastReviewDate.Add(time.Duration(hours) * time.Hour)
}

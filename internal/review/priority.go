package review

import "time"

// Priority bounds. Lower number means higher urgency.
const (
	HighestPriority = 1
	LowestPriority  = 10
	neutralPriority = 5
)

// ReviewPriority ranks how urgently an item needs review, from 1 (most
// urgent) to 10 (least urgent).
//
// The base rank comes from how overdue the item is relative to now; a zero
// nextReviewAt (never scheduled) keeps the neutral rank. Low last-session
// accuracy and long gaps since the last review each bump urgency by one
// step. lastAccuracy may be AccuracyUnknown, which leaves the rank
// unchanged.
//
// Ties are expected; callers that need a deterministic order must apply a
// secondary sort key such as the item ID.
func ReviewPriority(nextReviewAt time.Time, lastAccuracy float64, daysSinceLastReview int, now time.Time) int {
	priority := neutralPriority

	if !nextReviewAt.IsZero() && nextReviewAt.Before(now) {
		overdue := now.Sub(nextReviewAt)
		switch {
		case overdue > 72*time.Hour:
			priority = 1
		case overdue > 24*time.Hour:
			priority = 2
		default:
			priority = 3
		}
	}

	if lastAccuracy >= 0 {
		if lastAccuracy < 60 {
			priority--
		} else if lastAccuracy > 85 {
			priority++
		}
	}

	if daysSinceLastReview > 7 {
		priority--
	}

	if priority < HighestPriority {
		priority = HighestPriority
	}
	if priority > LowestPriority {
		priority = LowestPriority
	}
	return priority
}

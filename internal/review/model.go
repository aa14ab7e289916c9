package review

import (
	"database/sql"
	"time"
)

// ReviewRecord tracks one learner-item pair under spaced repetition.
//
// NextReviewAt is always derived by NextReviewDate after a session; callers
// never set it directly. ReviewCount is at least 1 once any review has
// happened. Records are created on the first study event and only ever
// superseded, never deleted.
type ReviewRecord struct {
	ID              int64           `db:"id"`
	LearnerID       int64           `db:"learner_id"`
	ItemID          int64           `db:"item_id"`
	LastReviewedAt  sql.NullTime    `db:"last_reviewed_at"`
	NextReviewAt    sql.NullTime    `db:"next_review_at"`
	AccuracyPercent sql.NullFloat64 `db:"accuracy_percent"`
	Difficulty      Difficulty      `db:"difficulty"`
	ReviewCount     int             `db:"review_count"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// LastAccuracy returns the most recent accuracy or AccuracyUnknown.
func (r *ReviewRecord) LastAccuracy() float64 {
	if !r.AccuracyPercent.Valid {
		return AccuracyUnknown
	}
	return r.AccuracyPercent.Float64
}

// DaysSinceLastReview returns full days elapsed since the last review,
// or 0 when the record has never been reviewed.
func (r *ReviewRecord) DaysSinceLastReview(now time.Time) int {
	if !r.LastReviewedAt.Valid {
		return 0
	}
	days := int(now.Sub(r.LastReviewedAt.Time).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// SessionLog records the outcome of one study session for a learner-item
// pair. Logs are ordered most recent first when read back.
type SessionLog struct {
	ID              int64     `db:"id"`
	LearnerID       int64     `db:"learner_id"`
	ItemID          int64     `db:"item_id"`
	AccuracyPercent float64   `db:"accuracy_percent"`
	DurationMs      int       `db:"duration_ms"`
	StudiedAt       time.Time `db:"studied_at"`
	CreatedAt       time.Time `db:"created_at"`
}

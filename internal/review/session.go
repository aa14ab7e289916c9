package review

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultAccuracyWindow is how many recent sessions feed the rolling
// accuracy average used for difficulty adaptation.
const DefaultAccuracyWindow = 5

// SessionRecorder applies a finished study session to a learner's review
// state: it logs the session, adapts the difficulty tier from rolling
// accuracy, and derives the next review date.
type SessionRecorder struct {
	repository     Repository
	accuracyWindow int
}

// NewSessionRecorder creates a SessionRecorder. A non-positive window
// falls back to DefaultAccuracyWindow.
func NewSessionRecorder(repository Repository, accuracyWindow int) *SessionRecorder {
	if accuracyWindow <= 0 {
		accuracyWindow = DefaultAccuracyWindow
	}
	return &SessionRecorder{
		repository:     repository,
		accuracyWindow: accuracyWindow,
	}
}

// RecordSession updates the review record for a learner-item pair after a
// study session with the given accuracy. It creates the record on the
// first session and returns the updated state.
func (s *SessionRecorder) RecordSession(ctx context.Context, learnerID, itemID int64, accuracyPercent float64, studiedAt time.Time) (*ReviewRecord, error) {
	if studiedAt.IsZero() {
		studiedAt = time.Now()
	}

	record, err := s.repository.FindByLearnerItem(ctx, learnerID, itemID)
	if err != nil {
		return nil, fmt.Errorf("repository.FindByLearnerItem() > %w", err)
	}
	if record == nil {
		record = &ReviewRecord{
			LearnerID:  learnerID,
			ItemID:     itemID,
			Difficulty: DifficultyMedium,
		}
	}

	if err := s.repository.CreateSession(ctx, &SessionLog{
		LearnerID:       learnerID,
		ItemID:          itemID,
		AccuracyPercent: accuracyPercent,
		StudiedAt:       studiedAt,
	}); err != nil {
		return nil, fmt.Errorf("repository.CreateSession() > %w", err)
	}

	logs, err := s.repository.FindRecentSessions(ctx, learnerID, itemID, s.accuracyWindow)
	if err != nil {
		return nil, fmt.Errorf("repository.FindRecentSessions() > %w", err)
	}
	average, sessions := RollingAccuracy(logs, s.accuracyWindow)

	record.ReviewCount++
	record.Difficulty = RecommendDifficulty(average, record.Difficulty, sessions)
	record.AccuracyPercent = sql.NullFloat64{Float64: accuracyPercent, Valid: true}
	record.LastReviewedAt = sql.NullTime{Time: studiedAt, Valid: true}
	record.NextReviewAt = sql.NullTime{
		Time:  NextReviewDate(studiedAt, accuracyPercent, record.Difficulty, record.ReviewCount),
		Valid: true,
	}

	if err := s.repository.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("repository.Save() > %w", err)
	}
	return record, nil
}

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines persistence for review records and session logs.
type Repository interface {
	FindDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]ReviewRecord, error)
	FindDueForLearner(ctx context.Context, learnerID int64, cutoff time.Time, limit int) ([]ReviewRecord, error)
	FindByLearnerItem(ctx context.Context, learnerID, itemID int64) (*ReviewRecord, error)
	Save(ctx context.Context, record *ReviewRecord) error
	FindRecentSessions(ctx context.Context, learnerID, itemID int64, limit int) ([]SessionLog, error)
	FindSessionsBetween(ctx context.Context, learnerID int64, from, to time.Time) ([]SessionLog, error)
	CreateSession(ctx context.Context, log *SessionLog) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindDueBefore returns review records whose next review is at or before
// cutoff, oldest due first, limited to limit rows.
func (r *DBRepository) FindDueBefore(ctx context.Context, cutoff time.Time, limit int) ([]ReviewRecord, error) {
	var records []ReviewRecord
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM review_records WHERE next_review_at IS NOT NULL AND next_review_at <= ? ORDER BY next_review_at, id LIMIT ?",
		cutoff, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due review_records) > %w", err)
	}
	return records, nil
}

// FindDueForLearner returns one learner's review records due at or before
// cutoff, oldest due first, limited to limit rows.
func (r *DBRepository) FindDueForLearner(ctx context.Context, learnerID int64, cutoff time.Time, limit int) ([]ReviewRecord, error) {
	var records []ReviewRecord
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM review_records WHERE learner_id = ? AND next_review_at IS NOT NULL AND next_review_at <= ? ORDER BY next_review_at, id LIMIT ?",
		learnerID, cutoff, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due review_records for learner) > %w", err)
	}
	return records, nil
}

// FindByLearnerItem returns the review record for a learner-item pair, or
// nil if none exists yet.
func (r *DBRepository) FindByLearnerItem(ctx context.Context, learnerID, itemID int64) (*ReviewRecord, error) {
	var record ReviewRecord
	err := r.db.GetContext(ctx, &record,
		"SELECT * FROM review_records WHERE learner_id = ? AND item_id = ?",
		learnerID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(review_record) > %w", err)
	}
	return &record, nil
}

// Save inserts a new review record or updates an existing one.
func (r *DBRepository) Save(ctx context.Context, record *ReviewRecord) error {
	if record.ID == 0 {
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO review_records (learner_id, item_id, last_reviewed_at, next_review_at, accuracy_percent, difficulty, review_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.LearnerID, record.ItemID, record.LastReviewedAt, record.NextReviewAt,
			record.AccuracyPercent, record.Difficulty, record.ReviewCount)
		if err != nil {
			return fmt.Errorf("db.ExecContext(insert review_record) > %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("result.LastInsertId() > %w", err)
		}
		record.ID = id
		return nil
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE review_records
		SET last_reviewed_at = ?, next_review_at = ?, accuracy_percent = ?, difficulty = ?, review_count = ?
		WHERE id = ?`,
		record.LastReviewedAt, record.NextReviewAt, record.AccuracyPercent,
		record.Difficulty, record.ReviewCount, record.ID); err != nil {
		return fmt.Errorf("db.ExecContext(update review_record) > %w", err)
	}
	return nil
}

// FindRecentSessions returns session logs for a learner-item pair, most
// recent first, limited to limit rows.
func (r *DBRepository) FindRecentSessions(ctx context.Context, learnerID, itemID int64, limit int) ([]SessionLog, error) {
	var logs []SessionLog
	if err := r.db.SelectContext(ctx, &logs,
		"SELECT * FROM session_logs WHERE learner_id = ? AND item_id = ? ORDER BY studied_at DESC, id DESC LIMIT ?",
		learnerID, itemID, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(session_logs) > %w", err)
	}
	return logs, nil
}

// FindSessionsBetween returns a learner's session logs in [from, to),
// most recent first.
func (r *DBRepository) FindSessionsBetween(ctx context.Context, learnerID int64, from, to time.Time) ([]SessionLog, error) {
	var logs []SessionLog
	if err := r.db.SelectContext(ctx, &logs,
		"SELECT * FROM session_logs WHERE learner_id = ? AND studied_at >= ? AND studied_at < ? ORDER BY studied_at DESC, id DESC",
		learnerID, from, to); err != nil {
		return nil, fmt.Errorf("db.SelectContext(session_logs between) > %w", err)
	}
	return logs, nil
}

// CreateSession inserts a new session log.
func (r *DBRepository) CreateSession(ctx context.Context, log *SessionLog) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO session_logs (learner_id, item_id, accuracy_percent, duration_ms, studied_at)
		VALUES (?, ?, ?, ?, ?)`,
		log.LearnerID, log.ItemID, log.AccuracyPercent, log.DurationMs, log.StudiedAt)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert session_log) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	log.ID = id
	return nil
}

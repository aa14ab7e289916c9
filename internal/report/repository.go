package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ScheduledReport is a recurring report subscription. NextRunAt is always
// recomputed from the cadence after a delivery; it is never set by hand.
// Inactive subscriptions are never selected.
type ScheduledReport struct {
	ID          int64     `db:"id"`
	LearnerID   int64     `db:"learner_id"`
	Recipient   string    `db:"recipient"`
	CadenceExpr string    `db:"cadence_expr"`
	LastRunAt   time.Time `db:"last_run_at"`
	NextRunAt   time.Time `db:"next_run_at"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Repository defines persistence for scheduled reports.
type Repository interface {
	FindDue(ctx context.Context, now time.Time, limit int) ([]ScheduledReport, error)
	UpdateRunTimes(ctx context.Context, id int64, lastRunAt, nextRunAt time.Time) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindDue returns active subscriptions whose next run is at or before now.
func (r *DBRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]ScheduledReport, error) {
	var reports []ScheduledReport
	if err := r.db.SelectContext(ctx, &reports,
		"SELECT * FROM scheduled_reports WHERE active = TRUE AND next_run_at <= ? ORDER BY next_run_at, id LIMIT ?",
		now, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due scheduled_reports) > %w", err)
	}
	return reports, nil
}

// UpdateRunTimes advances a subscription after a delivery.
func (r *DBRepository) UpdateRunTimes(ctx context.Context, id int64, lastRunAt, nextRunAt time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE scheduled_reports SET last_run_at = ?, next_run_at = ? WHERE id = ?",
		lastRunAt, nextRunAt, id); err != nil {
		return fmt.Errorf("db.ExecContext(update scheduled_report) > %w", err)
	}
	return nil
}

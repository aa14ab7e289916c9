package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// DBQuizSelector implements QuizSelector against the quizzes table.
type DBQuizSelector struct {
	db *sqlx.DB
}

// NewDBQuizSelector creates a DBQuizSelector.
func NewDBQuizSelector(db *sqlx.DB) *DBQuizSelector {
	return &DBQuizSelector{db: db}
}

type quizRow struct {
	ID        int64     `db:"id"`
	LearnerID int64     `db:"learner_id"`
	Title     string    `db:"title"`
	StartsAt  time.Time `db:"starts_at"`
}

// UpcomingQuizzes implements QuizSelector.
func (s *DBQuizSelector) UpcomingQuizzes(ctx context.Context, from, until time.Time) ([]Quiz, error) {
	var rows []quizRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT id, learner_id, title, starts_at FROM quizzes WHERE starts_at >= ? AND starts_at < ? ORDER BY starts_at, id",
		from, until); err != nil {
		return nil, fmt.Errorf("db.SelectContext(upcoming quizzes) > %w", err)
	}

	quizzes := make([]Quiz, 0, len(rows))
	for _, row := range rows {
		quizzes = append(quizzes, Quiz{
			ID:        row.ID,
			LearnerID: row.LearnerID,
			Title:     row.Title,
			StartsAt:  row.StartsAt,
		})
	}
	return quizzes, nil
}

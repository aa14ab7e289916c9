package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-okubo/revplan/internal/cadence"
	"github.com/t-okubo/revplan/internal/notify"
	"github.com/t-okubo/revplan/internal/review"
)

// stubReviewRepository serves canned due records.
type stubReviewRepository struct {
	review.Repository
	due    []review.ReviewRecord
	dueErr error
}

func (s *stubReviewRepository) FindDueBefore(_ context.Context, _ time.Time, _ int) ([]review.ReviewRecord, error) {
	return s.due, s.dueErr
}

// recordingNotifier captures notifications and can fail per learner.
type recordingNotifier struct {
	sent    []notify.Notification
	failFor map[int64]error
}

func (n *recordingNotifier) Send(_ context.Context, notification notify.Notification) error {
	if err := n.failFor[notification.LearnerID]; err != nil {
		return err
	}
	n.sent = append(n.sent, notification)
	return nil
}

func dueRecord(learnerID, itemID int64, overdue time.Duration, now time.Time) review.ReviewRecord {
	return review.ReviewRecord{
		LearnerID:    learnerID,
		ItemID:       itemID,
		Difficulty:   review.DifficultyMedium,
		ReviewCount:  2,
		NextReviewAt: sql.NullTime{Time: now.Add(-overdue), Valid: true},
		LastReviewedAt: sql.NullTime{
			Time:  now.Add(-overdue - 48*time.Hour),
			Valid: true,
		},
	}
}

func TestReviewReminderTask_Run(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	mustCadence := func(expr string) cadence.Cadence {
		c, err := cadence.Parse(expr)
		require.NoError(t, err)
		return c
	}

	t.Run("one notification per learner", func(t *testing.T) {
		repo := &stubReviewRepository{due: []review.ReviewRecord{
			dueRecord(1, 10, time.Hour, now),
			dueRecord(1, 11, 2*time.Hour, now),
			dueRecord(2, 20, time.Hour, now),
		}}
		notifier := &recordingNotifier{}
		task := NewReviewReminderTask(ReviewReminderConfig{Cadence: mustCadence("15m")}, repo, notifier)
		task.now = func() time.Time { return now }

		result, err := task.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, result.Attempted)
		assert.Equal(t, 2, result.Succeeded)
		require.Len(t, notifier.sent, 2)
		assert.Equal(t, int64(1), notifier.sent[0].LearnerID)
		assert.Contains(t, notifier.sent[0].Body, "2 items")
		assert.Equal(t, int64(2), notifier.sent[1].LearnerID)
		assert.Contains(t, notifier.sent[1].Body, "1 items")
	})

	t.Run("reminder includes estimated minutes", func(t *testing.T) {
		repo := &stubReviewRepository{due: []review.ReviewRecord{
			dueRecord(1, 10, time.Hour, now),
			dueRecord(1, 11, time.Hour, now),
		}}
		notifier := &recordingNotifier{}
		task := NewReviewReminderTask(ReviewReminderConfig{Cadence: mustCadence("15m")}, repo, notifier)
		task.now = func() time.Time { return now }

		_, err := task.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, notifier.sent, 1)
		// 2 medium cards: base 2, overhead 2.
		assert.Contains(t, notifier.sent[0].Body, "about 4 minutes")
	})

	t.Run("daily limit truncates per learner", func(t *testing.T) {
		var due []review.ReviewRecord
		for i := 0; i < 30; i++ {
			due = append(due, dueRecord(1, int64(100+i), time.Hour, now))
		}
		repo := &stubReviewRepository{due: due}
		notifier := &recordingNotifier{}
		task := NewReviewReminderTask(ReviewReminderConfig{
			Cadence:    mustCadence("15m"),
			DailyLimit: 5,
		}, repo, notifier)
		task.now = func() time.Time { return now }

		_, err := task.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, notifier.sent, 1)
		assert.Contains(t, notifier.sent[0].Body, "5 items")
	})

	t.Run("one failing learner does not block the rest", func(t *testing.T) {
		repo := &stubReviewRepository{due: []review.ReviewRecord{
			dueRecord(1, 10, time.Hour, now),
			dueRecord(2, 20, time.Hour, now),
			dueRecord(3, 30, time.Hour, now),
		}}
		notifier := &recordingNotifier{failFor: map[int64]error{2: errors.New("gateway down")}}
		task := NewReviewReminderTask(ReviewReminderConfig{Cadence: mustCadence("15m")}, repo, notifier)
		task.now = func() time.Time { return now }

		result, err := task.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 3, result.Attempted)
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.FailedOutcomes(), 1)
		assert.Equal(t, "learner:2", result.FailedOutcomes()[0].ID)
		assert.Len(t, notifier.sent, 2)
	})

	t.Run("selector failure aborts the firing", func(t *testing.T) {
		repo := &stubReviewRepository{dueErr: errors.New("connection refused")}
		task := NewReviewReminderTask(ReviewReminderConfig{Cadence: mustCadence("15m")}, repo, &recordingNotifier{})
		task.now = func() time.Time { return now }

		_, err := task.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FindDueBefore")
	})

	t.Run("no due reviews sends nothing", func(t *testing.T) {
		notifier := &recordingNotifier{}
		task := NewReviewReminderTask(ReviewReminderConfig{Cadence: mustCadence("15m")}, &stubReviewRepository{}, notifier)
		task.now = func() time.Time { return now }

		result, err := task.Run(context.Background())
		require.NoError(t, err)
		assert.Zero(t, result.Attempted)
		assert.Empty(t, notifier.sent)
	})
}

func TestReviewReminderTask_Name(t *testing.T) {
	task := NewReviewReminderTask(ReviewReminderConfig{}, &stubReviewRepository{}, &recordingNotifier{})
	assert.Equal(t, "review_reminder", task.Name())
}

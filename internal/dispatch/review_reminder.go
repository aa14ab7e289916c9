// Package dispatch contains the concrete periodic tasks the scheduler
// runs: review and quiz reminders, token refresh and cleanup, and report
// delivery. Each task pairs a read-only candidate selector with a
// side-effecting per-item action and relies on scheduler.AttemptAll for
// failure isolation.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/t-okubo/revplan/internal/cadence"
	"github.com/t-okubo/revplan/internal/notify"
	"github.com/t-okubo/revplan/internal/review"
	"github.com/t-okubo/revplan/internal/scheduler"
)

// ReviewReminderConfig tunes the review reminder task.
type ReviewReminderConfig struct {
	Cadence cadence.Cadence
	// Window is how far ahead of now items count as due for a reminder.
	Window time.Duration
	// DailyLimit caps how many items one reminder mentions per learner.
	DailyLimit int
	// SelectLimit bounds the candidate query.
	SelectLimit int
}

// ReviewReminderTask reminds learners about due reviews. Candidates are
// learners (one notification per learner covering all their due items), as
// a learner with ten due cards should get one message, not ten.
type ReviewReminderTask struct {
	config   ReviewReminderConfig
	reviews  review.Repository
	notifier notify.Notifier
	now      func() time.Time
}

// NewReviewReminderTask creates the task.
func NewReviewReminderTask(config ReviewReminderConfig, reviews review.Repository, notifier notify.Notifier) *ReviewReminderTask {
	if config.Window <= 0 {
		config.Window = 24 * time.Hour
	}
	if config.DailyLimit <= 0 {
		config.DailyLimit = 20
	}
	if config.SelectLimit <= 0 {
		config.SelectLimit = 1000
	}
	return &ReviewReminderTask{
		config:   config,
		reviews:  reviews,
		notifier: notifier,
		now:      time.Now,
	}
}

// Name implements scheduler.Task.
func (t *ReviewReminderTask) Name() string { return "review_reminder" }

// Cadence implements scheduler.Task.
func (t *ReviewReminderTask) Cadence() cadence.Cadence { return t.config.Cadence }

// learnerReminder is one learner's batch of due reviews.
type learnerReminder struct {
	learnerID int64
	records   []review.ReviewRecord
}

// Run implements scheduler.Task.
func (t *ReviewReminderTask) Run(ctx context.Context) (scheduler.BatchResult, error) {
	now := t.now()
	records, err := t.reviews.FindDueBefore(ctx, now.Add(t.config.Window), t.config.SelectLimit)
	if err != nil {
		return scheduler.BatchResult{}, fmt.Errorf("reviews.FindDueBefore() > %w", err)
	}

	candidates := t.groupByLearner(records, now)
	return scheduler.AttemptAll(ctx, candidates, func(ctx context.Context, reminder learnerReminder) error {
		return t.remind(ctx, reminder)
	}), nil
}

// groupByLearner buckets due records per learner, orders each bucket by
// urgency (priority, then item id for determinism), and truncates it to
// the daily limit.
func (t *ReviewReminderTask) groupByLearner(records []review.ReviewRecord, now time.Time) []scheduler.Candidate[learnerReminder] {
	byLearner := make(map[int64][]review.ReviewRecord)
	for _, record := range records {
		byLearner[record.LearnerID] = append(byLearner[record.LearnerID], record)
	}

	learnerIDs := make([]int64, 0, len(byLearner))
	for learnerID := range byLearner {
		learnerIDs = append(learnerIDs, learnerID)
	}
	sort.Slice(learnerIDs, func(i, j int) bool { return learnerIDs[i] < learnerIDs[j] })

	candidates := make([]scheduler.Candidate[learnerReminder], 0, len(learnerIDs))
	for _, learnerID := range learnerIDs {
		bucket := byLearner[learnerID]
		sort.Slice(bucket, func(i, j int) bool {
			pi := t.priorityOf(bucket[i], now)
			pj := t.priorityOf(bucket[j], now)
			if pi != pj {
				return pi < pj
			}
			return bucket[i].ItemID < bucket[j].ItemID
		})
		if len(bucket) > t.config.DailyLimit {
			bucket = bucket[:t.config.DailyLimit]
		}
		candidates = append(candidates, scheduler.Candidate[learnerReminder]{
			ID:    fmt.Sprintf("learner:%d", learnerID),
			Value: learnerReminder{learnerID: learnerID, records: bucket},
		})
	}
	return candidates
}

func (t *ReviewReminderTask) priorityOf(record review.ReviewRecord, now time.Time) int {
	var nextReviewAt time.Time
	if record.NextReviewAt.Valid {
		nextReviewAt = record.NextReviewAt.Time
	}
	return review.ReviewPriority(nextReviewAt, record.LastAccuracy(), record.DaysSinceLastReview(now), now)
}

func (t *ReviewReminderTask) remind(ctx context.Context, reminder learnerReminder) error {
	counts := make(map[review.Difficulty]int)
	for _, record := range reminder.records {
		counts[record.Difficulty]++
	}
	var minutes int
	for difficulty, count := range counts {
		minutes += review.EstimateStudyMinutes(count, difficulty)
	}

	if err := t.notifier.Send(ctx, notify.Notification{
		LearnerID: reminder.learnerID,
		Title:     "Reviews due",
		Body:      fmt.Sprintf("%d items are ready for review (about %d minutes).", len(reminder.records), minutes),
	}); err != nil {
		return fmt.Errorf("notifier.Send() > %w", err)
	}
	return nil
}

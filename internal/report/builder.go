package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/t-okubo/revplan/internal/review"
)

// Builder assembles a StudyReport for one learner.
type Builder interface {
	Build(ctx context.Context, learnerID int64, periodEnd time.Time) (StudyReport, error)
}

// StatsBuilder builds reports from the review repository.
type StatsBuilder struct {
	reviews      review.Repository
	periodLength time.Duration
	dueWindow    time.Duration
	dueLimit     int
}

// NewStatsBuilder creates a StatsBuilder. The report covers the
// periodLength before periodEnd and previews reviews due within dueWindow
// after it.
func NewStatsBuilder(reviews review.Repository, periodLength, dueWindow time.Duration, dueLimit int) *StatsBuilder {
	if periodLength <= 0 {
		periodLength = 7 * 24 * time.Hour
	}
	if dueWindow <= 0 {
		dueWindow = 24 * time.Hour
	}
	if dueLimit <= 0 {
		dueLimit = 50
	}
	return &StatsBuilder{
		reviews:      reviews,
		periodLength: periodLength,
		dueWindow:    dueWindow,
		dueLimit:     dueLimit,
	}
}

// Build implements Builder.
func (b *StatsBuilder) Build(ctx context.Context, learnerID int64, periodEnd time.Time) (StudyReport, error) {
	periodStart := periodEnd.Add(-b.periodLength)

	sessions, err := b.reviews.FindSessionsBetween(ctx, learnerID, periodStart, periodEnd)
	if err != nil {
		return StudyReport{}, fmt.Errorf("reviews.FindSessionsBetween() > %w", err)
	}
	average, _ := review.RollingAccuracy(sessions, 0)

	due, err := b.reviews.FindDueForLearner(ctx, learnerID, periodEnd.Add(b.dueWindow), b.dueLimit)
	if err != nil {
		return StudyReport{}, fmt.Errorf("reviews.FindDueForLearner() > %w", err)
	}

	dueItems := make([]DueItem, 0, len(due))
	for _, record := range due {
		var dueAt time.Time
		if record.NextReviewAt.Valid {
			dueAt = record.NextReviewAt.Time
		}
		dueItems = append(dueItems, DueItem{
			ItemID:     record.ItemID,
			Title:      fmt.Sprintf("item %d", record.ItemID),
			Difficulty: record.Difficulty,
			Priority: review.ReviewPriority(
				dueAt, record.LastAccuracy(), record.DaysSinceLastReview(periodEnd), periodEnd),
			DueAt: dueAt,
		})
	}
	// Most urgent first; item id keeps ties deterministic.
	sort.Slice(dueItems, func(i, j int) bool {
		if dueItems[i].Priority != dueItems[j].Priority {
			return dueItems[i].Priority < dueItems[j].Priority
		}
		return dueItems[i].ItemID < dueItems[j].ItemID
	})

	return StudyReport{
		LearnerID:        learnerID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		ReviewsCompleted: len(sessions),
		AverageAccuracy:  average,
		DueItems:         dueItems,
	}, nil
}

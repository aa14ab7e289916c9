// Package report builds and delivers periodic study reports: per-learner
// statistics rendered to markdown, converted to PDF, and handed to a
// delivery sink.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/t-okubo/revplan/internal/review"
)

// StudyReport summarizes one learner's recent activity and upcoming load.
type StudyReport struct {
	LearnerID        int64
	PeriodStart      time.Time
	PeriodEnd        time.Time
	ReviewsCompleted int
	AverageAccuracy  float64 // review.AccuracyUnknown when no sessions
	DueItems         []DueItem
}

// DueItem is one upcoming review in the report.
type DueItem struct {
	ItemID     int64
	Title      string
	Difficulty review.Difficulty
	Priority   int
	DueAt      time.Time
}

// Sink receives a finished report for delivery. Delivery transport (mail,
// object storage) lives outside this package.
type Sink interface {
	Deliver(ctx context.Context, recipient string, pdfPath string) error
}

// RenderMarkdown renders the report as a markdown document.
func (r StudyReport) RenderMarkdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Study report for learner %d\n\n", r.LearnerID)
	fmt.Fprintf(&b, "Period: %s to %s\n\n",
		r.PeriodStart.Format("2006-01-02"), r.PeriodEnd.Format("2006-01-02"))

	fmt.Fprintf(&b, "## Completed\n\n")
	fmt.Fprintf(&b, "- Reviews completed: %d\n", r.ReviewsCompleted)
	if r.AverageAccuracy >= 0 {
		fmt.Fprintf(&b, "- Average accuracy: %.1f%%\n", r.AverageAccuracy)
	} else {
		fmt.Fprintf(&b, "- Average accuracy: no sessions recorded\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Upcoming reviews\n\n")
	if len(r.DueItems) == 0 {
		b.WriteString("Nothing due. Well done.\n")
		return b.String()
	}

	byDifficulty := make(map[review.Difficulty]int)
	for _, item := range r.DueItems {
		byDifficulty[item.Difficulty]++
	}
	var estimated int
	for difficulty, count := range byDifficulty {
		estimated += review.EstimateStudyMinutes(count, difficulty)
	}
	fmt.Fprintf(&b, "%d items due, estimated %d minutes.\n\n", len(r.DueItems), estimated)

	b.WriteString("| Priority | Item | Difficulty | Due |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, item := range r.DueItems {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			item.Priority, item.Title, item.Difficulty, item.DueAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-okubo/revplan/internal/review"
)

func TestStudyReport_RenderMarkdown(t *testing.T) {
	periodStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)

	t.Run("report with due items", func(t *testing.T) {
		studyReport := StudyReport{
			LearnerID:        42,
			PeriodStart:      periodStart,
			PeriodEnd:        periodEnd,
			ReviewsCompleted: 17,
			AverageAccuracy:  81.25,
			DueItems: []DueItem{
				{ItemID: 1, Title: "break the ice", Difficulty: review.DifficultyHard, Priority: 1, DueAt: periodEnd},
				{ItemID: 2, Title: "eager", Difficulty: review.DifficultyEasy, Priority: 4, DueAt: periodEnd.Add(24 * time.Hour)},
			},
		}

		markdown := studyReport.RenderMarkdown()
		assert.Contains(t, markdown, "# Study report for learner 42")
		assert.Contains(t, markdown, "Period: 2025-03-01 to 2025-03-08")
		assert.Contains(t, markdown, "Reviews completed: 17")
		assert.Contains(t, markdown, "Average accuracy: 81.2%")
		assert.Contains(t, markdown, "2 items due")
		assert.Contains(t, markdown, "| 1 | break the ice | hard |")
		assert.Contains(t, markdown, "| 4 | eager | easy |")
		// 1 hard card -> base 2 + overhead 2; 1 easy card -> base 1 + overhead 2
		assert.Contains(t, markdown, "estimated 7 minutes")
	})

	t.Run("report without sessions or due items", func(t *testing.T) {
		studyReport := StudyReport{
			LearnerID:       7,
			PeriodStart:     periodStart,
			PeriodEnd:       periodEnd,
			AverageAccuracy: review.AccuracyUnknown,
		}

		markdown := studyReport.RenderMarkdown()
		assert.Contains(t, markdown, "no sessions recorded")
		assert.Contains(t, markdown, "Nothing due")
		assert.NotContains(t, markdown, "| Priority |")
	})
}

func TestOutbox_Deliver(t *testing.T) {
	tmpDir := t.TempDir()

	source := filepath.Join(tmpDir, "report.pdf")
	require.NoError(t, os.WriteFile(source, []byte("pdf-bytes"), 0644))

	outbox := NewOutbox(filepath.Join(tmpDir, "outbox"))
	require.NoError(t, outbox.Deliver(context.Background(), "learner@example.com", source))

	delivered, err := os.ReadFile(filepath.Join(tmpDir, "outbox", "learner_at_example.com", "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-bytes"), delivered)
}

package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-okubo/revplan/internal/cadence"
	"github.com/t-okubo/revplan/internal/report"
)

// fakeReportRepository serves due subscriptions and records run time updates.
type fakeReportRepository struct {
	due     []report.ScheduledReport
	dueErr  error
	updates map[int64][2]time.Time
}

func (r *fakeReportRepository) FindDue(_ context.Context, _ time.Time, _ int) ([]report.ScheduledReport, error) {
	return r.due, r.dueErr
}

func (r *fakeReportRepository) UpdateRunTimes(_ context.Context, id int64, lastRunAt, nextRunAt time.Time) error {
	if r.updates == nil {
		r.updates = make(map[int64][2]time.Time)
	}
	r.updates[id] = [2]time.Time{lastRunAt, nextRunAt}
	return nil
}

// fakeBuilder returns a minimal report per learner.
type fakeBuilder struct {
	buildErr map[int64]error
}

func (b *fakeBuilder) Build(_ context.Context, learnerID int64, periodEnd time.Time) (report.StudyReport, error) {
	if err := b.buildErr[learnerID]; err != nil {
		return report.StudyReport{}, err
	}
	return report.StudyReport{
		LearnerID:        learnerID,
		PeriodStart:      periodEnd.Add(-7 * 24 * time.Hour),
		PeriodEnd:        periodEnd,
		ReviewsCompleted: 3,
		AverageAccuracy:  82.5,
	}, nil
}

// fakeSink records delivered files per recipient.
type fakeSink struct {
	delivered map[string]string
}

func (s *fakeSink) Deliver(_ context.Context, recipient string, pdfPath string) error {
	if s.delivered == nil {
		s.delivered = make(map[string]string)
	}
	s.delivered[recipient] = pdfPath
	return nil
}

func TestReportDeliveryTask_Run(t *testing.T) {
	now := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	taskCadence, err := cadence.Parse("15m")
	require.NoError(t, err)

	newTask := func(repo *fakeReportRepository, builder *fakeBuilder, sink *fakeSink, outputDir string) *ReportDeliveryTask {
		task := NewReportDeliveryTask(ReportDeliveryConfig{
			Cadence:   taskCadence,
			OutputDir: outputDir,
		}, repo, builder, sink)
		task.now = func() time.Time { return now }
		return task
	}

	t.Run("builds, delivers, and advances each due subscription", func(t *testing.T) {
		repo := &fakeReportRepository{due: []report.ScheduledReport{
			{ID: 1, LearnerID: 10, Recipient: "alice@example.com", CadenceExpr: "24h"},
			{ID: 2, LearnerID: 11, Recipient: "bob@example.com", CadenceExpr: "168h"},
		}}
		sink := &fakeSink{}
		task := newTask(repo, &fakeBuilder{}, sink, t.TempDir())

		result, err := task.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, result.Attempted)
		assert.Equal(t, 2, result.Succeeded)
		require.Len(t, sink.delivered, 2)
		assert.True(t, strings.HasSuffix(sink.delivered["alice@example.com"], ".pdf"))

		require.Contains(t, repo.updates, int64(1))
		assert.Equal(t, now, repo.updates[1][0])
		assert.Equal(t, now.Add(24*time.Hour), repo.updates[1][1])
		assert.Equal(t, now.Add(168*time.Hour), repo.updates[2][1])
	})

	t.Run("broken stored cadence is a per-item failure", func(t *testing.T) {
		repo := &fakeReportRepository{due: []report.ScheduledReport{
			{ID: 1, LearnerID: 10, Recipient: "alice@example.com", CadenceExpr: "not-a-cadence"},
			{ID: 2, LearnerID: 11, Recipient: "bob@example.com", CadenceExpr: "24h"},
		}}
		sink := &fakeSink{}
		task := newTask(repo, &fakeBuilder{}, sink, t.TempDir())

		result, err := task.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Succeeded)
		require.Len(t, result.FailedOutcomes(), 1)
		assert.Equal(t, "report:1", result.FailedOutcomes()[0].ID)
		assert.NotContains(t, repo.updates, int64(1))
		assert.Contains(t, repo.updates, int64(2))
		assert.NotContains(t, sink.delivered, "alice@example.com")
	})

	t.Run("builder failure does not block other subscriptions", func(t *testing.T) {
		repo := &fakeReportRepository{due: []report.ScheduledReport{
			{ID: 1, LearnerID: 10, Recipient: "alice@example.com", CadenceExpr: "24h"},
			{ID: 2, LearnerID: 11, Recipient: "bob@example.com", CadenceExpr: "24h"},
		}}
		builder := &fakeBuilder{buildErr: map[int64]error{10: errors.New("sessions query failed")}}
		sink := &fakeSink{}
		task := newTask(repo, builder, sink, t.TempDir())

		result, err := task.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Succeeded)
		assert.Contains(t, sink.delivered, "bob@example.com")
	})

	t.Run("selector failure aborts the firing", func(t *testing.T) {
		repo := &fakeReportRepository{dueErr: errors.New("connection refused")}
		task := newTask(repo, &fakeBuilder{}, &fakeSink{}, t.TempDir())

		_, err := task.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FindDue")
	})
}

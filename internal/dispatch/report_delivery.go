package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/t-okubo/revplan/internal/cadence"
	"github.com/t-okubo/revplan/internal/report"
	"github.com/t-okubo/revplan/internal/scheduler"
)

// ReportDeliveryConfig tunes the report delivery task.
type ReportDeliveryConfig struct {
	Cadence cadence.Cadence
	// OutputDir is where rendered markdown and PDF files are written.
	OutputDir string
	// SelectLimit bounds how many due subscriptions one firing handles.
	SelectLimit int
}

// ReportDeliveryTask builds and delivers scheduled study reports. Each
// subscription carries its own cadence (fixed or calendar); after a
// successful delivery the subscription's next run is advanced by it.
type ReportDeliveryTask struct {
	config  ReportDeliveryConfig
	reports report.Repository
	builder report.Builder
	sink    report.Sink
	now     func() time.Time
}

// NewReportDeliveryTask creates the task.
func NewReportDeliveryTask(config ReportDeliveryConfig, reports report.Repository, builder report.Builder, sink report.Sink) *ReportDeliveryTask {
	if config.SelectLimit <= 0 {
		config.SelectLimit = 100
	}
	return &ReportDeliveryTask{
		config:  config,
		reports: reports,
		builder: builder,
		sink:    sink,
		now:     time.Now,
	}
}

// Name implements scheduler.Task.
func (t *ReportDeliveryTask) Name() string { return "report_delivery" }

// Cadence implements scheduler.Task.
func (t *ReportDeliveryTask) Cadence() cadence.Cadence { return t.config.Cadence }

// Run implements scheduler.Task.
func (t *ReportDeliveryTask) Run(ctx context.Context) (scheduler.BatchResult, error) {
	now := t.now()
	due, err := t.reports.FindDue(ctx, now, t.config.SelectLimit)
	if err != nil {
		return scheduler.BatchResult{}, fmt.Errorf("reports.FindDue() > %w", err)
	}

	candidates := make([]scheduler.Candidate[report.ScheduledReport], 0, len(due))
	for _, subscription := range due {
		candidates = append(candidates, scheduler.Candidate[report.ScheduledReport]{
			ID:    fmt.Sprintf("report:%d", subscription.ID),
			Value: subscription,
		})
	}

	return scheduler.AttemptAll(ctx, candidates, func(ctx context.Context, subscription report.ScheduledReport) error {
		return t.deliverOne(ctx, subscription, now)
	}), nil
}

func (t *ReportDeliveryTask) deliverOne(ctx context.Context, subscription report.ScheduledReport, now time.Time) error {
	// Subscription cadences come from stored rows, so a broken expression
	// surfaces here as a per-item failure instead of poisoning the task.
	subscriptionCadence, err := cadence.Parse(subscription.CadenceExpr)
	if err != nil {
		return fmt.Errorf("cadence.Parse(%q) > %w", subscription.CadenceExpr, err)
	}

	studyReport, err := t.builder.Build(ctx, subscription.LearnerID, now)
	if err != nil {
		return fmt.Errorf("builder.Build() > %w", err)
	}

	pdfPath, err := studyReport.WritePDF(t.config.OutputDir)
	if err != nil {
		return fmt.Errorf("studyReport.WritePDF() > %w", err)
	}

	if err := t.sink.Deliver(ctx, subscription.Recipient, pdfPath); err != nil {
		return fmt.Errorf("sink.Deliver() > %w", err)
	}

	if err := t.reports.UpdateRunTimes(ctx, subscription.ID, now, subscriptionCadence.Next(now)); err != nil {
		return fmt.Errorf("reports.UpdateRunTimes() > %w", err)
	}
	return nil
}

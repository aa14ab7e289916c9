package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/t-okubo/revplan/internal/bootstrap"
	"github.com/t-okubo/revplan/internal/cadence"
	"github.com/t-okubo/revplan/internal/config"
	"github.com/t-okubo/revplan/internal/database"
	"github.com/t-okubo/revplan/internal/dispatch"
	"github.com/t-okubo/revplan/internal/notify"
	"github.com/t-okubo/revplan/internal/report"
	"github.com/t-okubo/revplan/internal/review"
	"github.com/t-okubo/revplan/internal/scheduler"
	"github.com/t-okubo/revplan/internal/token"
)

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the reminder and maintenance scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			app := bootstrap.New(cfg.Scheduler.ShutdownGrace)

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			app.AddShutdownHook(func(ctx context.Context) error {
				return db.Close()
			})

			tokenStore, err := notify.LoadDeviceTokens(ctx, db)
			if err != nil {
				return fmt.Errorf("notify.LoadDeviceTokens() > %w", err)
			}

			sched, err := buildScheduler(cfg, db, tokenStore)
			if err != nil {
				return fmt.Errorf("buildScheduler() > %w", err)
			}
			app.AddShutdownHook(sched.Stop)

			return app.Run(ctx, func(ctx context.Context) error {
				sched.Start(ctx)
				<-ctx.Done()
				return nil
			})
		},
	}
}

func buildScheduler(cfg *config.Config, db *sqlx.DB, tokenStore *notify.DeviceTokenStore) (*scheduler.Scheduler, error) {
	reviewRepo := review.NewDBRepository(db)
	tokenRepo := token.NewDBRepository(db)
	reportRepo := report.NewDBRepository(db)
	quizzes := dispatch.NewDBQuizSelector(db)

	notifier := notify.NewPushClient(notify.PushConfig{
		GatewayURL:  cfg.Push.GatewayURL,
		APIKey:      cfg.Push.APIKey,
		Timeout:     cfg.Push.Timeout,
		MaxAttempts: cfg.Push.MaxAttempts,
		RetryDelay:  cfg.Push.RetryDelay,
	}, tokenStore)

	refresher := token.NewHTTPRefresher(token.RefresherConfig{
		TokenURL:     cfg.OAuth.TokenURL,
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		Timeout:      cfg.OAuth.Timeout,
	})

	builder := report.NewStatsBuilder(reviewRepo, 7*24*time.Hour, 24*time.Hour, 50)
	sink := report.NewOutbox(cfg.Reports.OutboxDirectory)

	reviewCadence, err := cadence.Parse(cfg.Scheduler.ReviewReminder.Cadence)
	if err != nil {
		return nil, fmt.Errorf("cadence.Parse(review_reminder) > %w", err)
	}
	quizCadence, err := cadence.Parse(cfg.Scheduler.QuizReminder.Cadence)
	if err != nil {
		return nil, fmt.Errorf("cadence.Parse(quiz_reminder) > %w", err)
	}
	refreshCadence, err := cadence.Parse(cfg.Scheduler.TokenRefresh.Cadence)
	if err != nil {
		return nil, fmt.Errorf("cadence.Parse(token_refresh) > %w", err)
	}
	cleanupCadence, err := cadence.Parse(cfg.Scheduler.TokenCleanup.Cadence)
	if err != nil {
		return nil, fmt.Errorf("cadence.Parse(token_cleanup) > %w", err)
	}
	reportCadence, err := cadence.Parse(cfg.Scheduler.ReportDelivery.Cadence)
	if err != nil {
		return nil, fmt.Errorf("cadence.Parse(report_delivery) > %w", err)
	}

	sched := scheduler.New(scheduler.NewMemoryExecutionStore(), slog.Default())
	tasks := []scheduler.Task{
		dispatch.NewReviewReminderTask(dispatch.ReviewReminderConfig{
			Cadence:    reviewCadence,
			Window:     cfg.Scheduler.ReviewReminder.Window,
			DailyLimit: cfg.Scheduler.ReviewReminder.DailyLimit,
		}, reviewRepo, notifier),
		dispatch.NewQuizReminderTask(dispatch.QuizReminderConfig{
			Cadence: quizCadence,
			Window:  cfg.Scheduler.QuizReminder.Window,
		}, quizzes, notifier),
		dispatch.NewTokenRefreshTask(dispatch.TokenRefreshConfig{
			Cadence:   refreshCadence,
			Window:    cfg.Scheduler.TokenRefresh.Window,
			BatchSize: cfg.Scheduler.TokenRefresh.BatchSize,
		}, tokenRepo, refresher),
		dispatch.NewTokenCleanupTask(dispatch.TokenCleanupConfig{
			Cadence:   cleanupCadence,
			Retention: cfg.Scheduler.TokenCleanup.Retention,
		}, tokenRepo),
		dispatch.NewReportDeliveryTask(dispatch.ReportDeliveryConfig{
			Cadence:   reportCadence,
			OutputDir: cfg.Reports.OutputDirectory,
		}, reportRepo, builder, sink),
	}
	for _, task := range tasks {
		if err := sched.Register(task); err != nil {
			return nil, fmt.Errorf("sched.Register(%s) > %w", task.Name(), err)
		}
	}
	return sched, nil
}

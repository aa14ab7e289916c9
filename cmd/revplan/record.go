package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/t-okubo/revplan/internal/database"
	"github.com/t-okubo/revplan/internal/review"
)

func newRecordCommand() *cobra.Command {
	var learnerID int64
	var itemID int64
	var accuracy float64

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a finished study session and reschedule the item",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if accuracy < 0 || accuracy > 100 {
				return fmt.Errorf("accuracy must be between 0 and 100, got %v", accuracy)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() { _ = db.Close() }()

			recorder := review.NewSessionRecorder(review.NewDBRepository(db), review.DefaultAccuracyWindow)
			record, err := recorder.RecordSession(ctx, learnerID, itemID, accuracy, time.Now())
			if err != nil {
				return fmt.Errorf("RecordSession() > %w", err)
			}

			fmt.Printf("Recorded session %d for item %d.\n", record.ReviewCount, record.ItemID)
			fmt.Printf("  difficulty:  %s\n", record.Difficulty)
			fmt.Printf("  next review: %s\n", record.NextReviewAt.Time.Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().Int64Var(&learnerID, "learner", 0, "learner ID")
	cmd.Flags().Int64Var(&itemID, "item", 0, "item ID")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "session accuracy percentage (0-100)")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("accuracy")
	return cmd
}

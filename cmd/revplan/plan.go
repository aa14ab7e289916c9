package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/t-okubo/revplan/internal/database"
	"github.com/t-okubo/revplan/internal/review"
)

func newPlanCommand() *cobra.Command {
	var learnerID int64
	var window time.Duration
	var limit int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show a learner's due reviews ranked by priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() { _ = db.Close() }()

			now := time.Now()
			records, err := review.NewDBRepository(db).FindDueForLearner(ctx, learnerID, now.Add(window), limit)
			if err != nil {
				return fmt.Errorf("FindDueForLearner() > %w", err)
			}
			if len(records) == 0 {
				fmt.Println("Nothing due. Come back later.")
				return nil
			}

			type plannedItem struct {
				record   review.ReviewRecord
				priority int
			}
			items := make([]plannedItem, 0, len(records))
			for _, record := range records {
				var nextReviewAt time.Time
				if record.NextReviewAt.Valid {
					nextReviewAt = record.NextReviewAt.Time
				}
				items = append(items, plannedItem{
					record:   record,
					priority: review.ReviewPriority(nextReviewAt, record.LastAccuracy(), record.DaysSinceLastReview(now), now),
				})
			}
			sort.Slice(items, func(i, j int) bool {
				if items[i].priority != items[j].priority {
					return items[i].priority < items[j].priority
				}
				return items[i].record.ItemID < items[j].record.ItemID
			})

			counts := make(map[review.Difficulty]int)
			for _, item := range items {
				counts[item.record.Difficulty]++

				line := fmt.Sprintf("  [P%d] item %d (%s, due %s)",
					item.priority, item.record.ItemID, item.record.Difficulty,
					item.record.NextReviewAt.Time.Format("2006-01-02 15:04"))
				switch {
				case item.priority <= 3:
					color.Red(line)
				case item.priority <= 6:
					color.Yellow(line)
				default:
					color.Green(line)
				}
			}

			var minutes int
			for difficulty, count := range counts {
				minutes += review.EstimateStudyMinutes(count, difficulty)
			}
			fmt.Printf("\n%d items due, about %d minutes of study.\n", len(items), minutes)
			return nil
		},
	}

	cmd.Flags().Int64Var(&learnerID, "learner", 0, "learner ID")
	cmd.Flags().DurationVar(&window, "window", 24*time.Hour, "include items due within this window")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum items to show")
	_ = cmd.MarkFlagRequired("learner")
	return cmd
}

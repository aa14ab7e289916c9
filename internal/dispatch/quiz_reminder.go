package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/t-okubo/revplan/internal/cadence"
	"github.com/t-okubo/revplan/internal/notify"
	"github.com/t-okubo/revplan/internal/scheduler"
)

//go:generate mockgen -source=quiz_reminder.go -destination=../mocks/dispatch/mock_quiz_selector.go -package=mock_dispatch

// Quiz is an upcoming quiz a learner signed up for.
type Quiz struct {
	ID        int64
	LearnerID int64
	Title     string
	StartsAt  time.Time
}

// QuizSelector returns quizzes starting inside a window. Selectors are
// read-only; defined here so the task does not depend on the quiz
// service's package.
type QuizSelector interface {
	UpcomingQuizzes(ctx context.Context, from, until time.Time) ([]Quiz, error)
}

// QuizReminderConfig tunes the quiz reminder task. Window is how far
// ahead quiz starts are announced; it is configuration, not a constant.
type QuizReminderConfig struct {
	Cadence cadence.Cadence
	Window  time.Duration
}

// QuizReminderTask notifies learners of quizzes starting soon.
type QuizReminderTask struct {
	config   QuizReminderConfig
	quizzes  QuizSelector
	notifier notify.Notifier
	now      func() time.Time
}

// NewQuizReminderTask creates the task.
func NewQuizReminderTask(config QuizReminderConfig, quizzes QuizSelector, notifier notify.Notifier) *QuizReminderTask {
	if config.Window <= 0 {
		config.Window = 24 * time.Hour
	}
	return &QuizReminderTask{
		config:   config,
		quizzes:  quizzes,
		notifier: notifier,
		now:      time.Now,
	}
}

// Name implements scheduler.Task.
func (t *QuizReminderTask) Name() string { return "quiz_reminder" }

// Cadence implements scheduler.Task.
func (t *QuizReminderTask) Cadence() cadence.Cadence { return t.config.Cadence }

// Run implements scheduler.Task.
func (t *QuizReminderTask) Run(ctx context.Context) (scheduler.BatchResult, error) {
	now := t.now()
	quizzes, err := t.quizzes.UpcomingQuizzes(ctx, now, now.Add(t.config.Window))
	if err != nil {
		return scheduler.BatchResult{}, fmt.Errorf("quizzes.UpcomingQuizzes() > %w", err)
	}

	candidates := make([]scheduler.Candidate[Quiz], 0, len(quizzes))
	for _, quiz := range quizzes {
		candidates = append(candidates, scheduler.Candidate[Quiz]{
			ID:    fmt.Sprintf("quiz:%d", quiz.ID),
			Value: quiz,
		})
	}

	return scheduler.AttemptAll(ctx, candidates, func(ctx context.Context, quiz Quiz) error {
		if err := t.notifier.Send(ctx, notify.Notification{
			LearnerID: quiz.LearnerID,
			Title:     "Quiz coming up",
			Body:      fmt.Sprintf("%q starts at %s.", quiz.Title, quiz.StartsAt.Format("Jan 2 15:04")),
		}); err != nil {
			return fmt.Errorf("notifier.Send() > %w", err)
		}
		return nil
	}), nil
}

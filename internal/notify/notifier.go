// Package notify delivers reminder notifications to learners through a
// push gateway.
package notify

import "context"

//go:generate mockgen -source=notifier.go -destination=../mocks/notify/mock_notifier.go -package=mock_notify

// Notification is one reminder message for a learner's device.
type Notification struct {
	LearnerID int64
	Title     string
	Body      string
}

// Notifier sends a notification. Failures are reported as errors, never by
// crashing; callers count and log them per item.
type Notifier interface {
	Send(ctx context.Context, notification Notification) error
}

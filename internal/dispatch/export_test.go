package dispatch

import "time"

// SetNow overrides the task clock in tests.
func (t *QuizReminderTask) SetNow(now func() time.Time) { t.now = now }

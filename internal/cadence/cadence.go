// Package cadence defines when recurring tasks fire: either on a fixed
// period or on a calendar (cron) schedule.
package cadence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidCadence is returned when a cadence expression cannot be
// parsed. Cadence validity is checked when a task is registered, never
// during a running firing.
var ErrInvalidCadence = errors.New("invalid cadence expression")

// cronParser accepts standard 5-field cron expressions (minute to
// day-of-week).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Cadence determines the next firing time of a recurring task.
type Cadence interface {
	// Next returns the first firing time strictly after the given time.
	Next(after time.Time) time.Time

	// String returns the expression the cadence was built from.
	String() string
}

// Fixed fires on a constant period.
type Fixed struct {
	Period time.Duration
}

// NewFixed creates a fixed-period cadence. The period must be positive.
func NewFixed(period time.Duration) (Fixed, error) {
	if period <= 0 {
		return Fixed{}, fmt.Errorf("%w: period must be positive, got %s", ErrInvalidCadence, period)
	}
	return Fixed{Period: period}, nil
}

// Next implements Cadence.
func (f Fixed) Next(after time.Time) time.Time {
	return after.Add(f.Period)
}

// String implements Cadence.
func (f Fixed) String() string {
	return "@every " + f.Period.String()
}

// Calendar fires on a 5-field cron expression.
type Calendar struct {
	Expression string
	schedule   cron.Schedule
}

// NewCalendar parses a 5-field cron expression into a calendar cadence.
func NewCalendar(expression string) (Calendar, error) {
	schedule, err := cronParser.Parse(expression)
	if err != nil {
		return Calendar{}, fmt.Errorf("%w: %q: %v", ErrInvalidCadence, expression, err)
	}
	return Calendar{Expression: expression, schedule: schedule}, nil
}

// Next implements Cadence.
func (c Calendar) Next(after time.Time) time.Time {
	return c.schedule.Next(after)
}

// String implements Cadence.
func (c Calendar) String() string {
	return c.Expression
}

// Parse builds a Cadence from a configuration string. Fixed periods are
// written as a plain duration ("15m") or with the "@every " prefix the
// cron ecosystem uses ("@every 15m"); anything else is treated as a cron
// expression.
func Parse(s string) (Cadence, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidCadence)
	}

	durationExpr := s
	if rest, ok := strings.CutPrefix(s, "@every "); ok {
		durationExpr = strings.TrimSpace(rest)
	}
	if period, err := time.ParseDuration(durationExpr); err == nil {
		return NewFixed(period)
	}

	return NewCalendar(s)
}

package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/t-okubo/revplan/internal/cadence"
	"github.com/t-okubo/revplan/internal/scheduler"
	"github.com/t-okubo/revplan/internal/token"
)

// TokenCleanupConfig tunes the token cleanup task.
type TokenCleanupConfig struct {
	Cadence cadence.Cadence
	// Retention is how long expired tokens are kept before deletion.
	Retention time.Duration
}

// TokenCleanupTask deletes tokens that expired longer ago than the
// retention period. Cleanup is a single bulk statement, so the batch
// result reports one attempted action rather than per-row outcomes.
type TokenCleanupTask struct {
	config TokenCleanupConfig
	tokens token.Repository
	now    func() time.Time
}

// NewTokenCleanupTask creates the task.
func NewTokenCleanupTask(config TokenCleanupConfig, tokens token.Repository) *TokenCleanupTask {
	if config.Retention <= 0 {
		config.Retention = 30 * 24 * time.Hour
	}
	return &TokenCleanupTask{
		config: config,
		tokens: tokens,
		now:    time.Now,
	}
}

// Name implements scheduler.Task.
func (t *TokenCleanupTask) Name() string { return "token_cleanup" }

// Cadence implements scheduler.Task.
func (t *TokenCleanupTask) Cadence() cadence.Cadence { return t.config.Cadence }

// Run implements scheduler.Task.
func (t *TokenCleanupTask) Run(ctx context.Context) (scheduler.BatchResult, error) {
	cutoff := t.now().Add(-t.config.Retention)
	deleted, err := t.tokens.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return scheduler.BatchResult{}, fmt.Errorf("tokens.DeleteExpiredBefore() > %w", err)
	}

	return scheduler.BatchResult{
		Attempted: int(deleted),
		Succeeded: int(deleted),
	}, nil
}

package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/t-okubo/revplan/internal/cadence"
	"github.com/t-okubo/revplan/internal/scheduler"
	"github.com/t-okubo/revplan/internal/token"
)

// TokenRefreshConfig tunes the token refresh task.
type TokenRefreshConfig struct {
	Cadence cadence.Cadence
	// Window is how close to expiry a token must be to get refreshed.
	Window time.Duration
	// BatchSize chunks the refresh calls; purely a throughput control.
	BatchSize int
	// SelectLimit bounds the candidate query.
	SelectLimit int
}

// TokenRefreshTask refreshes OAuth tokens that are about to expire.
type TokenRefreshTask struct {
	config    TokenRefreshConfig
	tokens    token.Repository
	refresher token.Refresher
	now       func() time.Time
}

// NewTokenRefreshTask creates the task.
func NewTokenRefreshTask(config TokenRefreshConfig, tokens token.Repository, refresher token.Refresher) *TokenRefreshTask {
	if config.Window <= 0 {
		config.Window = time.Hour
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.SelectLimit <= 0 {
		config.SelectLimit = 1000
	}
	return &TokenRefreshTask{
		config:    config,
		tokens:    tokens,
		refresher: refresher,
		now:       time.Now,
	}
}

// Name implements scheduler.Task.
func (t *TokenRefreshTask) Name() string { return "token_refresh" }

// Cadence implements scheduler.Task.
func (t *TokenRefreshTask) Cadence() cadence.Cadence { return t.config.Cadence }

// Run implements scheduler.Task.
func (t *TokenRefreshTask) Run(ctx context.Context) (scheduler.BatchResult, error) {
	now := t.now()
	expiring, err := t.tokens.FindExpiringBefore(ctx, now.Add(t.config.Window), t.config.SelectLimit)
	if err != nil {
		return scheduler.BatchResult{}, fmt.Errorf("tokens.FindExpiringBefore() > %w", err)
	}

	candidates := make([]scheduler.Candidate[token.OAuthToken], 0, len(expiring))
	for _, expiringToken := range expiring {
		candidates = append(candidates, scheduler.Candidate[token.OAuthToken]{
			ID:    fmt.Sprintf("token:%d", expiringToken.ID),
			Value: expiringToken,
		})
	}

	var result scheduler.BatchResult
	for _, chunk := range scheduler.Chunk(candidates, t.config.BatchSize) {
		result.Merge(scheduler.AttemptAll(ctx, chunk, t.refreshOne))
	}
	return result, nil
}

func (t *TokenRefreshTask) refreshOne(ctx context.Context, staleToken token.OAuthToken) error {
	refreshed, err := t.refresher.Refresh(ctx, staleToken)
	if err != nil {
		return fmt.Errorf("refresher.Refresh() > %w", err)
	}
	if err := t.tokens.UpdateToken(ctx, &refreshed); err != nil {
		return fmt.Errorf("tokens.UpdateToken() > %w", err)
	}
	return nil
}

// Package token manages OAuth tokens for connected learner accounts:
// persistence, refresh against the provider, and expiry cleanup.
package token

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// OAuthToken is a stored access/refresh token pair for a learner account.
type OAuthToken struct {
	ID           int64     `db:"id"`
	LearnerID    int64     `db:"learner_id"`
	Provider     string    `db:"provider"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Repository defines persistence for OAuth tokens.
type Repository interface {
	FindExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]OAuthToken, error)
	UpdateToken(ctx context.Context, token *OAuthToken) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Refresher exchanges a refresh token for a new access token at the
// provider.
type Refresher interface {
	Refresh(ctx context.Context, token OAuthToken) (OAuthToken, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindExpiringBefore returns tokens expiring at or before cutoff, soonest
// first, limited to limit rows.
func (r *DBRepository) FindExpiringBefore(ctx context.Context, cutoff time.Time, limit int) ([]OAuthToken, error) {
	var tokens []OAuthToken
	if err := r.db.SelectContext(ctx, &tokens,
		"SELECT * FROM oauth_tokens WHERE expires_at <= ? ORDER BY expires_at, id LIMIT ?",
		cutoff, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(expiring oauth_tokens) > %w", err)
	}
	return tokens, nil
}

// UpdateToken persists a refreshed token.
func (r *DBRepository) UpdateToken(ctx context.Context, token *OAuthToken) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE oauth_tokens SET access_token = ?, refresh_token = ?, expires_at = ? WHERE id = ?",
		token.AccessToken, token.RefreshToken, token.ExpiresAt, token.ID); err != nil {
		return fmt.Errorf("db.ExecContext(update oauth_token) > %w", err)
	}
	return nil
}

// DeleteExpiredBefore removes tokens that expired at or before cutoff and
// returns how many were deleted.
func (r *DBRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM oauth_tokens WHERE expires_at <= ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("db.ExecContext(delete oauth_tokens) > %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("result.RowsAffected() > %w", err)
	}
	return deleted, nil
}

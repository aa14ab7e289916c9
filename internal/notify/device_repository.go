package notify

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// deviceRow mirrors one row of the device_tokens table.
type deviceRow struct {
	LearnerID int64  `db:"learner_id"`
	Token     string `db:"token"`
}

// LoadDeviceTokens fills a DeviceTokenStore from the device_tokens table.
func LoadDeviceTokens(ctx context.Context, db *sqlx.DB) (*DeviceTokenStore, error) {
	var rows []deviceRow
	if err := db.SelectContext(ctx, &rows,
		"SELECT learner_id, token FROM device_tokens"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(device_tokens) > %w", err)
	}

	store := NewDeviceTokenStore()
	for _, row := range rows {
		store.Register(row.LearnerID, row.Token)
	}
	return store, nil
}

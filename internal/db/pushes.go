package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Push delivery states.
const (
	PushQueued    = "queued"
	PushDelivered = "delivered"
	PushFailed    = "failed"
)

// Push is one notification submitted for one device.
type Push struct {
	ID          string         `db:"id" json:"id"`
	UserID      int64          `db:"user_id" json:"user_id"`
	DeviceToken string         `db:"device_token" json:"device_token"`
	Status      string         `db:"status" json:"status"`
	ApnsID      sql.NullString `db:"apns_id" json:"apns_id,omitempty"`
	UniqueID    sql.NullString `db:"unique_id" json:"unique_id,omitempty"`
	Reason      sql.NullString `db:"reason" json:"reason,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// InsertPush records a freshly queued push.
func InsertPush(ctx context.Context, id string, userID int64, deviceToken string) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO pushes (id, user_id, device_token, status)
		VALUES ($1, $2, $3, $4)
	`, id, userID, deviceToken, PushQueued)
	if err != nil {
		return fmt.Errorf("insert push: %w", err)
	}
	return nil
}

// MarkPushDelivered stores the APNs receipt for a delivered push.
func MarkPushDelivered(ctx context.Context, id, apnsID, uniqueID string) error {
	_, err := DB.ExecContext(ctx, `
		UPDATE pushes
		SET status = $2, apns_id = $3, unique_id = NULLIF($4, ''), updated_at = NOW()
		WHERE id = $1
	`, id, PushDelivered, apnsID, uniqueID)
	if err != nil {
		return fmt.Errorf("mark push delivered: %w", err)
	}
	return nil
}

// MarkPushFailed records a terminal delivery failure and its reason.
func MarkPushFailed(ctx context.Context, id, reason string) error {
	_, err := DB.ExecContext(ctx, `
		UPDATE pushes
		SET status = $2, reason = $3, updated_at = NOW()
		WHERE id = $1
	`, id, PushFailed, reason)
	if err != nil {
		return fmt.Errorf("mark push failed: %w", err)
	}
	return nil
}

// GetPush returns a push owned by an account.
func GetPush(ctx context.Context, userID int64, id string) (*Push, error) {
	var push Push
	err := DB.GetContext(ctx, &push, `
		SELECT id, user_id, device_token, status, apns_id, unique_id, reason, created_at, updated_at
		FROM pushes
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get push: %w", err)
	}
	return &push, nil
}

// GetPushesByUser lists an account's pushes, newest first.
func GetPushesByUser(ctx context.Context, userID int64, limit int) ([]Push, error) {
	if limit <= 0 {
		limit = 50
	}
	var pushes []Push
	err := DB.SelectContext(ctx, &pushes, `
		SELECT id, user_id, device_token, status, apns_id, unique_id, reason, created_at, updated_at
		FROM pushes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get pushes: %w", err)
	}
	return pushes, nil
}

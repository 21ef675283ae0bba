package db

import (
	"context"
	"fmt"
	"time"
)

// Device is a registered APNs device token owned by an operator account.
type Device struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Token       string    `db:"token" json:"token"`
	Environment string    `db:"environment" json:"environment"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UpsertDevice registers a device token, reassigning it if another account
// registered it earlier.
func UpsertDevice(ctx context.Context, userID int64, token, environment string) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO devices (user_id, token, environment, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			environment = EXCLUDED.environment,
			updated_at = NOW()
	`, userID, token, environment)
	if err != nil {
		return fmt.Errorf("upsert device: %w", err)
	}
	return nil
}

// GetDevicesByUser returns all device tokens registered by an account.
func GetDevicesByUser(ctx context.Context, userID int64) ([]Device, error) {
	var devices []Device
	err := DB.SelectContext(ctx, &devices, `
		SELECT id, user_id, token, environment, created_at, updated_at
		FROM devices
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get devices: %w", err)
	}
	return devices, nil
}

// GetDevice returns a single device token owned by an account.
func GetDevice(ctx context.Context, userID int64, token string) (*Device, error) {
	var device Device
	err := DB.GetContext(ctx, &device, `
		SELECT id, user_id, token, environment, created_at, updated_at
		FROM devices
		WHERE user_id = $1 AND token = $2
	`, userID, token)
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}
	return &device, nil
}

// DeleteDevice removes a device token owned by an account.
func DeleteDevice(ctx context.Context, userID int64, token string) error {
	_, err := DB.ExecContext(ctx, `DELETE FROM devices WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	return nil
}

// DeleteDeviceByToken removes a token regardless of owner. The worker calls
// this when APNs reports the token unregistered.
func DeleteDeviceByToken(ctx context.Context, token string) error {
	_, err := DB.ExecContext(ctx, `DELETE FROM devices WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete device by token: %w", err)
	}
	return nil
}

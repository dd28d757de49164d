package auth

import (
	"context"
	"database/sql"
	"errors"
)

// DeviceRepository persists registered kiosk devices.
type DeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a repo.
func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Upsert ensures a device record exists.
func (r *DeviceRepository) Upsert(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return errors.New("device id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (device_id)
		VALUES ($1)
		ON CONFLICT (device_id) DO NOTHING
	`, deviceID)
	return err
}

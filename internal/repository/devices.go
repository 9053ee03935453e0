package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
)

func (r *Repos) InsertDevice(ctx context.Context, d *domain.Device) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices(id, user_id, name, type, location, registered_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		d.ID, d.UserID, d.Name, d.Type, d.Location, d.RegisteredAt)
	return err
}

// DeviceByID resolves a device only within the owner's scope. A foreign
// device is indistinguishable from a missing one.
func (r *Repos) DeviceByID(ctx context.Context, userID, deviceID string) (*domain.Device, error) {
	var d domain.Device
	err := r.db.GetContext(ctx, &d,
		`SELECT id, user_id, name, type, location, registered_at FROM devices WHERE id = $1 AND user_id = $2`,
		deviceID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repos) DevicesByUser(ctx context.Context, userID string) ([]domain.Device, error) {
	var out []domain.Device
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, user_id, name, type, location, registered_at FROM devices WHERE user_id = $1 ORDER BY registered_at`,
		userID)
	return out, err
}

// AllDevices enumerates every device in the system, across all owners.
// Used by the background ingestion scheduler.
func (r *Repos) AllDevices(ctx context.Context) ([]domain.Device, error) {
	var out []domain.Device
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, user_id, name, type, location, registered_at FROM devices ORDER BY registered_at`)
	return out, err
}

// DeviceExists reports whether any user owns a device with this id. Used
// by the MQTT ingest path, which runs outside a user's session.
func (r *Repos) DeviceExists(ctx context.Context, deviceID string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM devices WHERE id = $1`, deviceID); err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteDevice removes an owned device and all of its samples in one
// transaction. The schema also cascades, but the explicit delete keeps
// the ordering visible and testable.
func (r *Repos) DeleteDevice(ctx context.Context, userID, deviceID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM samples WHERE device_id = $1`, deviceID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM devices WHERE id = $1 AND user_id = $2`, deviceID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
)

func (r *Repos) InsertSample(ctx context.Context, s *domain.Sample) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO samples(id, device_id, timestamp, power, voltage, current, energy) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.DeviceID, s.Timestamp, s.Power, s.Voltage, s.Current, s.Energy)
	return err
}

// LatestPerDevice returns the single most recent sample of each device the
// user owns. Devices without samples simply do not appear. DISTINCT ON
// rides the (device_id, timestamp DESC) index, so this stays a top-1-per-key
// lookup rather than a full scan as history grows.
func (r *Repos) LatestPerDevice(ctx context.Context, userID string) ([]domain.Sample, error) {
	var out []domain.Sample
	err := r.db.SelectContext(ctx, &out, `
		SELECT DISTINCT ON (s.device_id)
			s.id, s.device_id, s.timestamp, s.power, s.voltage, s.current, s.energy
		FROM samples s
		JOIN devices d ON d.id = s.device_id
		WHERE d.user_id = $1
		ORDER BY s.device_id, s.timestamp DESC`,
		userID)
	return out, err
}

// SamplesSince returns samples newer than cutoff for every device the user
// owns, newest first. The presentation layer depends on the descending
// order.
func (r *Repos) SamplesSince(ctx context.Context, userID string, cutoff time.Time) ([]domain.Sample, error) {
	var out []domain.Sample
	err := r.db.SelectContext(ctx, &out, `
		SELECT s.id, s.device_id, s.timestamp, s.power, s.voltage, s.current, s.energy
		FROM samples s
		JOIN devices d ON d.id = s.device_id
		WHERE d.user_id = $1 AND s.timestamp >= $2
		ORDER BY s.timestamp DESC`,
		userID, cutoff)
	return out, err
}

// DeviceSamplesSince is the single-device variant of SamplesSince. Ownership
// must be checked by the caller beforehand.
func (r *Repos) DeviceSamplesSince(ctx context.Context, deviceID string, cutoff time.Time) ([]domain.Sample, error) {
	var out []domain.Sample
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, device_id, timestamp, power, voltage, current, energy
		FROM samples
		WHERE device_id = $1 AND timestamp >= $2
		ORDER BY timestamp DESC`,
		deviceID, cutoff)
	return out, err
}

// OldestSampleIDs returns up to limit sample ids for the device, oldest
// first. Retention deletes by explicit id set so that concurrent inserts
// can never widen the delete.
func (r *Repos) OldestSampleIDs(ctx context.Context, deviceID string, limit int) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM samples WHERE device_id = $1 ORDER BY timestamp ASC, id ASC LIMIT $2`,
		deviceID, limit)
	return ids, err
}

func (r *Repos) CountSamples(ctx context.Context, deviceID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM samples WHERE device_id = $1`, deviceID)
	return n, err
}

// DeleteSamplesByID deletes exactly the given samples and reports how many
// rows went away.
func (r *Repos) DeleteSamplesByID(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM samples WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// SampleIDsBefore lists the ids of every sample of the device older than
// cutoff. The age-based prune deletes by this id set, same as the crop.
func (r *Repos) SampleIDsBefore(ctx context.Context, deviceID string, cutoff time.Time) ([]string, error) {
	var ids []string
	err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM samples WHERE device_id = $1 AND timestamp < $2`,
		deviceID, cutoff)
	return ids, err
}

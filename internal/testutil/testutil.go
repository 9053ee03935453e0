// Package testutil provides an in-memory service.Store implementation and
// request helpers shared by the package tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/repository"
)

// MemStore is a thread-safe in-memory stand-in for the Postgres repos. It
// mirrors their semantics: ownership scoping, repository.ErrNotFound for
// missing or foreign rows, newest-first history, cascade on device delete.
type MemStore struct {
	mu      sync.Mutex
	users   map[string]domain.User   // by id
	devices map[string]domain.Device // by id
	samples map[string]domain.Sample // by id

	// FailInsertFor makes InsertSample fail for the listed device ids, so
	// tests can exercise per-device failure isolation.
	FailInsertFor map[string]bool

	// InsertDelay slows InsertSample down, for overlap-guard tests.
	InsertDelay time.Duration
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:         make(map[string]domain.User),
		devices:       make(map[string]domain.Device),
		samples:       make(map[string]domain.Sample),
		FailInsertFor: make(map[string]bool),
	}
}

func (m *MemStore) InsertUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *MemStore) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MemStore) InsertDevice(_ context.Context, d *domain.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[d.ID] = *d
	return nil
}

func (m *MemStore) DeviceByID(_ context.Context, userID, deviceID string) (*domain.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.devices[deviceID]
	if !ok || d.UserID != userID {
		return nil, repository.ErrNotFound
	}
	out := d
	return &out, nil
}

func (m *MemStore) DevicesByUser(_ context.Context, userID string) ([]domain.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Device
	for _, d := range m.devices {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out, nil
}

func (m *MemStore) AllDevices(_ context.Context) ([]domain.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Device
	for _, d := range m.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) DeviceExists(_ context.Context, deviceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.devices[deviceID]
	return ok, nil
}

func (m *MemStore) DeleteDevice(_ context.Context, userID, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.devices[deviceID]
	if !ok || d.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.devices, deviceID)
	for id, s := range m.samples {
		if s.DeviceID == deviceID {
			delete(m.samples, id)
		}
	}
	return nil
}

var errInsertRefused = errors.New("insert refused")

func (m *MemStore) InsertSample(_ context.Context, s *domain.Sample) error {
	if m.InsertDelay > 0 {
		time.Sleep(m.InsertDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInsertFor[s.DeviceID] {
		return errInsertRefused
	}
	m.samples[s.ID] = *s
	return nil
}

func (m *MemStore) LatestPerDevice(_ context.Context, userID string) ([]domain.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	latest := make(map[string]domain.Sample)
	for _, s := range m.samples {
		d, ok := m.devices[s.DeviceID]
		if !ok || d.UserID != userID {
			continue
		}
		cur, seen := latest[s.DeviceID]
		if !seen || s.Timestamp.After(cur.Timestamp) {
			latest[s.DeviceID] = s
		}
	}
	var out []domain.Sample
	for _, s := range latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out, nil
}

func (m *MemStore) SamplesSince(_ context.Context, userID string, cutoff time.Time) ([]domain.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Sample
	for _, s := range m.samples {
		d, ok := m.devices[s.DeviceID]
		if !ok || d.UserID != userID {
			continue
		}
		if !s.Timestamp.Before(cutoff) {
			out = append(out, s)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemStore) DeviceSamplesSince(_ context.Context, deviceID string, cutoff time.Time) ([]domain.Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Sample
	for _, s := range m.samples {
		if s.DeviceID == deviceID && !s.Timestamp.Before(cutoff) {
			out = append(out, s)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemStore) OldestSampleIDs(_ context.Context, deviceID string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.Sample
	for _, s := range m.samples {
		if s.DeviceID == deviceID {
			all = append(all, s)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].ID < all[j].ID
		}
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	ids := make([]string, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (m *MemStore) CountSamples(_ context.Context, deviceID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.samples {
		if s.DeviceID == deviceID {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) SampleIDsBefore(_ context.Context, deviceID string, cutoff time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, s := range m.samples {
		if s.DeviceID == deviceID && s.Timestamp.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MemStore) DeleteSamplesByID(_ context.Context, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := m.samples[id]; ok {
			delete(m.samples, id)
			n++
		}
	}
	return n, nil
}

// SampleCount reports how many samples the store holds for the device,
// bypassing the Store interface for assertions.
func (m *MemStore) SampleCount(deviceID string) int {
	n, _ := m.CountSamples(context.Background(), deviceID)
	return n
}

// HasSample reports whether the sample id is still stored.
func (m *MemStore) HasSample(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.samples[id]
	return ok
}

func sortNewestFirst(samples []domain.Sample) {
	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Timestamp.Equal(samples[j].Timestamp) {
			return samples[i].ID < samples[j].ID
		}
		return samples[i].Timestamp.After(samples[j].Timestamp)
	})
}

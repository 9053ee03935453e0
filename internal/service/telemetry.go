package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/simulation"
)

const (
	defaultHistoryHours = 24

	// cropBatchSize is how many of a device's oldest samples one crop run
	// removes. Devices holding cropBatchSize or fewer samples are left
	// untouched.
	cropBatchSize = 10

	// maxParallelDevices bounds the per-device fan-out of bulk operations.
	maxParallelDevices = 8
)

// TelemetryService owns sample generation on demand, the two retention
// mechanisms and the read queries. All operations are scoped to the
// calling user's devices; a foreign device is simply not found.
//
// Bulk operations isolate per-device failures: a rejected write is logged
// and the remaining devices still run.
type TelemetryService struct {
	store  Store
	gen    *simulation.Generator
	maxAge time.Duration
}

func NewTelemetryService(store Store, gen *simulation.Generator, maxAge time.Duration) *TelemetryService {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &TelemetryService{store: store, gen: gen, maxAge: maxAge}
}

// UpdateDevice generates and persists one sample for an owned device, then
// prunes that device's samples older than the retention age. A prune
// failure is logged but does not fail the update; the sample is already
// durable.
func (s *TelemetryService) UpdateDevice(ctx context.Context, userID, deviceID string) (*domain.Sample, error) {
	device, err := s.store.DeviceByID(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}

	sample := s.gen.Sample(device, time.Now())
	if err := s.store.InsertSample(ctx, &sample); err != nil {
		return nil, err
	}

	if err := s.pruneExpired(ctx, device.ID); err != nil {
		log.Error().Err(err).Str("device_id", device.ID).Msg("age-based prune failed")
	}
	return &sample, nil
}

// pruneExpired deletes the device's samples older than the retention age,
// by explicit id set rather than a range delete.
func (s *TelemetryService) pruneExpired(ctx context.Context, deviceID string) error {
	cutoff := time.Now().Add(-s.maxAge)
	ids, err := s.store.SampleIDsBefore(ctx, deviceID, cutoff)
	if err != nil {
		return err
	}
	_, err = s.store.DeleteSamplesByID(ctx, ids)
	return err
}

// UpdateAll generates one sample for every device the user owns, in
// parallel. Failed devices are logged and skipped; the successes are
// returned regardless.
func (s *TelemetryService) UpdateAll(ctx context.Context, userID string) ([]domain.Sample, error) {
	devices, err := s.store.DevicesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sem := semaphore.NewWeighted(maxParallelDevices)
	var wg sync.WaitGroup
	var mu sync.Mutex
	out := []domain.Sample{}

	for i := range devices {
		device := devices[i]
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			sample := s.gen.Sample(&device, now)
			if err := s.store.InsertSample(ctx, &sample); err != nil {
				log.Error().Err(err).Str("device_id", device.ID).Msg("bulk update: sample write failed")
				return
			}
			mu.Lock()
			out = append(out, sample)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return out, nil
}

// CurrentSnapshot returns the most recent sample of each owned device.
// Devices without samples are omitted; owning no devices yields an empty
// result, not an error.
func (s *TelemetryService) CurrentSnapshot(ctx context.Context, userID string) ([]domain.Sample, error) {
	out, err := s.store.LatestPerDevice(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Sample{}
	}
	return out, nil
}

// History returns samples newer than hours ago, newest first. With an
// empty deviceID the window spans all of the user's devices; otherwise the
// device must be owned or the call fails with the store's not-found error.
// Hours at or below zero falls back to the 24-hour default.
func (s *TelemetryService) History(ctx context.Context, userID, deviceID string, hours int) ([]domain.Sample, error) {
	if hours <= 0 {
		hours = defaultHistoryHours
	}
	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)

	var out []domain.Sample
	var err error
	if deviceID == "" {
		out, err = s.store.SamplesSince(ctx, userID, cutoff)
	} else {
		if _, err = s.store.DeviceByID(ctx, userID, deviceID); err != nil {
			return nil, err
		}
		out, err = s.store.DeviceSamplesSince(ctx, deviceID, cutoff)
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Sample{}
	}
	return out, nil
}

// CropOldest removes the cropBatchSize oldest samples from each owned
// device holding more than cropBatchSize, and reports the total removed.
// Devices run in parallel; a failing device is logged and contributes
// nothing to the total.
func (s *TelemetryService) CropOldest(ctx context.Context, userID string) (int, error) {
	devices, err := s.store.DevicesByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	sem := semaphore.NewWeighted(maxParallelDevices)
	var wg sync.WaitGroup
	var total atomic.Int64

	for i := range devices {
		device := devices[i]
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			n, err := s.cropDevice(ctx, device.ID)
			if err != nil {
				log.Error().Err(err).Str("device_id", device.ID).Msg("crop failed")
				return
			}
			total.Add(int64(n))
		}()
	}
	wg.Wait()
	return int(total.Load()), nil
}

func (s *TelemetryService) cropDevice(ctx context.Context, deviceID string) (int, error) {
	count, err := s.store.CountSamples(ctx, deviceID)
	if err != nil {
		return 0, err
	}
	if count <= cropBatchSize {
		return 0, nil
	}
	ids, err := s.store.OldestSampleIDs(ctx, deviceID, cropBatchSize)
	if err != nil {
		return 0, err
	}
	return s.store.DeleteSamplesByID(ctx, ids)
}

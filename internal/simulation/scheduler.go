package simulation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
)

// Store is the slice of persistence the scheduler needs.
type Store interface {
	AllDevices(ctx context.Context) ([]domain.Device, error)
	InsertSample(ctx context.Context, s *domain.Sample) error
}

// maxParallelWrites bounds the per-device fan-out within one tick.
const maxParallelWrites = 8

// Stats is a snapshot of scheduler counters.
type Stats struct {
	TicksRun     int64
	TicksSkipped int64
	Written      int64
	Failed       int64
}

// Scheduler drives background ingestion: every interval it generates and
// persists one sample for every device in the system, across all owners.
// It is an owned value with an explicit Start/Stop lifecycle, never an
// ambient global timer.
type Scheduler struct {
	store    Store
	gen      *Generator
	interval time.Duration

	inProgress atomic.Bool
	stats      struct {
		ticksRun     atomic.Int64
		ticksSkipped atomic.Int64
		written      atomic.Int64
		failed       atomic.Int64
	}

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewScheduler(store Store, gen *Generator, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		store:    store,
		gen:      gen,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the first tick immediately, then ticks at the configured
// interval until Stop is called or ctx is cancelled. A tick that fails
// never breaks the schedule.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		s.tickGuarded(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.tickGuarded(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the schedule and waits for the loop to exit. An in-flight
// tick is left to finish on its own.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

// Stats returns a snapshot of the run counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		TicksRun:     s.stats.ticksRun.Load(),
		TicksSkipped: s.stats.ticksSkipped.Load(),
		Written:      s.stats.written.Load(),
		Failed:       s.stats.failed.Load(),
	}
}

// tickGuarded skips the tick when the previous one is still writing, so
// slow storage cannot pile up unbounded overlapping ticks.
func (s *Scheduler) tickGuarded(ctx context.Context) {
	if !s.inProgress.CompareAndSwap(false, true) {
		s.stats.ticksSkipped.Add(1)
		log.Warn().Msg("ingestion tick skipped: previous tick still running")
		return
	}
	go func() {
		defer s.inProgress.Store(false)
		s.RunTick(ctx)
	}()
}

// RunTick generates and persists one sample per known device. Per-device
// work runs in parallel, bounded by maxParallelWrites; one device failing
// never keeps another device's sample out of the store. The tick is done
// only when every write has resolved.
func (s *Scheduler) RunTick(ctx context.Context) (written, failed int) {
	s.stats.ticksRun.Add(1)

	devices, err := s.store.AllDevices(ctx)
	if err != nil {
		log.Error().Err(err).Msg("ingestion tick: listing devices failed")
		s.stats.failed.Add(1)
		return 0, 1
	}

	now := time.Now()
	sem := semaphore.NewWeighted(maxParallelWrites)
	var wg sync.WaitGroup
	var okCount, failCount atomic.Int64

	for i := range devices {
		device := devices[i]
		if err := sem.Acquire(ctx, 1); err != nil {
			failCount.Add(1)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			sample := s.gen.Sample(&device, now)
			if err := s.store.InsertSample(ctx, &sample); err != nil {
				failCount.Add(1)
				log.Error().Err(err).
					Str("device_id", device.ID).
					Str("device_type", device.Type).
					Msg("ingestion tick: sample write failed")
				return
			}
			okCount.Add(1)
		}()
	}
	wg.Wait()

	s.stats.written.Add(okCount.Load())
	s.stats.failed.Add(failCount.Load())

	log.Debug().
		Int64("written", okCount.Load()).
		Int64("failed", failCount.Load()).
		Time("at", now).
		Msg("ingestion tick complete")
	return int(okCount.Load()), int(failCount.Load())
}

package simulation_test

import (
	"context"
	"testing"
	"time"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/simulation"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/testutil"
)

func TestRunTickWritesOneSamplePerDevice(t *testing.T) {
	store := testutil.NewMemStore()
	devices := []domain.Device{
		testutil.SeedDevice(t, store, "alice", domain.DeviceSolar),
		testutil.SeedDevice(t, store, "alice", domain.DeviceAppliance),
		testutil.SeedDevice(t, store, "bob", domain.DeviceMeter),
	}

	sched := simulation.NewScheduler(store, simulation.NewGenerator(nil), time.Minute)
	written, failed := sched.RunTick(context.Background())

	if written != len(devices) || failed != 0 {
		t.Fatalf("RunTick = (%d, %d), want (%d, 0)", written, failed, len(devices))
	}
	// The schedule covers every device in the system, both owners included.
	for _, d := range devices {
		if got := store.SampleCount(d.ID); got != 1 {
			t.Errorf("device %s has %d samples, want 1", d.ID, got)
		}
	}
}

func TestRunTickIsolatesDeviceFailures(t *testing.T) {
	store := testutil.NewMemStore()
	bad := testutil.SeedDevice(t, store, "alice", domain.DeviceSolar)
	good := testutil.SeedDevice(t, store, "alice", domain.DeviceMeter)
	store.FailInsertFor[bad.ID] = true

	sched := simulation.NewScheduler(store, simulation.NewGenerator(nil), time.Minute)
	written, failed := sched.RunTick(context.Background())

	if written != 1 || failed != 1 {
		t.Fatalf("RunTick = (%d, %d), want (1, 1)", written, failed)
	}
	if got := store.SampleCount(good.ID); got != 1 {
		t.Errorf("healthy device has %d samples, want 1", got)
	}
	if got := store.SampleCount(bad.ID); got != 0 {
		t.Errorf("failing device has %d samples, want 0", got)
	}
}

func TestSchedulerStartRunsImmediateTickAndStops(t *testing.T) {
	store := testutil.NewMemStore()
	device := testutil.SeedDevice(t, store, "alice", domain.DeviceSolar)

	sched := simulation.NewScheduler(store, simulation.NewGenerator(nil), time.Hour)
	sched.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for store.SampleCount(device.ID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no sample written by the immediate first tick")
		}
		time.Sleep(10 * time.Millisecond)
	}
	sched.Stop()

	if got := sched.Stats().TicksRun; got < 1 {
		t.Errorf("TicksRun = %d, want >= 1", got)
	}
}

func TestSchedulerSkipsOverlappingTicks(t *testing.T) {
	store := testutil.NewMemStore()
	testutil.SeedDevice(t, store, "alice", domain.DeviceSolar)
	store.InsertDelay = 300 * time.Millisecond

	sched := simulation.NewScheduler(store, simulation.NewGenerator(nil), 20*time.Millisecond)
	sched.Start(context.Background())
	time.Sleep(200 * time.Millisecond)
	sched.Stop()

	stats := sched.Stats()
	if stats.TicksSkipped == 0 {
		t.Errorf("expected skipped ticks while a slow write was in flight, got stats %+v", stats)
	}
}

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
)

// SeedDevice registers a device for the user and returns it.
func SeedDevice(t *testing.T, m *MemStore, userID, deviceType string) domain.Device {
	t.Helper()
	d := domain.Device{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         "test " + deviceType,
		Type:         deviceType,
		RegisteredAt: time.Now(),
	}
	if err := m.InsertDevice(context.Background(), &d); err != nil {
		t.Fatalf("seed device: %v", err)
	}
	return d
}

// SeedSample stores one sample for the device at the given timestamp.
func SeedSample(t *testing.T, m *MemStore, deviceID string, ts time.Time) domain.Sample {
	t.Helper()
	s := domain.Sample{
		ID:        uuid.NewString(),
		DeviceID:  deviceID,
		Timestamp: ts,
		Power:     500,
		Voltage:   220,
		Current:   500.0 / 220,
		Energy:    250,
	}
	if err := m.InsertSample(context.Background(), &s); err != nil {
		t.Fatalf("seed sample: %v", err)
	}
	return s
}

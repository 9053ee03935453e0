package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
)

// IngestService persists telemetry arriving over MQTT from real (non
// simulated) sources. Readings referencing unknown devices are rejected.
type IngestService struct {
	store Store
}

type mqttReading struct {
	DeviceID  string    `json:"device_id"`
	Timestamp time.Time `json:"timestamp"`
	Power     float64   `json:"power"`
	Voltage   float64   `json:"voltage"`
	Current   float64   `json:"current"`
	Energy    float64   `json:"energy"`
}

func (s *IngestService) FromMQTT(ctx context.Context, payload []byte) error {
	var r mqttReading
	if err := json.Unmarshal(payload, &r); err != nil {
		return fmt.Errorf("decode reading: %w", err)
	}
	if r.DeviceID == "" {
		return fmt.Errorf("reading missing device_id")
	}

	ok, err := s.store.DeviceExists(ctx, r.DeviceID)
	if err != nil {
		return fmt.Errorf("resolve device %s: %w", r.DeviceID, err)
	}
	if !ok {
		return fmt.Errorf("unknown device %s", r.DeviceID)
	}

	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	sample := domain.Sample{
		ID:        uuid.NewString(),
		DeviceID:  r.DeviceID,
		Timestamp: r.Timestamp,
		Power:     r.Power,
		Voltage:   r.Voltage,
		Current:   r.Current,
		Energy:    r.Energy,
	}
	return s.store.InsertSample(ctx, &sample)
}

package simulation

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
)

// Per-type production/consumption envelopes, in watts. These are policy
// constants for the synthetic source, not physics.
const (
	solarBaseMin = 800
	solarBaseMax = 2800

	applianceBaseMin = 200
	applianceBaseMax = 1000

	meterBaseMin = 300
	meterBaseMax = 1500

	noiseAmplitude = 100 // power jitter, +/- watts

	solarVoltage    = 48  // +/- 1 V
	standardVoltage = 220 // +/- 5 V

	// Energy integrates the base load over a fixed half-hour window on
	// every generation path, regardless of the scheduler's configured
	// tick interval.
	samplingIntervalHours = 0.5
)

// Generator produces synthetic telemetry readings. The random source is
// injected so tests can assert the per-type envelopes; it is guarded by a
// mutex because the scheduler fans out generation across goroutines.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Sample produces one reading for the device at the given instant. Solar
// power is recorded negative (generation); everything else positive
// (consumption). Current is derived from the base load and the nominal
// voltage at generation time and stored denormalized; it is never
// recomputed on read.
func (g *Generator) Sample(device *domain.Device, now time.Time) domain.Sample {
	g.mu.Lock()
	defer g.mu.Unlock()

	var base, power, voltage, current float64
	noise := g.rng.Float64()*2*noiseAmplitude - noiseAmplitude

	switch device.Type {
	case domain.DeviceSolar:
		base = solarBaseMin + g.rng.Float64()*(solarBaseMax-solarBaseMin)
		power = -(base + noise)
		voltage = solarVoltage + (g.rng.Float64()*2 - 1)
		current = base / solarVoltage
	case domain.DeviceAppliance:
		base = applianceBaseMin + g.rng.Float64()*(applianceBaseMax-applianceBaseMin)
		power = base + noise
		voltage = standardVoltage + (g.rng.Float64()*10 - 5)
		current = base / standardVoltage
	default: // meters and anything unrecognized
		base = meterBaseMin + g.rng.Float64()*(meterBaseMax-meterBaseMin)
		power = base + noise
		voltage = standardVoltage + (g.rng.Float64()*10 - 5)
		current = base / standardVoltage
	}

	return domain.Sample{
		ID:        uuid.NewString(),
		DeviceID:  device.ID,
		Timestamp: now,
		Power:     power,
		Voltage:   voltage,
		Current:   current,
		Energy:    base * samplingIntervalHours,
	}
}

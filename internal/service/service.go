package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/repository"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/simulation"
)

// Store is the persistence surface the services run on. *repository.Repos
// implements it; tests substitute an in-memory fake.
type Store interface {
	InsertUser(ctx context.Context, u *domain.User) error
	UserByEmail(ctx context.Context, email string) (*domain.User, error)

	InsertDevice(ctx context.Context, d *domain.Device) error
	DeviceByID(ctx context.Context, userID, deviceID string) (*domain.Device, error)
	DevicesByUser(ctx context.Context, userID string) ([]domain.Device, error)
	AllDevices(ctx context.Context) ([]domain.Device, error)
	DeviceExists(ctx context.Context, deviceID string) (bool, error)
	DeleteDevice(ctx context.Context, userID, deviceID string) error

	InsertSample(ctx context.Context, s *domain.Sample) error
	LatestPerDevice(ctx context.Context, userID string) ([]domain.Sample, error)
	SamplesSince(ctx context.Context, userID string, cutoff time.Time) ([]domain.Sample, error)
	DeviceSamplesSince(ctx context.Context, deviceID string, cutoff time.Time) ([]domain.Sample, error)
	OldestSampleIDs(ctx context.Context, deviceID string, limit int) ([]string, error)
	CountSamples(ctx context.Context, deviceID string) (int, error)
	SampleIDsBefore(ctx context.Context, deviceID string, cutoff time.Time) ([]string, error)
	DeleteSamplesByID(ctx context.Context, ids []string) (int, error)
}

type Services struct {
	Store     Store
	Telemetry *TelemetryService
	Ingest    *IngestService
}

func New(db *sqlx.DB, gen *simulation.Generator, maxAge time.Duration) *Services {
	repos := repository.New(db)
	return NewWithStore(repos, gen, maxAge)
}

// NewWithStore wires the services over any Store implementation.
func NewWithStore(store Store, gen *simulation.Generator, maxAge time.Duration) *Services {
	return &Services{
		Store:     store,
		Telemetry: NewTelemetryService(store, gen, maxAge),
		Ingest:    &IngestService{store: store},
	}
}

package database

import (
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

func Connect() (*sqlx.DB, error) {
	dsn := viper.GetString("DB_DSN")
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema if it does not exist. The composite index on
// (device_id, timestamp DESC) backs both the latest-per-device snapshot and
// the windowed history scan.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS devices (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('solar', 'meter', 'appliance')),
			location TEXT NOT NULL DEFAULT '',
			registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_devices_user ON devices(user_id);

		CREATE TABLE IF NOT EXISTS samples (
			id TEXT PRIMARY KEY,
			device_id TEXT NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			power DOUBLE PRECISION NOT NULL,
			voltage DOUBLE PRECISION NOT NULL,
			current DOUBLE PRECISION NOT NULL,
			energy DOUBLE PRECISION NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_samples_device_ts ON samples(device_id, timestamp DESC);
	`)
	return err
}

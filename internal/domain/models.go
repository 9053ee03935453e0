package domain

import "time"

// Device types. The type fixes the sign and magnitude envelope of every
// sample generated for the device and never changes after registration.
const (
	DeviceSolar     = "solar"
	DeviceMeter     = "meter"
	DeviceAppliance = "appliance"
)

// ValidDeviceType reports whether t is one of the registered device types.
func ValidDeviceType(t string) bool {
	switch t {
	case DeviceSolar, DeviceMeter, DeviceAppliance:
		return true
	}
	return false
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Device struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	Name         string    `db:"name" json:"name"`
	Type         string    `db:"type" json:"type"`
	Location     string    `db:"location" json:"location,omitempty"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

// Sample is one telemetry reading. Power is signed watts; negative means
// the device is generating. Energy is watt-hours accumulated over the
// sampling interval, not cumulative. Samples are never mutated once
// written; the model is append-only plus deletion.
type Sample struct {
	ID        string    `db:"id" json:"id"`
	DeviceID  string    `db:"device_id" json:"device_id"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Power     float64   `db:"power" json:"power"`
	Voltage   float64   `db:"voltage" json:"voltage"`
	Current   float64   `db:"current" json:"current"`
	Energy    float64   `db:"energy" json:"energy"`
}

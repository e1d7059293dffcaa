// internal/domain/gps/reading.go
package gps

import "time"

// RawPayload is the untyped body posted by a tracking device or gateway.
// Providers normalize it into a Reading.
type RawPayload map[string]interface{}

// Reading is a location update in the canonical field set.
type Reading struct {
	DeviceID  string    `json:"device_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     *float64  `json:"speed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// VehicleLocationEvent is published when a linked vehicle's position moves.
type VehicleLocationEvent struct {
	VehicleID string    `json:"vehicle_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     *float64  `json:"speed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

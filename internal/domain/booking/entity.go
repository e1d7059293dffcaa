// internal/domain/booking/entity.go
package booking

import "time"

// Status is the booking lifecycle state (persisted as a string).
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsActive reports whether the booking currently holds its resources.
func (s Status) IsActive() bool {
	return s == StatusConfirmed || s == StatusOngoing
}

// Source tags where a booking originated.
type Source string

const (
	SourceDirect  Source = "direct"
	SourceWebhook Source = "webhook"
	SourcePhone   Source = "phone"
	SourceWalkIn  Source = "walk_in"
)

// Booking represents a vehicle rental booking
type Booking struct {
	ID              string    `json:"id" db:"id"`
	CustomerName    string    `json:"customer_name" db:"customer_name"`
	CustomerPhone   string    `json:"customer_phone" db:"customer_phone"`
	Source          Source    `json:"source" db:"source"`
	VehicleType     string    `json:"vehicle_type" db:"vehicle_type"`
	PickupAt        time.Time `json:"pickup_at" db:"pickup_at"`
	DurationHours   int       `json:"duration_hours" db:"duration_hours"`
	PickupLocation  string    `json:"pickup_location" db:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location" db:"dropoff_location"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	Status          Status    `json:"status" db:"status"`
	VehicleID       *string   `json:"vehicle_id,omitempty" db:"vehicle_id"`
	DriverID        *string   `json:"driver_id,omitempty" db:"driver_id"`

	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

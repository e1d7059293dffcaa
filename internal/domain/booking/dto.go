// internal/domain/booking/dto.go
package booking

import "time"

// CreateBookingRequest is accepted both from the direct API and the
// external booking webhook; the webhook handler only forces the source tag.
type CreateBookingRequest struct {
	CustomerName    string    `json:"customer_name" binding:"required"`
	CustomerPhone   string    `json:"customer_phone" binding:"required"`
	Source          Source    `json:"source,omitempty"`
	VehicleType     string    `json:"vehicle_type" binding:"required"`
	PickupAt        time.Time `json:"pickup_at" binding:"required"`
	DurationHours   int       `json:"duration_hours" binding:"required,min=1"`
	PickupLocation  string    `json:"pickup_location" binding:"required"`
	DropoffLocation string    `json:"dropoff_location" binding:"required"`
	Notes           *string   `json:"notes,omitempty"`
}

// AssignRequest binds a vehicle (and optionally a driver) to a booking.
type AssignRequest struct {
	VehicleID string  `json:"vehicle_id" binding:"required"`
	DriverID  *string `json:"driver_id,omitempty"`
}

// ListFilters for the booking index
type ListFilters struct {
	Status   *Status `form:"status"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

// ChangedEvent is the payload emitted on every committed transition.
type ChangedEvent struct {
	BookingID string   `json:"booking_id"`
	From      Status   `json:"from"`
	To        Status   `json:"to"`
	Booking   *Booking `json:"booking"`
}

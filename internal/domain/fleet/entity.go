// internal/domain/fleet/entity.go
package fleet

import "time"

// ResourceKind identifies a reservable fleet resource.
type ResourceKind string

const (
	KindVehicle ResourceKind = "vehicle"
	KindDriver  ResourceKind = "driver"
)

// VehicleStatus is the reservation state owned by the resource registry.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleAssigned    VehicleStatus = "assigned"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleRetired     VehicleStatus = "retired"
)

type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverAssigned  DriverStatus = "assigned"
	DriverOffDuty   DriverStatus = "off_duty"
)

// Position is a vehicle's last known location, updated by GPS ingestion.
type Position struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Speed      *float64  `json:"speed,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Vehicle represents a rentable vehicle in the fleet
type Vehicle struct {
	ID           string        `json:"id" db:"id"`
	Type         string        `json:"type" db:"type"`
	Brand        string        `json:"brand" db:"brand"`
	Model        string        `json:"model" db:"model"`
	PlateNumber  string        `json:"plate_number" db:"plate_number"`
	Capacity     int           `json:"capacity" db:"capacity"`
	Status       VehicleStatus `json:"status" db:"status"`
	StatusReason *string       `json:"status_reason,omitempty" db:"status_reason"`
	GpsDeviceID  *string       `json:"gps_device_id,omitempty" db:"gps_device_id"`
	LastPosition *Position     `json:"last_position,omitempty" db:"last_position"`
	Odometer     int64         `json:"odometer" db:"odometer"`
	Images       []string      `json:"images" db:"images"` // TEXT[]
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// Driver represents an operator who can be assigned to a booking
type Driver struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Phone     string       `json:"phone" db:"phone"`
	Role      string       `json:"role" db:"role"`
	Status    DriverStatus `json:"status" db:"status"`
	Notes     *string      `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// internal/domain/fleet/dto.go
package fleet

// CreateVehicleRequest for registering a new vehicle
type CreateVehicleRequest struct {
	Type        string   `json:"type" binding:"required"`
	Brand       string   `json:"brand" binding:"required"`
	Model       string   `json:"model" binding:"required"`
	PlateNumber string   `json:"plate_number" binding:"required"`
	Capacity    int      `json:"capacity" binding:"required,min=1"`
	GpsDeviceID *string  `json:"gps_device_id,omitempty"`
	Odometer    int64    `json:"odometer" binding:"omitempty,min=0"`
	Images      []string `json:"images,omitempty"`
}

// UpdateVehicleStatusRequest for administrative status overrides
type UpdateVehicleStatusRequest struct {
	Status VehicleStatus `json:"status" binding:"required,oneof=available maintenance retired"`
	Reason string        `json:"reason,omitempty"`
}

// LinkDeviceRequest associates a GPS tracker with a vehicle
type LinkDeviceRequest struct {
	GpsDeviceID string `json:"gps_device_id" binding:"required"`
}

// CreateDriverRequest for registering a new driver
type CreateDriverRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone" binding:"required"`
	Role  string  `json:"role,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// UpdateDriverStatusRequest for off-duty/available toggles
type UpdateDriverStatusRequest struct {
	Status DriverStatus `json:"status" binding:"required,oneof=available off_duty"`
}

// VehicleListFilters for listing vehicles
type VehicleListFilters struct {
	Status *VehicleStatus `form:"status"`
	Type   *string        `form:"type"`
}

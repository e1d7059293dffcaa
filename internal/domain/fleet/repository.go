// internal/domain/fleet/repository.go
package fleet

import (
	"context"
	"time"
)

type VehicleRepository interface {
	Create(ctx context.Context, v *Vehicle) error
	FindByID(ctx context.Context, id string) (*Vehicle, error)
	FindByDeviceID(ctx context.Context, deviceID string) (*Vehicle, error)
	List(ctx context.Context, filters *VehicleListFilters) ([]Vehicle, error)
	LinkDevice(ctx context.Context, id, deviceID string) error
	UpdatePosition(ctx context.Context, id string, p *Position) error
	ExistsByPlateNumber(ctx context.Context, plate string) (bool, error)

	// UpdateStatusIf transitions status only when the current value matches
	// from. Returns ErrNotFound for an unknown id and ErrConflict when the
	// precondition does not hold.
	UpdateStatusIf(ctx context.Context, id string, from, to VehicleStatus, reason string) error
	// ForceStatus applies an administrative override regardless of the
	// current status.
	ForceStatus(ctx context.Context, id string, to VehicleStatus, reason string) error
	Status(ctx context.Context, id string) (VehicleStatus, error)

	// Last write wins on arrival order; the ingestion pipeline compares
	// timestamps before calling UpdatePosition.
	LastPositionAt(ctx context.Context, id string) (*time.Time, error)
}

type DriverRepository interface {
	Create(ctx context.Context, d *Driver) error
	FindByID(ctx context.Context, id string) (*Driver, error)
	List(ctx context.Context) ([]Driver, error)

	UpdateStatusIf(ctx context.Context, id string, from, to DriverStatus) error
	ForceStatus(ctx context.Context, id string, to DriverStatus) error
	Status(ctx context.Context, id string) (DriverStatus, error)
}

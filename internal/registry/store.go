// internal/registry/store.go
package registry

import (
	"context"

	"fleetops-service/internal/domain/fleet"
	xerrors "fleetops-service/internal/pkg/errors"
)

// repoStore adapts the vehicle and driver repositories into the generic
// StatusStore the registry works against.
type repoStore struct {
	vehicles fleet.VehicleRepository
	drivers  fleet.DriverRepository
}

func NewStore(vehicles fleet.VehicleRepository, drivers fleet.DriverRepository) StatusStore {
	return &repoStore{vehicles: vehicles, drivers: drivers}
}

func (s *repoStore) Status(ctx context.Context, kind fleet.ResourceKind, id string) (string, error) {
	switch kind {
	case fleet.KindVehicle:
		st, err := s.vehicles.Status(ctx, id)
		return string(st), err
	case fleet.KindDriver:
		st, err := s.drivers.Status(ctx, id)
		return string(st), err
	}
	return "", xerrors.Wrap(xerrors.ErrInvalidInput, "unknown resource kind "+string(kind))
}

func (s *repoStore) UpdateStatusIf(ctx context.Context, kind fleet.ResourceKind, id, from, to string) error {
	switch kind {
	case fleet.KindVehicle:
		return s.vehicles.UpdateStatusIf(ctx, id, fleet.VehicleStatus(from), fleet.VehicleStatus(to), "")
	case fleet.KindDriver:
		return s.drivers.UpdateStatusIf(ctx, id, fleet.DriverStatus(from), fleet.DriverStatus(to))
	}
	return xerrors.Wrap(xerrors.ErrInvalidInput, "unknown resource kind "+string(kind))
}

func (s *repoStore) ForceStatus(ctx context.Context, kind fleet.ResourceKind, id, to, reason string) error {
	switch kind {
	case fleet.KindVehicle:
		return s.vehicles.ForceStatus(ctx, id, fleet.VehicleStatus(to), reason)
	case fleet.KindDriver:
		return s.drivers.ForceStatus(ctx, id, fleet.DriverStatus(to))
	}
	return xerrors.Wrap(xerrors.ErrInvalidInput, "unknown resource kind "+string(kind))
}

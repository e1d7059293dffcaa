// internal/service/fleet/service.go
package fleet

import (
	"context"
	"fmt"
	"time"

	"fleetops-service/internal/domain/fleet"
	xerrors "fleetops-service/internal/pkg/errors"
	"fleetops-service/internal/pkg/ids"
	"fleetops-service/internal/registry"

	"go.uber.org/zap"
)

// PositionReader serves cached last-known positions; nil results fall
// back to the repository.
type PositionReader interface {
	GetPosition(ctx context.Context, vehicleID string) (*fleet.Position, error)
}

// Service manages the vehicle and driver roster. Status changes go through
// the resource registry, which is the only writer of reservation state.
type Service struct {
	vehicles  fleet.VehicleRepository
	drivers   fleet.DriverRepository
	registry  *registry.Registry
	positions PositionReader
	logger    *zap.Logger
}

func NewService(vehicles fleet.VehicleRepository, drivers fleet.DriverRepository, reg *registry.Registry, positions PositionReader, logger *zap.Logger) *Service {
	return &Service{
		vehicles:  vehicles,
		drivers:   drivers,
		registry:  reg,
		positions: positions,
		logger:    logger,
	}
}

// CreateVehicle registers a new vehicle as AVAILABLE.
func (s *Service) CreateVehicle(ctx context.Context, req *fleet.CreateVehicleRequest) (*fleet.Vehicle, error) {
	exists, err := s.vehicles.ExistsByPlateNumber(ctx, req.PlateNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check plate number: %w", err)
	}
	if exists {
		return nil, xerrors.Wrap(xerrors.ErrConflict, "plate number "+req.PlateNumber+" already registered")
	}

	now := time.Now()
	v := &fleet.Vehicle{
		ID:          ids.New(),
		Type:        req.Type,
		Brand:       req.Brand,
		Model:       req.Model,
		PlateNumber: req.PlateNumber,
		Capacity:    req.Capacity,
		Status:      fleet.VehicleAvailable,
		GpsDeviceID: req.GpsDeviceID,
		Odometer:    req.Odometer,
		Images:      req.Images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("vehicle registered",
		zap.String("vehicle_id", v.ID),
		zap.String("plate_number", v.PlateNumber),
	)
	return v, nil
}

func (s *Service) GetVehicle(ctx context.Context, id string) (*fleet.Vehicle, error) {
	return s.vehicles.FindByID(ctx, id)
}

func (s *Service) ListVehicles(ctx context.Context, filters *fleet.VehicleListFilters) ([]fleet.Vehicle, error) {
	return s.vehicles.List(ctx, filters)
}

// LinkDevice associates a GPS tracker with a vehicle.
func (s *Service) LinkDevice(ctx context.Context, id, deviceID string) (*fleet.Vehicle, error) {
	if err := s.vehicles.LinkDevice(ctx, id, deviceID); err != nil {
		return nil, err
	}
	return s.vehicles.FindByID(ctx, id)
}

// SetVehicleStatus applies an administrative status override. Bringing a
// vehicle back to AVAILABLE clears a prior override; MAINTENANCE/RETIRED
// force the vehicle out of rotation without cancelling bookings that hold
// it; cancelling those is a separate staff action.
func (s *Service) SetVehicleStatus(ctx context.Context, id string, status fleet.VehicleStatus, reason string) error {
	if status == fleet.VehicleAvailable {
		return s.registry.MakeAvailable(ctx, fleet.KindVehicle, id)
	}
	return s.registry.MarkUnavailable(ctx, fleet.KindVehicle, id, string(status), reason)
}

// VehiclePosition returns the last known position, preferring the cache.
func (s *Service) VehiclePosition(ctx context.Context, id string) (*fleet.Position, error) {
	if s.positions != nil {
		if p, err := s.positions.GetPosition(ctx, id); err == nil && p != nil {
			return p, nil
		}
	}

	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.LastPosition == nil {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "no position recorded for vehicle "+id)
	}
	return v.LastPosition, nil
}

// CreateDriver registers a new driver as AVAILABLE.
func (s *Service) CreateDriver(ctx context.Context, req *fleet.CreateDriverRequest) (*fleet.Driver, error) {
	role := req.Role
	if role == "" {
		role = "driver"
	}

	now := time.Now()
	d := &fleet.Driver{
		ID:        ids.New(),
		Name:      req.Name,
		Phone:     req.Phone,
		Role:      role,
		Status:    fleet.DriverAvailable,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.drivers.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	s.logger.Info("driver registered", zap.String("driver_id", d.ID))
	return d, nil
}

func (s *Service) GetDriver(ctx context.Context, id string) (*fleet.Driver, error) {
	return s.drivers.FindByID(ctx, id)
}

func (s *Service) ListDrivers(ctx context.Context) ([]fleet.Driver, error) {
	return s.drivers.List(ctx)
}

// SetDriverStatus toggles between AVAILABLE and OFF_DUTY.
func (s *Service) SetDriverStatus(ctx context.Context, id string, status fleet.DriverStatus) error {
	if status == fleet.DriverAvailable {
		return s.registry.MakeAvailable(ctx, fleet.KindDriver, id)
	}
	return s.registry.MarkUnavailable(ctx, fleet.KindDriver, id, string(status), "")
}

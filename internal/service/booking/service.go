// internal/service/booking/service.go
package booking

import (
	"context"
	"fmt"
	"time"

	"fleetops-service/internal/domain/booking"
	"fleetops-service/internal/domain/event"
	"fleetops-service/internal/domain/fleet"
	"fleetops-service/internal/domain/notification"
	xerrors "fleetops-service/internal/pkg/errors"
	"fleetops-service/internal/pkg/ids"
	"fleetops-service/internal/pkg/kmutex"
	"fleetops-service/internal/registry"

	"go.uber.org/zap"
)

// Broadcaster is the publish channel for real-time events.
type Broadcaster interface {
	Publish(t event.Type, payload interface{})
}

// Ledger records dashboard-visible notifications for booking milestones.
type Ledger interface {
	Record(ctx context.Context, title, message string, typ notification.NotificationType) (*notification.Notification, error)
}

// Service owns the booking lifecycle. All mutating operations for one
// booking id serialize on a per-booking lock, so per-booking events reach
// the broadcaster in commit order.
type Service struct {
	repo        booking.Repository
	registry    *registry.Registry
	broadcaster Broadcaster
	ledger      Ledger
	logger      *zap.Logger
	locks       *kmutex.KeyedMutex
}

func NewService(repo booking.Repository, reg *registry.Registry, broadcaster Broadcaster, ledger Ledger, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		registry:    reg,
		broadcaster: broadcaster,
		ledger:      ledger,
		logger:      logger,
		locks:       kmutex.New(),
	}
}

// Create registers a new booking in PENDING. No resource is reserved yet.
func (s *Service) Create(ctx context.Context, req *booking.CreateBookingRequest) (*booking.Booking, error) {
	if req.DurationHours < 1 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "duration must be at least one hour")
	}

	source := req.Source
	if source == "" {
		source = booking.SourceDirect
	}

	now := time.Now()
	b := &booking.Booking{
		ID:              ids.New(),
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Source:          source,
		VehicleType:     req.VehicleType,
		PickupAt:        req.PickupAt,
		DurationHours:   req.DurationHours,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		Notes:           req.Notes,
		Status:          booking.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("source", string(b.Source)),
	)

	s.emit(b, "", booking.StatusPending)
	s.notify(ctx, "New booking", fmt.Sprintf("Booking for %s (%s) created via %s", b.CustomerName, b.VehicleType, b.Source), notification.TypeInfo)
	return b, nil
}

// Assign reserves a vehicle (and optionally a driver) for a PENDING
// booking. Reassignment releases previously held resources first; when the
// new reservation fails the previous assignment is not restored: the
// booking ends with no assignment and the error is surfaced.
func (s *Service) Assign(ctx context.Context, id, vehicleID string, driverID *string) (*booking.Booking, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != booking.StatusPending {
		return nil, xerrors.Wrap(xerrors.ErrInvalidState, fmt.Sprintf("cannot assign booking in status %s", b.Status))
	}

	// Release any previous assignment before reserving the new one.
	if err := s.releaseResources(ctx, b); err != nil {
		return nil, err
	}
	b.VehicleID = nil
	b.DriverID = nil

	if err := s.registry.TryReserve(ctx, fleet.KindVehicle, vehicleID); err != nil {
		s.persistQuietly(ctx, b)
		return nil, xerrors.Wrap(err, "vehicle "+vehicleID)
	}
	if driverID != nil {
		if err := s.registry.TryReserve(ctx, fleet.KindDriver, *driverID); err != nil {
			// Atomicity: no partial reservation may outlive the call.
			if relErr := s.registry.Release(ctx, fleet.KindVehicle, vehicleID); relErr != nil {
				s.logger.Error("failed to roll back vehicle reservation",
					zap.String("vehicle_id", vehicleID), zap.Error(relErr))
			}
			s.persistQuietly(ctx, b)
			return nil, xerrors.Wrap(err, "driver "+*driverID)
		}
	}

	b.VehicleID = &vehicleID
	b.DriverID = driverID
	b.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to persist assignment: %w", err)
	}

	s.logger.Info("booking assigned",
		zap.String("booking_id", b.ID),
		zap.String("vehicle_id", vehicleID),
	)

	s.emit(b, booking.StatusPending, booking.StatusPending)
	return b, nil
}

// Confirm moves PENDING -> CONFIRMED. A vehicle must already be assigned.
func (s *Service) Confirm(ctx context.Context, id string) (*booking.Booking, error) {
	return s.transitionOp(ctx, id, booking.StatusConfirmed, func(b *booking.Booking) error {
		if b.VehicleID == nil {
			return xerrors.Wrap(xerrors.ErrInvalidState, "cannot confirm a booking without an assigned vehicle")
		}
		return nil
	}, nil)
}

// Start moves CONFIRMED -> ONGOING.
func (s *Service) Start(ctx context.Context, id string) (*booking.Booking, error) {
	return s.transitionOp(ctx, id, booking.StatusOngoing, nil, nil)
}

// Complete moves ONGOING -> COMPLETED and releases the held resources.
func (s *Service) Complete(ctx context.Context, id string) (*booking.Booking, error) {
	return s.transitionOp(ctx, id, booking.StatusCompleted, nil, func(b *booking.Booking) error {
		return s.releaseResources(ctx, b)
	})
}

// Cancel moves PENDING or CONFIRMED -> CANCELLED and releases anything held.
func (s *Service) Cancel(ctx context.Context, id string) (*booking.Booking, error) {
	return s.transitionOp(ctx, id, booking.StatusCancelled, nil, func(b *booking.Booking) error {
		return s.releaseResources(ctx, b)
	})
}

// Get returns a booking by id.
func (s *Service) Get(ctx context.Context, id string) (*booking.Booking, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns bookings with optional status filter and paging.
func (s *Service) List(ctx context.Context, filters *booking.ListFilters) ([]booking.Booking, int64, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	return s.repo.List(ctx, filters)
}

// Purge hard-deletes a terminal booking. Administrative use only.
func (s *Service) Purge(ctx context.Context, id string) error {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !b.Status.IsTerminal() {
		return xerrors.Wrap(xerrors.ErrInvalidState, "only completed or cancelled bookings can be purged")
	}
	return s.repo.Delete(ctx, id)
}

// transitionOp runs a guarded status transition under the booking lock.
// guard runs before the transition check fails the call; sideEffect runs
// after the transition is validated but before the store write.
func (s *Service) transitionOp(ctx context.Context, id string, to booking.Status, guard, sideEffect func(*booking.Booking) error) (*booking.Booking, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := b.Status
	if !canTransition(from, to) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidState, fmt.Sprintf("%s -> %s", from, to))
	}
	if guard != nil {
		if err := guard(b); err != nil {
			return nil, err
		}
	}
	if sideEffect != nil {
		if err := sideEffect(b); err != nil {
			return nil, err
		}
	}

	applyTransition(b, to, time.Now())

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to persist transition: %w", err)
	}

	s.logger.Info("booking transitioned",
		zap.String("booking_id", b.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	s.emit(b, from, to)
	s.notifyTransition(ctx, b, to)
	return b, nil
}

func (s *Service) releaseResources(ctx context.Context, b *booking.Booking) error {
	if b.VehicleID != nil {
		if err := s.registry.Release(ctx, fleet.KindVehicle, *b.VehicleID); err != nil {
			return err
		}
	}
	if b.DriverID != nil {
		if err := s.registry.Release(ctx, fleet.KindDriver, *b.DriverID); err != nil {
			return err
		}
	}
	return nil
}

// persistQuietly saves a cleared assignment after a failed reserve; the
// reservation error is the one the caller needs to see.
func (s *Service) persistQuietly(ctx context.Context, b *booking.Booking) {
	b.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, b); err != nil {
		s.logger.Error("failed to persist cleared assignment",
			zap.String("booking_id", b.ID), zap.Error(err))
	}
}

func (s *Service) emit(b *booking.Booking, from, to booking.Status) {
	if s.broadcaster == nil {
		return
	}
	snapshot := *b
	s.broadcaster.Publish(event.TypeBookingChanged, &booking.ChangedEvent{
		BookingID: b.ID,
		From:      from,
		To:        to,
		Booking:   &snapshot,
	})
}

func (s *Service) notify(ctx context.Context, title, message string, typ notification.NotificationType) {
	if s.ledger == nil {
		return
	}
	if _, err := s.ledger.Record(ctx, title, message, typ); err != nil {
		s.logger.Error("failed to record notification", zap.Error(err))
	}
}

func (s *Service) notifyTransition(ctx context.Context, b *booking.Booking, to booking.Status) {
	switch to {
	case booking.StatusConfirmed:
		s.notify(ctx, "Booking confirmed", fmt.Sprintf("Booking %s for %s confirmed", b.ID, b.CustomerName), notification.TypeInfo)
	case booking.StatusCompleted:
		s.notify(ctx, "Booking completed", fmt.Sprintf("Booking %s completed", b.ID), notification.TypeInfo)
	case booking.StatusCancelled:
		s.notify(ctx, "Booking cancelled", fmt.Sprintf("Booking %s for %s cancelled", b.ID, b.CustomerName), notification.TypeWarning)
	}
}

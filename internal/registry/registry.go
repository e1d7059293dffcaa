// internal/registry/registry.go
package registry

import (
	"context"

	"fleetops-service/internal/domain/fleet"
	xerrors "fleetops-service/internal/pkg/errors"
	"fleetops-service/internal/pkg/kmutex"

	"go.uber.org/zap"
)

// Generic resource status values shared by vehicles and drivers. The
// store adapter translates them to the kind-specific enums.
const (
	StatusAvailable   = "available"
	StatusAssigned    = "assigned"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
	StatusOffDuty     = "off_duty"
)

// StatusStore is the conditional-update storage collaborator. UpdateStatusIf
// must be atomic: it either observes from and writes to, or fails with
// ErrConflict (status mismatch) / ErrNotFound (unknown id).
type StatusStore interface {
	Status(ctx context.Context, kind fleet.ResourceKind, id string) (string, error)
	UpdateStatusIf(ctx context.Context, kind fleet.ResourceKind, id, from, to string) error
	ForceStatus(ctx context.Context, kind fleet.ResourceKind, id, to, reason string) error
}

// Registry owns vehicle and driver reservation state. All reserve/release
// calls for one resource id serialize on a per-resource lock; nothing else
// in the system mutates these status fields.
type Registry struct {
	store  StatusStore
	logger *zap.Logger
	locks  *kmutex.KeyedMutex
}

func New(store StatusStore, logger *zap.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logger,
		locks:  kmutex.New(),
	}
}

func (r *Registry) lockKey(kind fleet.ResourceKind, id string) string {
	return string(kind) + "/" + id
}

// TryReserve transitions AVAILABLE -> ASSIGNED. Exactly one of two racing
// callers wins; the loser gets ErrConflict.
func (r *Registry) TryReserve(ctx context.Context, kind fleet.ResourceKind, id string) error {
	key := r.lockKey(kind, id)
	r.locks.Lock(key)
	defer r.locks.Unlock(key)

	if err := r.store.UpdateStatusIf(ctx, kind, id, StatusAvailable, StatusAssigned); err != nil {
		return err
	}

	r.logger.Info("resource reserved",
		zap.String("kind", string(kind)),
		zap.String("resource_id", id),
	)
	return nil
}

// Release transitions ASSIGNED -> AVAILABLE. It is a no-op when the
// resource is already AVAILABLE, and also when an administrative override
// moved it to MAINTENANCE/RETIRED/OFF_DUTY in the meantime: a completed
// booking must not resurrect a vehicle pulled for maintenance.
func (r *Registry) Release(ctx context.Context, kind fleet.ResourceKind, id string) error {
	key := r.lockKey(kind, id)
	r.locks.Lock(key)
	defer r.locks.Unlock(key)

	err := r.store.UpdateStatusIf(ctx, kind, id, StatusAssigned, StatusAvailable)
	if err == nil {
		r.logger.Info("resource released",
			zap.String("kind", string(kind)),
			zap.String("resource_id", id),
		)
		return nil
	}
	if xerrors.Is(err, xerrors.ErrConflict) {
		return nil
	}
	return err
}

// MarkUnavailable forces MAINTENANCE/RETIRED (vehicles) or OFF_DUTY
// (drivers) regardless of current linkage. Cancelling bookings that hold
// the resource is the caller's responsibility.
func (r *Registry) MarkUnavailable(ctx context.Context, kind fleet.ResourceKind, id, status, reason string) error {
	switch {
	case kind == fleet.KindVehicle && (status == StatusMaintenance || status == StatusRetired):
	case kind == fleet.KindDriver && status == StatusOffDuty:
	default:
		return xerrors.Wrap(xerrors.ErrInvalidInput, "status "+status+" not valid for "+string(kind))
	}

	key := r.lockKey(kind, id)
	r.locks.Lock(key)
	defer r.locks.Unlock(key)

	if err := r.store.ForceStatus(ctx, kind, id, status, reason); err != nil {
		return err
	}

	r.logger.Warn("resource marked unavailable",
		zap.String("kind", string(kind)),
		zap.String("resource_id", id),
		zap.String("status", status),
		zap.String("reason", reason),
	)
	return nil
}

// MakeAvailable clears an administrative override back to AVAILABLE.
func (r *Registry) MakeAvailable(ctx context.Context, kind fleet.ResourceKind, id string) error {
	key := r.lockKey(kind, id)
	r.locks.Lock(key)
	defer r.locks.Unlock(key)
	return r.store.ForceStatus(ctx, kind, id, StatusAvailable, "")
}

// Status returns the current reservation state.
func (r *Registry) Status(ctx context.Context, kind fleet.ResourceKind, id string) (string, error) {
	return r.store.Status(ctx, kind, id)
}

// internal/service/gps/pipeline.go
package gps

import (
	"context"
	"fmt"

	"fleetops-service/internal/domain/event"
	"fleetops-service/internal/domain/fleet"
	"fleetops-service/internal/domain/gps"
	xerrors "fleetops-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Broadcaster is the publish channel for real-time events.
type Broadcaster interface {
	Publish(t event.Type, payload interface{})
}

// PositionCache keeps the live position hot for dashboard polls. Cache
// failures never fail an ingestion.
type PositionCache interface {
	SetPosition(ctx context.Context, vehicleID string, p *fleet.Position) error
}

// Pipeline normalizes provider payloads into canonical readings and moves
// the owning vehicle's last known position. Ingestions for different
// devices are independent; same-device updates apply in arrival order,
// except that a reading older than the stored position is rejected.
type Pipeline struct {
	providers   map[string]Provider
	vehicles    fleet.VehicleRepository
	cache       PositionCache
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewPipeline(vehicles fleet.VehicleRepository, cache PositionCache, broadcaster Broadcaster, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		providers:   make(map[string]Provider),
		vehicles:    vehicles,
		cache:       cache,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// RegisterProvider makes a device format available under a name.
func (p *Pipeline) RegisterProvider(name string, provider Provider) {
	p.providers[name] = provider
}

// Ingest authenticates, normalizes and applies one location update.
// A reading from a device not linked to any vehicle is accepted but
// produces no update: devices may exist before being linked.
func (p *Pipeline) Ingest(ctx context.Context, providerName, apiKey string, payload gps.RawPayload) (*gps.Reading, error) {
	provider, ok := p.providers[providerName]
	if !ok {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "unknown gps provider "+providerName)
	}
	if !provider.ValidateAPIKey(apiKey) {
		return nil, xerrors.Wrap(xerrors.ErrUnauthorized, "invalid api key for provider "+providerName)
	}

	reading, err := provider.ParseLocationUpdate(payload)
	if err != nil {
		return nil, err
	}
	if reading.Latitude < -90 || reading.Latitude > 90 {
		return nil, xerrors.Wrap(xerrors.ErrOutOfRange, fmt.Sprintf("latitude %v", reading.Latitude))
	}
	if reading.Longitude < -180 || reading.Longitude > 180 {
		return nil, xerrors.Wrap(xerrors.ErrOutOfRange, fmt.Sprintf("longitude %v", reading.Longitude))
	}

	vehicle, err := p.vehicles.FindByDeviceID(ctx, reading.DeviceID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			p.logger.Debug("reading from unlinked device", zap.String("device_id", reading.DeviceID))
			return reading, nil
		}
		return nil, err
	}

	if vehicle.LastPosition != nil && reading.Timestamp.Before(vehicle.LastPosition.RecordedAt) {
		return nil, xerrors.Wrap(xerrors.ErrStaleReading,
			fmt.Sprintf("device %s: reading at %s precedes stored position at %s",
				reading.DeviceID, reading.Timestamp.Format("15:04:05.000"), vehicle.LastPosition.RecordedAt.Format("15:04:05.000")))
	}

	pos := &fleet.Position{
		Latitude:   reading.Latitude,
		Longitude:  reading.Longitude,
		Speed:      reading.Speed,
		RecordedAt: reading.Timestamp,
	}
	if err := p.vehicles.UpdatePosition(ctx, vehicle.ID, pos); err != nil {
		return nil, fmt.Errorf("failed to update vehicle position: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.SetPosition(ctx, vehicle.ID, pos); err != nil {
			p.logger.Warn("failed to cache position",
				zap.String("vehicle_id", vehicle.ID), zap.Error(err))
		}
	}

	if p.broadcaster != nil {
		p.broadcaster.Publish(event.TypeVehicleLocation, &gps.VehicleLocationEvent{
			VehicleID: vehicle.ID,
			Latitude:  reading.Latitude,
			Longitude: reading.Longitude,
			Speed:     reading.Speed,
			Timestamp: reading.Timestamp,
		})
	}

	return reading, nil
}

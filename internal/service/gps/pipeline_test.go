package gps

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fleetops-service/internal/domain/event"
	"fleetops-service/internal/domain/fleet"
	"fleetops-service/internal/domain/gps"
	xerrors "fleetops-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type fakeVehicleRepo struct {
	mu        sync.Mutex
	byDevice  map[string]*fleet.Vehicle
	positions map[string]*fleet.Position
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{
		byDevice:  make(map[string]*fleet.Vehicle),
		positions: make(map[string]*fleet.Position),
	}
}

func (r *fakeVehicleRepo) link(vehicleID, deviceID string, last *fleet.Position) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byDevice[deviceID] = &fleet.Vehicle{
		ID:           vehicleID,
		GpsDeviceID:  &deviceID,
		LastPosition: last,
	}
}

func (r *fakeVehicleRepo) FindByDeviceID(_ context.Context, deviceID string) (*fleet.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byDevice[deviceID]
	if !ok {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "no vehicle for device "+deviceID)
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVehicleRepo) UpdatePosition(_ context.Context, id string, p *fleet.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions[id] = p
	for _, v := range r.byDevice {
		if v.ID == id {
			v.LastPosition = p
		}
	}
	return nil
}

func (r *fakeVehicleRepo) position(id string) *fleet.Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.positions[id]
}

// Unused by the pipeline.
func (r *fakeVehicleRepo) Create(context.Context, *fleet.Vehicle) error { return nil }
func (r *fakeVehicleRepo) FindByID(_ context.Context, id string) (*fleet.Vehicle, error) {
	return nil, xerrors.Wrap(xerrors.ErrNotFound, "vehicle "+id)
}
func (r *fakeVehicleRepo) List(context.Context, *fleet.VehicleListFilters) ([]fleet.Vehicle, error) {
	return nil, nil
}
func (r *fakeVehicleRepo) LinkDevice(context.Context, string, string) error { return nil }
func (r *fakeVehicleRepo) ExistsByPlateNumber(context.Context, string) (bool, error) {
	return false, nil
}
func (r *fakeVehicleRepo) UpdateStatusIf(context.Context, string, fleet.VehicleStatus, fleet.VehicleStatus, string) error {
	return nil
}
func (r *fakeVehicleRepo) ForceStatus(context.Context, string, fleet.VehicleStatus, string) error {
	return nil
}
func (r *fakeVehicleRepo) Status(context.Context, string) (fleet.VehicleStatus, error) {
	return fleet.VehicleAvailable, nil
}
func (r *fakeVehicleRepo) LastPositionAt(context.Context, string) (*time.Time, error) {
	return nil, nil
}

type fakeCache struct {
	mu   sync.Mutex
	sets map[string]*fleet.Position
	fail bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{sets: make(map[string]*fleet.Position)}
}

func (c *fakeCache) SetPosition(_ context.Context, vehicleID string, p *fleet.Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("redis down")
	}
	c.sets[vehicleID] = p
	return nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []event.Type
}

func (f *fakeBroadcaster) Publish(t event.Type, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, t)
}

func (f *fakeBroadcaster) count(t event.Type) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e == t {
			n++
		}
	}
	return n
}

func newTestPipeline() (*Pipeline, *fakeVehicleRepo, *fakeCache, *fakeBroadcaster) {
	repo := newFakeVehicleRepo()
	cache := newFakeCache()
	bc := &fakeBroadcaster{}
	p := NewPipeline(repo, cache, bc, zap.NewNop())
	p.RegisterProvider("generic", NewGenericProvider("secret"))
	return p, repo, cache, bc
}

func TestIngestUpdatesLinkedVehicle(t *testing.T) {
	p, repo, cache, bc := newTestPipeline()
	repo.link("v1", "dev-1", nil)

	payload := gps.RawPayload{"deviceId": "dev-1", "lat": "-1.2921", "lng": "36.8219", "speed": 12.0}
	r, err := p.Ingest(context.Background(), "generic", "secret", payload)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if r.DeviceID != "dev-1" {
		t.Fatalf("expected device dev-1, got %s", r.DeviceID)
	}

	pos := repo.position("v1")
	if pos == nil || pos.Latitude != -1.2921 || pos.Longitude != 36.8219 {
		t.Fatalf("expected position stored, got %+v", pos)
	}
	if cache.sets["v1"] == nil {
		t.Fatalf("expected position cached")
	}
	if bc.count(event.TypeVehicleLocation) != 1 {
		t.Fatalf("expected one vehicle.location event")
	}
}

func TestIngestBoundsInclusive(t *testing.T) {
	p, repo, _, _ := newTestPipeline()
	repo.link("v1", "dev-1", nil)

	corners := [][2]float64{{-90, -180}, {90, 180}, {-90, 180}, {90, -180}}
	for _, c := range corners {
		payload := gps.RawPayload{"deviceId": "dev-1", "lat": c[0], "lng": c[1]}
		if _, err := p.Ingest(context.Background(), "generic", "secret", payload); err != nil {
			t.Errorf("expected (%v, %v) accepted: %v", c[0], c[1], err)
		}
	}

	outOfRange := [][2]float64{{-91, 0}, {91, 0}, {0, -181}, {0, 181}}
	for _, c := range outOfRange {
		payload := gps.RawPayload{"deviceId": "dev-1", "lat": c[0], "lng": c[1]}
		if _, err := p.Ingest(context.Background(), "generic", "secret", payload); !xerrors.Is(err, xerrors.ErrOutOfRange) {
			t.Errorf("expected (%v, %v) rejected, got %v", c[0], c[1], err)
		}
	}
}

func TestIngestUnknownProvider(t *testing.T) {
	p, _, _, _ := newTestPipeline()
	_, err := p.Ingest(context.Background(), "teltonika", "secret", gps.RawPayload{})
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIngestBadAPIKey(t *testing.T) {
	p, repo, _, bc := newTestPipeline()
	repo.link("v1", "dev-1", nil)

	payload := gps.RawPayload{"deviceId": "dev-1", "lat": 1.0, "lng": 2.0}
	if _, err := p.Ingest(context.Background(), "generic", "wrong", payload); !xerrors.Is(err, xerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if repo.position("v1") != nil {
		t.Fatalf("rejected reading must not move the vehicle")
	}
	if bc.count(event.TypeVehicleLocation) != 0 {
		t.Fatalf("rejected reading must not be broadcast")
	}
}

func TestIngestUnlinkedDevice(t *testing.T) {
	p, _, cache, bc := newTestPipeline()

	payload := gps.RawPayload{"deviceId": "orphan", "lat": 1.0, "lng": 2.0}
	r, err := p.Ingest(context.Background(), "generic", "secret", payload)
	if err != nil {
		t.Fatalf("expected unlinked device accepted, got %v", err)
	}
	if r == nil || r.DeviceID != "orphan" {
		t.Fatalf("expected reading returned")
	}
	if len(cache.sets) != 0 {
		t.Fatalf("unlinked reading must not be cached")
	}
	if bc.count(event.TypeVehicleLocation) != 0 {
		t.Fatalf("unlinked reading must not be broadcast")
	}
}

func TestIngestRejectsStaleReading(t *testing.T) {
	p, repo, _, _ := newTestPipeline()
	stored := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	repo.link("v1", "dev-1", &fleet.Position{Latitude: 1, Longitude: 2, RecordedAt: stored})

	payload := gps.RawPayload{
		"deviceId":  "dev-1",
		"lat":       1.1,
		"lng":       2.1,
		"timestamp": stored.Add(-time.Minute).Format(time.RFC3339),
	}
	if _, err := p.Ingest(context.Background(), "generic", "secret", payload); !xerrors.Is(err, xerrors.ErrStaleReading) {
		t.Fatalf("expected stale reading rejected, got %v", err)
	}

	// The stored position is untouched.
	v, _ := repo.FindByDeviceID(context.Background(), "dev-1")
	if !v.LastPosition.RecordedAt.Equal(stored) {
		t.Fatalf("stale reading must not move the position")
	}
}

func TestIngestSurvivesCacheFailure(t *testing.T) {
	p, repo, cache, bc := newTestPipeline()
	repo.link("v1", "dev-1", nil)
	cache.fail = true

	payload := gps.RawPayload{"deviceId": "dev-1", "lat": 1.0, "lng": 2.0}
	if _, err := p.Ingest(context.Background(), "generic", "secret", payload); err != nil {
		t.Fatalf("cache failure must not fail ingestion: %v", err)
	}
	if repo.position("v1") == nil {
		t.Fatalf("expected position stored despite cache failure")
	}
	if bc.count(event.TypeVehicleLocation) != 1 {
		t.Fatalf("expected event published despite cache failure")
	}
}

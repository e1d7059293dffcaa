package registry

import (
	"context"
	"sync"
	"testing"

	"fleetops-service/internal/domain/fleet"
	xerrors "fleetops-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type memStore struct {
	mu     sync.Mutex
	status map[string]string
}

func newMemStore() *memStore {
	return &memStore{status: make(map[string]string)}
}

func (s *memStore) key(kind fleet.ResourceKind, id string) string {
	return string(kind) + "/" + id
}

func (s *memStore) Status(_ context.Context, kind fleet.ResourceKind, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[s.key(kind, id)]
	if !ok {
		return "", xerrors.Wrap(xerrors.ErrNotFound, "resource "+id)
	}
	return st, nil
}

func (s *memStore) UpdateStatusIf(_ context.Context, kind fleet.ResourceKind, id, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.status[s.key(kind, id)]
	if !ok {
		return xerrors.Wrap(xerrors.ErrNotFound, "resource "+id)
	}
	if st != from {
		return xerrors.Wrap(xerrors.ErrConflict, "resource "+id+" is "+st)
	}
	s.status[s.key(kind, id)] = to
	return nil
}

func (s *memStore) ForceStatus(_ context.Context, kind fleet.ResourceKind, id, to, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.status[s.key(kind, id)]; !ok {
		return xerrors.Wrap(xerrors.ErrNotFound, "resource "+id)
	}
	s.status[s.key(kind, id)] = to
	return nil
}

func newTestRegistry() (*Registry, *memStore) {
	store := newMemStore()
	return New(store, zap.NewNop()), store
}

func TestTryReserveSingleWinner(t *testing.T) {
	reg, store := newTestRegistry()
	store.status["vehicle/v1"] = StatusAvailable

	const racers = 16
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- reg.TryReserve(context.Background(), fleet.KindVehicle, "v1")
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case xerrors.Is(err, xerrors.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if conflicts != racers-1 {
		t.Fatalf("expected %d conflicts, got %d", racers-1, conflicts)
	}
}

func TestTryReserveUnknownResource(t *testing.T) {
	reg, _ := newTestRegistry()
	err := reg.TryReserve(context.Background(), fleet.KindVehicle, "ghost")
	if !xerrors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	reg, store := newTestRegistry()
	store.status["vehicle/v1"] = StatusAvailable

	if err := reg.TryReserve(context.Background(), fleet.KindVehicle, "v1"); err != nil {
		t.Fatalf("TryReserve: %v", err)
	}
	if err := reg.Release(context.Background(), fleet.KindVehicle, "v1"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	// Second release observes AVAILABLE and must still succeed.
	if err := reg.Release(context.Background(), fleet.KindVehicle, "v1"); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	st, err := reg.Status(context.Background(), fleet.KindVehicle, "v1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st != StatusAvailable {
		t.Fatalf("expected available, got %s", st)
	}
}

func TestReleaseDoesNotClearOverride(t *testing.T) {
	reg, store := newTestRegistry()
	store.status["vehicle/v1"] = StatusAvailable

	if err := reg.TryReserve(context.Background(), fleet.KindVehicle, "v1"); err != nil {
		t.Fatalf("TryReserve: %v", err)
	}
	if err := reg.MarkUnavailable(context.Background(), fleet.KindVehicle, "v1", StatusMaintenance, "engine"); err != nil {
		t.Fatalf("MarkUnavailable: %v", err)
	}

	// A completed booking releasing its vehicle must not undo maintenance.
	if err := reg.Release(context.Background(), fleet.KindVehicle, "v1"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	st, _ := reg.Status(context.Background(), fleet.KindVehicle, "v1")
	if st != StatusMaintenance {
		t.Fatalf("expected maintenance to survive release, got %s", st)
	}
}

func TestMarkUnavailableValidatesKind(t *testing.T) {
	reg, store := newTestRegistry()
	store.status["driver/d1"] = StatusAvailable
	store.status["vehicle/v1"] = StatusAvailable

	if err := reg.MarkUnavailable(context.Background(), fleet.KindDriver, "d1", StatusMaintenance, ""); !xerrors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for driver maintenance, got %v", err)
	}
	if err := reg.MarkUnavailable(context.Background(), fleet.KindVehicle, "v1", StatusOffDuty, ""); !xerrors.Is(err, xerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for vehicle off_duty, got %v", err)
	}
	if err := reg.MarkUnavailable(context.Background(), fleet.KindDriver, "d1", StatusOffDuty, ""); err != nil {
		t.Fatalf("expected driver off_duty to succeed, got %v", err)
	}
}

func TestMakeAvailableClearsOverride(t *testing.T) {
	reg, store := newTestRegistry()
	store.status["vehicle/v1"] = StatusMaintenance

	if err := reg.MakeAvailable(context.Background(), fleet.KindVehicle, "v1"); err != nil {
		t.Fatalf("MakeAvailable: %v", err)
	}
	st, _ := reg.Status(context.Background(), fleet.KindVehicle, "v1")
	if st != StatusAvailable {
		t.Fatalf("expected available, got %s", st)
	}
}

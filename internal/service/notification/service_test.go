package notification

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"fleetops-service/internal/domain/event"
	"fleetops-service/internal/domain/notification"
	xerrors "fleetops-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type fakeRepo struct {
	mu        sync.Mutex
	items     []*notification.Notification
	lastLimit int
}

func (r *fakeRepo) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	// Newest first, matching the postgres ordering.
	r.items = append([]*notification.Notification{&cp}, r.items...)
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, xerrors.Wrap(xerrors.ErrNotFound, "notification "+id)
}

func (r *fakeRepo) List(_ context.Context, limit int) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	out := make([]notification.Notification, 0, len(r.items))
	for i, n := range r.items {
		if i >= limit {
			break
		}
		out = append(out, *n)
	}
	return out, nil
}

func (r *fakeRepo) MarkRead(_ context.Context, id string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.items {
		if n.ID == id && !n.IsRead {
			n.IsRead = true
			n.ReadAt = sql.NullTime{Time: at, Valid: true}
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeRepo) MarkAllRead(_ context.Context, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, n := range r.items {
		if !n.IsRead {
			n.IsRead = true
			n.ReadAt = sql.NullTime{Time: at, Valid: true}
			updated++
		}
	}
	return updated, nil
}

func (r *fakeRepo) UnreadCount(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.items {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
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

func newTestService() (*Service, *fakeRepo, *fakeBroadcaster) {
	repo := &fakeRepo{}
	bc := &fakeBroadcaster{}
	return NewService(repo, bc, zap.NewNop()), repo, bc
}

func TestRecordPersistsAndPublishes(t *testing.T) {
	svc, repo, bc := newTestService()

	n, err := svc.Record(context.Background(), "Booking confirmed", "Booking abc confirmed", "")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if n.ID == "" {
		t.Fatalf("expected id assigned")
	}
	if n.Type != notification.TypeInfo {
		t.Fatalf("expected type defaulted to info, got %s", n.Type)
	}
	if n.IsRead {
		t.Fatalf("new notification must be unread")
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected one stored notification")
	}
	if bc.count(event.TypeNotificationCreated) != 1 {
		t.Fatalf("expected notification.created published")
	}
}

func TestMarkRead(t *testing.T) {
	svc, _, bc := newTestService()
	ctx := context.Background()

	if _, err := svc.MarkRead(ctx, "missing"); !xerrors.Is(err, xerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	n, _ := svc.Record(ctx, "t", "m", notification.TypeWarning)
	got, err := svc.MarkRead(ctx, n.ID)
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if !got.IsRead || !got.ReadAt.Valid {
		t.Fatalf("expected read with timestamp, got %+v", got)
	}
	if bc.count(event.TypeNotificationCount) != 1 {
		t.Fatalf("expected unread count pushed once")
	}

	// Marking again is a no-op and pushes no second count.
	if _, err := svc.MarkRead(ctx, n.ID); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	if bc.count(event.TypeNotificationCount) != 1 {
		t.Fatalf("expected no extra count push for already-read")
	}
}

func TestMarkAllRead(t *testing.T) {
	svc, _, bc := newTestService()
	ctx := context.Background()

	svc.Record(ctx, "a", "1", notification.TypeInfo)
	svc.Record(ctx, "b", "2", notification.TypeInfo)
	n, _ := svc.Record(ctx, "c", "3", notification.TypeAlert)
	svc.MarkRead(ctx, n.ID)

	updated, err := svc.MarkAllRead(ctx)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected 2 updated, got %d", updated)
	}

	count, _ := svc.UnreadCount(ctx)
	if count != 0 {
		t.Fatalf("expected zero unread, got %d", count)
	}
	if bc.count(event.TypeNotificationCount) != 2 {
		t.Fatalf("expected count pushed for mark-read and mark-all")
	}

	// Running again updates nothing.
	updated, _ = svc.MarkAllRead(ctx)
	if updated != 0 {
		t.Fatalf("expected 0 updated on second pass, got %d", updated)
	}
}

func TestListClampsLimit(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	svc.Record(ctx, "a", "1", notification.TypeInfo)

	if _, err := svc.List(ctx, 0); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastLimit != defaultListLimit {
		t.Fatalf("expected limit clamped to %d, got %d", defaultListLimit, repo.lastLimit)
	}

	if _, err := svc.List(ctx, 500); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastLimit != defaultListLimit {
		t.Fatalf("expected oversized limit clamped, got %d", repo.lastLimit)
	}

	if _, err := svc.List(ctx, 5); err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastLimit != 5 {
		t.Fatalf("expected in-range limit kept, got %d", repo.lastLimit)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	svc.Record(ctx, "first", "1", notification.TypeInfo)
	svc.Record(ctx, "second", "2", notification.TypeInfo)

	items, err := svc.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].Title != "second" {
		t.Fatalf("expected newest first, got %+v", items)
	}
}

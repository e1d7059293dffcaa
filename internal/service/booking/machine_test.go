package booking

import (
	"testing"
	"time"

	"fleetops-service/internal/domain/booking"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to booking.Status }{
		{booking.StatusPending, booking.StatusConfirmed},
		{booking.StatusPending, booking.StatusCancelled},
		{booking.StatusConfirmed, booking.StatusOngoing},
		{booking.StatusConfirmed, booking.StatusCancelled},
		{booking.StatusOngoing, booking.StatusCompleted},
	}
	for _, tc := range allowed {
		if !canTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to booking.Status }{
		{booking.StatusPending, booking.StatusOngoing},
		{booking.StatusPending, booking.StatusCompleted},
		{booking.StatusConfirmed, booking.StatusCompleted},
		{booking.StatusOngoing, booking.StatusCancelled},
		{booking.StatusCompleted, booking.StatusPending},
		{booking.StatusCompleted, booking.StatusCancelled},
		{booking.StatusCancelled, booking.StatusPending},
		{booking.StatusCancelled, booking.StatusConfirmed},
	}
	for _, tc := range denied {
		if canTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s denied", tc.from, tc.to)
		}
	}
}

func TestApplyTransitionTimestamps(t *testing.T) {
	b := &booking.Booking{Status: booking.StatusPending}
	now := time.Now()

	applyTransition(b, booking.StatusConfirmed, now)
	if b.Status != booking.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", b.Status)
	}
	if b.ConfirmedAt == nil || !b.ConfirmedAt.Equal(now) {
		t.Fatalf("expected confirmed_at set to %v, got %v", now, b.ConfirmedAt)
	}

	later := now.Add(time.Hour)
	applyTransition(b, booking.StatusOngoing, later)
	if b.StartedAt == nil || !b.StartedAt.Equal(later) {
		t.Fatalf("expected started_at set")
	}
	if !b.ConfirmedAt.Equal(now) {
		t.Fatalf("confirmed_at must not be overwritten")
	}

	applyTransition(b, booking.StatusCompleted, later)
	if b.CompletedAt == nil {
		t.Fatalf("expected completed_at set")
	}
	if b.CancelledAt != nil {
		t.Fatalf("cancelled_at must stay empty on completion")
	}
}

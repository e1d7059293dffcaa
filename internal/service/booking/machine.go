// internal/service/booking/machine.go
package booking

import (
	"time"

	"fleetops-service/internal/domain/booking"
)

// allowedTransitions is the booking lifecycle as a directed graph. No
// transition skips a state except the direct PENDING -> CANCELLED path;
// COMPLETED and CANCELLED are terminal.
var allowedTransitions = map[booking.Status][]booking.Status{
	booking.StatusPending:   {booking.StatusConfirmed, booking.StatusCancelled},
	booking.StatusConfirmed: {booking.StatusOngoing, booking.StatusCancelled},
	booking.StatusOngoing:   {booking.StatusCompleted},
	booking.StatusCompleted: {},
	booking.StatusCancelled: {},
}

// canTransition reports whether from -> to is an allowed lifecycle step.
func canTransition(from, to booking.Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// applyTransition sets the new status and maintains the milestone
// timestamps. Callers must have validated the step with canTransition.
func applyTransition(b *booking.Booking, to booking.Status, now time.Time) {
	b.Status = to
	b.UpdatedAt = now

	switch to {
	case booking.StatusConfirmed:
		if b.ConfirmedAt == nil {
			t := now
			b.ConfirmedAt = &t
		}
	case booking.StatusOngoing:
		if b.StartedAt == nil {
			t := now
			b.StartedAt = &t
		}
	case booking.StatusCompleted:
		if b.CompletedAt == nil {
			t := now
			b.CompletedAt = &t
		}
	case booking.StatusCancelled:
		if b.CancelledAt == nil {
			t := now
			b.CancelledAt = &t
		}
	}
}

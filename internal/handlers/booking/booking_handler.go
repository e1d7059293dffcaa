// internal/handlers/booking/booking_handler.go
package booking

import (
	"context"
	"net/http"

	"fleetops-service/internal/domain/booking"
	"fleetops-service/internal/pkg/response"
	service "fleetops-service/internal/service/booking"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService *service.Service
}

func NewBookingHandler(bookingService *service.Service) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBooking creates a new booking in PENDING
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid booking request", err)
		return
	}

	b, err := h.bookingService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create booking", err)
		return
	}

	response.Success(c, http.StatusCreated, "booking created", b)
}

// CreateFromWebhook accepts third-party form submissions; identical to a
// direct creation call, with source forced to webhook.
func (h *BookingHandler) CreateFromWebhook(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid booking payload", err)
		return
	}
	req.Source = booking.SourceWebhook

	b, err := h.bookingService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create booking", err)
		return
	}

	response.Success(c, http.StatusCreated, "booking created", b)
}

// ListBookings retrieves bookings with an optional status filter
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var filters booking.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	bookings, total, err := h.bookingService.List(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list bookings", err)
		return
	}

	response.Success(c, http.StatusOK, "bookings retrieved", gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     filters.Page,
	})
}

// GetBooking retrieves a single booking by ID
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.bookingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "failed to get booking", err)
		return
	}

	response.Success(c, http.StatusOK, "booking retrieved", b)
}

// AssignBooking reserves a vehicle (and optionally a driver)
func (h *BookingHandler) AssignBooking(c *gin.Context) {
	var req booking.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid assign request", err)
		return
	}

	b, err := h.bookingService.Assign(c.Request.Context(), c.Param("id"), req.VehicleID, req.DriverID)
	if err != nil {
		response.FromError(c, "failed to assign booking", err)
		return
	}

	response.Success(c, http.StatusOK, "booking assigned", b)
}

// ConfirmBooking moves PENDING -> CONFIRMED
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.transition(c, h.bookingService.Confirm, "booking confirmed")
}

// StartBooking moves CONFIRMED -> ONGOING
func (h *BookingHandler) StartBooking(c *gin.Context) {
	h.transition(c, h.bookingService.Start, "booking started")
}

// CompleteBooking moves ONGOING -> COMPLETED
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.transition(c, h.bookingService.Complete, "booking completed")
}

// CancelBooking moves PENDING/CONFIRMED -> CANCELLED
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.transition(c, h.bookingService.Cancel, "booking cancelled")
}

// PurgeBooking hard-deletes a terminal booking
func (h *BookingHandler) PurgeBooking(c *gin.Context) {
	if err := h.bookingService.Purge(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, "failed to purge booking", err)
		return
	}

	response.Success(c, http.StatusOK, "booking purged", nil)
}

func (h *BookingHandler) transition(c *gin.Context, op func(context.Context, string) (*booking.Booking, error), message string) {
	b, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "transition failed", err)
		return
	}

	response.Success(c, http.StatusOK, message, b)
}

// internal/app/router.go
package app

import (
	bookingHandler "fleetops-service/internal/handlers/booking"
	fleetHandler "fleetops-service/internal/handlers/fleet"
	gpsHandler "fleetops-service/internal/handlers/gps"
	notifyHandler "fleetops-service/internal/handlers/notification"
	wsHandler "fleetops-service/internal/handlers/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	BookingHandler *bookingHandler.BookingHandler
	FleetHandler   *fleetHandler.FleetHandler
	GpsHandler     *gpsHandler.GpsHandler
	NotifHandler   *notifyHandler.NotificationHandler
	WSHandler      *wsHandler.WebSocketHandler
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Webhooks ====================
	webhook := r.Group("/webhook")
	{
		webhook.POST("/gps/:provider", h.GpsHandler.HandleWebhook)
		webhook.POST("/bookings", h.BookingHandler.CreateFromWebhook)
	}

	// ==================== Bookings ====================
	bookings := api.Group("/bookings")
	{
		bookings.POST("", h.BookingHandler.CreateBooking)
		bookings.GET("", h.BookingHandler.ListBookings)
		bookings.GET("/:id", h.BookingHandler.GetBooking)
		bookings.DELETE("/:id", h.BookingHandler.PurgeBooking)

		// Lifecycle transitions
		bookings.POST("/:id/assign", h.BookingHandler.AssignBooking)
		bookings.POST("/:id/confirm", h.BookingHandler.ConfirmBooking)
		bookings.POST("/:id/start", h.BookingHandler.StartBooking)
		bookings.POST("/:id/complete", h.BookingHandler.CompleteBooking)
		bookings.POST("/:id/cancel", h.BookingHandler.CancelBooking)
	}

	// ==================== Vehicles ====================
	vehicles := api.Group("/vehicles")
	{
		vehicles.POST("", h.FleetHandler.CreateVehicle)
		vehicles.GET("", h.FleetHandler.ListVehicles)
		vehicles.GET("/:id", h.FleetHandler.GetVehicle)
		vehicles.GET("/:id/position", h.FleetHandler.GetVehiclePosition)
		vehicles.PUT("/:id/status", h.FleetHandler.UpdateVehicleStatus)
		vehicles.PUT("/:id/device", h.FleetHandler.LinkDevice)
	}

	// ==================== Drivers ====================
	drivers := api.Group("/drivers")
	{
		drivers.POST("", h.FleetHandler.CreateDriver)
		drivers.GET("", h.FleetHandler.ListDrivers)
		drivers.PUT("/:id/status", h.FleetHandler.UpdateDriverStatus)
	}

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.NotifHandler.GetNotifications)
		notifications.GET("/count/unread", h.NotifHandler.GetUnreadCount)
		notifications.PUT("/:id/read", h.NotifHandler.MarkAsRead)
		notifications.PUT("/read-all", h.NotifHandler.MarkAllAsRead)
	}
}

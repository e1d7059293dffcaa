// internal/handlers/fleet/fleet_handler.go
package fleet

import (
	"net/http"

	"fleetops-service/internal/domain/fleet"
	"fleetops-service/internal/pkg/response"
	service "fleetops-service/internal/service/fleet"

	"github.com/gin-gonic/gin"
)

type FleetHandler struct {
	fleetService *service.Service
}

func NewFleetHandler(fleetService *service.Service) *FleetHandler {
	return &FleetHandler{fleetService: fleetService}
}

// CreateVehicle registers a new vehicle
func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	var req fleet.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid vehicle request", err)
		return
	}

	v, err := h.fleetService.CreateVehicle(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create vehicle", err)
		return
	}

	response.Success(c, http.StatusCreated, "vehicle created", v)
}

// ListVehicles retrieves vehicles with optional filters
func (h *FleetHandler) ListVehicles(c *gin.Context) {
	var filters fleet.VehicleListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	vehicles, err := h.fleetService.ListVehicles(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list vehicles", err)
		return
	}

	response.Success(c, http.StatusOK, "vehicles retrieved", gin.H{
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

// GetVehicle retrieves a single vehicle
func (h *FleetHandler) GetVehicle(c *gin.Context) {
	v, err := h.fleetService.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "failed to get vehicle", err)
		return
	}

	response.Success(c, http.StatusOK, "vehicle retrieved", v)
}

// GetVehiclePosition returns the last known position
func (h *FleetHandler) GetVehiclePosition(c *gin.Context) {
	p, err := h.fleetService.VehiclePosition(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "failed to get position", err)
		return
	}

	response.Success(c, http.StatusOK, "position retrieved", p)
}

// UpdateVehicleStatus applies an administrative status override
func (h *FleetHandler) UpdateVehicleStatus(c *gin.Context) {
	var req fleet.UpdateVehicleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid status request", err)
		return
	}

	if err := h.fleetService.SetVehicleStatus(c.Request.Context(), c.Param("id"), req.Status, req.Reason); err != nil {
		response.FromError(c, "failed to update vehicle status", err)
		return
	}

	response.Success(c, http.StatusOK, "vehicle status updated", gin.H{
		"vehicle_id": c.Param("id"),
		"status":     req.Status,
	})
}

// LinkDevice associates a GPS tracker with a vehicle
func (h *FleetHandler) LinkDevice(c *gin.Context) {
	var req fleet.LinkDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid device request", err)
		return
	}

	v, err := h.fleetService.LinkDevice(c.Request.Context(), c.Param("id"), req.GpsDeviceID)
	if err != nil {
		response.FromError(c, "failed to link device", err)
		return
	}

	response.Success(c, http.StatusOK, "device linked", v)
}

// CreateDriver registers a new driver
func (h *FleetHandler) CreateDriver(c *gin.Context) {
	var req fleet.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid driver request", err)
		return
	}

	d, err := h.fleetService.CreateDriver(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create driver", err)
		return
	}

	response.Success(c, http.StatusCreated, "driver created", d)
}

// ListDrivers retrieves all drivers
func (h *FleetHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.fleetService.ListDrivers(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list drivers", err)
		return
	}

	response.Success(c, http.StatusOK, "drivers retrieved", gin.H{
		"drivers": drivers,
		"count":   len(drivers),
	})
}

// UpdateDriverStatus toggles a driver between available and off duty
func (h *FleetHandler) UpdateDriverStatus(c *gin.Context) {
	var req fleet.UpdateDriverStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid status request", err)
		return
	}

	if err := h.fleetService.SetDriverStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.FromError(c, "failed to update driver status", err)
		return
	}

	response.Success(c, http.StatusOK, "driver status updated", gin.H{
		"driver_id": c.Param("id"),
		"status":    req.Status,
	})
}

// internal/handlers/gps/gps_handler.go
package gps

import (
	"net/http"

	"fleetops-service/internal/domain/gps"
	"fleetops-service/internal/pkg/response"
	service "fleetops-service/internal/service/gps"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GpsHandler struct {
	pipeline *service.Pipeline
	logger   *zap.Logger
}

func NewGpsHandler(pipeline *service.Pipeline, logger *zap.Logger) *GpsHandler {
	return &GpsHandler{pipeline: pipeline, logger: logger}
}

// HandleWebhook ingests one location update from a tracking provider.
// The API key arrives in the X-Api-Key header or an api_key body field.
func (h *GpsHandler) HandleWebhook(c *gin.Context) {
	var payload gps.RawPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.ValidationError(c, "invalid payload", err)
		return
	}

	apiKey := c.GetHeader("X-Api-Key")
	if apiKey == "" {
		if v, ok := payload["api_key"].(string); ok {
			apiKey = v
		}
	}

	provider := c.Param("provider")
	reading, err := h.pipeline.Ingest(c.Request.Context(), provider, apiKey, payload)
	if err != nil {
		h.logger.Warn("gps ingestion rejected",
			zap.String("provider", provider),
			zap.Error(err),
		)
		response.FromError(c, "ingestion rejected", err)
		return
	}

	response.Success(c, http.StatusOK, "reading accepted", reading)
}

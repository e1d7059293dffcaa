// internal/handlers/websocket/websocket.go
package websocket

import (
	"net/http"

	"fleetops-service/internal/pkg/ids"
	ws "fleetops-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dashboard origins are enforced by the CORS middleware on the API;
		// the websocket endpoint accepts any origin behind it.
		return true
	},
}

type WebSocketHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// HandleConnection upgrades a dashboard connection and registers the
// session with the hub. New sessions receive all event channels until
// they narrow their subscription.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	sessionID := ids.New()
	client := ws.NewClient(h.hub, conn, sessionID)

	h.hub.Register <- client

	h.logger.Info("websocket session opened",
		zap.String("session_id", sessionID),
		zap.String("ip", c.ClientIP()),
	)

	go client.WritePump()
	go client.ReadPump()
}

// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"fleetops-service/internal/domain/event"

	"go.uber.org/zap"
)

// Hub is the process-wide fan-out point for dashboard sessions. It is the
// only shared mutable connection set in the system. Delivery is best-effort
// and at-most-once per session: there is no ack, no retry and no replay.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *event.Message

	// Handler registry for client-originated messages
	handlerRegistry *HandlerRegistry

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *event.Message, 256),
		handlerRegistry: NewHandlerRegistry(),
		logger:          logger,
	}
}

// Publish fans an event out to every session subscribed to its channel.
// Fire-and-forget: it never blocks and never surfaces delivery errors.
// With zero connected sessions it is a no-op.
func (h *Hub) Publish(t event.Type, payload interface{}) {
	msg := event.NewMessage(t, payload)
	select {
	case h.broadcast <- msg:
	default:
		// Broadcast queue full. Dropping is acceptable: live sessions are
		// best-effort, durable history lives in the notification ledger.
		h.logger.Warn("broadcast queue full, dropping event", zap.String("type", string(t)))
	}
}

// RegisterHandler registers a handler for client-originated messages.
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage dispatches a message from a client to its handler.
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *event.Message) error {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return nil // handled by the client's built-in switch
	}
	return handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("session connected",
		zap.String("session_id", client.sessionID),
		zap.Int("total", total),
	)

	client.SendMessage(event.NewMessage(event.TypeConnected, map[string]interface{}{
		"session_id": client.sessionID,
		"channels":   client.Subscriptions(),
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, exists := h.clients[client]
	if exists {
		delete(h.clients, client)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if exists {
		client.Close()
		h.logger.Info("session disconnected",
			zap.String("session_id", client.sessionID),
			zap.Int("total", total),
		)
	}
}

func (h *Hub) fanOut(msg *event.Message) {
	ch := event.ChannelFor(msg.Type)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.IsSubscribed(ch) {
			client.SendMessage(msg)
		}
	}
}

// TotalClients returns the number of connected sessions.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
	}
	h.clients = make(map[*Client]bool)
}

// internal/websocket/handler.go
package websocket

import (
	"context"

	"fleetops-service/internal/domain/event"
)

// MessageHandler interface that each module must implement
type MessageHandler interface {
	// HandleMessage processes messages for this handler's domain
	HandleMessage(ctx context.Context, client *Client, msg *event.Message) error

	// SupportedEvents returns the list of event types this handler supports
	SupportedEvents() []event.Type
}

// HandlerRegistry manages all message handlers
type HandlerRegistry struct {
	handlers map[event.Type]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[event.Type]MessageHandler),
	}
}

// Register registers a handler for its supported events
func (r *HandlerRegistry) Register(handler MessageHandler) {
	for _, eventType := range handler.SupportedEvents() {
		r.handlers[eventType] = handler
	}
}

// GetHandler returns the handler for a given event type
func (r *HandlerRegistry) GetHandler(eventType event.Type) (MessageHandler, bool) {
	handler, exists := r.handlers[eventType]
	return handler, exists
}

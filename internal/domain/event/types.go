// internal/domain/event/types.go
package event

import (
	"encoding/json"
	"time"

	"fleetops-service/internal/pkg/ids"
)

// Type represents different real-time event types
type Type string

const (
	// Connection events
	TypePing         Type = "ping"
	TypePong         Type = "pong"
	TypeConnected    Type = "connected"
	TypeDisconnected Type = "disconnected"
	TypeError        Type = "error"

	// Domain events (server -> client)
	TypeBookingChanged      Type = "booking.changed"
	TypeVehicleLocation     Type = "vehicle.location"
	TypeNotificationCreated Type = "notification.created"
	TypeNotificationCount   Type = "notification.count"
	TypeSystemAlert         Type = "system.alert"

	// Client requests (client -> server)
	TypeNotificationRead    Type = "notification:read"
	TypeNotificationReadAll Type = "notification:read_all"

	// Subscription events
	TypeSubscribe   Type = "subscribe"
	TypeUnsubscribe Type = "unsubscribe"
)

// Message is the universal wire format for websocket events.
type Message struct {
	Type      Type                   `json:"type"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id,omitempty"`
}

// Channel groups events a session can subscribe to.
type Channel string

const (
	ChannelBookings      Channel = "bookings"
	ChannelLocations     Channel = "locations"
	ChannelNotifications Channel = "notifications"
	ChannelSystem        Channel = "system"
)

// AllChannels is the default subscription set for a new session.
func AllChannels() []Channel {
	return []Channel{ChannelBookings, ChannelLocations, ChannelNotifications, ChannelSystem}
}

// ChannelFor maps an event type to the channel it is delivered on.
func ChannelFor(t Type) Channel {
	switch t {
	case TypeBookingChanged:
		return ChannelBookings
	case TypeVehicleLocation:
		return ChannelLocations
	case TypeNotificationCreated, TypeNotificationCount:
		return ChannelNotifications
	default:
		return ChannelSystem
	}
}

// SubscribeRequest sent by client to select specific channels
type SubscribeRequest struct {
	Channels []Channel `json:"channels"`
}

// UnsubscribeRequest sent by client to drop channels
type UnsubscribeRequest struct {
	Channels []Channel `json:"channels"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MarkReadRequest is the payload of a notification:read client message.
type MarkReadRequest struct {
	NotificationID string `json:"notification_id"`
}

// SystemAlertData for system-wide alerts
type SystemAlertData struct {
	Severity string `json:"severity"` // info, warning, critical
	Title    string `json:"title"`
	Message  string `json:"message"`
}

// NewMessage creates a timestamped message with a fresh id.
func NewMessage(t Type, data interface{}) *Message {
	return &Message{
		Type:      t,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ids.New(),
	}
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	return &msg, err
}

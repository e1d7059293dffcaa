// internal/websocket/client.go
package websocket

import (
	"context"
	"sync"
	"time"

	"fleetops-service/internal/domain/event"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // 64KB; dashboard messages are small
)

// Client is one live dashboard session. It carries no domain ownership,
// only a delivery target and its channel subscriptions.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string

	// Subscriptions - what channels this session is listening to
	subscriptions map[event.Channel]bool
	subMutex      sync.RWMutex

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc

	// Guards send against writes after close
	sendMu sync.Mutex
	closed bool
}

// NewClient creates a session subscribed to all channels by default.
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	subs := make(map[event.Channel]bool)
	for _, ch := range event.AllChannels() {
		subs[ch] = true
	}

	return &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, 256),
		sessionID:     sessionID,
		subscriptions: subs,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// SessionID returns the session identifier.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Subscribe to a channel
func (c *Client) Subscribe(channel event.Channel) {
	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	c.subscriptions[channel] = true
}

// Unsubscribe from a channel
func (c *Client) Unsubscribe(channel event.Channel) {
	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	delete(c.subscriptions, channel)
}

// IsSubscribed checks if the session is subscribed to a channel
func (c *Client) IsSubscribed(channel event.Channel) bool {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()
	return c.subscriptions[channel]
}

// Subscriptions returns the currently subscribed channels.
func (c *Client) Subscriptions() []event.Channel {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()
	channels := make([]event.Channel, 0, len(c.subscriptions))
	for ch := range c.subscriptions {
		channels = append(channels, ch)
	}
	return channels
}

// ReadPump handles incoming messages from the session
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			c.handleMessage(message)
		}
	}
}

// WritePump handles outgoing messages to the session
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the session
func (c *Client) handleMessage(data []byte) {
	msg, err := event.ParseMessage(data)
	if err != nil {
		c.SendError("invalid_message", "Failed to parse message", err.Error())
		return
	}

	// Try to handle with registered handlers first
	if err := c.hub.HandleClientMessage(context.Background(), c, msg); err != nil {
		c.SendError("handler_error", "Failed to process message", err.Error())
		return
	}

	// Built-in message handling
	switch msg.Type {
	case event.TypePing:
		c.SendMessage(event.NewMessage(event.TypePong, nil))

	case event.TypeSubscribe:
		var req event.SubscribeRequest
		if err := mapToStruct(msg.Data, &req); err != nil {
			c.SendError("invalid_subscribe", "Invalid subscribe request", err.Error())
			return
		}
		for _, channel := range req.Channels {
			c.Subscribe(channel)
		}
		c.SendMessage(event.NewMessage(event.TypeSubscribe, map[string]interface{}{
			"channels": req.Channels,
			"status":   "subscribed",
		}))

	case event.TypeUnsubscribe:
		var req event.UnsubscribeRequest
		if err := mapToStruct(msg.Data, &req); err != nil {
			c.SendError("invalid_unsubscribe", "Invalid unsubscribe request", err.Error())
			return
		}
		for _, channel := range req.Channels {
			c.Unsubscribe(channel)
		}
		c.SendMessage(event.NewMessage(event.TypeUnsubscribe, map[string]interface{}{
			"channels": req.Channels,
			"status":   "unsubscribed",
		}))
	}
}

// SendMessage queues a message for the session. A session that cannot keep
// up (full buffer) is dropped from the fan-out set; the publisher is never
// blocked on a slow consumer.
func (c *Client) SendMessage(msg *event.Message) {
	data, err := msg.ToJSON()
	if err != nil {
		return
	}

	c.sendMu.Lock()
	if c.closed {
		c.sendMu.Unlock()
		return
	}

	var dropped bool
	select {
	case c.send <- data:
	default:
		dropped = true
	}
	c.sendMu.Unlock()

	if dropped {
		c.Close()
		select {
		case c.hub.unregister <- c:
		default:
		}
	}
}

// SendError sends an error message to the session
func (c *Client) SendError(code, message, details string) {
	c.SendMessage(event.NewMessage(event.TypeError, event.ErrorData{
		Code:    code,
		Message: message,
		Details: details,
	}))
}

// Close gracefully closes the session.
func (c *Client) Close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	close(c.send)
}

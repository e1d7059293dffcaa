package websocket

import (
	"encoding/json"
	"testing"

	"fleetops-service/internal/domain/event"

	"go.uber.org/zap"
)

func newTestClient(h *Hub, sessionID string) *Client {
	// No live connection: these tests exercise queuing and fan-out only.
	return NewClient(h, nil, sessionID)
}

func drain(c *Client) []*event.Message {
	var out []*event.Message
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return out
			}
			var msg event.Message
			if err := json.Unmarshal(data, &msg); err == nil {
				out = append(out, &msg)
			}
		default:
			return out
		}
	}
}

func TestPublishWithoutSessions(t *testing.T) {
	h := NewHub(zap.NewNop())

	// No Run loop and no sessions: Publish must neither block nor panic.
	for i := 0; i < 300; i++ {
		h.Publish(event.TypeBookingChanged, map[string]interface{}{"i": i})
	}
	if h.TotalClients() != 0 {
		t.Fatalf("expected no clients")
	}

	h.fanOut(event.NewMessage(event.TypeBookingChanged, nil))
}

func TestRegisterClientSendsWelcome(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newTestClient(h, "s1")

	h.registerClient(c)
	if h.TotalClients() != 1 {
		t.Fatalf("expected one client, got %d", h.TotalClients())
	}

	msgs := drain(c)
	if len(msgs) != 1 || msgs[0].Type != event.TypeConnected {
		t.Fatalf("expected connected welcome, got %+v", msgs)
	}
}

func TestFanOutRespectsSubscriptions(t *testing.T) {
	h := NewHub(zap.NewNop())
	all := newTestClient(h, "all")
	noBookings := newTestClient(h, "no-bookings")
	noBookings.Unsubscribe(event.ChannelBookings)

	h.registerClient(all)
	h.registerClient(noBookings)
	drain(all)
	drain(noBookings)

	h.fanOut(event.NewMessage(event.TypeBookingChanged, nil))
	h.fanOut(event.NewMessage(event.TypeVehicleLocation, nil))

	allMsgs := drain(all)
	if len(allMsgs) != 2 {
		t.Fatalf("expected both events for full subscriber, got %d", len(allMsgs))
	}

	partialMsgs := drain(noBookings)
	if len(partialMsgs) != 1 || partialMsgs[0].Type != event.TypeVehicleLocation {
		t.Fatalf("expected only vehicle.location for partial subscriber, got %+v", partialMsgs)
	}
}

func TestSlowSessionDropped(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newTestClient(h, "slow")
	h.registerClient(c)
	drain(c)

	// Fill the session buffer to simulate a consumer that stopped reading.
	for i := 0; i < cap(c.send); i++ {
		select {
		case c.send <- []byte("{}"):
		default:
			t.Fatalf("buffer filled early at %d", i)
		}
	}

	h.fanOut(event.NewMessage(event.TypeBookingChanged, nil))

	if !c.closed {
		t.Fatalf("expected slow session closed")
	}

	// Further sends to a closed session are silent no-ops.
	c.SendMessage(event.NewMessage(event.TypeSystemAlert, nil))
}

func TestUnregisterClient(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newTestClient(h, "s1")
	h.registerClient(c)
	h.unregisterClient(c)

	if h.TotalClients() != 0 {
		t.Fatalf("expected client removed")
	}
	if !c.closed {
		t.Fatalf("expected client closed on unregister")
	}

	// Unregistering twice must not panic.
	h.unregisterClient(c)
}

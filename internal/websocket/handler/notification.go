// internal/websocket/handler/notification.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fleetops-service/internal/domain/event"
	"fleetops-service/internal/domain/notification"
	ws "fleetops-service/internal/websocket"
)

// NotificationHandler lets a dashboard session flip read state without a
// round trip through the HTTP API. It talks to the repository directly so
// the websocket package stays independent of the service layer.
type NotificationHandler struct {
	repo notification.Repository
}

func NewNotificationHandler(repo notification.Repository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// SupportedEvents returns events this handler supports
func (h *NotificationHandler) SupportedEvents() []event.Type {
	return []event.Type{
		event.TypeNotificationRead,
		event.TypeNotificationReadAll,
	}
}

// HandleMessage processes notification-related messages
func (h *NotificationHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *event.Message) error {
	switch msg.Type {
	case event.TypeNotificationRead:
		return h.handleMarkRead(ctx, client, msg)

	case event.TypeNotificationReadAll:
		return h.handleMarkAllRead(ctx, client, msg)

	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

func (h *NotificationHandler) handleMarkRead(ctx context.Context, client *ws.Client, msg *event.Message) error {
	var req event.MarkReadRequest
	if err := mapToStruct(msg.Data, &req); err != nil {
		client.SendError("invalid_request", "Invalid mark as read request", err.Error())
		return err
	}

	if _, err := h.repo.MarkRead(ctx, req.NotificationID, time.Now()); err != nil {
		client.SendError("mark_read_failed", "Failed to mark notification as read", err.Error())
		return err
	}

	count, err := h.repo.UnreadCount(ctx)
	if err != nil {
		count = 0
	}

	client.SendMessage(event.NewMessage(event.TypeNotificationRead, map[string]interface{}{
		"notification_id": req.NotificationID,
		"success":         true,
		"unread_count":    count,
	}))

	return nil
}

func (h *NotificationHandler) handleMarkAllRead(ctx context.Context, client *ws.Client, msg *event.Message) error {
	updated, err := h.repo.MarkAllRead(ctx, time.Now())
	if err != nil {
		client.SendError("mark_all_read_failed", "Failed to mark all as read", err.Error())
		return err
	}

	client.SendMessage(event.NewMessage(event.TypeNotificationReadAll, map[string]interface{}{
		"success":      true,
		"updated":      updated,
		"unread_count": 0,
	}))

	return nil
}

// Helper function to convert interface{} to struct
func mapToStruct(data interface{}, target interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, target)
}

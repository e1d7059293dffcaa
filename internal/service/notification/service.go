// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"
	"time"

	"fleetops-service/internal/domain/event"
	"fleetops-service/internal/domain/notification"
	xerrors "fleetops-service/internal/pkg/errors"
	"fleetops-service/internal/pkg/ids"

	"go.uber.org/zap"
)

const defaultListLimit = 50

// Broadcaster is the publish channel for real-time events.
type Broadcaster interface {
	Publish(t event.Type, payload interface{})
}

// Service is the durable ledger of dashboard notifications. Content is
// immutable after creation; only the read flag transitions.
type Service struct {
	repo        notification.Repository
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewService(repo notification.Repository, broadcaster Broadcaster, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Record persists a notification and pushes it to live sessions.
func (s *Service) Record(ctx context.Context, title, message string, typ notification.NotificationType) (*notification.Notification, error) {
	if typ == "" {
		typ = notification.TypeInfo
	}

	n := &notification.Notification{
		ID:        ids.New(),
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(event.TypeNotificationCreated, n)
	}

	return n, nil
}

// List returns notifications newest first, bounded by limit.
func (s *Service) List(ctx context.Context, limit int) ([]notification.Notification, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, limit)
}

// MarkRead marks one notification as read. Unknown ids fail with NotFound;
// marking an already-read notification is a no-op.
func (s *Service) MarkRead(ctx context.Context, id string) (*notification.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	if _, err := s.repo.MarkRead(ctx, id, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark as read: %w", err)
	}

	s.pushUnreadCount(ctx)
	return s.repo.FindByID(ctx, id)
}

// MarkAllRead marks every unread notification as read and returns the
// number of rows updated.
func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark all as read: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(event.TypeNotificationCount, map[string]interface{}{
			"unread_count": 0,
		})
	}
	return updated, nil
}

// UnreadCount returns the number of unread notifications.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.UnreadCount(ctx)
}

func (s *Service) pushUnreadCount(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	count, err := s.repo.UnreadCount(ctx)
	if err != nil {
		if !xerrors.Is(err, xerrors.ErrNotFound) {
			s.logger.Error("failed to get unread count", zap.Error(err))
		}
		return
	}
	s.broadcaster.Publish(event.TypeNotificationCount, map[string]interface{}{
		"unread_count": count,
	})
}

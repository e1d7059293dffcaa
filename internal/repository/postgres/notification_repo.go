// internal/repository/postgres/notification_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetops-service/internal/domain/notification"
	xerrors "fleetops-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (id, title, message, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, n.ID, n.Title, n.Message, n.Type, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*notification.Notification, error) {
	query := `
		SELECT id, title, message, type, is_read, created_at, read_at
		FROM notifications
		WHERE id = $1
	`

	var n notification.Notification
	err := r.db.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt, &n.ReadAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "notification "+id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	return &n, nil
}

func (r *NotificationRepository) List(ctx context.Context, limit int) ([]notification.Notification, error) {
	query := `
		SELECT id, title, message, type, is_read, created_at, read_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []notification.Notification{}
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string, at time.Time) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = $2
		WHERE id = $1 AND is_read = false
	`

	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, at time.Time) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = $1
		WHERE is_read = false
	`

	result, err := r.db.Exec(ctx, query, at)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all as read: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE is_read = false`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return count, nil
}

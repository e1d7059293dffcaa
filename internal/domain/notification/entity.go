// internal/domain/notification/entity.go
package notification

import (
	"context"
	"database/sql"
	"time"
)

type NotificationType string

const (
	TypeInfo    NotificationType = "info"
	TypeWarning NotificationType = "warning"
	TypeAlert   NotificationType = "alert"
	TypeSystem  NotificationType = "system"
)

type Notification struct {
	ID        string           `json:"id" db:"id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	ReadAt    sql.NullTime     `json:"read_at,omitempty" db:"read_at"`
}

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id string) (*Notification, error)
	List(ctx context.Context, limit int) ([]Notification, error)
	// MarkRead flips is_read; it reports rows affected so the service can
	// distinguish "already read" from "unknown id".
	MarkRead(ctx context.Context, id string, at time.Time) (int64, error)
	MarkAllRead(ctx context.Context, at time.Time) (int64, error)
	UnreadCount(ctx context.Context) (int, error)
}

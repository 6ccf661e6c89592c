package store

import (
	"context"

	"github.com/ybazarbay/bizhub/internal/model"
)

// NotificationFilter controls filtering and pagination for notification
// queries. Results are always ordered newest-first.
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Store is the single local notification-state store. Both the watcher
// (which upserts fetched records) and the notifications view (which
// reads and optimistically marks read) share it, so the alert path and
// the list page can never disagree about read state.
type Store interface {
	UpsertNotifications(ctx context.Context, notifications []model.Notification) error
	GetNotifications(ctx context.Context, filter NotificationFilter) ([]model.Notification, error)
	GetNotificationByID(ctx context.Context, id string) (*model.Notification, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Clear(ctx context.Context) error
	Close() error
}

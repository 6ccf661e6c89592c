package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ybazarbay/bizhub/internal/model"
)

// Notifications lists notifications for a user. When unreadOnly is
// true, only notifications not yet marked read are returned. The result
// order is whatever the gateway sends; callers that care about order
// must sort.
func (c *Client) Notifications(
	ctx context.Context,
	userID string,
	unreadOnly bool,
) ([]model.Notification, error) {
	params := url.Values{}
	params.Set("userId", userID)
	if unreadOnly {
		params.Set("unreadOnly", "true")
	}

	var payloads []notificationPayload
	err := c.Get(ctx, "/notifications?"+params.Encode(), &payloads)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	notifications := make([]model.Notification, 0, len(payloads))
	for _, p := range payloads {
		notifications = append(notifications, p.toNotification())
	}

	return notifications, nil
}

// MarkRead marks a single notification as read on the server and
// returns its updated record.
func (c *Client) MarkRead(
	ctx context.Context,
	id string,
) (*model.Notification, error) {
	var payload notificationPayload
	path := "/notifications/" + url.PathEscape(id) + "/read"
	if err := c.Put(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("marking notification %s read: %w", id, err)
	}

	n := payload.toNotification()
	return &n, nil
}

// MarkAllRead marks every notification for the authenticated user as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	if err := c.Put(ctx, "/notifications/read-all", nil, nil); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

package api

import (
	"context"
	"fmt"
	"net/url"

	"lendworks-web/internal/domain"
)

// Notifications lists the current user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]domain.Notification, error) {
	var items []domain.Notification
	if err := c.get(ctx, "/api/notifications", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/notifications/%s/read", url.PathEscape(id))
	return c.post(ctx, path, nil, nil)
}

// UnreadNotifications counts unread notifications for the nav badge.
func (c *Client) UnreadNotifications(ctx context.Context) (int, error) {
	items, err := c.Notifications(ctx)
	if err != nil {
		return 0, err
	}
	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	return unread, nil
}

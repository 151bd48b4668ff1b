package api

import (
	"context"
	"fmt"

	"github.com/nhle/hr-console/internal/model"
)

// unreadResponse is the payload of GET /leaves/notify.
type unreadResponse struct {
	Count int `json:"count"`
}

// FetchInbox returns the full notification snapshot for the session's
// scope: the admin broadcast feed for admins, the personal inbox for
// employees. Rows missing an explicit scope are stamped with the
// session's own, since the server already filtered by viewer.
func (c *Client) FetchInbox(ctx context.Context) ([]model.Notification, error) {
	path := "/leaves/inbox"
	if c.session.Role == model.RoleAdmin {
		path = "/leaves/notifications"
	}

	var items []model.Notification
	if err := c.get(ctx, path, &items); err != nil {
		return nil, fmt.Errorf("fetching inbox: %w", err)
	}

	for i := range items {
		if items[i].Scope == "" {
			items[i].Scope = c.session.Scope()
		}
	}
	return items, nil
}

// UnreadCount returns the number of unread notifications in the
// session's scope. Used for the header badge before the inbox view has
// been mounted.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp unreadResponse
	if err := c.get(ctx, "/leaves/notify", &resp); err != nil {
		return 0, fmt.Errorf("fetching unread count: %w", err)
	}
	return resp.Count, nil
}

// MarkRead flips one notification's read flag on the server. The admin
// and employee feeds use distinct endpoints.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	path := "/leaves/markUserAsRead/" + id
	if c.session.Role == model.RoleAdmin {
		path = "/leaves/notification/" + id
	}

	if err := c.put(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

// DeleteNotification removes one notification from the server record.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	path := "/leaves/deleteMessage/" + id
	if c.session.Role == model.RoleAdmin {
		path = "/leaves/delete/" + id
	}

	if err := c.delete(ctx, path); err != nil {
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	return nil
}

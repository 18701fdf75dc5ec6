package api

import (
	"context"
	"net/http"

	"agrimart/internal/model"
)

type notificationListResponse struct {
	Success       bool                 `json:"success"`
	Notifications []model.Notification `json:"notifications"`
}

// MyNotifications fetches the caller's full notification list.
func (c *Client) MyNotifications(ctx context.Context) ([]model.Notification, error) {
	var resp notificationListResponse
	err := c.do(ctx, request{
		op:     "notification_list",
		method: http.MethodGet,
		path:   "/api/notification/my",
		authed: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

// MarkNotificationRead acknowledges one notification on the server.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:     "notification_read",
		method: http.MethodPatch,
		path:   "/api/notification/" + id + "/read",
		authed: true,
	}, nil)
}

// MarkAllNotificationsRead acknowledges every notification on the server.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, request{
		op:     "notification_read_all",
		method: http.MethodPatch,
		path:   "/api/notification/read-all",
		authed: true,
	}, nil)
}

type unreadCountResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// UnreadCount fetches just the unread total, cheap enough for the fast
// poll interval.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp unreadCountResponse
	err := c.do(ctx, request{
		op:     "notification_unread_count",
		method: http.MethodGet,
		path:   "/api/notification/unread-count",
		authed: true,
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

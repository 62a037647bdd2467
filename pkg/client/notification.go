package client

import (
	"context"
	"net/http"
)

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var resp struct {
		Notifications []Notification `json:"notifications"`
	}
	err := c.do(ctx, call{method: http.MethodGet, path: "/notifications", out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id uint) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/notifications/read",
		body:   map[string]uint{"id": id},
	})
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/notifications/read-all"})
}

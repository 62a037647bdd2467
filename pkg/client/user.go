package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (c *Client) Users(ctx context.Context, page, pageSize int) ([]User, *PageMeta, error) {
	var resp struct {
		Data []User    `json:"data"`
		Meta *PageMeta `json:"meta"`
	}
	q := url.Values{}
	addPaging(q, page, pageSize)
	err := c.do(ctx, call{method: http.MethodGet, path: "/users", query: q, out: &resp})
	if err != nil {
		return nil, nil, err
	}
	return resp.Data, resp.Meta, nil
}

func (c *Client) User(ctx context.Context, id uint) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/users/%d", id), out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// UpdateProfile edits the authenticated user's own record.
func (c *Client) UpdateProfile(ctx context.Context, patch UserPatch) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	err := c.do(ctx, call{method: http.MethodPatch, path: "/users", body: patch, out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// DeleteAccount removes the authenticated user's account. Irreversible.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/users"})
}

package client

import (
	"context"
	"fmt"
	"net/http"
)

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var resp struct {
		Categories []Category `json:"categories"`
	}
	err := c.do(ctx, call{method: http.MethodGet, path: "/categories", out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	var resp struct {
		Category *Category `json:"category"`
	}
	err := c.do(ctx, call{method: http.MethodPost, path: "/categories", body: in, out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*Category, error) {
	var resp struct {
		Category *Category `json:"category"`
	}
	err := c.do(ctx, call{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/categories/%d", id),
		body:   in,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/categories/%d", id)})
}

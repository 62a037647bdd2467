package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type ItemInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	ImageURL    string  `json:"imageUrl"`
	CategoryID  uint    `json:"categoryId"`
	Available   *bool   `json:"available,omitempty"`
}

type ItemPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	CategoryID  *uint    `json:"categoryId,omitempty"`
	Available   *bool    `json:"available,omitempty"`
}

func (c *Client) Items(ctx context.Context) ([]Item, error) {
	var resp struct {
		Items []Item `json:"items"`
	}
	err := c.do(ctx, call{method: http.MethodGet, path: "/items", out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) ItemsByCategory(ctx context.Context, categoryID uint) ([]Item, error) {
	var resp struct {
		Items []Item `json:"items"`
	}
	q := url.Values{"categoryId": {strconv.Itoa(int(categoryID))}}
	err := c.do(ctx, call{method: http.MethodGet, path: "/items", query: q, out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) Item(ctx context.Context, id uint) (*Item, error) {
	var resp struct {
		Item *Item `json:"item"`
	}
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/items/%d", id), out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Item, nil
}

func (c *Client) SearchItems(ctx context.Context, query string, page, pageSize int) ([]Item, *PageMeta, error) {
	var resp struct {
		Data []Item    `json:"data"`
		Meta *PageMeta `json:"meta"`
	}
	q := url.Values{"q": {query}}
	addPaging(q, page, pageSize)
	err := c.do(ctx, call{method: http.MethodGet, path: "/items/search", query: q, out: &resp})
	if err != nil {
		return nil, nil, err
	}
	return resp.Data, resp.Meta, nil
}

func (c *Client) CreateItem(ctx context.Context, in ItemInput) (*Item, error) {
	var resp struct {
		Item *Item `json:"item"`
	}
	err := c.do(ctx, call{method: http.MethodPost, path: "/items", body: in, out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Item, nil
}

func (c *Client) UpdateItem(ctx context.Context, id uint, patch ItemPatch) (*Item, error) {
	var resp struct {
		Item *Item `json:"item"`
	}
	err := c.do(ctx, call{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/items/%d", id),
		body:   patch,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id uint) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/items/%d", id)})
}

func addPaging(q url.Values, page, pageSize int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
}

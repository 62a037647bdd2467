package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type OrderLineInput struct {
	ItemID    uint    `json:"itemId"`
	Quantity  uint    `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

type CreateOrderInput struct {
	ClientID      uint             `json:"clientId"`
	AddressID     uint             `json:"addressId"`
	PaymentMethod string           `json:"paymentMethod"`
	TotalAmount   float64          `json:"totalAmount"`
	Items         []OrderLineInput `json:"items"`
}

type UpdateOrderInput struct {
	Status *string `json:"status,omitempty"`
}

func (c *Client) Orders(ctx context.Context, page, pageSize int) ([]Order, *PageMeta, error) {
	var resp struct {
		Data []Order   `json:"data"`
		Meta *PageMeta `json:"meta"`
	}
	q := url.Values{}
	addPaging(q, page, pageSize)
	err := c.do(ctx, call{method: http.MethodGet, path: "/orders", query: q, out: &resp})
	if err != nil {
		return nil, nil, err
	}
	return resp.Data, resp.Meta, nil
}

func (c *Client) Order(ctx context.Context, id uint) (*Order, error) {
	var resp struct {
		Order *Order `json:"order"`
	}
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/orders/%d", id), out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) OrdersByClient(ctx context.Context, clientID uint, page, pageSize int) ([]Order, *PageMeta, error) {
	var resp struct {
		Data []Order   `json:"data"`
		Meta *PageMeta `json:"meta"`
	}
	q := url.Values{}
	addPaging(q, page, pageSize)
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/orders/client/%d", clientID),
		query:  q,
		out:    &resp,
	})
	if err != nil {
		return nil, nil, err
	}
	return resp.Data, resp.Meta, nil
}

func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	var resp struct {
		Order *Order `json:"order"`
	}
	err := c.do(ctx, call{method: http.MethodPost, path: "/orders", body: in, out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id uint, in UpdateOrderInput) (*Order, error) {
	var resp struct {
		Order *Order `json:"order"`
	}
	err := c.do(ctx, call{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/orders/%d", id),
		body:   in,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id uint) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/orders/%d", id)})
}

package client

import (
	"context"
	"fmt"
	"net/http"
)

type AddressInput struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
}

func (c *Client) Addresses(ctx context.Context) ([]Address, error) {
	var resp struct {
		Addresses []Address `json:"addresses"`
	}
	err := c.do(ctx, call{method: http.MethodGet, path: "/addresses", out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, in AddressInput) (*Address, error) {
	var resp struct {
		Address *Address `json:"address"`
	}
	err := c.do(ctx, call{method: http.MethodPost, path: "/addresses", body: in, out: &resp})
	if err != nil {
		return nil, err
	}
	return resp.Address, nil
}

func (c *Client) UpdateAddress(ctx context.Context, id uint, in AddressInput) (*Address, error) {
	var resp struct {
		Address *Address `json:"address"`
	}
	err := c.do(ctx, call{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/addresses/%d", id),
		body:   in,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Address, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id uint) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/addresses/%d", id)})
}

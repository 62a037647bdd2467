package client

import (
	"context"
	"net/http"
)

type authResponse struct {
	AccessToken string `json:"accessToken"`
	User        *User  `json:"user"`
}

// Login exchanges credentials for an access token (stored) and the user. The
// refresh token arrives as an HttpOnly cookie kept by the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var resp authResponse
	err := c.do(ctx, call{
		method:          http.MethodPost,
		path:            "/auth/login",
		body:            map[string]string{"email": email, "password": password},
		out:             &resp,
		skipAuthRefresh: true,
	})
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(resp.AccessToken); err != nil {
		return nil, &APIError{Message: "store token: " + err.Error()}
	}
	return resp.User, nil
}

// Refresh rotates the access token explicitly.
func (c *Client) Refresh(ctx context.Context) error {
	return c.refreshToken(ctx, c.store.Get())
}

// Logout revokes the refresh token server-side and always clears the local
// token, even when the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, call{
		method:          http.MethodPost,
		path:            "/auth/logout",
		skipAuthRefresh: true,
	})
	if clearErr := c.store.Clear(); clearErr != nil && err == nil {
		err = &APIError{Message: "clear token: " + clearErr.Error()}
	}
	return err
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (c *Client) Signup(ctx context.Context, in SignupInput) (*User, error) {
	var resp struct {
		Message string `json:"message"`
		User    *User  `json:"user"`
	}
	err := c.do(ctx, call{
		method:          http.MethodPost,
		path:            "/users",
		body:            in,
		out:             &resp,
		skipAuthRefresh: true,
	})
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Profile fetches the authenticated user. Unlike the calls above it goes
// through the refresh branch, so a stale token recovers transparently.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/auth/profile",
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.User, nil
}

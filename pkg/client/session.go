package client

import (
	"context"
	"sync"
)

// Session is the application-wide auth state: the current user plus a
// loading flag. It has exactly three observable states: restoring (token
// present, identity unknown), authenticated (user set) and anonymous.
type Session struct {
	mu      sync.Mutex
	client  *Client
	user    *User
	loading bool
}

func NewSession(c *Client) *Session {
	s := &Session{client: c}

	// a forced logout in the transport layer also drops the user
	prev := c.onLogout
	c.onLogout = func() {
		s.setUser(nil)
		if prev != nil {
			prev()
		}
	}
	return s
}

// Restore rebuilds the session from a stored token. Either the profile call
// succeeds and the session is authenticated, or the token is cleared and the
// session is anonymous. Anonymous is not an error.
func (s *Session) Restore(ctx context.Context) error {
	if s.client.store.Get() == "" {
		s.setUser(nil)
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.client.Profile(ctx)
	if err != nil {
		_ = s.client.store.Clear()
		s.setUser(nil)
		return nil
	}
	s.setUser(user)
	return nil
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.setUser(user)
	return nil
}

// Logout always ends anonymous, even when the server call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	s.setUser(nil)
	return err
}

func (s *Session) Signup(ctx context.Context, in SignupInput) error {
	s.setLoading(true)
	defer s.setLoading(false)

	_, err := s.client.Signup(ctx, in)
	return err
}

func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}

func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) setUser(u *User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

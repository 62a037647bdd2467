package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// StreamEvent is one push event from the notifications stream:
// new_notification or unread_count.
type StreamEvent struct {
	Type string
	Data json.RawMessage
}

// StreamNotifications opens the SSE push channel and invokes handler for
// every event until ctx is canceled or the connection drops. A 401 is
// retried once after a token refresh, same policy as regular requests.
func (c *Client) StreamNotifications(ctx context.Context, handler func(StreamEvent)) error {
	resp, err := c.openStream(ctx, c.store.Get())
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if rErr := c.refreshToken(ctx, c.store.Get()); rErr != nil {
			c.forceLogout(ctx)
			return &APIError{StatusCode: http.StatusUnauthorized, Message: "unauthorized"}
		}
		resp, err = c.openStream(ctx, c.store.Get())
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: "could not open stream"}
	}

	scanner := bufio.NewScanner(resp.Body)
	var event StreamEvent
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event.Type = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			event.Data = json.RawMessage(strings.TrimPrefix(line, "data: "))
		case line == "":
			if event.Type != "" {
				handler(event)
			}
			event = StreamEvent{}
		}
	}
	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return &APIError{Message: err.Error()}
	}
	return nil
}

func (c *Client) openStream(ctx context.Context, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/notifications/stream", nil)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	req.Header.Set("Accept", "text/event-stream")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// the default client has a timeout that would cut the stream short
	streamClient := &http.Client{Jar: c.http.Jar, Transport: c.http.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	return resp, nil
}

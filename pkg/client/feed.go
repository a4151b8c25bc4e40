package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// FeedPath is where the server publishes product changes.
const FeedPath = "/ws/products"

// FeedURL derives the change feed address from the API base URL: same host,
// ws or wss scheme, FeedPath at the root.
func FeedURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("client: parse base url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("client: unsupported scheme %q", u.Scheme)
	}
	u.Path, u.RawQuery, u.Fragment = FeedPath, "", ""
	return u.String(), nil
}

// Subscribe listens to the change feed until ctx is cancelled or the
// connection drops. Every change made by any client invalidates the matching
// cache entries before onChange (which may be nil) sees it. A cancelled ctx
// returns nil.
func (c *Client) Subscribe(ctx context.Context, onChange func(Change)) error {
	feed, err := FeedURL(c.http.BaseURL())
	if err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, feed, nil)
	if err != nil {
		return fmt.Errorf("client: dial %s: %w", feed, err)
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("client: feed: %w", err)
		}

		var ch Change
		if err := json.Unmarshal(msg, &ch); err != nil {
			logger.WithCtx(ctx).Warn("client: bad feed message", "error", err)
			continue
		}
		c.Invalidate(ctx, ch)
		if onChange != nil {
			onChange(ch)
		}
	}
}

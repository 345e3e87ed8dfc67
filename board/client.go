package board

import (
	"net/http"
	"strings"
	"time"
)

// Client talks to one rule server. It is safe for concurrent use; all
// per-room state lives in Session.
type Client struct {
	// BaseURL is the server root, e.g. "http://localhost:8000".
	BaseURL string

	// Account is the ephemeral connection identifier appended to the
	// push-channel URL. Opaque to the server's data model.
	Account string

	// UseSSE selects the SSE stream instead of the WebSocket channel.
	UseSSE bool

	// HTTP is used for snapshots and move submission. Defaults to a
	// client with a 10-second timeout.
	HTTP *http.Client

	// Logf receives verbose diagnostics when set.
	Logf func(format string, args ...any)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}

func (c *Client) gameURL(room, path string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/games/" + room + path
}

// wsURL derives the push-channel endpoint from BaseURL, swapping the
// scheme to ws(s).
func (c *Client) wsURL(room string) string {
	base := strings.TrimSuffix(c.BaseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws/" + room + "/" + c.Account
}

package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSnapshotUnavailable wraps any transport or decode failure while
// fetching the full board. The caller's previously-held grid is never
// touched; retrying is the caller's policy.
var ErrSnapshotUnavailable = errors.New("board: snapshot unavailable")

// LoadSnapshot fetches the server's current full board for a room.
// Called once per room session to seed or resynchronize the grid.
func (c *Client) LoadSnapshot(ctx context.Context, room string) (Grid, error) {
	url := c.gameURL(room, "/status-all")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Grid{}, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Grid{}, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Grid{}, fmt.Errorf("%w: HTTP %d from %s", ErrSnapshotUnavailable, resp.StatusCode, url)
	}

	var rows [][]Stone
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return Grid{}, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}

	g, err := FromRows(rows)
	if err != nil {
		return Grid{}, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}

	c.logf("BOARD: Loaded %d×%d snapshot for room %s", g.Size(), g.Size(), room)

	return g, nil
}

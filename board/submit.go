package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Outcome classifies a move submission.
type Outcome int

const (
	// OutcomeAccepted means the server acknowledged the request. The stone
	// is NOT visible yet; visibility comes from the matching set event.
	OutcomeAccepted Outcome = iota

	// OutcomeRejected means the server declined the move (occupied cell,
	// not your turn, ...). The reason is opaque to this client.
	OutcomeRejected

	// OutcomeFailed means the request never produced a server verdict.
	// The same coordinate may be retried.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "transport failure"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MoveResult is what a submission came back with. Reason is only set for
// rejections, Err only for transport failures.
type MoveResult struct {
	Outcome Outcome
	Reason  string
	Err     error
}

type movePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Submit posts a placement request for one coordinate. It never mutates
// any grid: the visible board change, if the move is accepted, arrives as
// a pushed set event. Rejected moves therefore need no rollback.
func (c *Client) Submit(ctx context.Context, room string, coord Coord) MoveResult {
	body, err := json.Marshal(movePayload{X: coord.X, Y: coord.Y})
	if err != nil {
		return MoveResult{Outcome: OutcomeFailed, Err: err}
	}

	url := c.gameURL(room, "/set")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return MoveResult{Outcome: OutcomeFailed, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return MoveResult{Outcome: OutcomeFailed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := readReason(resp.Body)
		if reason == "" {
			reason = resp.Status
		}
		c.logf("BOARD: Move %s rejected in room %s: %s", coord, room, reason)
		return MoveResult{Outcome: OutcomeRejected, Reason: reason}
	}

	// The acknowledgment body is server-defined; drain it so the
	// connection can be reused, but don't interpret it.
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logf("BOARD: Move %s accepted in room %s", coord, room)

	return MoveResult{Outcome: OutcomeAccepted}
}

// readReason pulls a short human-readable reason out of a rejection body,
// accepting either {"reason": "..."}, {"error": "..."}, or plain text.
func readReason(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(data) == 0 {
		return ""
	}

	var obj struct {
		Reason string `json:"reason"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Reason != "" {
			return obj.Reason
		}
		if obj.Error != "" {
			return obj.Error
		}
	}

	return strings.TrimSpace(string(data))
}

package board

import (
	"encoding/json"
	"fmt"
)

// Push event types shared by every room channel. Only EventSet touches
// the grid; the rest are forwarded to whoever cares (chat, presence).
const (
	EventSet        = "set"
	EventChat       = "chat"
	EventUserJoined = "user_joined"
	EventUserLeft   = "user_left"
)

// Event is one decoded push message.
type Event struct {
	Type  string
	Coord Coord           // valid when Type == EventSet
	Stone Stone           // valid when Type == EventSet
	Raw   json.RawMessage // payload of non-set events, untouched
}

// The WebSocket channel nests set data under "payload"; the SSE stream
// flattens stone/axis to the top level. Both decode through one envelope.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Stone   *Stone          `json:"stone,omitempty"`
	Axis    []int           `json:"axis,omitempty"`
}

type setPayload struct {
	Axis  []int `json:"axis"`
	Stone Stone `json:"stone"`
}

// DecodeEvent parses one raw channel frame. Axis arrays are canonically
// [x, y] on the wire and everywhere in this package.
func DecodeEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("board: undecodable frame: %w", err)
	}
	if env.Type == "" {
		return Event{}, fmt.Errorf("board: frame without type: %.40s", data)
	}

	if env.Type != EventSet {
		return Event{Type: env.Type, Raw: env.Payload}, nil
	}

	axis := env.Axis
	stone := env.Stone
	if len(env.Payload) > 0 {
		var p setPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return Event{}, fmt.Errorf("board: bad set payload: %w", err)
		}
		axis = p.Axis
		stone = &p.Stone
	}

	if len(axis) != 2 || stone == nil {
		return Event{}, fmt.Errorf("board: set event missing axis or stone: %.80s", data)
	}

	return Event{
		Type:  EventSet,
		Coord: Coord{X: axis[0], Y: axis[1]},
		Stone: *stone,
	}, nil
}

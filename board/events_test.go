package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEventWebSocketShape(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"set","payload":{"axis":[4,7],"stone":{"team":-1,"order":12}}}`))
	require.NoError(t, err)

	assert.Equal(t, EventSet, ev.Type)
	assert.Equal(t, Coord{X: 4, Y: 7}, ev.Coord)
	assert.Equal(t, Stone{Team: -1, Order: 12}, ev.Stone)
}

func TestDecodeEventSSEShape(t *testing.T) {
	// The SSE stream flattens axis and stone to the top level.
	ev, err := DecodeEvent([]byte(`{"type":"set","stone":{"team":1,"order":3},"axis":[2,5]}`))
	require.NoError(t, err)

	assert.Equal(t, EventSet, ev.Type)
	assert.Equal(t, Coord{X: 2, Y: 5}, ev.Coord)
	assert.Equal(t, Stone{Team: 1, Order: 3}, ev.Stone)
}

func TestDecodeEventOtherTypes(t *testing.T) {
	for _, typ := range []string{EventChat, EventUserJoined, EventUserLeft} {
		ev, err := DecodeEvent([]byte(`{"type":"` + typ + `","payload":{"text":"hi"}}`))
		require.NoError(t, err)
		assert.Equal(t, typ, ev.Type)
		assert.JSONEq(t, `{"text":"hi"}`, string(ev.Raw))
	}
}

func TestDecodeEventFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `this is not json`},
		{"missing type", `{"payload":{}}`},
		{"set without axis", `{"type":"set","payload":{"stone":{"team":1,"order":1}}}`},
		{"set without stone", `{"type":"set","axis":[1,2]}`},
		{"short axis", `{"type":"set","payload":{"axis":[1],"stone":{"team":1,"order":1}}}`},
		{"payload not an object", `{"type":"set","payload":[1,2,3]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

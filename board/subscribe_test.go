package board

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeWSDeliversInOrder(t *testing.T) {
	frames := make(chan []byte, 32)
	mux := httprouter.New()
	mux.GET("/ws/:room/:account", wsPushHandler(t, frames))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	events := make(chan Event, 32)
	handle, err := newTestClient(srv).Subscribe("r1", func(ev Event) { events <- ev }, nil)
	require.NoError(t, err)
	defer handle.Close()

	const count = 20
	for i := 0; i < count; i++ {
		frames <- setFrame(t, Coord{X: i % 5, Y: i / 5}, Stone{Team: 1, Order: i + 1})
	}

	for i := 0; i < count; i++ {
		ev := waitEvent(t, events)
		assert.Equal(t, i+1, ev.Stone.Order, "event %d delivered out of order", i)
	}
}

func TestSubscribeWSDropsBadFrameKeepsChannel(t *testing.T) {
	frames := make(chan []byte, 8)
	mux := httprouter.New()
	mux.GET("/ws/:room/:account", wsPushHandler(t, frames))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	events := make(chan Event, 8)
	reports := make(chan error, 8)
	handle, err := newTestClient(srv).Subscribe("r1",
		func(ev Event) { events <- ev },
		func(err error) { reports <- err },
	)
	require.NoError(t, err)
	defer handle.Close()

	frames <- []byte(`this is not json`)
	frames <- setFrame(t, Coord{X: 1, Y: 1}, Stone{Team: 1, Order: 1})

	decodeErr := waitErr(t, reports)
	assert.Error(t, decodeErr)
	assert.False(t, errors.Is(decodeErr, ErrChannelClosed))

	// The valid frame behind the bad one still arrives.
	ev := waitEvent(t, events)
	assert.Equal(t, Coord{X: 1, Y: 1}, ev.Coord)
}

func TestSubscribeWSReportsServerClosure(t *testing.T) {
	frames := make(chan []byte)
	mux := httprouter.New()
	mux.GET("/ws/:room/:account", wsPushHandler(t, frames))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	reports := make(chan error, 8)
	handle, err := newTestClient(srv).Subscribe("r1", nil, func(err error) { reports <- err })
	require.NoError(t, err)
	defer handle.Close()

	close(frames) // server hangs up

	assert.ErrorIs(t, waitErr(t, reports), ErrChannelClosed)
	waitDone(t, handle.Done())
}

func TestSubscribeCloseIsIdempotent(t *testing.T) {
	frames := make(chan []byte)
	defer close(frames)

	mux := httprouter.New()
	mux.GET("/ws/:room/:account", wsPushHandler(t, frames))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	reports := make(chan error, 8)
	handle, err := newTestClient(srv).Subscribe("r1", nil, func(err error) { reports <- err })
	require.NoError(t, err)

	handle.Close()
	handle.Close()
	handle.Close()
	waitDone(t, handle.Done())

	// Explicit closure is not reported as a channel failure.
	select {
	case err := <-reports:
		t.Fatalf("unexpected report after explicit close: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscribeCloseAfterServerHangupIsSafe(t *testing.T) {
	frames := make(chan []byte)
	mux := httprouter.New()
	mux.GET("/ws/:room/:account", wsPushHandler(t, frames))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	handle, err := newTestClient(srv).Subscribe("r1", nil, nil)
	require.NoError(t, err)

	close(frames)
	waitDone(t, handle.Done())

	handle.Close()
	handle.Close()
}

func TestSubscribeSay(t *testing.T) {
	said := make(chan string, 1)

	mux := httprouter.New()
	mux.GET("/ws/:room/:account", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		said <- string(data)

		// Keep the socket open until the client leaves.
		_, _, _ = conn.ReadMessage()
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	handle, err := newTestClient(srv).Subscribe("r1", nil, nil)
	require.NoError(t, err)
	defer handle.Close()

	require.NoError(t, handle.Say("hello there"))

	select {
	case got := <-said:
		assert.Equal(t, "hello there", got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for chat frame")
	}
}

func TestSubscribeSSE(t *testing.T) {
	chunks := make(chan string, 8)
	mux := httprouter.New()
	mux.GET("/games/:room/sse", ssePushHandler(chunks))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	events := make(chan Event, 8)
	reports := make(chan error, 8)

	client := newTestClient(srv)
	client.UseSSE = true

	handle, err := client.Subscribe("r1", func(ev Event) { events <- ev }, func(err error) { reports <- err })
	require.NoError(t, err)
	defer handle.Close()

	// Two events batched into one chunk, then one alone, then a comment
	// line and a malformed event; relative order must survive chunking.
	chunks <- "data: {\"type\":\"set\",\"stone\":{\"team\":1,\"order\":1},\"axis\":[0,0]}\n\n" +
		"data: {\"type\":\"set\",\"stone\":{\"team\":-1,\"order\":2},\"axis\":[1,0]}\n\n"
	chunks <- "data: {\"type\":\"set\",\"stone\":{\"team\":1,\"order\":3},\"axis\":[2,0]}\n\n"
	chunks <- ": keepalive\n\n"
	chunks <- "data: garbage\n\n"

	for i := 1; i <= 3; i++ {
		ev := waitEvent(t, events)
		assert.Equal(t, i, ev.Stone.Order)
		assert.Equal(t, Coord{X: i - 1, Y: 0}, ev.Coord)
	}

	assert.Error(t, waitErr(t, reports))

	// Ending the stream reports closure.
	close(chunks)
	assert.ErrorIs(t, waitErr(t, reports), ErrChannelClosed)
}

func TestSubscribeSSEIsReceiveOnly(t *testing.T) {
	chunks := make(chan string)

	mux := httprouter.New()
	mux.GET("/games/:room/sse", ssePushHandler(chunks))
	srv := httptest.NewServer(mux)
	defer srv.Close()
	// Closed before srv.Close so the handler can return; otherwise Close
	// waits on a handler that is still ranging over chunks.
	defer close(chunks)

	client := newTestClient(srv)
	client.UseSSE = true

	handle, err := client.Subscribe("r1", nil, nil)
	require.NoError(t, err)
	defer handle.Close()

	assert.Error(t, handle.Say("hello"))
}

func TestSubscribeDialFailure(t *testing.T) {
	srv := httptest.NewServer(httprouter.New())
	srv.Close()

	_, err := newTestClient(srv).Subscribe("r1", nil, nil)
	assert.Error(t, err)
}

func TestWSURLSchemes(t *testing.T) {
	for base, want := range map[string]string{
		"http://game.example:8000":  "ws://game.example:8000/ws/r1/tester",
		"https://game.example":      "wss://game.example/ws/r1/tester",
		"http://game.example:8000/": "ws://game.example:8000/ws/r1/tester",
	} {
		c := &Client{BaseURL: base, Account: "tester"}
		assert.Equal(t, want, c.wsURL("r1"), fmt.Sprintf("base %s", base))
	}
}

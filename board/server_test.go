package board

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"
)

// Test doubles for the rule server, built the same way the real one is
// routed: httprouter paths and a gorilla upgrader for the push channel.

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func emptyRows(n int) [][]Stone {
	rows := make([][]Stone, n)
	for y := range rows {
		rows[y] = make([]Stone, n)
	}
	return rows
}

func snapshotHandler(rows [][]Stone) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}
}

// wsPushHandler feeds every frame from the channel to the first client
// that connects, then closes the socket when the channel closes.
func wsPushHandler(t *testing.T, frames <-chan []byte) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	}
}

// ssePushHandler writes raw stream chunks; callers control how events
// are batched across flushes.
func ssePushHandler(chunks <-chan string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		flusher.Flush()

		for chunk := range chunks {
			_, _ = io.WriteString(w, chunk)
			flusher.Flush()
		}
	}
}

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		BaseURL: srv.URL,
		Account: "tester",
	}
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error")
		return nil
	}
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel teardown")
	}
}

func setFrame(t *testing.T, c Coord, s Stone) []byte {
	t.Helper()
	frame, err := json.Marshal(map[string]any{
		"type": "set",
		"payload": map[string]any{
			"axis":  []int{c.X, c.Y},
			"stone": s,
		},
	})
	require.NoError(t, err)
	return frame
}

package board

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrChannelClosed wraps the transport error that tore down a push
// channel. The subscriber never reconnects on its own; whoever opened it
// decides whether to resubscribe.
var ErrChannelClosed = errors.New("board: push channel closed")

// Handle is an open push channel for one room. Close is idempotent and
// safe after a transport error has already torn the channel down.
type Handle struct {
	conn   *websocket.Conn    // nil for SSE
	cancel context.CancelFunc // nil for WebSocket

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}

	writeMu sync.Mutex
}

// Close terminates the channel. After Close returns the reader goroutine
// may still be draining, but no further events will be delivered once it
// exits; explicit closure is not reported as ErrChannelClosed.
func (h *Handle) Close() {
	h.closeOnce.Do(func() {
		close(h.closed)
		if h.conn != nil {
			_ = h.conn.Close()
		}
		if h.cancel != nil {
			h.cancel()
		}
	})
}

// Done is closed when the reader goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) explicitlyClosed() bool {
	select {
	case <-h.closed:
		return true
	default:
		return false
	}
}

// Say sends a raw text frame on the channel. The room channel doubles as
// the chat transport, so outbound chat rides the same connection.
// Only the WebSocket variant can send; the SSE stream is receive-only.
func (h *Handle) Say(text string) error {
	if h.conn == nil {
		return errors.New("board: sse channel is receive-only")
	}
	if h.explicitlyClosed() {
		return ErrChannelClosed
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	if err := h.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("%w: %v", ErrChannelClosed, err)
	}
	return nil
}

// Subscribe opens the push channel for a room. Every successfully decoded
// frame is handed to onEvent exactly once, from a single goroutine, in
// arrival order; the server's delivery order is the placement order, so
// no reordering or buffering happens here.
//
// report receives non-fatal decode errors (the frame is dropped, the
// channel stays open) and, on transport closure, an error wrapping
// ErrChannelClosed. Either callback may be nil.
func (c *Client) Subscribe(room string, onEvent func(Event), report func(error)) (*Handle, error) {
	if onEvent == nil {
		onEvent = func(Event) {}
	}
	if report == nil {
		report = func(error) {}
	}

	if c.UseSSE {
		return c.subscribeSSE(room, onEvent, report)
	}
	return c.subscribeWS(room, onEvent, report)
}

func (c *Client) subscribeWS(room string, onEvent func(Event), report func(error)) (*Handle, error) {
	url := c.wsURL(room)

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("board: dial %s: %w", url, err)
	}

	c.logf("BOARD: Subscribed to %s", url)

	h := &Handle{
		conn:   conn,
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if !h.explicitlyClosed() {
					report(fmt.Errorf("%w: %v", ErrChannelClosed, err))
				}
				return
			}
			h.deliver(data, onEvent, report)
		}
	}()

	return h, nil
}

func (c *Client) subscribeSSE(room string, onEvent func(Event), report func(error)) (*Handle, error) {
	url := c.gameURL(room, "/sse")

	ctx, cancel := context.WithCancel(context.Background())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("board: subscribe %s: %w", url, err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// The stream must outlive any request timeout, so bypass c.HTTP.
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("board: subscribe %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("board: subscribe %s: HTTP %d", url, resp.StatusCode)
	}

	c.logf("BOARD: Subscribed to %s", url)

	h := &Handle{
		cancel: cancel,
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 4096), 1<<20)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" {
				continue
			}
			h.deliver([]byte(data), onEvent, report)
		}

		if !h.explicitlyClosed() {
			err := scanner.Err()
			if err == nil {
				err = errors.New("stream ended")
			}
			report(fmt.Errorf("%w: %v", ErrChannelClosed, err))
		}
	}()

	return h, nil
}

// deliver decodes one frame and forwards it. A malformed frame is dropped
// and reported; it never kills the channel.
func (h *Handle) deliver(data []byte, onEvent func(Event), report func(error)) {
	ev, err := DecodeEvent(data)
	if err != nil {
		report(err)
		return
	}
	onEvent(ev)
}

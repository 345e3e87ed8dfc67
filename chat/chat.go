// Package chat keeps the in-room chat history. The transport is the same
// push channel the board rides on; this package only interprets the
// non-board events and holds a bounded message log.
package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/woodgrain/goban/board"
)

// Message is one chat line or presence notice.
type Message struct {
	Sender string
	Text   string
	At     time.Time
}

// payload covers the shapes the server has been seen sending for chat
// events: a structured object, or a bare string.
type payload struct {
	Sender  string `json:"sender"`
	Text    string `json:"text"`
	Message string `json:"message"`
	User    string `json:"user"`
}

// FromEvent turns a non-board push event into a message. Board events
// and unknown types report ok=false.
func FromEvent(ev board.Event) (Message, bool) {
	switch ev.Type {
	case board.EventChat:
		m := Message{At: time.Now()}

		var p payload
		if err := json.Unmarshal(ev.Raw, &p); err == nil && (p.Text != "" || p.Message != "") {
			m.Sender = p.Sender
			m.Text = p.Text
			if m.Text == "" {
				m.Text = p.Message
			}
			return m, true
		}

		var text string
		if err := json.Unmarshal(ev.Raw, &text); err == nil && text != "" {
			m.Text = text
			return m, true
		}
		return Message{}, false

	case board.EventUserJoined, board.EventUserLeft:
		var p payload
		_ = json.Unmarshal(ev.Raw, &p)
		who := p.User
		if who == "" {
			who = p.Sender
		}
		if who == "" {
			who = "someone"
		}
		text := who + " joined"
		if ev.Type == board.EventUserLeft {
			text = who + " left"
		}
		return Message{Text: text, At: time.Now()}, true
	}

	return Message{}, false
}

// Log is a bounded, concurrency-safe message history.
type Log struct {
	mu   sync.Mutex
	max  int
	msgs []Message
}

// NewLog returns a log that keeps at most max messages; older ones are
// dropped. max below one keeps 100.
func NewLog(max int) *Log {
	if max < 1 {
		max = 100
	}
	return &Log{max: max}
}

// Append adds a message, evicting the oldest if the log is full.
func (l *Log) Append(m Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.msgs = append(l.msgs, m)
	if len(l.msgs) > l.max {
		l.msgs = l.msgs[len(l.msgs)-l.max:]
	}
}

// Messages returns a copy of the history, oldest first.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

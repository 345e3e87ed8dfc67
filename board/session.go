package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// SessionState is the room-session lifecycle.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateLoading
	StateLive
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateLive:
		return "live"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// SessionConfig carries the per-session knobs. No process-wide board
// state exists; everything is scoped here.
type SessionConfig struct {
	// Layout maps pointer positions to cells. Size may be zero; it is
	// overwritten with the snapshot's dimension once loaded.
	Layout Layout

	// OnChange fires after each set event has been applied, with the new
	// grid value. Called from the channel's delivery goroutine, in order.
	OnChange func(Grid, Event)

	// OnEvent receives non-set events (chat, presence) untouched.
	OnEvent func(Event)

	// OnClosed fires once if the push channel drops without Close having
	// been called. Resubscribing is the caller's policy: open a fresh
	// session, which also resynchronizes via a new snapshot.
	OnClosed func(error)
}

// Session owns the grid for one room. The grid is mutated in exactly two
// places: the end of a successful snapshot load, and the set-event apply
// path; both funnel through the session's mutex, so every mutation sees
// the latest prior state.
type Session struct {
	client *Client
	room   string
	cfg    SessionConfig

	mu        sync.RWMutex
	state     SessionState
	grid      Grid
	layout    Layout
	candidate *Coord
	err       error

	handle    *Handle
	closeOnce sync.Once
}

// NewSession binds a client to a room identifier. The session starts
// Uninitialized; Start performs the snapshot load and subscription.
func NewSession(client *Client, room string, cfg SessionConfig) *Session {
	return &Session{
		client: client,
		room:   room,
		cfg:    cfg,
		layout: cfg.Layout,
	}
}

// Room returns the room identifier this session is bound to.
func (s *Session) Room() string {
	return s.room
}

// Start moves the session Loading → Live: it fetches the snapshot, seeds
// the grid, and opens the push channel. On snapshot or subscribe failure
// the session ends up Closed and the error is returned (and kept for
// Err). There is no automatic retry.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("board: session for room %s already %s", s.room, state)
	}
	s.state = StateLoading
	s.mu.Unlock()

	grid, err := s.client.LoadSnapshot(ctx, s.room)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	if s.state != StateLoading {
		// Closed while the snapshot was in flight; drop the result.
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.grid = grid
	s.layout.Size = grid.Size()
	s.mu.Unlock()

	// The channel opens only after the snapshot has seeded the grid, so
	// no set event can ever be applied to a grid that doesn't exist yet.
	handle, err := s.client.Subscribe(s.room, s.applyEvent, s.report)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	if s.state != StateLoading {
		s.mu.Unlock()
		handle.Close()
		return ErrSessionClosed
	}
	s.handle = handle
	s.state = StateLive
	s.mu.Unlock()

	return nil
}

// ErrSessionClosed reports an operation against a session that has
// already been torn down.
var ErrSessionClosed = errors.New("board: session closed")

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.state = StateClosed
	s.err = err
	s.candidate = nil
	s.mu.Unlock()
}

// applyEvent is the single serialized entry point for authoritative
// updates. Events for other rooms can't arrive here (the channel is
// room-scoped); events after Close are discarded by the state check.
func (s *Session) applyEvent(ev Event) {
	if ev.Type != EventSet {
		if s.cfg.OnEvent != nil {
			s.cfg.OnEvent(ev)
		}
		return
	}

	s.mu.Lock()
	if s.state != StateLive && s.state != StateLoading {
		s.mu.Unlock()
		return
	}

	grid, err := s.grid.Apply(ev.Coord, ev.Stone)
	if err != nil {
		s.mu.Unlock()
		s.client.logf("BOARD: Dropped set event %s: %v", ev.Coord, err)
		return
	}
	s.grid = grid
	s.mu.Unlock()

	if s.cfg.OnChange != nil {
		s.cfg.OnChange(grid, ev)
	}
}

// report receives subscriber failures. Decode errors are logged and the
// channel keeps running; a closed channel ends the session.
func (s *Session) report(err error) {
	if !errors.Is(err, ErrChannelClosed) {
		s.client.logf("BOARD: Dropped frame in room %s: %v", s.room, err)
		return
	}

	s.mu.Lock()
	alreadyClosed := s.state == StateClosed
	s.state = StateClosed
	s.err = err
	s.candidate = nil
	s.mu.Unlock()

	if !alreadyClosed && s.cfg.OnClosed != nil {
		s.cfg.OnClosed(err)
	}
}

// Close tears the session down: the push channel is closed, the candidate
// discarded, and any in-flight snapshot or move result becomes a no-op
// with respect to the grid. Safe to call multiple times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = StateClosed
		s.candidate = nil
		handle := s.handle
		s.mu.Unlock()

		if handle != nil {
			handle.Close()
		}
	})
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the error that ended the session, if any.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Board returns the current grid. Grids are immutable values, so the
// returned grid stays consistent while later events build new ones.
func (s *Session) Board() Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid
}

// Layout returns the pointer mapping, with Size filled in from the
// snapshot once the session is live.
func (s *Session) Layout() Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout
}

// PointerMoved updates the candidate coordinate from a pointer position.
// Positions outside the playable area clear the candidate.
func (s *Session) PointerMoved(px, py int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLive {
		return
	}

	if c, ok := s.layout.Locate(px, py); ok {
		s.candidate = &c
	} else {
		s.candidate = nil
	}
}

// PointerLeft clears the candidate coordinate.
func (s *Session) PointerLeft() {
	s.mu.Lock()
	s.candidate = nil
	s.mu.Unlock()
}

// Candidate returns the cell the pointer currently indicates, if any.
func (s *Session) Candidate() (Coord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.candidate == nil {
		return Coord{}, false
	}
	return *s.candidate, true
}

// Commit submits a move for the current candidate. The grid is not
// touched; if the server accepts, the stone shows up through the push
// channel like any other authoritative change.
func (s *Session) Commit(ctx context.Context) (MoveResult, bool) {
	s.mu.RLock()
	state := s.state
	candidate := s.candidate
	s.mu.RUnlock()

	if state != StateLive || candidate == nil {
		return MoveResult{}, false
	}
	return s.client.Submit(ctx, s.room, *candidate), true
}

// Say sends a chat line over the session's push channel.
func (s *Session) Say(text string) error {
	s.mu.RLock()
	handle := s.handle
	state := s.state
	s.mu.RUnlock()

	if state != StateLive || handle == nil {
		return ErrSessionClosed
	}
	return handle.Say(text)
}

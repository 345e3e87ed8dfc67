package main

import (
	"context"
	"fmt"
	"time"

	"github.com/woodgrain/goban/board"
)

// runWatch spectates a room until interrupted. The session itself never
// reconnects; when the channel drops, this loop opens a fresh session,
// which resynchronizes through a new snapshot.
func runWatch(ctx context.Context, cfg *Config, room string) error {
	client := newBoardClient(cfg)

	for {
		closed := make(chan struct{})

		session := board.NewSession(client, room, board.SessionConfig{
			Layout: sessionLayout(cfg),
			OnChange: func(g board.Grid, ev board.Event) {
				fmt.Printf("\nmove %d at %s:\n%s", ev.Stone.Order, ev.Coord, renderBoard(g))
			},
			OnClosed: func(err error) {
				logf(cfg, "WATCH: Channel for room %s dropped: %v", room, err)
				close(closed)
			},
		})

		if err := session.Start(ctx); err != nil {
			return err
		}

		fmt.Printf("watching room %s (%d×%d):\n%s",
			room, session.Board().Size(), session.Board().Size(), renderBoard(session.Board()))

		select {
		case <-ctx.Done():
			session.Close()
			return nil
		case <-closed:
		}

		// Brief pause before resubscribing so a flapping server doesn't
		// get hammered.
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(2 * time.Second):
		}

		logf(cfg, "WATCH: Reopening session for room %s", room)
	}
}

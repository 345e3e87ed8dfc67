package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/woodgrain/goban/board"
	"github.com/woodgrain/goban/chat"
)

// runPlay joins a room interactively. Input lines:
//
//	x y        place a stone at grid coordinate (x, y)
//	/say text  send a chat line
//	/board     reprint the board
//	/quit      leave
//
// Placement goes through the pointer path: the coordinate is turned into
// its pixel center and routed through the layout mapper, the same way a
// pointer-driven frontend would.
func runPlay(ctx context.Context, cfg *Config, room string) error {
	client := newBoardClient(cfg)
	log := chat.NewLog(100)

	closed := make(chan error, 1)

	session := board.NewSession(client, room, board.SessionConfig{
		Layout: sessionLayout(cfg),
		OnChange: func(g board.Grid, ev board.Event) {
			fmt.Printf("\nmove %d at %s:\n%s> ", ev.Stone.Order, ev.Coord, renderBoard(g))
		},
		OnEvent: func(ev board.Event) {
			if m, ok := chat.FromEvent(ev); ok {
				log.Append(m)
				if m.Sender != "" {
					fmt.Printf("\n[%s] %s\n> ", m.Sender, m.Text)
				} else {
					fmt.Printf("\n* %s\n> ", m.Text)
				}
			}
		},
		OnClosed: func(err error) {
			closed <- err
		},
	})

	if err := session.Start(ctx); err != nil {
		return err
	}
	defer session.Close()

	fmt.Printf("playing in room %s as %s:\n%s", room, client.Account, renderBoard(session.Board()))

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Print("> ")

		select {
		case <-ctx.Done():
			return nil

		case err := <-closed:
			return fmt.Errorf("connection to room %s lost: %w", room, err)

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if done := handleInput(ctx, cfg, session, line); done {
				return nil
			}
		}
	}
}

func handleInput(ctx context.Context, cfg *Config, session *board.Session, line string) bool {
	line = strings.TrimSpace(line)

	switch {
	case line == "":
		return false

	case line == "/quit":
		return true

	case line == "/board":
		fmt.Print(renderBoard(session.Board()))
		return false

	case strings.HasPrefix(line, "/say "):
		if err := session.Say(strings.TrimPrefix(line, "/say ")); err != nil {
			fmt.Println("chat failed:", err)
		}
		return false
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		fmt.Println(`expected "x y", "/say text", "/board", or "/quit"`)
		return false
	}

	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	if errX != nil || errY != nil {
		fmt.Println("coordinates must be integers")
		return false
	}

	layout := session.Layout()
	px, py := layout.Center(board.Coord{X: x, Y: y})
	session.PointerMoved(px, py)

	candidate, ok := session.Candidate()
	if !ok {
		fmt.Printf("(%d,%d) is outside the board\n", x, y)
		return false
	}

	result, ok := session.Commit(ctx)
	if !ok {
		fmt.Println("session is not live")
		return false
	}

	switch result.Outcome {
	case board.OutcomeAccepted:
		logf(cfg, "PLAY: Move %s accepted, waiting for server event", candidate)
	case board.OutcomeRejected:
		fmt.Printf("move %s rejected: %s\n", candidate, result.Reason)
	case board.OutcomeFailed:
		fmt.Printf("move %s failed to send: %v (retry the same coordinate)\n", candidate, result.Err)
	}

	session.PointerLeft()

	return false
}

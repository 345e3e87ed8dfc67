package main

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/woodgrain/goban/board"
	"github.com/woodgrain/goban/rooms"
)

// accountID returns the configured connection identifier, or generates a
// random ephemeral one. The server treats it as opaque.
func accountID(cfg *Config) string {
	if cfg.account != "" {
		return cfg.account
	}

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return "user_" + hex.EncodeToString(buf)
}

func newBoardClient(cfg *Config) *board.Client {
	return &board.Client{
		BaseURL: cfg.server,
		Account: accountID(cfg),
		UseSSE:  cfg.sse,
		HTTP:    &http.Client{Timeout: cfg.timeout},
		Logf: func(format string, args ...any) {
			logf(cfg, format, args...)
		},
	}
}

func newRoomsClient(cfg *Config) *rooms.Client {
	return &rooms.Client{
		BaseURL: cfg.server,
		HTTP:    &http.Client{Timeout: cfg.timeout},
	}
}

func sessionLayout(cfg *Config) board.Layout {
	return board.Layout{
		OriginX:  cfg.originX,
		OriginY:  cfg.originY,
		CellSize: cfg.cellSize,
	}
}

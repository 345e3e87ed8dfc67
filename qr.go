package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/skip2/go-qrcode"
)

// runQR writes a PNG QR code linking to a room, for sharing a session
// with the other player.
func runQR(cfg *Config, args []string) error {
	room := args[0]

	out := room + ".png"
	if len(args) == 2 {
		out = args[1]
	}

	url := strings.TrimSuffix(cfg.server, "/") + "/rooms/" + room

	const qrSize = 320 // mobile-friendly size
	if err := qrcode.WriteFile(url, qrcode.Medium, qrSize, out); err != nil {
		return fmt.Errorf("qr generation failed: %w", err)
	}

	if info, err := os.Stat(out); err == nil {
		logf(cfg, "QR: Wrote %s (%s) for %s", out, humanReadableSize(info.Size()), url)
	}

	fmt.Printf("wrote %s -> %s\n", out, url)

	return nil
}

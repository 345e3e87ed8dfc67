package main

import (
	"strings"

	"github.com/woodgrain/goban/board"
)

// renderBoard draws a grid as text: black stones ●, white stones ○,
// empty intersections +, with simple coordinate rails.
func renderBoard(g board.Grid) string {
	n := g.Size()

	var b strings.Builder
	b.WriteString("   ")
	for x := 0; x < n; x++ {
		b.WriteByte(byte('a' + x%26))
		b.WriteByte(' ')
	}
	b.WriteByte('\n')

	for y := 0; y < n; y++ {
		b.WriteByte(byte('a' + y%26))
		b.WriteString("  ")
		for x := 0; x < n; x++ {
			stone, err := g.At(board.Coord{X: x, Y: y})
			switch {
			case err != nil || stone.Empty():
				b.WriteRune('+')
			case stone.Team > 0:
				b.WriteRune('●')
			default:
				b.WriteRune('○')
			}
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	return b.String()
}

package board

import "math"

// Layout maps pointer positions within a rendered board area to grid
// coordinates. It is pure math; rendering is someone else's problem.
type Layout struct {
	OriginX  int // pixel position of cell (0,0)'s center
	OriginY  int
	CellSize int // pixels per cell
	Size     int // board dimension N
}

// Locate converts a pointer position into the nearest cell coordinate.
// Positions more than half a cell outside the playable area report ok=false.
func (l Layout) Locate(px, py int) (Coord, bool) {
	if l.CellSize <= 0 {
		return Coord{}, false
	}

	x := int(math.Round(float64(px-l.OriginX) / float64(l.CellSize)))
	y := int(math.Round(float64(py-l.OriginY) / float64(l.CellSize)))

	if x < 0 || x >= l.Size || y < 0 || y >= l.Size {
		return Coord{}, false
	}
	return Coord{X: x, Y: y}, true
}

// Center returns the pixel position of a cell's center, the inverse of
// Locate for on-board coordinates.
func (l Layout) Center(c Coord) (int, int) {
	return l.OriginX + c.X*l.CellSize, l.OriginY + c.Y*l.CellSize
}

// Package board holds the client-side board state for a single game room
// and keeps it in sync with the rule server.
//
// The server owns all game rules. This package only mirrors its state: a
// one-shot snapshot seeds the grid, and every later change arrives as a
// pushed "set" event. Move submissions never touch the grid directly; the
// matching set event does, once the server has accepted the move.
package board

import (
	"errors"
	"fmt"
)

// Stone is one cell's occupant. Team 0 means empty; nonzero values
// identify the two sides by sign. Order is the server-assigned placement
// index, carried for display only.
type Stone struct {
	Team  int `json:"team"`
	Order int `json:"order"`
}

// Empty reports whether no stone occupies the cell.
func (s Stone) Empty() bool {
	return s.Team == 0
}

// Coord is a grid coordinate. X runs left to right, Y top to bottom,
// both in [0, N).
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// ErrOutOfBounds is returned for coordinates outside the grid.
var ErrOutOfBounds = errors.New("board: coordinate out of bounds")

// Grid is a fixed-size N×N board, row-major. Grids are values: Apply
// returns a new grid and never mutates the receiver, so a grid handed to
// a reader stays stable while newer versions are built from it.
type Grid struct {
	size  int
	cells []Stone
}

// NewGrid returns an all-empty n×n grid.
func NewGrid(n int) Grid {
	if n < 1 {
		n = 1
	}
	return Grid{
		size:  n,
		cells: make([]Stone, n*n),
	}
}

// FromRows builds a grid from a row-major snapshot (outer index is y).
// The input must be square and non-empty.
func FromRows(rows [][]Stone) (Grid, error) {
	n := len(rows)
	if n == 0 {
		return Grid{}, errors.New("board: empty snapshot")
	}

	g := NewGrid(n)
	for y, row := range rows {
		if len(row) != n {
			return Grid{}, fmt.Errorf("board: ragged snapshot: row %d has %d cells, want %d", y, len(row), n)
		}
		copy(g.cells[y*n:(y+1)*n], row)
	}
	return g, nil
}

// Size returns the board dimension N.
func (g Grid) Size() int {
	return g.size
}

// Contains reports whether c lies on the board.
func (g Grid) Contains(c Coord) bool {
	return c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size
}

// At returns the stone at c, or ErrOutOfBounds.
func (g Grid) At(c Coord) (Stone, error) {
	if !g.Contains(c) {
		return Stone{}, fmt.Errorf("%w: %s on %d×%d board", ErrOutOfBounds, c, g.size, g.size)
	}
	return g.cells[c.Y*g.size+c.X], nil
}

// Apply returns a grid identical to g except for the one cell at c.
// The receiver is left untouched.
func (g Grid) Apply(c Coord, s Stone) (Grid, error) {
	if !g.Contains(c) {
		return g, fmt.Errorf("%w: %s on %d×%d board", ErrOutOfBounds, c, g.size, g.size)
	}

	cells := make([]Stone, len(g.cells))
	copy(cells, g.cells)
	cells[c.Y*g.size+c.X] = s

	return Grid{size: g.size, cells: cells}, nil
}

// Rows returns the grid as a freshly allocated row-major slice,
// the same shape the snapshot endpoint serves.
func (g Grid) Rows() [][]Stone {
	rows := make([][]Stone, g.size)
	for y := 0; y < g.size; y++ {
		rows[y] = make([]Stone, g.size)
		copy(rows[y], g.cells[y*g.size:(y+1)*g.size])
	}
	return rows
}

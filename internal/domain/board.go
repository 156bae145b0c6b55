package domain

import (
	"errors"
	"fmt"
)

// Cell represents a board cell state. An occupied cell holds the Player that
// claimed it.
type Cell uint8

const (
	Empty Cell = iota
	B
	E
)

// Player is one of the two sides. B always moves first.
type Player = Cell

// Other returns the opposing side.
func (c Cell) Other() Player {
	switch c {
	case B:
		return E
	case E:
		return B
	default:
		return Empty
	}
}

func (c Cell) String() string {
	switch c {
	case B:
		return "B"
	case E:
		return "E"
	default:
		return ""
	}
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Result is the terminal condition derived from a Board.
type Result uint8

const (
	None Result = iota
	BWins
	EWins
	Tie
)

func (r Result) String() string {
	switch r {
	case BWins:
		return "b-wins"
	case EWins:
		return "e-wins"
	case Tie:
		return "tie"
	default:
		return "none"
	}
}

// Terminal reports whether no further moves are accepted.
func (r Result) Terminal() bool { return r != None }

// Errors returned by domain operations. Every rejected move wraps ErrInvalidMove.
var (
	ErrInvalidMove = errors.New("invalid move")
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrGameOver    = errors.New("game over")
)

// WinningLines lists rows, then columns, then diagonals. Evaluate scans them in
// this order.
var WinningLines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Empty reports whether cell i is free. Out of range indexes are never free.
func (b Board) Empty(i int) bool {
	return i >= 0 && i < len(b) && b[i] == Empty
}

// Count returns the number of occupied cells.
func (b Board) Count() int {
	n := 0
	for _, c := range b {
		if c != Empty {
			n++
		}
	}
	return n
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool { return b.Count() == len(b) }

// ApplyMove returns a copy of b with index claimed by p.
func ApplyMove(b Board, index int, p Player) (Board, error) {
	if p != B && p != E {
		return b, fmt.Errorf("%w: unknown player %d", ErrInvalidMove, p)
	}
	if index < 0 || index >= len(b) {
		return b, fmt.Errorf("%w: %w: cell %d", ErrInvalidMove, ErrOutOfBounds, index)
	}
	if Evaluate(b).Terminal() {
		return b, fmt.Errorf("%w: %w", ErrInvalidMove, ErrGameOver)
	}
	if b[index] != Empty {
		return b, fmt.Errorf("%w: %w: cell %d", ErrInvalidMove, ErrOccupied, index)
	}

	b[index] = p
	return b, nil
}

// Evaluate derives the result from the board alone. A completed line takes
// precedence over a full board.
func Evaluate(b Board) Result {
	for _, ln := range WinningLines {
		a := b[ln[0]]
		if a != Empty && a == b[ln[1]] && a == b[ln[2]] {
			return winFor(a)
		}
	}
	if b.Full() {
		return Tie
	}
	return None
}

func winFor(p Player) Result {
	if p == B {
		return BWins
	}
	return EWins
}

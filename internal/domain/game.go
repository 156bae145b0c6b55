package domain

import "fmt"

// Stats counts finished games for a session. It outlives individual games.
type Stats struct {
	BWins int `json:"b_wins"`
	EWins int `json:"e_wins"`
	Ties  int `json:"ties"`
}

// Record attributes one finished game to its result. None is ignored.
func (s *Stats) Record(r Result) {
	switch r {
	case BWins:
		s.BWins++
	case EWins:
		s.EWins++
	case Tie:
		s.Ties++
	}
}

// Game holds the current state of a match together with the session stats.
type Game struct {
	Board  Board  `json:"board"`
	Turn   Player `json:"turn"`
	Result Result `json:"result"`
	Stats  Stats  `json:"stats"`
}

// NewGame returns an empty game with B to move.
func NewGame() Game {
	return Game{Turn: B}
}

// Terminal reports whether the current game has ended.
func (g *Game) Terminal() bool { return g.Result.Terminal() }

// Moves returns how many cells have been played in the current game.
func (g *Game) Moves() int { return g.Board.Count() }

// SubmitMove plays the current turn at index. A rejected move wraps
// ErrInvalidMove and leaves g untouched.
func (g *Game) SubmitMove(index int) error {
	if g.Terminal() {
		return fmt.Errorf("%w: %w", ErrInvalidMove, ErrGameOver)
	}
	next, err := ApplyMove(g.Board, index, g.Turn)
	if err != nil {
		return err
	}

	g.Board = next
	g.Result = Evaluate(next)
	if g.Result.Terminal() {
		g.Stats.Record(g.Result)
		return nil
	}
	g.Turn = g.Turn.Other()
	return nil
}

// ResetGame clears the board and hands the first move back to B. Stats are kept.
func (g *Game) ResetGame() {
	g.Board = Board{}
	g.Turn = B
	g.Result = None
}

// ResetStats zeroes the counters without touching the board or turn.
func (g *Game) ResetStats() {
	g.Stats = Stats{}
}

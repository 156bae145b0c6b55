package view

import (
	"fmt"

	"github.com/jaminalder/tic-tac-based/internal/domain"
)

const (
	Title        = "Tic Tac Based"
	Subtitle     = "Base (B) vs Ethereum (E)"
	TouchHint    = "Tap any empty cell to make your move"
	KeyboardHint = "Press R to reset the game, or click on any empty cell to make your move"
	Tagline      = "Get 3 in a row to win! 🚀"
)

// PlayerName is the long display name of a side.
func PlayerName(p domain.Player) string {
	switch p {
	case domain.B:
		return "Base (B)"
	case domain.E:
		return "Ethereum (E)"
	default:
		return ""
	}
}

// PlayerBlurb describes a side in the about panel.
func PlayerBlurb(p domain.Player) string {
	if p == domain.B {
		return "Base coin - Always plays first"
	}
	return "Ethereum - Plays second"
}

// StatusMessage is the headline shown above the board.
func StatusMessage(g domain.Game) string {
	switch g.Result {
	case domain.BWins:
		return "🎉 Base (B) Wins!"
	case domain.EWins:
		return "💜 Ethereum (E) Wins!"
	case domain.Tie:
		return "🤝 It's a tie!"
	default:
		return fmt.Sprintf("%s's turn", PlayerName(g.Turn))
	}
}

// CellLabel is the mark drawn in a cell; empty cells draw nothing.
func CellLabel(c domain.Cell) string { return c.String() }

// Playable reports whether cell i accepts input in the current game.
func Playable(g domain.Game, i int) bool {
	return !g.Terminal() && g.Board.Empty(i)
}

// ControlsHint lists the controls shown in the overlay. The keyboard shortcut
// is omitted on touch layouts.
func ControlsHint(mobile bool) []string {
	hints := []string{"Click cells to play"}
	if !mobile {
		hints = append(hints, "R - Reset")
	}
	return hints
}

// Badge is one counter in the score strip.
type Badge struct {
	Label string
	Value int
}

// Badges returns the score strip in display order.
func Badges(s domain.Stats) []Badge {
	return []Badge{
		{Label: "B", Value: s.BWins},
		{Label: "E", Value: s.EWins},
		{Label: "Ties", Value: s.Ties},
	}
}

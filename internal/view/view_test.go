package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tic-tac-based/internal/domain"
)

func TestChromeStartsWithControlsShown(t *testing.T) {
	c := NewChrome()
	require.True(t, c.ShowControls)
	require.False(t, c.Mobile(), "unknown width is not mobile")

	c.ToggleControls()
	assert.False(t, c.ShowControls)

	c.ToggleControls()
	assert.True(t, c.ShowControls)
}

func TestChromeAutoHideFiresOnce(t *testing.T) {
	c := NewChrome()

	c.AutoHide()
	require.False(t, c.ShowControls)
	require.True(t, c.AutoHidden)

	// the user brings the overlay back; a second timer must not hide it
	c.ToggleControls()
	c.AutoHide()
	assert.True(t, c.ShowControls)
}

func TestChromeMobileBreakpoint(t *testing.T) {
	c := NewChrome()

	c.SetWidth(MobileBreakpoint - 1)
	assert.True(t, c.Mobile())

	c.SetWidth(MobileBreakpoint)
	assert.False(t, c.Mobile())

	c.SetWidth(-10)
	assert.Equal(t, 0, c.Width)
	assert.False(t, c.Mobile())
}

func TestStatusMessage(t *testing.T) {
	g := domain.NewGame()
	assert.Equal(t, "Base (B)'s turn", StatusMessage(g))

	g.Turn = domain.E
	assert.Equal(t, "Ethereum (E)'s turn", StatusMessage(g))

	g.Result = domain.BWins
	assert.Equal(t, "🎉 Base (B) Wins!", StatusMessage(g))

	g.Result = domain.EWins
	assert.Equal(t, "💜 Ethereum (E) Wins!", StatusMessage(g))

	g.Result = domain.Tie
	assert.Equal(t, "🤝 It's a tie!", StatusMessage(g))
}

func TestPlayable(t *testing.T) {
	g := domain.NewGame()
	require.NoError(t, g.SubmitMove(0))

	assert.False(t, Playable(g, 0), "occupied cell")
	assert.True(t, Playable(g, 1))

	g.Result = domain.Tie
	assert.False(t, Playable(g, 1), "terminal game")
}

func TestControlsHint(t *testing.T) {
	assert.Equal(t, []string{"Click cells to play", "R - Reset"}, ControlsHint(false))
	assert.Equal(t, []string{"Click cells to play"}, ControlsHint(true))
}

func TestBadges(t *testing.T) {
	got := Badges(domain.Stats{BWins: 2, EWins: 1, Ties: 3})
	assert.Equal(t, []Badge{{"B", 2}, {"E", 1}, {"Ties", 3}}, got)
}

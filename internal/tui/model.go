// Package tui is the terminal shell for the game. It drives the same domain
// controller and chrome state as the web pages.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaminalder/tic-tac-based/internal/domain"
	"github.com/jaminalder/tic-tac-based/internal/view"
)

// NarrowColumns is the terminal width below which the compact layout applies.
const NarrowColumns = 60

type overlayTimeoutMsg struct{}

type Model struct {
	game         domain.Game
	chrome       view.Chrome
	cursor       int
	keys         KeyMap
	overlayDelay time.Duration
	log          *slog.Logger
}

type Option func(*Model)

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

func WithOverlayDelay(d time.Duration) Option {
	return func(m *Model) { m.overlayDelay = d }
}

func New(opts ...Option) Model {
	m := Model{
		game:         domain.NewGame(),
		chrome:       view.NewChrome(),
		cursor:       4,
		keys:         Keys,
		overlayDelay: view.OverlayDelay,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Game() domain.Game   { return m.game }
func (m Model) Chrome() view.Chrome { return m.chrome }
func (m Model) Cursor() int         { return m.cursor }
func (m Model) Narrow() bool        { return m.chrome.Width > 0 && m.chrome.Width < NarrowColumns }

// Init arms the one-shot overlay timer.
func (m Model) Init() tea.Cmd {
	return tea.Tick(m.overlayDelay, func(time.Time) tea.Msg { return overlayTimeoutMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.chrome.SetWidth(msg.Width)
		return m, nil
	case overlayTimeoutMsg:
		m.chrome.AutoHide()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor >= 3 {
			m.cursor -= 3
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < 6 {
			m.cursor += 3
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursor%3 > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor%3 < 2 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Play):
		m.play(m.cursor)
	case key.Matches(msg, m.keys.NewGame):
		m.game.ResetGame()
		m.log.Debug("new game")
	case key.Matches(msg, m.keys.ResetStats):
		m.game.ResetStats()
		m.log.Debug("stats reset")
	case key.Matches(msg, m.keys.Controls):
		m.chrome.ToggleControls()
	default:
		if i, ok := digitCell(msg.String()); ok {
			m.cursor = i
			m.play(i)
		}
	}
	return m, nil
}

// play submits a move; rejected moves leave the game as it was.
func (m *Model) play(i int) {
	if err := m.game.SubmitMove(i); err != nil {
		m.log.Debug("move ignored", "cell", i, "error", err)
		return
	}
	if m.game.Terminal() {
		m.log.Info("game finished", "result", m.game.Result.String())
	}
}

// digitCell maps keys 1-9 to cells 0-8 in reading order.
func digitCell(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

func (m Model) View() string {
	var sections []string
	if m.chrome.ShowControls {
		sections = append(sections, m.overlayView())
	} else {
		sections = append(sections, mutedStyle.Render("? controls"))
	}
	sections = append(sections,
		titleStyle.Render(view.Title),
		subtitleStyle.Render(view.Subtitle),
		"",
		cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			statusStyle.Render(view.StatusMessage(m.game)),
			m.badgesView(),
		)),
		m.boardView(),
	)
	if m.Narrow() {
		sections = append(sections, mutedStyle.Render(view.TouchHint))
	} else {
		sections = append(sections, m.aboutView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// overlayView lists the terminal key bindings; the page's click hints do not apply here.
func (m Model) overlayView() string {
	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s - %s", h.Key, h.Desc))
	}
	return overlayStyle.Render("Controls: " + strings.Join(hints, " • "))
}

func (m Model) badgesView() string {
	parts := make([]string, 0, 3)
	for _, b := range view.Badges(m.game.Stats) {
		parts = append(parts, badgeStyles[b.Label].Render(fmt.Sprintf("%s: %d", b.Label, b.Value)))
	}
	return strings.Join(parts, "  ")
}

func (m Model) boardView() string {
	rows := make([]string, 0, 3)
	for r := 0; r < 3; r++ {
		cells := make([]string, 0, 3)
		for c := 0; c < 3; c++ {
			i := r*3 + c
			cells = append(cells, m.cellView(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) cellView(i int) string {
	label := view.CellLabel(m.game.Board[i])
	switch m.game.Board[i] {
	case domain.B:
		label = markB.Render(label)
	case domain.E:
		label = markE.Render(label)
	default:
		label = mutedStyle.Render(" ")
	}
	if i == m.cursor && !m.game.Terminal() {
		return cursorCellStyle.Render(label)
	}
	return cellStyle.Render(label)
}

func (m Model) aboutView() string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		markB.Render("B")+" "+view.PlayerBlurb(domain.B),
		markE.Render("E")+" "+view.PlayerBlurb(domain.E),
		mutedStyle.Render(view.Tagline),
	))
}

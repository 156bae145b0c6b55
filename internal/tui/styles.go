package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorB     = lipgloss.Color("#60a5fa")
	colorE     = lipgloss.Color("#c084fc")
	colorMuted = lipgloss.Color("#9ca3af")
	colorEdge  = lipgloss.Color("#4b5563")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#93c5fd"))
	statusStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorEdge).
			Padding(0, 1)

	overlayStyle = cardStyle.
			BorderForeground(colorMuted).
			Foreground(lipgloss.Color("#d1d5db"))

	cellStyle = lipgloss.NewStyle().
			Width(5).
			Align(lipgloss.Center).
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorEdge)

	cursorCellStyle = cellStyle.BorderForeground(lipgloss.Color("#ffffff"))

	markB = lipgloss.NewStyle().Bold(true).Foreground(colorB)
	markE = lipgloss.NewStyle().Bold(true).Foreground(colorE)

	badgeStyles = map[string]lipgloss.Style{
		"B":    lipgloss.NewStyle().Foreground(colorB),
		"E":    lipgloss.NewStyle().Foreground(colorE),
		"Ties": lipgloss.NewStyle().Foreground(colorMuted),
	}
)

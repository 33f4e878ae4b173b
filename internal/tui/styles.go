package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Width(5).
			Align(lipgloss.Center)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff00ff"))

	entryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	metricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	metricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	statusOK = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	statusErr = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	graphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49"))
)

// cellColors maps the bit grid to a background colour.
type cellColors struct {
	charged lipgloss.Style
	empty   lipgloss.Style
}

func newCellColors(charged, empty string) cellColors {
	return cellColors{
		charged: cellStyle.Background(lipgloss.Color(charged)),
		empty:   cellStyle.Background(lipgloss.Color(empty)),
	}
}

func (c cellColors) style(charged bool) lipgloss.Style {
	if charged {
		return c.charged
	}
	return c.empty
}

// Package theme holds the terminal palette and styles shared by CLI reports
// and the play screens.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
)

// Team colors, by slot.
var (
	Team1 = Secondary
	Team2 = Accent
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextDim)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(TextDim).
			Background(BgCard).
			Padding(0, 2)

	// Tile is one board cell.
	Tile = lipgloss.NewStyle().
		Width(11).
		Align(lipgloss.Center).
		Foreground(Text).
		Background(BgCard)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(TextDim)
)

// TeamStyle returns the bold style for the team in slot 1 or 2.
func TeamStyle(slot int) lipgloss.Style {
	c := Team1
	if slot == 2 {
		c = Team2
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

package board

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqgame/internal/ui/components"
	"github.com/abhisek/iqgame/internal/ui/theme"
)

const tileWidth = 11

func (s *BoardScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Bad.Render(s.errMsg))
	}
	if !s.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render("Loading board..."))
	}

	var b strings.Builder
	b.WriteString(s.renderGrid())
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Scored", s.status.TotalScored, s.status.TotalQuestions, min(width-8, 60))
	b.WriteString(bar.View())
	b.WriteString("\n")

	if s.status.CurrentTurn != "" {
		b.WriteString("Turn: " + theme.TeamStyle(s.slot(s.status.CurrentTurn)).Render(s.status.CurrentTurn))
	}
	if s.status.DoublePointsArmed {
		b.WriteString("   " + theme.Bad.Render("Double points armed"))
	}
	if s.notice != "" {
		b.WriteString("\n" + theme.Muted.Render(s.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, b.String())
}

func (s *BoardScreen) renderGrid() string {
	tile := theme.Tile.Width(tileWidth)
	cols := make([]string, len(s.categories))
	for c, cat := range s.categories {
		cells := []string{theme.Header.Width(tileWidth).Align(lipgloss.Center).Render(truncate(cat.CategoryName, tileWidth-1))}
		for r, q := range cat.Questions {
			label := strconv.Itoa(q.Points)
			style := tile
			switch {
			case q.IsScored && q.TeamAnswered != "":
				label = truncate(q.TeamAnswered, tileWidth-2)
				style = tile.Foreground(theme.TeamStyle(s.slot(q.TeamAnswered)).GetForeground())
			case q.IsScored:
				label = "-"
				style = tile.Foreground(theme.TextDim)
			}
			if c == s.col && r == s.row {
				style = style.Background(theme.Primary).Bold(true)
			}
			cells = append(cells, style.Render(label))
		}
		cols[c] = lipgloss.JoinVertical(lipgloss.Center, cells...)
	}

	parts := make([]string, 0, 2*len(cols))
	for i, col := range cols {
		if i > 0 {
			parts = append(parts, " ")
		}
		parts = append(parts, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (s *BoardScreen) slot(team string) int {
	if team == s.status.Team2.Name {
		return 2
	}
	return 1
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

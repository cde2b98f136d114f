package question

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqgame/internal/catalog"
	"github.com/abhisek/iqgame/internal/ui/theme"
)

func (s *QuestionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Bad.Render(s.errMsg)+"\n\n"+theme.Hint.Render("Press any key to go back."))
	}

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var b strings.Builder

	info := fmt.Sprintf("%s  ·  %s  ·  %d points", s.category, catalog.TierName(s.q.Difficulty), s.q.Points)
	b.WriteString(center.Render(theme.Muted.Render(info)))
	b.WriteString("\n")
	if s.status.CurrentTurn != "" {
		b.WriteString(center.Render("Playing: " + theme.TeamStyle(s.slot(s.team())).Render(s.team())))
		b.WriteString("\n")
	}
	if s.status.DoublePointsArmed {
		b.WriteString(center.Render(theme.Bad.Render("Double points armed")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(center.Render(theme.Title.Width(min(width-4, 70)).Render(s.q.Text)))
	b.WriteString("\n\n")

	switch s.phase {
	case phaseAsking:
		if s.mc != nil {
			b.WriteString(center.Render(s.mc.View()))
		} else {
			b.WriteString(center.Render(theme.Hint.Render("Press space to reveal the answer")))
		}
	case phaseAwarding:
		if s.mc != nil {
			b.WriteString(center.Render(s.mc.View()))
			b.WriteString("\n")
		}
		b.WriteString(center.Render("Answer: " + theme.Good.Render(s.correctAnswer())))
		b.WriteString("\n\n")
		b.WriteString(center.Render("Who answered correctly?"))
		b.WriteString("\n\n")
		b.WriteString(center.Render(s.award.View()))
	case phaseScored:
		b.WriteString(center.Render(s.outcome()))
		b.WriteString("\n\n")
		b.WriteString(center.Render(theme.Hint.Render("Press any key to continue")))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(center.Render(theme.Muted.Render(s.notice)))
	}
	return b.String()
}

func (s *QuestionScreen) slot(team string) int {
	if team == s.status.Team2.Name {
		return 2
	}
	return 1
}

func (s *QuestionScreen) outcome() string {
	sc := s.scored
	if sc == nil {
		return ""
	}
	if sc.Team == "" {
		return theme.Muted.Render("Nobody scores this one")
	}
	line := theme.TeamStyle(s.slot(sc.Team)).Render(sc.Team) + theme.Good.Render(fmt.Sprintf(" +%d", sc.Points))
	if sc.Doubled {
		line += theme.Bad.Render("  double points!")
	}
	if sc.GameFinished {
		line += "\n\n" + theme.Title.Render("That was the last question.")
	}
	return line
}

// Package report renders engine views as terminal text for the CLI.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/iqgame/internal/availability"
	"github.com/abhisek/iqgame/internal/catalog"
	"github.com/abhisek/iqgame/internal/game"
	"github.com/abhisek/iqgame/internal/help"
	"github.com/abhisek/iqgame/internal/ui/theme"
)

// newTable returns a table with the report border and header styling.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.Muted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.Header.Padding(0, 1)
			}
			return theme.Body.Padding(0, 1)
		})
}

// Availability renders the category availability table.
func Availability(cats []availability.Category) string {
	if len(cats) == 0 {
		return theme.Hint.Render("No categories. Import a catalog with `iqgame seed`.")
	}
	t := newTable("ID", "Category", "Group", "Easy", "Medium", "Hard", "Used", "Games")
	for _, c := range cats {
		t.Row(
			strconv.Itoa(c.CategoryID),
			c.CategoryName,
			c.GroupName,
			tier(c.Easy),
			tier(c.Medium),
			tier(c.Hard),
			fmt.Sprintf("%d/%d", c.UsedQuestions, c.TotalQuestions),
			strconv.Itoa(c.AvailableGames),
		)
	}
	return t.String()
}

func tier(t availability.Tier) string {
	return fmt.Sprintf("%d/%d", t.Available, t.Total)
}

// Sessions renders the session list.
func Sessions(list []game.SessionSummary) string {
	if len(list) == 0 {
		return theme.Hint.Render("No sessions yet.")
	}
	t := newTable("ID", "Session", "Teams", "Questions", "Categories")
	for _, s := range list {
		names := make([]string, len(s.Categories))
		for i, c := range s.Categories {
			names[i] = c.CategoryName
		}
		count := strconv.Itoa(s.TotalQuestions)
		if !s.IsValid {
			count += " (incomplete)"
		}
		t.Row(
			strconv.Itoa(s.SessionID),
			s.SessionName,
			s.Team1Name+" vs "+s.Team2Name,
			count,
			strings.Join(names, ", "),
		)
	}
	return t.String()
}

// Status renders a running game.
func Status(st game.Status) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(st.SessionName))
	b.WriteString(theme.Muted.Render(fmt.Sprintf("  #%d", st.SessionID)))
	b.WriteByte('\n')

	progress := fmt.Sprintf("%d/%d questions scored", st.TotalScored, st.TotalQuestions)
	if st.GameFinished {
		progress += "  " + theme.Good.Render("finished")
	}
	b.WriteString(progress)
	b.WriteByte('\n')
	if st.CurrentTurn != "" {
		b.WriteString("Turn: " + theme.Body.Bold(true).Render(st.CurrentTurn) + "\n")
	}
	if st.DoublePointsArmed {
		b.WriteString(theme.Bad.Render("Double points armed for the next question") + "\n")
	}

	cards := []string{
		teamCard(1, st.Team1),
		teamCard(2, st.Team2),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[0], " ", cards[1]))
	return b.String()
}

func teamCard(slot int, t game.TeamStatus) string {
	lines := []string{
		theme.TeamStyle(slot).Render(t.Name),
		fmt.Sprintf("Score: %d", t.Score),
		helpLine(t.Help),
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}

func helpLine(s help.Status) string {
	mark := func(name string, used bool) string {
		if used {
			return theme.Muted.Strikethrough(true).Render(name)
		}
		return theme.Good.Render(name)
	}
	dp := mark("double", s.DoublePointsUsed)
	if s.DoublePointsActive {
		dp = theme.Bad.Render("double*")
	}
	return strings.Join([]string{mark("options", s.OptionsUsed), dp, mark("two answers", s.TwoAnswersUsed)}, " ")
}

// Results renders the final standings and category breakdown.
func Results(res game.Results) string {
	var b strings.Builder
	if res.IsTie {
		b.WriteString(theme.Title.Render("It's a tie"))
	} else {
		b.WriteString(theme.Title.Render("Winner: " + res.Winner))
	}
	b.WriteByte('\n')
	b.WriteString(fmt.Sprintf("%s %d  vs  %s %d\n",
		theme.TeamStyle(1).Render(res.Team1.Name), res.Team1.Score,
		theme.TeamStyle(2).Render(res.Team2.Name), res.Team2.Score))

	if len(res.Categories) == 0 {
		b.WriteString(theme.Hint.Render("No questions scored yet."))
		return b.String()
	}
	t := newTable("Category", res.Team1.Name, res.Team2.Name)
	for _, c := range res.Categories {
		t.Row(c.CategoryName, strconv.Itoa(c.Team1Points), strconv.Itoa(c.Team2Points))
	}
	b.WriteString(t.String())
	return b.String()
}

// Board lists every question on a session board with its id, so a host
// can score it from the command line.
func Board(cats []game.CategoryView) string {
	if len(cats) == 0 {
		return theme.Hint.Render("Session has no questions.")
	}
	t := newTable("QID", "Category", "Tier", "Points", "Scored")
	for _, c := range cats {
		for _, q := range c.Questions {
			scored := "-"
			switch {
			case q.IsScored && q.TeamAnswered != "":
				scored = q.TeamAnswered
			case q.IsScored:
				scored = "nobody"
			}
			t.Row(
				strconv.Itoa(q.QuestionID),
				c.CategoryName,
				catalog.TierName(q.Difficulty),
				strconv.Itoa(q.Points),
				scored,
			)
		}
	}
	return t.String()
}

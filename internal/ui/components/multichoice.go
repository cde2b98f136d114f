package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqgame/internal/ui/theme"
)

// MultiChoice lets the host record which answer a team picked. A wrong pick
// with attempts left is struck out and the team may pick again.
type MultiChoice struct {
	Options      []string
	CorrectIndex int
	Selected     int
	Attempts     int
	Eliminated   map[int]bool
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a multiple-choice selector with one attempt.
func NewMultiChoice(options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Options:      options,
		CorrectIndex: correctIndex,
		Attempts:     1,
		Eliminated:   map[int]bool{},
		ChosenIndex:  -1,
	}
}

// GrantAttempt gives the team one more pick.
func (m *MultiChoice) GrantAttempt() {
	if !m.Submitted {
		m.Attempts++
	}
}

// Update handles keyboard navigation and selection. Number keys pick an
// option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		m.pick(m.Selected)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) && !m.Eliminated[i] {
				m.Selected = i
				m.pick(i)
			}
		}
	}

	return m, nil
}

func (m *MultiChoice) move(step int) {
	for i := m.Selected + step; i >= 0 && i < len(m.Options); i += step {
		if !m.Eliminated[i] {
			m.Selected = i
			return
		}
	}
}

func (m *MultiChoice) pick(i int) {
	if m.Eliminated[i] {
		return
	}
	m.Attempts--
	if i == m.CorrectIndex || m.Attempts <= 0 {
		m.Submitted = true
		m.ChosenIndex = i
		return
	}
	m.Eliminated[i] = true
	if m.Selected == i {
		m.move(1)
		if m.Selected == i {
			m.move(-1)
		}
	}
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Submitted && i == m.CorrectIndex:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case m.Submitted && i == m.ChosenIndex, m.Eliminated[i]:
			style = lipgloss.NewStyle().Foreground(theme.Error).Strikethrough(true)
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}

// IsCorrect returns true if the team chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}

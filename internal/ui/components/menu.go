package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqgame/internal/ui/theme"
)

// MenuItem represents a single item in a pick list.
type MenuItem struct {
	ID       int
	Label    string
	Detail   string
	Disabled bool
	Checked  bool
}

// Menu is a vertical list where up to Limit items can be checked.
type Menu struct {
	Items    []MenuItem
	Selected int
	Limit    int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem, limit int) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{Items: items, Selected: selected, Limit: limit}
}

// Update handles keyboard navigation; space or x toggles the selected item.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "space", " ", "x":
		m.toggle()
	}

	return m, nil
}

func (m *Menu) toggle() {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return
	}
	item := &m.Items[m.Selected]
	if item.Disabled {
		return
	}
	if !item.Checked && m.Limit > 0 && len(m.CheckedIDs()) >= m.Limit {
		return
	}
	item.Checked = !item.Checked
}

// CheckedIDs returns the ids of the checked items in list order.
func (m Menu) CheckedIDs() []int {
	var ids []int
	for _, item := range m.Items {
		if item.Checked {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// View renders the menu.
func (m Menu) View(focused bool) string {
	var s string
	for i, item := range m.Items {
		box := "[ ] "
		if item.Checked {
			box = "[x] "
		}
		line := box + item.Label
		if item.Detail != "" {
			line += "  " + theme.Muted.Render(item.Detail)
		}

		switch {
		case item.Disabled:
			s += theme.Muted.Render("    "+box+item.Label) + "\n"
		case focused && i == m.Selected:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ▸ "+line) + "\n"
		default:
			s += theme.Body.Render("    "+line) + "\n"
		}
	}
	return s
}

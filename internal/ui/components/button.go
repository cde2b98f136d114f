package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/iqgame/internal/ui/theme"
)

// Button is a styled button component.
type Button struct {
	Label   string
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{Label: label, OnPress: onPress}
}

// View renders the button, highlighted when active.
func (b Button) View(active bool) string {
	if active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render("  " + b.Label)
}

// ButtonRow is a horizontal set of buttons with one selected.
type ButtonRow struct {
	Buttons  []Button
	Selected int
}

// NewButtonRow creates a row with the first button selected.
func NewButtonRow(buttons ...Button) ButtonRow {
	return ButtonRow{Buttons: buttons}
}

// Update moves the selection with left/right or tab and presses on enter.
func (r ButtonRow) Update(msg tea.Msg) (ButtonRow, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(r.Buttons) == 0 {
		return r, nil
	}

	switch kmsg.String() {
	case "left", "h", "shift+tab":
		r.Selected = (r.Selected + len(r.Buttons) - 1) % len(r.Buttons)
	case "right", "l", "tab":
		r.Selected = (r.Selected + 1) % len(r.Buttons)
	case "enter":
		if b := r.Buttons[r.Selected]; b.OnPress != nil {
			return r, b.OnPress()
		}
	}
	return r, nil
}

// View renders the buttons side by side.
func (r ButtonRow) View() string {
	parts := make([]string, len(r.Buttons))
	for i, b := range r.Buttons {
		parts[i] = b.View(i == r.Selected)
	}
	return strings.Join(parts, "  ")
}

// Package setup creates a new session: names, teams and six categories.
package setup

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqgame/internal/allocator"
	"github.com/abhisek/iqgame/internal/availability"
	"github.com/abhisek/iqgame/internal/router"
	"github.com/abhisek/iqgame/internal/screen"
	"github.com/abhisek/iqgame/internal/screens/board"
	"github.com/abhisek/iqgame/internal/ui/components"
	"github.com/abhisek/iqgame/internal/ui/layout"
	"github.com/abhisek/iqgame/internal/ui/theme"
)

// availabilityMsg carries the categories to pick from.
type availabilityMsg struct {
	Categories []availability.Category
	Err        error
}

// createdMsg reports the outcome of the allocation.
type createdMsg struct {
	Created *allocator.Created
	Err     error
}

// focus targets, in tab order
const (
	focusName = iota
	focusTeam1
	focusTeam2
	focusCategories
	focusCount
)

// SetupScreen implements screen.Screen for the new game form.
type SetupScreen struct {
	ctx context.Context
	svc screen.Services

	inputs     []components.TextInput
	categories components.Menu
	focus      int
	loaded     bool
	creating   bool
	errMsg     string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen.
func New(ctx context.Context, svc screen.Services) *SetupScreen {
	return &SetupScreen{
		ctx: ctx,
		svc: svc,
		inputs: []components.TextInput{
			components.NewTextInput("Session name", "Friday quiz", 60),
			components.NewTextInput("Team 1 (starts)", "Owls", 40),
			components.NewTextInput("Team 2", "Foxes", 40),
		},
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return tea.Batch(s.setFocus(s.focus), s.loadCategories())
}

func (s *SetupScreen) Title() string {
	return "New game"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Next field"}}
	if s.focus == focusCategories {
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Move"},
			layout.KeyHint{Key: "Space", Description: "Pick"},
			layout.KeyHint{Key: "Enter", Description: "Start"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *SetupScreen) loadCategories() tea.Cmd {
	return func() tea.Msg {
		cats, err := s.svc.Availability.GetAvailability(s.ctx)
		return availabilityMsg{Categories: cats, Err: err}
	}
}

// setFocus moves focus to target and returns the cursor command of the
// focused input, if any.
func (s *SetupScreen) setFocus(target int) tea.Cmd {
	s.focus = (target + focusCount) % focusCount
	var cmd tea.Cmd
	for i := range s.inputs {
		if i == s.focus {
			cmd = s.inputs[i].Focus()
		} else {
			s.inputs[i].Blur()
		}
	}
	return cmd
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case availabilityMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		items := make([]components.MenuItem, len(msg.Categories))
		for i, c := range msg.Categories {
			items[i] = components.MenuItem{
				ID:       c.CategoryID,
				Label:    c.CategoryName,
				Detail:   fmt.Sprintf("%d games left", c.AvailableGames),
				Disabled: c.AvailableGames == 0,
			}
		}
		s.categories = components.NewMenu(items, allocator.CategoriesPerSession)
		s.loaded = true
		return s, nil

	case createdMsg:
		s.creating = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: board.New(s.ctx, s.svc, msg.Created.SessionID)}
		}

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.focus < focusCategories {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SetupScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.creating {
		return s, nil
	}
	switch msg.String() {
	case "tab", "down":
		if s.focus < focusCategories || msg.String() == "tab" {
			return s, s.setFocus(s.focus + 1)
		}
	case "shift+tab", "up":
		if s.focus < focusCategories || msg.String() == "shift+tab" {
			return s, s.setFocus(s.focus - 1)
		}
	case "enter":
		if s.focus < focusCategories {
			return s, s.setFocus(s.focus + 1)
		}
		return s, s.create()
	}

	if s.focus == focusCategories {
		var cmd tea.Cmd
		s.categories, cmd = s.categories.Update(msg)
		return s, cmd
	}

	s.errMsg = ""
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *SetupScreen) request() allocator.Request {
	return allocator.Request{
		Name:        s.inputs[focusName].Value(),
		Team1:       s.inputs[focusTeam1].Value(),
		Team2:       s.inputs[focusTeam2].Value(),
		CategoryIDs: s.categories.CheckedIDs(),
	}
}

func (s *SetupScreen) create() tea.Cmd {
	req := s.request()
	if err := req.Validate(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.creating = true
	s.errMsg = ""
	return func() tea.Msg {
		created, err := s.svc.Allocator.CreateSession(s.ctx, req)
		return createdMsg{Created: created, Err: err}
	}
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder
	for _, in := range s.inputs {
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	heading := theme.Muted.Render("Categories")
	if s.focus == focusCategories {
		heading = theme.Title.Render("Categories")
	}
	picked := len(s.categories.CheckedIDs())
	b.WriteString(heading + theme.Muted.Render(fmt.Sprintf("  %d/%d picked", picked, allocator.CategoriesPerSession)))
	b.WriteString("\n")
	switch {
	case !s.loaded && s.errMsg == "":
		b.WriteString(theme.Hint.Render("Loading categories..."))
	case s.loaded && len(s.categories.Items) == 0:
		b.WriteString(theme.Hint.Render("No categories. Import a catalog with `iqgame seed`."))
	default:
		b.WriteString(s.categories.View(s.focus == focusCategories))
	}

	if s.creating {
		b.WriteString("\n" + theme.Hint.Render("Drawing questions..."))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + theme.Bad.Render(s.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(min(width-4, 70)).Render(b.String()))
}

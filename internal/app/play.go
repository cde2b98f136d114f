package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqgame/internal/router"
	"github.com/abhisek/iqgame/internal/screen"
	"github.com/abhisek/iqgame/internal/screens/board"
	"github.com/abhisek/iqgame/internal/screens/setup"
	"github.com/abhisek/iqgame/internal/ui/layout"
)

// AppModel is the root Bubble Tea model of the play program.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(initial screen.Screen) AppModel {
	return AppModel{router: router.New(initial)}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if frame := m.render(); frame != "" {
		v.SetContent(frame)
	}
	return v
}

// render composes header, active screen and footer. It is empty until the
// terminal size is known.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var score layout.Scoreline
	if sp, ok := active.(screen.ScorelineProvider); ok {
		score = sp.Scoreline()
	}
	header := layout.RenderHeader(active.Title(), score, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (a *App) services() screen.Services {
	return screen.Services{
		Allocator:    a.Allocator,
		Engine:       a.Engine,
		Ledger:       a.Ledger,
		Availability: a.Availability,
	}
}

// playScreen is the first screen of the play program: the board of
// sessionID, or the new game form when sessionID is zero.
func (a *App) playScreen(ctx context.Context, sessionID int) screen.Screen {
	if sessionID == 0 {
		return setup.New(ctx, a.services())
	}
	return board.New(ctx, a.services(), sessionID)
}

// Play runs the interactive game host until the user quits.
func (a *App) Play(ctx context.Context, sessionID int) error {
	p := tea.NewProgram(newAppModel(a.playScreen(ctx, sessionID)))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run play program: %w", err)
	}
	return nil
}

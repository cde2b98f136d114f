// Package results shows the standings of a session.
package results

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iqgame/internal/game"
	"github.com/abhisek/iqgame/internal/router"
	"github.com/abhisek/iqgame/internal/screen"
	"github.com/abhisek/iqgame/internal/ui/layout"
	"github.com/abhisek/iqgame/internal/ui/report"
	"github.com/abhisek/iqgame/internal/ui/theme"
)

// loadedMsg carries the standings of the session.
type loadedMsg struct {
	Results game.Results
	Status  game.Status
	Err     error
}

// ResultsScreen displays the winner and per-category breakdown.
type ResultsScreen struct {
	ctx       context.Context
	svc       screen.Services
	sessionID int

	results *game.Results
	status  game.Status
	errMsg  string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.ScorelineProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for sessionID.
func New(ctx context.Context, svc screen.Services, sessionID int) *ResultsScreen {
	return &ResultsScreen{ctx: ctx, svc: svc, sessionID: sessionID}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		res, err := s.svc.Engine.Results(s.ctx, s.sessionID)
		if err != nil {
			return loadedMsg{Err: err}
		}
		st, err := s.svc.Engine.Status(s.ctx, s.sessionID)
		return loadedMsg{Results: res, Status: st, Err: err}
	}
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Board"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *ResultsScreen) Scoreline() layout.Scoreline {
	return screen.ScorelineOf(s.status)
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.results = &msg.Results
		s.status = msg.Status
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	var body string
	switch {
	case s.errMsg != "":
		body = theme.Bad.Render(s.errMsg)
	case s.results == nil:
		body = theme.Hint.Render("Loading results...")
	default:
		body = report.Results(*s.results)
		if s.status.GameFinished {
			body = theme.Good.Render("Game over!") + "\n\n" + body
		}
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

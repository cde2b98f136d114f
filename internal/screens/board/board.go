// Package board shows a session's six categories by six questions and opens
// the question the host picks.
package board

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/iqgame/internal/game"
	"github.com/abhisek/iqgame/internal/router"
	"github.com/abhisek/iqgame/internal/screen"
	"github.com/abhisek/iqgame/internal/screens/question"
	"github.com/abhisek/iqgame/internal/screens/results"
	"github.com/abhisek/iqgame/internal/ui/layout"
)

// loadedMsg carries the board and status of the session.
type loadedMsg struct {
	Categories []game.CategoryView
	Status     game.Status
	Err        error
}

// turnChangedMsg reports a manual turn change.
type turnChangedMsg struct {
	Err error
}

// BoardScreen implements screen.Screen for a session board.
type BoardScreen struct {
	ctx       context.Context
	svc       screen.Services
	sessionID int

	categories []game.CategoryView
	status     game.Status
	loaded     bool
	col, row   int
	notice     string
	errMsg     string
}

var _ screen.Screen = (*BoardScreen)(nil)
var _ screen.KeyHintProvider = (*BoardScreen)(nil)
var _ screen.ScorelineProvider = (*BoardScreen)(nil)

// New creates a BoardScreen for sessionID.
func New(ctx context.Context, svc screen.Services, sessionID int) *BoardScreen {
	return &BoardScreen{ctx: ctx, svc: svc, sessionID: sessionID}
}

// Init loads the board. It runs again each time a question screen closes.
func (s *BoardScreen) Init() tea.Cmd {
	return func() tea.Msg {
		cats, err := s.svc.Engine.SessionQuestions(s.ctx, s.sessionID)
		if err != nil {
			return loadedMsg{Err: err}
		}
		st, err := s.svc.Engine.Status(s.ctx, s.sessionID)
		return loadedMsg{Categories: cats, Status: st, Err: err}
	}
}

func (s *BoardScreen) Title() string {
	if s.status.SessionName != "" {
		return s.status.SessionName
	}
	return "Board"
}

func (s *BoardScreen) Scoreline() layout.Scoreline {
	return screen.ScorelineOf(s.status)
}

func (s *BoardScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "Q", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Enter", Description: "Open"},
		{Key: "T", Description: "Switch turn"},
		{Key: "R", Description: "Results"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *BoardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.categories = msg.Categories
		s.status = msg.Status
		s.loaded = true
		s.clamp()
		if s.status.GameFinished {
			s.notice = "All questions are scored. Press R for the results."
		}
		return s, nil

	case turnChangedMsg:
		if msg.Err != nil {
			s.notice = msg.Err.Error()
			return s, nil
		}
		return s, s.Init()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *BoardScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "q":
		return s, tea.Quit
	}
	if s.errMsg != "" || !s.loaded {
		return s, nil
	}

	s.notice = ""
	switch msg.String() {
	case "left", "h":
		s.col--
	case "right", "l":
		s.col++
	case "up", "k":
		s.row--
	case "down", "j":
		s.row++
	case "enter", "space", " ":
		return s, s.open()
	case "t", "T":
		return s, s.switchTurn()
	case "r", "R":
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: results.New(s.ctx, s.svc, s.sessionID)}
		}
	}
	s.clamp()
	return s, nil
}

// clamp keeps the cursor on the board.
func (s *BoardScreen) clamp() {
	s.col = min(max(s.col, 0), max(len(s.categories)-1, 0))
	rows := 0
	if len(s.categories) > 0 {
		rows = len(s.categories[s.col].Questions)
	}
	s.row = min(max(s.row, 0), max(rows-1, 0))
}

// cursor returns the question under the cursor.
func (s *BoardScreen) cursor() (game.CategoryView, game.QuestionView, bool) {
	if s.col >= len(s.categories) {
		return game.CategoryView{}, game.QuestionView{}, false
	}
	cat := s.categories[s.col]
	if s.row >= len(cat.Questions) {
		return cat, game.QuestionView{}, false
	}
	return cat, cat.Questions[s.row], true
}

func (s *BoardScreen) open() tea.Cmd {
	cat, q, ok := s.cursor()
	if !ok {
		return nil
	}
	if q.IsScored {
		s.notice = fmt.Sprintf("That %d from %s is already scored.", q.Points, cat.CategoryName)
		return nil
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: question.New(s.ctx, s.svc, s.sessionID, cat.CategoryName, q)}
	}
}

// switchTurn hands the turn to whichever team is not playing.
func (s *BoardScreen) switchTurn() tea.Cmd {
	next := s.status.Team1.Name
	if s.status.CurrentTurn == s.status.Team1.Name {
		next = s.status.Team2.Name
	}
	return func() tea.Msg {
		_, err := s.svc.Engine.ChangeTurn(s.ctx, s.sessionID, next)
		return turnChangedMsg{Err: err}
	}
}

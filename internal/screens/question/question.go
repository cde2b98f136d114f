// Package question plays one board question: power-ups, the answer and the
// award.
package question

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/iqgame/internal/game"
	"github.com/abhisek/iqgame/internal/help"
	"github.com/abhisek/iqgame/internal/router"
	"github.com/abhisek/iqgame/internal/screen"
	"github.com/abhisek/iqgame/internal/screens/results"
	"github.com/abhisek/iqgame/internal/ui/components"
	"github.com/abhisek/iqgame/internal/ui/layout"
)

type phase int

const (
	phaseAsking phase = iota
	phaseAwarding
	phaseScored
)

// Nobody is the award choice for a question no team answered.
const Nobody = "Nobody"

// statusMsg carries the session status the screen works from.
type statusMsg struct {
	Status game.Status
	Err    error
}

// helpUsedMsg reports the outcome of a power-up request.
type helpUsedMsg struct {
	Type help.Type
	Err  error
}

// scoredMsg reports the outcome of the award.
type scoredMsg struct {
	Scored  game.Scored
	Err     error
	TurnErr error
}

// QuestionScreen implements screen.Screen for one open question.
type QuestionScreen struct {
	ctx       context.Context
	svc       screen.Services
	sessionID int
	category  string
	q         game.QuestionView

	status       game.Status
	phase        phase
	mc           *components.MultiChoice
	extraAttempt bool
	award        components.ButtonRow
	scored       *game.Scored
	notice       string
	errMsg       string
}

var _ screen.Screen = (*QuestionScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionScreen)(nil)
var _ screen.ScorelineProvider = (*QuestionScreen)(nil)

// New creates a QuestionScreen for q, a question of category on the board
// of sessionID.
func New(ctx context.Context, svc screen.Services, sessionID int, category string, q game.QuestionView) *QuestionScreen {
	return &QuestionScreen{ctx: ctx, svc: svc, sessionID: sessionID, category: category, q: q}
}

func (s *QuestionScreen) Init() tea.Cmd {
	return func() tea.Msg {
		st, err := s.svc.Engine.Status(s.ctx, s.sessionID)
		return statusMsg{Status: st, Err: err}
	}
}

func (s *QuestionScreen) Title() string {
	return fmt.Sprintf("%s · %d", s.category, s.q.Points)
}

func (s *QuestionScreen) Scoreline() layout.Scoreline {
	return screen.ScorelineOf(s.status)
}

func (s *QuestionScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAwarding:
		return []layout.KeyHint{
			{Key: "←→", Description: "Team"},
			{Key: "Enter", Description: "Award"},
			{Key: "Esc", Description: "Board"},
		}
	case phaseScored:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	hints := []layout.KeyHint{
		{Key: "O", Description: "Options"},
		{Key: "D", Description: "Double"},
		{Key: "W", Description: "Two answers"},
	}
	if s.mc != nil {
		hints = append(hints, layout.KeyHint{Key: "1-9", Description: "Team's pick"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Reveal"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Board"})
}

// team is the team whose turn it is. A free-form turn name falls back to
// the first team.
func (s *QuestionScreen) team() string {
	switch s.status.CurrentTurn {
	case s.status.Team1.Name, s.status.Team2.Name:
		return s.status.CurrentTurn
	}
	return s.status.Team1.Name
}

// otherTeam is the team that plays after team.
func (s *QuestionScreen) otherTeam(team string) string {
	if team == s.status.Team1.Name {
		return s.status.Team2.Name
	}
	return s.status.Team1.Name
}

func (s *QuestionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.status = msg.Status
		return s, nil

	case helpUsedMsg:
		return s.handleHelpUsed(msg)

	case scoredMsg:
		return s.handleScored(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuestionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch s.phase {
	case phaseScored:
		if s.scored != nil && s.scored.GameFinished {
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: results.New(s.ctx, s.svc, s.sessionID)}
			}
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case phaseAwarding:
		var cmd tea.Cmd
		s.award, cmd = s.award.Update(msg)
		return s, cmd
	}

	switch key {
	case "o", "O":
		return s, s.useHelp(help.Options)
	case "d", "D":
		return s, s.useHelp(help.DoublePoints)
	case "w", "W":
		return s, s.useHelp(help.TwoAnswers)
	}

	if s.mc != nil {
		mc, cmd := s.mc.Update(msg)
		s.mc = &mc
		if mc.Submitted {
			preselect := awardNobody
			if mc.IsCorrect() {
				preselect = s.turnButton()
			}
			s.startAwarding(preselect)
		}
		return s, cmd
	}

	switch key {
	case "space", " ", "enter":
		s.startAwarding(s.turnButton())
	}
	return s, nil
}

func (s *QuestionScreen) useHelp(typ help.Type) tea.Cmd {
	team := s.team()
	req := help.UseRequest{SessionID: s.sessionID, TeamName: team, HelpType: string(typ)}
	if typ == help.Options {
		qid := s.q.QuestionID
		req.QuestionID = &qid
	}
	return func() tea.Msg {
		return helpUsedMsg{Type: typ, Err: s.svc.Ledger.UseHelp(s.ctx, req)}
	}
}

func (s *QuestionScreen) handleHelpUsed(msg helpUsedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.notice = msg.Err.Error()
		return s, nil
	}
	team := s.team()
	switch msg.Type {
	case help.Options:
		s.mc = s.choices()
		if s.extraAttempt {
			s.mc.GrantAttempt()
		}
		s.notice = fmt.Sprintf("%s bought the options for %d points", team, help.OptionsCost)
	case help.DoublePoints:
		s.notice = fmt.Sprintf("%s armed double points: the next question scores double", team)
	case help.TwoAnswers:
		if s.mc != nil {
			s.mc.GrantAttempt()
		} else {
			s.extraAttempt = true
		}
		s.notice = fmt.Sprintf("%s may answer twice", team)
	}
	return s, s.Init()
}

func (s *QuestionScreen) choices() *components.MultiChoice {
	options := make([]string, len(s.q.Answers))
	correct := -1
	for i, a := range s.q.Answers {
		options[i] = a.Text
		if a.IsCorrect && correct < 0 {
			correct = i
		}
	}
	mc := components.NewMultiChoice(options, correct)
	return &mc
}

// award row positions
const (
	awardTeam1 = iota
	awardTeam2
	awardNobody
)

// startAwarding reveals the answer and preselects a button of the award row.
func (s *QuestionScreen) startAwarding(preselect int) {
	s.phase = phaseAwarding
	teams := []string{s.status.Team1.Name, s.status.Team2.Name, ""}
	buttons := make([]components.Button, len(teams))
	for i, team := range teams {
		label := team
		if i == awardNobody {
			label = Nobody
		}
		buttons[i] = components.NewButton(label, func() tea.Cmd { return s.score(team) })
	}
	s.award = components.NewButtonRow(buttons...)
	s.award.Selected = preselect
}

// turnButton is the award button of the team whose turn it is.
func (s *QuestionScreen) turnButton() int {
	if s.team() == s.status.Team2.Name && s.team() != s.status.Team1.Name {
		return awardTeam2
	}
	return awardTeam1
}

// score credits team (empty for nobody) and hands the turn to the team that
// did not just play.
func (s *QuestionScreen) score(team string) tea.Cmd {
	next := s.otherTeam(s.team())
	return func() tea.Msg {
		scored, err := s.svc.Engine.ScoreQuestion(s.ctx, s.sessionID, s.q.QuestionID, team)
		if err != nil {
			return scoredMsg{Err: err}
		}
		_, err = s.svc.Engine.ChangeTurn(s.ctx, s.sessionID, next)
		return scoredMsg{Scored: scored, TurnErr: err}
	}
}

func (s *QuestionScreen) handleScored(msg scoredMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.notice = msg.Err.Error()
		return s, nil
	}
	s.scored = &msg.Scored
	s.phase = phaseScored
	if msg.TurnErr != nil {
		s.notice = msg.TurnErr.Error()
	}
	return s, s.Init()
}

// correctAnswer returns the text of the first correct answer.
func (s *QuestionScreen) correctAnswer() string {
	for _, a := range s.q.Answers {
		if a.IsCorrect {
			return a.Text
		}
	}
	return ""
}

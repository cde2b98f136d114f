package question

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqgame/internal/router"
	"github.com/abhisek/iqgame/internal/screen/screentest"
	"github.com/abhisek/iqgame/internal/screens/results"
)

// open returns a question screen for the first easy question of the first
// category, with its status loaded.
func open(t *testing.T, f *screentest.Fixture) *QuestionScreen {
	t.Helper()
	cat := f.Board(t)[0]
	s := New(context.Background(), f.Services, f.SessionID(), cat.CategoryName, cat.Questions[0])
	screentest.Init(t, s)
	require.Equal(t, "Owls", s.status.CurrentTurn)
	return s
}

// drive sends msg and keeps feeding back the screen's own messages. It
// returns the first message meant for someone else, nil if none.
func drive(s *QuestionScreen, msg tea.Msg) tea.Msg {
	for {
		_, cmd := s.Update(msg)
		msg = screentest.Exec(cmd)
		switch msg.(type) {
		case statusMsg, helpUsedMsg, scoredMsg:
			continue
		}
		return msg
	}
}

func TestOptionsThenCorrectPickAwardsTurnTeam(t *testing.T) {
	f := screentest.New(t)
	s := open(t, f)

	drive(s, screentest.KeyPress('o'))
	require.NotNil(t, s.mc)
	assert.Equal(t, []string{"right", "wrong"}, s.mc.Options)
	assert.Contains(t, s.notice, "Owls bought the options")

	drive(s, screentest.KeyPress('1'))
	require.Equal(t, phaseAwarding, s.phase)
	assert.Equal(t, awardTeam1, s.award.Selected)

	drive(s, screentest.SpecialKey(tea.KeyEnter))
	require.Equal(t, phaseScored, s.phase)
	require.NotNil(t, s.scored)
	assert.Equal(t, 250, s.scored.Points)
	assert.False(t, s.scored.Doubled)

	st := f.Status(t)
	assert.Equal(t, 250, st.Team1.Score, "options cost is floored at zero before the award")
	assert.True(t, st.Team1.Help.OptionsUsed)
	assert.Equal(t, "Foxes", st.CurrentTurn)

	assert.Equal(t, router.PopScreenMsg{}, drive(s, screentest.KeyPress('x')))
}

func TestWrongPickPreselectsNobody(t *testing.T) {
	f := screentest.New(t)
	s := open(t, f)

	drive(s, screentest.KeyPress('o'))
	drive(s, screentest.KeyPress('2'))
	require.Equal(t, phaseAwarding, s.phase)
	assert.Equal(t, awardNobody, s.award.Selected)

	drive(s, screentest.SpecialKey(tea.KeyEnter))
	require.NotNil(t, s.scored)
	assert.Empty(t, s.scored.Team)
	assert.Zero(t, s.scored.Points)

	st := f.Status(t)
	assert.Equal(t, 1, st.TotalScored)
	assert.Equal(t, "Foxes", st.CurrentTurn)
}

func TestTwoAnswersGivesSecondPick(t *testing.T) {
	f := screentest.New(t)
	s := open(t, f)

	drive(s, screentest.KeyPress('w'))
	assert.True(t, s.extraAttempt)
	drive(s, screentest.KeyPress('o'))
	require.NotNil(t, s.mc)
	assert.Equal(t, 2, s.mc.Attempts)

	drive(s, screentest.KeyPress('2'))
	assert.Equal(t, phaseAsking, s.phase)
	assert.True(t, s.mc.Eliminated[1])

	drive(s, screentest.KeyPress('1'))
	require.Equal(t, phaseAwarding, s.phase)
	assert.Equal(t, awardTeam1, s.award.Selected)
}

func TestDoublePointsAwardToOtherTeam(t *testing.T) {
	f := screentest.New(t)
	s := open(t, f)

	drive(s, screentest.KeyPress('d'))
	assert.True(t, s.status.DoublePointsArmed)

	drive(s, screentest.KeyPress(' '))
	require.Equal(t, phaseAwarding, s.phase)
	assert.Equal(t, awardTeam1, s.award.Selected)

	drive(s, screentest.SpecialKey(tea.KeyRight))
	assert.Equal(t, awardTeam2, s.award.Selected)
	drive(s, screentest.SpecialKey(tea.KeyEnter))

	require.NotNil(t, s.scored)
	assert.Equal(t, "Foxes", s.scored.Team)
	assert.True(t, s.scored.Doubled)
	assert.Equal(t, 500, s.scored.Points)

	st := f.Status(t)
	assert.Equal(t, 500, st.Team2.Score)
	assert.False(t, st.DoublePointsArmed)
}

func TestRepeatedHelpShowsConflict(t *testing.T) {
	f := screentest.New(t)
	s := open(t, f)

	drive(s, screentest.KeyPress('d'))
	drive(s, screentest.KeyPress('d'))
	assert.Contains(t, s.notice, "Owls already used doublePoints")
	assert.Equal(t, phaseAsking, s.phase)
}

func TestLastQuestionOpensResults(t *testing.T) {
	f := screentest.New(t)
	ctx := context.Background()

	board := f.Board(t)
	last := board[len(board)-1]
	lastQ := last.Questions[len(last.Questions)-1]
	for _, cat := range board {
		for _, q := range cat.Questions {
			if q.QuestionID == lastQ.QuestionID {
				continue
			}
			_, err := f.Services.Engine.ScoreQuestion(ctx, f.SessionID(), q.QuestionID, "")
			require.NoError(t, err)
		}
	}

	s := New(ctx, f.Services, f.SessionID(), last.CategoryName, lastQ)
	screentest.Init(t, s)
	drive(s, screentest.KeyPress(' '))
	drive(s, screentest.SpecialKey(tea.KeyEnter))
	require.NotNil(t, s.scored)
	require.True(t, s.scored.GameFinished)

	msg := drive(s, screentest.SpecialKey(tea.KeyEnter))
	replace, ok := msg.(router.ReplaceScreenMsg)
	require.True(t, ok, "got %T", msg)
	assert.IsType(t, &results.ResultsScreen{}, replace.Screen)
}

func TestViewShowsAnswerWhileAwarding(t *testing.T) {
	f := screentest.New(t)
	s := open(t, f)

	assert.Contains(t, s.View(100, 30), "Press space to reveal")
	drive(s, screentest.KeyPress(' '))

	out := s.View(100, 30)
	assert.Contains(t, out, "Answer:")
	assert.Contains(t, out, "right")
	assert.Contains(t, out, Nobody)
}

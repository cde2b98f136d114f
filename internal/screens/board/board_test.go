package board

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqgame/internal/router"
	"github.com/abhisek/iqgame/internal/screen/screentest"
	"github.com/abhisek/iqgame/internal/screens/question"
	"github.com/abhisek/iqgame/internal/screens/results"
)

func loaded(t *testing.T, f *screentest.Fixture) *BoardScreen {
	t.Helper()
	s := New(context.Background(), f.Services, f.SessionID())
	screentest.Init(t, s)
	require.True(t, s.loaded)
	return s
}

func TestBoardLoads(t *testing.T) {
	f := screentest.New(t)
	s := loaded(t, f)

	require.Len(t, s.categories, 6)
	assert.Equal(t, "Friday", s.Title())
	assert.Equal(t, "Owls", s.Scoreline().Turn)

	out := s.View(120, 30)
	assert.Contains(t, out, "History")
	assert.Contains(t, out, "750")
	assert.Contains(t, out, "0/36")
}

func TestCursorStaysOnBoard(t *testing.T) {
	f := screentest.New(t)
	s := loaded(t, f)

	s.Update(screentest.SpecialKey(tea.KeyUp))
	s.Update(screentest.SpecialKey(tea.KeyLeft))
	assert.Equal(t, 0, s.col)
	assert.Equal(t, 0, s.row)

	for range 10 {
		s.Update(screentest.SpecialKey(tea.KeyRight))
		s.Update(screentest.KeyPress('j'))
	}
	assert.Equal(t, 5, s.col)
	assert.Equal(t, 5, s.row)
}

func TestEnterOpensQuestion(t *testing.T) {
	f := screentest.New(t)
	s := loaded(t, f)

	s.Update(screentest.SpecialKey(tea.KeyDown))
	_, msg := screentest.Press(t, s, screentest.SpecialKey(tea.KeyEnter))
	push, ok := msg.(router.PushScreenMsg)
	require.True(t, ok, "got %T", msg)
	q, ok := push.Screen.(*question.QuestionScreen)
	require.True(t, ok)
	assert.Equal(t, "History · 250", q.Title())
}

func TestScoredQuestionDoesNotOpen(t *testing.T) {
	f := screentest.New(t)
	first := f.Board(t)[0].Questions[0]
	_, err := f.Services.Engine.ScoreQuestion(context.Background(), f.SessionID(), first.QuestionID, "Foxes")
	require.NoError(t, err)

	s := loaded(t, f)
	_, msg := screentest.Press(t, s, screentest.SpecialKey(tea.KeyEnter))
	assert.Nil(t, msg)
	assert.Contains(t, s.notice, "already scored")
	assert.Contains(t, s.View(120, 30), "Foxes")
}

func TestSwitchTurnReloads(t *testing.T) {
	f := screentest.New(t)
	s := loaded(t, f)

	_, msg := screentest.Press(t, s, screentest.KeyPress('t'))
	require.IsType(t, turnChangedMsg{}, msg)
	_, msg = screentest.Press(t, s, msg)
	s.Update(msg)

	assert.Equal(t, "Foxes", s.status.CurrentTurn)
	assert.Equal(t, "Foxes", f.Status(t).CurrentTurn)
}

func TestResultsKeyPushesResults(t *testing.T) {
	f := screentest.New(t)
	s := loaded(t, f)

	_, msg := screentest.Press(t, s, screentest.KeyPress('r'))
	push, ok := msg.(router.PushScreenMsg)
	require.True(t, ok, "got %T", msg)
	assert.IsType(t, &results.ResultsScreen{}, push.Screen)
}

func TestUnknownSessionShowsError(t *testing.T) {
	f := screentest.New(t)
	s := New(context.Background(), f.Services, 9999)
	screentest.Init(t, s)

	assert.False(t, s.loaded)
	assert.Contains(t, s.View(100, 30), "9999")
	_, msg := screentest.Press(t, s, screentest.KeyPress('q'))
	assert.Equal(t, tea.QuitMsg{}, msg)
}

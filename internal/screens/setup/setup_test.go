package setup

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqgame/internal/router"
	"github.com/abhisek/iqgame/internal/screen/screentest"
	"github.com/abhisek/iqgame/internal/screens/board"
	"github.com/abhisek/iqgame/internal/testutil"
)

func ready(t *testing.T, f *screentest.Fixture) *SetupScreen {
	t.Helper()
	s := New(context.Background(), f.Services)
	s.setFocus(focusName)
	s.Update(s.loadCategories()())
	require.True(t, s.loaded)
	return s
}

func typeText(s *SetupScreen, text string) {
	for _, r := range text {
		s.Update(screentest.KeyPress(r))
	}
}

func tab(s *SetupScreen) {
	s.Update(screentest.SpecialKey(tea.KeyTab))
}

func TestSetupCreatesSessionAndOpensBoard(t *testing.T) {
	f := screentest.New(t)
	s := ready(t, f)

	typeText(s, "Rematch")
	tab(s)
	typeText(s, "Owls")
	tab(s)
	typeText(s, "Foxes")
	tab(s)
	require.Equal(t, focusCategories, s.focus)

	for range 6 {
		s.Update(screentest.KeyPress(' '))
		s.Update(screentest.SpecialKey(tea.KeyDown))
	}
	assert.Len(t, s.categories.CheckedIDs(), 6)
	assert.Equal(t, "Rematch", s.request().Name)

	_, msg := screentest.Press(t, s, screentest.SpecialKey(tea.KeyEnter))
	require.IsType(t, createdMsg{}, msg)
	assert.True(t, s.creating)

	_, msg = screentest.Press(t, s, msg)
	replace, ok := msg.(router.ReplaceScreenMsg)
	require.True(t, ok, "got %T: %s", msg, s.errMsg)
	assert.IsType(t, &board.BoardScreen{}, replace.Screen)

	cats, err := f.Services.Availability.GetAvailability(context.Background())
	require.NoError(t, err)
	for _, c := range cats {
		assert.Zero(t, c.AvailableGames, c.CategoryName)
	}
}

func TestSetupRejectsIncompleteForm(t *testing.T) {
	f := screentest.New(t)
	s := ready(t, f)

	typeText(s, "Short")
	tab(s)
	typeText(s, "Owls")
	tab(s)
	typeText(s, "Foxes")
	tab(s)
	s.Update(screentest.KeyPress(' '))

	_, msg := screentest.Press(t, s, screentest.SpecialKey(tea.KeyEnter))
	assert.Nil(t, msg)
	assert.False(t, s.creating)
	assert.Contains(t, s.errMsg, "exactly 6 categories")
	assert.Contains(t, s.View(100, 40), "1/6 picked")
}

func TestSetupDisablesExhaustedCategories(t *testing.T) {
	f := screentest.New(t)
	testutil.Seed(t, f.Store, testutil.Category{Name: "Empty"})
	s := ready(t, f)

	found := false
	for _, item := range s.categories.Items {
		if item.Label == "Empty" {
			found = true
			assert.True(t, item.Disabled)
			assert.Equal(t, "0 games left", item.Detail)
		} else {
			assert.Equal(t, "1 games left", item.Detail)
		}
	}
	assert.True(t, found)
}

func TestSetupFocusCycles(t *testing.T) {
	f := screentest.New(t)
	s := ready(t, f)

	assert.True(t, s.inputs[focusName].Focused())
	s.Update(screentest.SpecialKey(tea.KeyEnter))
	assert.Equal(t, focusTeam1, s.focus)
	assert.True(t, s.inputs[focusTeam1].Focused())
	assert.False(t, s.inputs[focusName].Focused())

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	assert.Equal(t, focusCategories, s.focus)
}

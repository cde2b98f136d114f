// Package screentest drives play screens against a seeded in-memory store.
package screentest

import (
	"context"
	"math/rand/v2"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqgame/internal/allocator"
	"github.com/abhisek/iqgame/internal/availability"
	"github.com/abhisek/iqgame/internal/game"
	"github.com/abhisek/iqgame/internal/help"
	"github.com/abhisek/iqgame/internal/logging"
	"github.com/abhisek/iqgame/internal/screen"
	"github.com/abhisek/iqgame/internal/store"
	"github.com/abhisek/iqgame/internal/testutil"
)

// Fixture is a catalog of six categories and one session between the Owls
// and the Foxes.
type Fixture struct {
	Store      *store.Store
	Services   screen.Services
	Categories []int
	Session    *allocator.Created
}

// New seeds a catalog with enough questions for two games and creates a
// session on it.
func New(t *testing.T) *Fixture {
	t.Helper()
	st := testutil.OpenStore(t)
	f := &Fixture{
		Store: st,
		Services: screen.Services{
			Allocator:    allocator.New(st, logging.Discard(), allocator.WithRand(rand.New(rand.NewPCG(5, 6)))),
			Engine:       game.New(st, logging.Discard(), game.DefaultConfig()),
			Ledger:       help.New(st, logging.Discard()),
			Availability: availability.New(st),
		},
		Categories: testutil.Board(t, st, 2),
	}
	created, err := f.Services.Allocator.CreateSession(context.Background(), allocator.Request{
		Name: "Friday", Team1: "Owls", Team2: "Foxes", CategoryIDs: f.Categories,
	})
	require.NoError(t, err)
	f.Session = created
	return f
}

// SessionID is the id of the fixture's session.
func (f *Fixture) SessionID() int { return f.Session.SessionID }

// Board returns the session's board.
func (f *Fixture) Board(t *testing.T) []game.CategoryView {
	t.Helper()
	cats, err := f.Services.Engine.SessionQuestions(context.Background(), f.SessionID())
	require.NoError(t, err)
	return cats
}

// Status returns the session's status.
func (f *Fixture) Status(t *testing.T) game.Status {
	t.Helper()
	st, err := f.Services.Engine.Status(context.Background(), f.SessionID())
	require.NoError(t, err)
	return st
}

// Exec runs cmd and returns its message, nil for a nil command.
func Exec(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// Init runs s.Init and feeds the result back, the way the router does when
// the screen is shown.
func Init(t *testing.T, s screen.Screen) screen.Screen {
	t.Helper()
	msg := Exec(s.Init())
	require.NotNil(t, msg)
	s, _ = s.Update(msg)
	return s
}

// Press sends msg and runs the returned command, returning its message.
func Press(t *testing.T, s screen.Screen, msg tea.Msg) (screen.Screen, tea.Msg) {
	t.Helper()
	s, cmd := s.Update(msg)
	out := Exec(cmd)
	return s, out
}

// KeyPress returns a printable key press.
func KeyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// SpecialKey returns a non-printable key press such as tea.KeyEnter.
func SpecialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

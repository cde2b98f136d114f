// Package screen defines what the play program's router drives.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/iqgame/internal/allocator"
	"github.com/abhisek/iqgame/internal/availability"
	"github.com/abhisek/iqgame/internal/game"
	"github.com/abhisek/iqgame/internal/help"
	"github.com/abhisek/iqgame/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first shown, and
	// again whenever the screen above it is popped.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ScorelineProvider is implemented by screens that belong to a running
// session, so the header can show both teams.
type ScorelineProvider interface {
	Scoreline() layout.Scoreline
}

// Services are the engine components screens call into.
type Services struct {
	Allocator    *allocator.Allocator
	Engine       *game.Engine
	Ledger       *help.Ledger
	Availability *availability.Calculator
}

// ScorelineOf builds the header scoreline from a session status.
func ScorelineOf(st game.Status) layout.Scoreline {
	return layout.Scoreline{
		Team1:  st.Team1.Name,
		Team2:  st.Team2.Name,
		Score1: st.Team1.Score,
		Score2: st.Team2.Score,
		Turn:   st.CurrentTurn,
	}
}

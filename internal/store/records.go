package store

import "time"

// Group is a display grouping of categories.
type Group struct {
	ID           int
	Name         string
	Description  string
	Color        string
	DisplayOrder int
	Active       bool
}

// Category is a question category in the catalog.
type Category struct {
	ID          int
	Name        string
	Description string
	ImageURL    string
	GroupID     *int
	DisableMCQ  bool
}

// Question is a catalog question. Points are derived from Difficulty at import.
type Question struct {
	ID         int
	CategoryID int
	Text       string
	ImageURL   string
	Difficulty int
	Points     int
}

// Answer is one answer choice for a question.
type Answer struct {
	ID         int
	QuestionID int
	Text       string
	ImageURL   string
	IsCorrect  bool
}

// Session is one game between two teams.
type Session struct {
	ID              int
	Name            string
	CurrentTurnTeam string
	// Modifier is the session-wide armed power-up, empty when none is armed.
	Modifier  string
	CreatedAt time.Time
}

// SessionQuestion links a question to a session board.
type SessionQuestion struct {
	ID           int
	SessionID    int
	QuestionID   int
	Position     int
	IsScored     bool
	TeamAnswered string
}

// TeamScore is one of the two per-session team totals. Slot is 1 or 2.
type TeamScore struct {
	ID        int
	SessionID int
	Slot      int
	TeamName  string
	Score     int
}

// UsedHelp is one power-up ledger entry.
type UsedHelp struct {
	ID         int
	SessionID  int
	TeamName   string
	HelpType   string
	QuestionID *int
	IsConsumed bool
}

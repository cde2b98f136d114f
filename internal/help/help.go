// Package help keeps the per-team power-up ledger of a session.
//
// "options" and "twoAnswers" are single use. "doublePoints" is armed by a
// team and stays armed until the next question of the session is scored,
// whichever team answers it. The armed state lives in the session's
// modifier slot; ledger rows record who armed it and which question spent it.
package help

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/abhisek/iqgame/internal/gameerr"
	"github.com/abhisek/iqgame/internal/logging"
	"github.com/abhisek/iqgame/internal/store"
)

// Type is a power-up kind.
type Type string

const (
	Options      Type = "options"
	DoublePoints Type = "doublePoints"
	TwoAnswers   Type = "twoAnswers"
)

// Types lists every power-up kind.
var Types = []Type{Options, DoublePoints, TwoAnswers}

// OptionsCost is deducted from a team's score when it uses "options".
const OptionsCost = 150

// ModifierDoublePoints is the session modifier set while double points is armed.
const ModifierDoublePoints = "double_points"

// ParseType validates a power-up name.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", gameerr.Validation("unknown help type %q", s)
}

// Status is one team's power-up state.
type Status struct {
	OptionsUsed        bool `json:"optionsUsed"`
	DoublePointsUsed   bool `json:"doublePointsUsed"`
	DoublePointsActive bool `json:"doublePointsActive"`
	TwoAnswersUsed     bool `json:"twoAnswersUsed"`
}

// StatusOf projects ledger rows onto one team's status.
func StatusOf(rows []store.UsedHelp, team string) Status {
	var s Status
	for _, h := range rows {
		if h.TeamName != team {
			continue
		}
		switch Type(h.HelpType) {
		case Options:
			s.OptionsUsed = true
		case TwoAnswers:
			s.TwoAnswersUsed = true
		case DoublePoints:
			s.DoublePointsUsed = true
			if !h.IsConsumed {
				s.DoublePointsActive = true
			}
		}
	}
	return s
}

// UseRequest asks to spend a power-up.
type UseRequest struct {
	SessionID  int    `json:"sessionId"`
	TeamName   string `json:"teamName"`
	HelpType   string `json:"helpType"`
	QuestionID *int   `json:"questionId,omitempty"`
}

// Ledger is the Help/Power-up Ledger.
type Ledger struct {
	store  *store.Store
	logger *slog.Logger
}

// New returns a Ledger. A nil logger uses slog.Default().
func New(st *store.Store, logger *slog.Logger) *Ledger {
	return &Ledger{store: st, logger: logging.OrDefault(logger)}
}

// HasUsedHelp reports whether team may no longer use typ through the usual
// gate: for doublePoints only while it is armed, for the others once any
// record exists.
func (l *Ledger) HasUsedHelp(ctx context.Context, sessionID int, team string, typ Type) (bool, error) {
	rows, err := l.store.Queries().UsedHelps(ctx, sessionID, team)
	if err != nil {
		return false, gameerr.Persistence("read help ledger", err)
	}
	return hasUsed(rows, typ), nil
}

func hasUsed(rows []store.UsedHelp, typ Type) bool {
	for _, h := range rows {
		if Type(h.HelpType) != typ {
			continue
		}
		if typ != DoublePoints || !h.IsConsumed {
			return true
		}
	}
	return false
}

// UseHelp records a power-up for team. A power-up a team already used is
// rejected with ErrConflict, and doublePoints cannot be armed again once it
// was spent. "options" on a question whose category disables multiple
// choice is rejected with ErrValidation; otherwise it costs OptionsCost
// points, never taking the score below zero.
func (l *Ledger) UseHelp(ctx context.Context, req UseRequest) error {
	typ, err := ParseType(req.HelpType)
	if err != nil {
		return err
	}
	team := strings.TrimSpace(req.TeamName)
	if team == "" {
		return gameerr.Validation("team name is required")
	}

	var score int
	err = l.store.InTx(ctx, func(q *store.Queries) error {
		scores, err := teamScores(ctx, q, req.SessionID)
		if err != nil {
			return err
		}
		current, ok := findTeam(scores, team)
		if !ok {
			return gameerr.NotFound("team %q is not playing session %d", team, req.SessionID)
		}
		score = current.Score

		rows, err := q.UsedHelps(ctx, req.SessionID, team)
		if err != nil {
			return err
		}
		if hasUsed(rows, typ) {
			return gameerr.Conflict("%s already used %s", team, typ)
		}
		if typ == DoublePoints && StatusOf(rows, team).DoublePointsUsed {
			return gameerr.Conflict("%s already spent %s", team, typ)
		}

		if typ == Options && req.QuestionID != nil {
			qn, err := q.GetQuestion(ctx, *req.QuestionID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return gameerr.NotFound("question %d not found", *req.QuestionID)
				}
				return err
			}
			cat, err := q.GetCategory(ctx, qn.CategoryID)
			if err != nil {
				return err
			}
			if cat.DisableMCQ {
				return gameerr.Validation("category %q does not offer multiple choice", cat.Name)
			}
		}

		if _, err := q.InsertUsedHelp(ctx, store.UsedHelp{
			SessionID:  req.SessionID,
			TeamName:   team,
			HelpType:   string(typ),
			QuestionID: req.QuestionID,
		}); err != nil {
			return err
		}

		switch typ {
		case Options:
			score = max(score-OptionsCost, 0)
			return q.SetScore(ctx, req.SessionID, team, score)
		case DoublePoints:
			return q.SetModifier(ctx, req.SessionID, ModifierDoublePoints)
		}
		return nil
	})
	if err != nil {
		return gameerr.Persistence("use help", err)
	}

	l.logger.Info("help used",
		"session_id", req.SessionID,
		"team", team,
		"help", string(typ),
		"score", score)
	return nil
}

// ConsumeDoublePointsForQuestion spends an armed doublePoints of any team on
// questionID. It reports false when nothing was armed.
func (l *Ledger) ConsumeDoublePointsForQuestion(ctx context.Context, sessionID, questionID int) (bool, error) {
	var consumed bool
	err := l.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetSession(ctx, sessionID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return gameerr.NotFound("session %d not found", sessionID)
			}
			return err
		}
		var err error
		consumed, err = ConsumeDoublePoints(ctx, q, sessionID, questionID)
		return err
	})
	if err != nil {
		return false, gameerr.Persistence("consume double points", err)
	}
	if consumed {
		l.logger.Info("double points consumed", "session_id", sessionID, "question_id", questionID)
	}
	return consumed, nil
}

// Status returns team's power-up state in a session.
func (l *Ledger) Status(ctx context.Context, sessionID int, team string) (Status, error) {
	q := l.store.Queries()
	scores, err := teamScores(ctx, q, sessionID)
	if err != nil {
		return Status{}, gameerr.Persistence("help status", err)
	}
	if _, ok := findTeam(scores, team); !ok {
		return Status{}, gameerr.NotFound("team %q is not playing session %d", team, sessionID)
	}
	rows, err := q.UsedHelps(ctx, sessionID, team)
	if err != nil {
		return Status{}, gameerr.Persistence("help status", err)
	}
	return StatusOf(rows, team), nil
}

// DoublePointsArmed reports whether the session's modifier slot holds an
// armed doublePoints. It reads through q so callers can use it inside a
// transaction.
func DoublePointsArmed(ctx context.Context, q *store.Queries, sessionID int) (bool, error) {
	sess, err := q.GetSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return sess.Modifier == ModifierDoublePoints, nil
}

// ConsumeDoublePoints clears the session modifier and binds every armed
// doublePoints record to questionID. It reports whether anything was armed.
func ConsumeDoublePoints(ctx context.Context, q *store.Queries, sessionID, questionID int) (bool, error) {
	armed, err := DoublePointsArmed(ctx, q, sessionID)
	if err != nil {
		return false, err
	}
	n, err := q.ConsumeHelps(ctx, sessionID, string(DoublePoints), questionID)
	if err != nil {
		return false, err
	}
	if !armed && n == 0 {
		return false, nil
	}
	if err := q.SetModifier(ctx, sessionID, ""); err != nil {
		return false, err
	}
	return true, nil
}

func teamScores(ctx context.Context, q *store.Queries, sessionID int) ([]store.TeamScore, error) {
	if _, err := q.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, gameerr.NotFound("session %d not found", sessionID)
		}
		return nil, err
	}
	return q.TeamScores(ctx, sessionID)
}

func findTeam(scores []store.TeamScore, team string) (store.TeamScore, bool) {
	for _, ts := range scores {
		if ts.TeamName == team {
			return ts, true
		}
	}
	return store.TeamScore{}, false
}

// Package game runs a session once its board is allocated: scoring, turns,
// status and results, plus the administrative reset and delete paths.
package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/abhisek/iqgame/internal/allocator"
	"github.com/abhisek/iqgame/internal/config"
	"github.com/abhisek/iqgame/internal/gameerr"
	"github.com/abhisek/iqgame/internal/help"
	"github.com/abhisek/iqgame/internal/logging"
	"github.com/abhisek/iqgame/internal/store"
)

// Config holds engine policy switches.
type Config struct {
	// StrictTurns rejects turn changes to a team that is not playing.
	StrictTurns bool
	// ReleaseOnDelete returns a deleted session's questions to the pool.
	ReleaseOnDelete bool
	// ScoreCap bounds direct score adjustments.
	ScoreCap int
}

// DefaultConfig returns the default engine policy.
func DefaultConfig() Config {
	return Config{ScoreCap: config.DefaultScoreCap}
}

// ConfigFrom picks the engine settings out of the process config.
func ConfigFrom(c config.Config) Config {
	return Config{
		StrictTurns:     c.StrictTurns,
		ReleaseOnDelete: c.ReleaseOnDelete,
		ScoreCap:        c.ScoreCap,
	}
}

// Engine is the Turn & Scoring State Machine.
type Engine struct {
	store  *store.Store
	logger *slog.Logger
	cfg    Config
}

// New returns an Engine. A nil logger uses slog.Default().
func New(st *store.Store, logger *slog.Logger, cfg Config) *Engine {
	if cfg.ScoreCap <= 0 {
		cfg.ScoreCap = config.DefaultScoreCap
	}
	return &Engine{store: st, logger: logging.OrDefault(logger), cfg: cfg}
}

// Scored is the outcome of scoring one question.
type Scored struct {
	SessionID    int    `json:"sessionId"`
	QuestionID   int    `json:"questionId"`
	Team         string `json:"teamName,omitempty"`
	Points       int    `json:"points"`
	Doubled      bool   `json:"doubled"`
	TeamScore    int    `json:"teamScore"`
	TotalScored  int    `json:"totalScored"`
	GameFinished bool   `json:"gameFinished"`
}

// ScoreQuestion marks a board question as scored and credits team with its
// points, doubled when double points is armed anywhere in the session. An
// empty team means nobody answered: the question is still spent, and so is
// any armed double points. A question can be scored once; later attempts
// fail with ErrConflict and change nothing.
func (e *Engine) ScoreQuestion(ctx context.Context, sessionID, questionID int, team string) (Scored, error) {
	team = strings.TrimSpace(team)
	out := Scored{SessionID: sessionID, QuestionID: questionID, Team: team}

	err := e.store.InTx(ctx, func(q *store.Queries) error {
		if err := sessionExists(ctx, q, sessionID); err != nil {
			return err
		}
		row, err := q.GetSessionQuestion(ctx, sessionID, questionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return gameerr.NotFound("question %d is not on the board of session %d", questionID, sessionID)
			}
			return err
		}
		if row.IsScored {
			return gameerr.Conflict("question %d was already scored", questionID)
		}

		var current store.TeamScore
		if team != "" {
			scores, err := q.TeamScores(ctx, sessionID)
			if err != nil {
				return err
			}
			var ok bool
			if current, ok = findTeam(scores, team); !ok {
				return gameerr.NotFound("team %q is not playing session %d", team, sessionID)
			}
		}

		armed, err := help.DoublePointsArmed(ctx, q, sessionID)
		if err != nil {
			return err
		}

		won, err := q.MarkScored(ctx, sessionID, questionID, team)
		if err != nil {
			return err
		}
		if !won {
			return gameerr.Conflict("question %d was already scored", questionID)
		}

		if armed {
			if _, err := help.ConsumeDoublePoints(ctx, q, sessionID, questionID); err != nil {
				return err
			}
			out.Doubled = true
		}

		if team != "" {
			qn, err := q.GetQuestion(ctx, questionID)
			if err != nil {
				return err
			}
			out.Points = qn.Points
			if armed {
				out.Points *= 2
			}
			out.TeamScore = current.Score + out.Points
			if err := q.SetScore(ctx, sessionID, team, out.TeamScore); err != nil {
				return err
			}
		}

		out.TotalScored, err = q.CountScored(ctx, sessionID)
		if err != nil {
			return err
		}
		out.GameFinished = finished(out.TotalScored)
		return nil
	})
	if err != nil {
		return Scored{}, gameerr.Persistence("score question", err)
	}

	e.logger.Info("question scored",
		"session_id", sessionID,
		"question_id", questionID,
		"team", team,
		"points", out.Points,
		"doubled", out.Doubled)
	if out.Doubled {
		e.logger.Info("double points consumed", "session_id", sessionID, "question_id", questionID)
	}
	return out, nil
}

// ChangeTurn hands the turn to team and returns the name as stored. Without
// StrictTurns any non-empty name is accepted.
func (e *Engine) ChangeTurn(ctx context.Context, sessionID int, team string) (string, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return "", gameerr.Validation("team name is required")
	}
	err := e.store.InTx(ctx, func(q *store.Queries) error {
		if err := sessionExists(ctx, q, sessionID); err != nil {
			return err
		}
		if e.cfg.StrictTurns {
			scores, err := q.TeamScores(ctx, sessionID)
			if err != nil {
				return err
			}
			if _, ok := findTeam(scores, team); !ok {
				return gameerr.Validation("team %q is not playing session %d", team, sessionID)
			}
		}
		return q.SetCurrentTurn(ctx, sessionID, team)
	})
	if err != nil {
		return "", gameerr.Persistence("change turn", err)
	}
	e.logger.Debug("turn changed", "session_id", sessionID, "team", team)
	return team, nil
}

// CurrentTurn returns the team whose turn it is, empty when none is set.
func (e *Engine) CurrentTurn(ctx context.Context, sessionID int) (string, error) {
	sess, err := loadSession(ctx, e.store.Queries(), sessionID)
	if err != nil {
		return "", gameerr.Persistence("current turn", err)
	}
	return sess.CurrentTurnTeam, nil
}

func loadSession(ctx context.Context, q *store.Queries, id int) (store.Session, error) {
	sess, err := q.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Session{}, gameerr.NotFound("session %d not found", id)
		}
		return store.Session{}, err
	}
	return sess, nil
}

func sessionExists(ctx context.Context, q *store.Queries, id int) error {
	_, err := loadSession(ctx, q, id)
	return err
}

func findTeam(scores []store.TeamScore, team string) (store.TeamScore, bool) {
	for _, ts := range scores {
		if ts.TeamName == team {
			return ts, true
		}
	}
	return store.TeamScore{}, false
}

// finished reports whether a board with scored questions is complete.
func finished(scored int) bool {
	return scored >= allocator.QuestionsPerSession
}

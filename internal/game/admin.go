package game

import (
	"context"
	"errors"
	"strings"

	"github.com/abhisek/iqgame/internal/gameerr"
	"github.com/abhisek/iqgame/internal/store"
)

// ResetRequest restarts a session under a new name and team names.
type ResetRequest struct {
	SessionName string `json:"newSessionName"`
	Team1       string `json:"team1Name"`
	Team2       string `json:"team2Name"`
}

func (r *ResetRequest) normalize() error {
	r.SessionName = strings.TrimSpace(r.SessionName)
	r.Team1 = strings.TrimSpace(r.Team1)
	r.Team2 = strings.TrimSpace(r.Team2)
	if r.SessionName == "" {
		return gameerr.Validation("session name is required")
	}
	if r.Team1 == "" || r.Team2 == "" {
		return gameerr.Validation("both team names are required")
	}
	if r.Team1 == r.Team2 {
		return gameerr.Validation("team names must differ")
	}
	return nil
}

// Reset replays a session on the same board: both scores go to zero, every
// question becomes unscored, the power-up ledger is cleared and team1
// starts.
func (e *Engine) Reset(ctx context.Context, sessionID int, req ResetRequest) error {
	if err := req.normalize(); err != nil {
		return err
	}
	var helps int
	err := e.store.InTx(ctx, func(q *store.Queries) error {
		if err := sessionExists(ctx, q, sessionID); err != nil {
			return err
		}
		if err := q.RestartSession(ctx, sessionID, req.SessionName, req.Team1); err != nil {
			return err
		}
		if err := q.RenameTeam(ctx, sessionID, 1, req.Team1); err != nil {
			return err
		}
		if err := q.RenameTeam(ctx, sessionID, 2, req.Team2); err != nil {
			return err
		}
		if err := q.UnscoreAll(ctx, sessionID); err != nil {
			return err
		}
		var err error
		helps, err = q.DeleteUsedHelps(ctx, sessionID)
		return err
	})
	if err != nil {
		return gameerr.Persistence("reset session", err)
	}
	e.logger.Info("session reset",
		"session_id", sessionID,
		"name", req.SessionName,
		"team1", req.Team1,
		"team2", req.Team2,
		"helps_cleared", helps)
	return nil
}

// AdjustScore adds delta to team's score, keeping the result within
// [0, ScoreCap], and returns the new score.
func (e *Engine) AdjustScore(ctx context.Context, sessionID int, team string, delta int) (int, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return 0, gameerr.Validation("team name is required")
	}
	var score int
	err := e.store.InTx(ctx, func(q *store.Queries) error {
		if err := sessionExists(ctx, q, sessionID); err != nil {
			return err
		}
		scores, err := q.TeamScores(ctx, sessionID)
		if err != nil {
			return err
		}
		current, ok := findTeam(scores, team)
		if !ok {
			return gameerr.NotFound("team %q is not playing session %d", team, sessionID)
		}
		score = min(max(current.Score+delta, 0), e.cfg.ScoreCap)
		return q.SetScore(ctx, sessionID, team, score)
	})
	if err != nil {
		return 0, gameerr.Persistence("adjust score", err)
	}
	e.logger.Info("score adjusted", "session_id", sessionID, "team", team, "delta", delta, "score", score)
	return score, nil
}

// DeleteSession removes a session with its board, scores and ledger. Its
// questions stay used unless ReleaseOnDelete is set.
func (e *Engine) DeleteSession(ctx context.Context, sessionID int) error {
	err := e.store.InTx(ctx, func(q *store.Queries) error {
		return e.deleteSession(ctx, q, sessionID)
	})
	if err != nil {
		return gameerr.Persistence("delete session", err)
	}
	e.logger.Info("session deleted", "session_id", sessionID, "released", e.cfg.ReleaseOnDelete)
	return nil
}

func (e *Engine) deleteSession(ctx context.Context, q *store.Queries, sessionID int) error {
	if e.cfg.ReleaseOnDelete {
		if _, err := q.ReleaseUsage(ctx, sessionID); err != nil {
			return err
		}
	} else if err := q.DetachUsage(ctx, sessionID); err != nil {
		return err
	}
	if err := q.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return gameerr.NotFound("session %d not found", sessionID)
		}
		return err
	}
	return nil
}

// DeleteCategory removes a category with its questions, after deleting
// every session whose board holds one of them. It returns how many
// sessions were deleted.
func (e *Engine) DeleteCategory(ctx context.Context, categoryID int) (int, error) {
	var ids []int
	err := e.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetCategory(ctx, categoryID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return gameerr.NotFound("category %d not found", categoryID)
			}
			return err
		}
		var err error
		ids, err = q.SessionIDsForCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := e.deleteSession(ctx, q, id); err != nil {
				return err
			}
		}
		return q.DeleteCategory(ctx, categoryID)
	})
	if err != nil {
		return 0, gameerr.Persistence("delete category", err)
	}
	e.logger.Info("category deleted", "category_id", categoryID, "sessions_deleted", len(ids))
	return len(ids), nil
}

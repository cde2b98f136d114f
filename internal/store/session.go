package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// InsertSession inserts a session row and returns its id.
func (q *Queries) InsertSession(ctx context.Context, s Session) (int, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return 0, fmt.Errorf("session name is required")
	}
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := q.exec(ctx, builder.Insert(tableSessions).
		Columns("name", "current_turn_team", "modifier", "created_at").
		Values(name, nullString(s.CurrentTurnTeam), nullString(s.Modifier), toMillis(createdAt)))
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return lastInsertID(res)
}

var sessionColumns = []string{"id", "name", "current_turn_team", "modifier", "created_at"}

func scanSession(rows entsql.ColumnScanner) (Session, error) {
	var s Session
	var turn, modifier entsql.NullString
	var createdAt int64
	if err := rows.Scan(&s.ID, &s.Name, &turn, &modifier, &createdAt); err != nil {
		return Session{}, err
	}
	s.CurrentTurnTeam = turn.String
	s.Modifier = modifier.String
	s.CreatedAt = fromMillis(createdAt)
	return s, nil
}

// GetSession returns one session by id.
func (q *Queries) GetSession(ctx context.Context, id int) (Session, error) {
	var s Session
	err := q.one(ctx, builder.Select(sessionColumns...).
		From(builder.Table(tableSessions)).
		Where(entsql.EQ("id", id)),
		func(rows entsql.ColumnScanner) error {
			var err error
			s, err = scanSession(rows)
			return err
		})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// ListSessions returns every session ordered by id.
func (q *Queries) ListSessions(ctx context.Context) ([]Session, error) {
	var out []Session
	err := q.each(ctx, builder.Select(sessionColumns...).
		From(builder.Table(tableSessions)).
		OrderBy("id"),
		func(rows entsql.ColumnScanner) error {
			s, err := scanSession(rows)
			if err != nil {
				return err
			}
			out = append(out, s)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

func (q *Queries) updateSession(ctx context.Context, id int, op string, upd *entsql.UpdateBuilder) error {
	res, err := q.exec(ctx, upd.Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCurrentTurn overwrites the team whose turn it is.
func (q *Queries) SetCurrentTurn(ctx context.Context, id int, team string) error {
	return q.updateSession(ctx, id, "set current turn",
		builder.Update(tableSessions).Set("current_turn_team", nullString(team)))
}

// SetModifier overwrites the session-wide modifier slot. Empty clears it.
func (q *Queries) SetModifier(ctx context.Context, id int, modifier string) error {
	return q.updateSession(ctx, id, "set modifier",
		builder.Update(tableSessions).Set("modifier", nullString(modifier)))
}

// RestartSession renames a session, hands the turn to team and clears its modifier.
func (q *Queries) RestartSession(ctx context.Context, id int, name, team string) error {
	return q.updateSession(ctx, id, "restart session",
		builder.Update(tableSessions).
			Set("name", name).
			Set("current_turn_team", nullString(team)).
			SetNull("modifier"))
}

// DeleteSession deletes a session and every row owned by it.
func (q *Queries) DeleteSession(ctx context.Context, id int) error {
	for _, table := range []string{tableSessionQuestions, tableTeamScores, tableUsedHelps} {
		if _, err := q.exec(ctx, builder.Delete(table).Where(entsql.EQ("session_id", id))); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := q.exec(ctx, builder.Delete(tableSessions).Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SessionIDsForCategory returns the ids of sessions holding any question of the category.
func (q *Queries) SessionIDsForCategory(ctx context.Context, categoryID int) ([]int, error) {
	var out []int
	sel := builder.Select("session_id").
		From(builder.Table(tableSessionQuestions)).
		Where(entsql.In("question_id",
			builder.Select("id").From(builder.Table(tableQuestions)).Where(entsql.EQ("category_id", categoryID)))).
		GroupBy("session_id").
		OrderBy("session_id")
	err := q.each(ctx, sel, func(rows entsql.ColumnScanner) error {
		var id int
		if err := rows.Scan(&id); err != nil {
			return err
		}
		out = append(out, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sessions for category: %w", err)
	}
	return out, nil
}

// InsertSessionQuestions adds questionIDs to a session board in order.
func (q *Queries) InsertSessionQuestions(ctx context.Context, sessionID int, questionIDs []int) error {
	if len(questionIDs) == 0 {
		return nil
	}
	ins := builder.Insert(tableSessionQuestions).Columns("session_id", "question_id", "position", "is_scored")
	for i, id := range questionIDs {
		ins = ins.Values(sessionID, id, i, false)
	}
	if _, err := q.exec(ctx, ins); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert session questions: %w", err)
	}
	return nil
}

var sessionQuestionColumns = []string{"id", "session_id", "question_id", "position", "is_scored", "team_answered"}

func scanSessionQuestion(rows entsql.ColumnScanner) (SessionQuestion, error) {
	var sq SessionQuestion
	var team entsql.NullString
	if err := rows.Scan(&sq.ID, &sq.SessionID, &sq.QuestionID, &sq.Position, &sq.IsScored, &team); err != nil {
		return SessionQuestion{}, err
	}
	sq.TeamAnswered = team.String
	return sq, nil
}

// GetSessionQuestion returns the board row for one question of a session.
func (q *Queries) GetSessionQuestion(ctx context.Context, sessionID, questionID int) (SessionQuestion, error) {
	var sq SessionQuestion
	err := q.one(ctx, builder.Select(sessionQuestionColumns...).
		From(builder.Table(tableSessionQuestions)).
		Where(entsql.And(entsql.EQ("session_id", sessionID), entsql.EQ("question_id", questionID))),
		func(rows entsql.ColumnScanner) error {
			var err error
			sq, err = scanSessionQuestion(rows)
			return err
		})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return SessionQuestion{}, err
		}
		return SessionQuestion{}, fmt.Errorf("get session question: %w", err)
	}
	return sq, nil
}

// ListSessionQuestions returns a session board in allocation order.
func (q *Queries) ListSessionQuestions(ctx context.Context, sessionID int) ([]SessionQuestion, error) {
	var out []SessionQuestion
	err := q.each(ctx, builder.Select(sessionQuestionColumns...).
		From(builder.Table(tableSessionQuestions)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("position"),
		func(rows entsql.ColumnScanner) error {
			sq, err := scanSessionQuestion(rows)
			if err != nil {
				return err
			}
			out = append(out, sq)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list session questions: %w", err)
	}
	return out, nil
}

// MarkScored transitions an unscored board row to scored. It reports false
// when the row is missing or was already scored, leaving it untouched.
func (q *Queries) MarkScored(ctx context.Context, sessionID, questionID int, team string) (bool, error) {
	res, err := q.exec(ctx, builder.Update(tableSessionQuestions).
		Set("is_scored", true).
		Set("team_answered", nullString(team)).
		Where(entsql.And(
			entsql.EQ("session_id", sessionID),
			entsql.EQ("question_id", questionID),
			entsql.EQ("is_scored", false),
		)))
	if err != nil {
		return false, fmt.Errorf("mark scored: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return false, fmt.Errorf("mark scored: %w", err)
	}
	return n == 1, nil
}

// CountSessionQuestions returns the number of board rows of a session.
func (q *Queries) CountSessionQuestions(ctx context.Context, sessionID int) (int, error) {
	n, err := q.count(ctx, tableSessionQuestions, entsql.EQ("session_id", sessionID))
	if err != nil {
		return 0, fmt.Errorf("count session questions: %w", err)
	}
	return n, nil
}

// CountScored returns the number of scored board rows of a session.
func (q *Queries) CountScored(ctx context.Context, sessionID int) (int, error) {
	n, err := q.count(ctx, tableSessionQuestions,
		entsql.And(entsql.EQ("session_id", sessionID), entsql.EQ("is_scored", true)))
	if err != nil {
		return 0, fmt.Errorf("count scored: %w", err)
	}
	return n, nil
}

// UnscoreAll reverts every board row of a session to unscored.
func (q *Queries) UnscoreAll(ctx context.Context, sessionID int) error {
	_, err := q.exec(ctx, builder.Update(tableSessionQuestions).
		Set("is_scored", false).
		SetNull("team_answered").
		Where(entsql.EQ("session_id", sessionID)))
	if err != nil {
		return fmt.Errorf("unscore session questions: %w", err)
	}
	return nil
}

// InsertTeamScores creates the two zeroed team rows of a session.
func (q *Queries) InsertTeamScores(ctx context.Context, sessionID int, team1, team2 string) error {
	_, err := q.exec(ctx, builder.Insert(tableTeamScores).
		Columns("session_id", "slot", "team_name", "score").
		Values(sessionID, 1, team1, 0).
		Values(sessionID, 2, team2, 0))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert team scores: %w", err)
	}
	return nil
}

// TeamScores returns the team rows of a session ordered by slot.
func (q *Queries) TeamScores(ctx context.Context, sessionID int) ([]TeamScore, error) {
	var out []TeamScore
	err := q.each(ctx, builder.Select("id", "session_id", "slot", "team_name", "score").
		From(builder.Table(tableTeamScores)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("slot"),
		func(rows entsql.ColumnScanner) error {
			var ts TeamScore
			if err := rows.Scan(&ts.ID, &ts.SessionID, &ts.Slot, &ts.TeamName, &ts.Score); err != nil {
				return err
			}
			out = append(out, ts)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("team scores: %w", err)
	}
	return out, nil
}

// SetScore overwrites one team's score.
func (q *Queries) SetScore(ctx context.Context, sessionID int, team string, score int) error {
	res, err := q.exec(ctx, builder.Update(tableTeamScores).
		Set("score", score).
		Where(entsql.And(entsql.EQ("session_id", sessionID), entsql.EQ("team_name", team))))
	if err != nil {
		return fmt.Errorf("set score: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("set score: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RenameTeam sets the name of the team in slot and zeroes its score.
func (q *Queries) RenameTeam(ctx context.Context, sessionID, slot int, name string) error {
	res, err := q.exec(ctx, builder.Update(tableTeamScores).
		Set("team_name", name).
		Set("score", 0).
		Where(entsql.And(entsql.EQ("session_id", sessionID), entsql.EQ("slot", slot))))
	if err != nil {
		return fmt.Errorf("rename team: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("rename team: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

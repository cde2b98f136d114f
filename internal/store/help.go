package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// InsertUsedHelp appends a power-up ledger entry.
func (q *Queries) InsertUsedHelp(ctx context.Context, h UsedHelp) (int, error) {
	res, err := q.exec(ctx, builder.Insert(tableUsedHelps).
		Columns("session_id", "team_name", "help_type", "question_id", "is_consumed").
		Values(h.SessionID, h.TeamName, h.HelpType, nullInt(h.QuestionID), h.IsConsumed))
	if err != nil {
		return 0, fmt.Errorf("insert used help: %w", err)
	}
	return lastInsertID(res)
}

// UsedHelps returns the ledger entries of a session. A non-empty team
// restricts the result to that team.
func (q *Queries) UsedHelps(ctx context.Context, sessionID int, team string) ([]UsedHelp, error) {
	where := entsql.EQ("session_id", sessionID)
	if team != "" {
		where = entsql.And(where, entsql.EQ("team_name", team))
	}
	var out []UsedHelp
	err := q.each(ctx, builder.Select("id", "session_id", "team_name", "help_type", "question_id", "is_consumed").
		From(builder.Table(tableUsedHelps)).
		Where(where).
		OrderBy("id"),
		func(rows entsql.ColumnScanner) error {
			var h UsedHelp
			var qid entsql.NullInt64
			if err := rows.Scan(&h.ID, &h.SessionID, &h.TeamName, &h.HelpType, &qid, &h.IsConsumed); err != nil {
				return err
			}
			h.QuestionID = intPtr(qid)
			out = append(out, h)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("used helps: %w", err)
	}
	return out, nil
}

// ConsumeHelps marks every unconsumed entry of helpType in the session as
// consumed and binds it to questionID. It returns the number of entries changed.
func (q *Queries) ConsumeHelps(ctx context.Context, sessionID int, helpType string, questionID int) (int, error) {
	res, err := q.exec(ctx, builder.Update(tableUsedHelps).
		Set("is_consumed", true).
		Set("question_id", questionID).
		Where(entsql.And(
			entsql.EQ("session_id", sessionID),
			entsql.EQ("help_type", helpType),
			entsql.EQ("is_consumed", false),
		)))
	if err != nil {
		return 0, fmt.Errorf("consume helps: %w", err)
	}
	return rowsAffected(res)
}

// DeleteUsedHelps removes every ledger entry of a session.
func (q *Queries) DeleteUsedHelps(ctx context.Context, sessionID int) (int, error) {
	res, err := q.exec(ctx, builder.Delete(tableUsedHelps).Where(entsql.EQ("session_id", sessionID)))
	if err != nil {
		return 0, fmt.Errorf("delete used helps: %w", err)
	}
	return rowsAffected(res)
}

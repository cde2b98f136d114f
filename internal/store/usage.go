package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// UsedQuestionIDs returns the id of every question ever allocated to a session.
func (q *Queries) UsedQuestionIDs(ctx context.Context) (map[int]struct{}, error) {
	used := make(map[int]struct{})
	err := q.each(ctx, builder.Select("question_id").From(builder.Table(tableQuestionUsage)),
		func(rows entsql.ColumnScanner) error {
			var id int
			if err := rows.Scan(&id); err != nil {
				return err
			}
			used[id] = struct{}{}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("used question ids: %w", err)
	}
	return used, nil
}

// MarkQuestionsUsed records questionIDs as allocated to sessionID. It returns
// ErrAlreadyExists when any of them was already allocated.
func (q *Queries) MarkQuestionsUsed(ctx context.Context, sessionID int, questionIDs []int, at time.Time) error {
	if len(questionIDs) == 0 {
		return nil
	}
	ins := builder.Insert(tableQuestionUsage).Columns("question_id", "session_id", "used_at")
	for _, id := range questionIDs {
		ins = ins.Values(id, sessionID, toMillis(at))
	}
	if _, err := q.exec(ctx, ins); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("mark questions used: %w", err)
	}
	return nil
}

// DetachUsage keeps a session's usage rows but drops the link to the session.
func (q *Queries) DetachUsage(ctx context.Context, sessionID int) error {
	_, err := q.exec(ctx, builder.Update(tableQuestionUsage).
		SetNull("session_id").
		Where(entsql.EQ("session_id", sessionID)))
	if err != nil {
		return fmt.Errorf("detach usage: %w", err)
	}
	return nil
}

// ReleaseUsage deletes a session's usage rows, returning its questions to the pool.
func (q *Queries) ReleaseUsage(ctx context.Context, sessionID int) (int, error) {
	res, err := q.exec(ctx, builder.Delete(tableQuestionUsage).Where(entsql.EQ("session_id", sessionID)))
	if err != nil {
		return 0, fmt.Errorf("release usage: %w", err)
	}
	return rowsAffected(res)
}

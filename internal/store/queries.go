package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// builder produces SQLite-flavored statements.
var builder = entsql.Dialect(dialect.SQLite)

// Queries runs statements against either the database or an open transaction.
type Queries struct {
	conn dialect.ExecQuerier
}

func (q *Queries) exec(ctx context.Context, b entsql.Querier) (entsql.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query, args := b.Query()
	var res entsql.Result
	if err := q.conn.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// each runs a query and calls fn once per row.
func (q *Queries) each(ctx context.Context, b entsql.Querier, fn func(rows entsql.ColumnScanner) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	query, args := b.Query()
	var rows entsql.Rows
	if err := q.conn.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// one runs a query expected to return a single row. ErrNotFound is
// returned when it returns none.
func (q *Queries) one(ctx context.Context, b entsql.Querier, fn func(rows entsql.ColumnScanner) error) error {
	found := false
	err := q.each(ctx, b, func(rows entsql.ColumnScanner) error {
		if found {
			return nil
		}
		found = true
		return fn(rows)
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (q *Queries) count(ctx context.Context, table string, where *entsql.Predicate) (int, error) {
	sel := builder.Select(entsql.Count("*")).From(builder.Table(table))
	if where != nil {
		sel = sel.Where(where)
	}
	var n int
	err := q.one(ctx, sel, func(rows entsql.ColumnScanner) error {
		return rows.Scan(&n)
	})
	return n, err
}

func lastInsertID(res entsql.Result) (int, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func rowsAffected(res entsql.Result) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func intArgs(ids []int) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v entsql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

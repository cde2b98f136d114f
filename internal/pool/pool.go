// Package pool answers which questions have already been handed to a session.
//
// Usage is recorded once per question in its own table, so a question stays
// used after the session that drew it is deleted.
package pool

import (
	"context"
	"sort"

	"github.com/abhisek/iqgame/internal/gameerr"
	"github.com/abhisek/iqgame/internal/store"
)

// Set is a set of question ids.
type Set map[int]struct{}

// Contains reports whether id is in the set.
func (s Set) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in the set.
func (s Set) Len() int { return len(s) }

// Sorted returns the ids in ascending order.
func (s Set) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Index is the Question Pool Index.
type Index struct {
	store *store.Store
}

// New returns an Index over st.
func New(st *store.Store) *Index {
	return &Index{store: st}
}

// UsedQuestionIDs returns every question id ever allocated to a session.
func (ix *Index) UsedQuestionIDs(ctx context.Context) (Set, error) {
	return UsedIn(ctx, ix.store.Queries())
}

// UsedIn reads the used set through q, so callers holding a transaction see
// the same snapshot they are about to write against.
func UsedIn(ctx context.Context, q *store.Queries) (Set, error) {
	used, err := q.UsedQuestionIDs(ctx)
	if err != nil {
		return nil, gameerr.Persistence("read question pool", err)
	}
	return Set(used), nil
}

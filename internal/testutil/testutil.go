// Package testutil builds throwaway stores and catalogs for tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/abhisek/iqgame/internal/catalog"
	"github.com/abhisek/iqgame/internal/store"
)

// OpenStore opens a private in-memory store closed at test cleanup.
func OpenStore(t testing.TB) *store.Store {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// Category describes a category to seed: how many questions per tier and
// whether multiple choice is disabled.
type Category struct {
	Name       string
	Easy       int
	Medium     int
	Hard       int
	DisableMCQ bool
	GroupID    *int
}

// Full returns a category with enough questions for n games.
func Full(name string, games int) Category {
	n := games * catalog.PerTier
	return Category{Name: name, Easy: n, Medium: n, Hard: n}
}

// Seeded is a category written by Seed.
type Seeded struct {
	ID          int
	Name        string
	QuestionIDs map[int][]int // by difficulty
}

// Seed inserts categories with numbered questions and two answers each.
func Seed(t testing.TB, st *store.Store, cats ...Category) []Seeded {
	t.Helper()
	ctx := context.Background()
	q := st.Queries()
	out := make([]Seeded, 0, len(cats))
	for _, c := range cats {
		id, err := q.InsertCategory(ctx, store.Category{Name: c.Name, DisableMCQ: c.DisableMCQ, GroupID: c.GroupID})
		if err != nil {
			t.Fatalf("insert category %s: %v", c.Name, err)
		}
		s := Seeded{ID: id, Name: c.Name, QuestionIDs: map[int][]int{}}
		counts := []int{c.Easy, c.Medium, c.Hard}
		for i, tier := range catalog.Tiers {
			n := counts[i]
			points, _ := catalog.PointsFor(tier)
			for k := 0; k < n; k++ {
				qid, err := q.InsertQuestion(ctx, store.Question{
					CategoryID: id,
					Text:       fmt.Sprintf("%s %s #%d", c.Name, catalog.TierName(tier), k+1),
					Difficulty: tier,
					Points:     points,
				})
				if err != nil {
					t.Fatalf("insert question: %v", err)
				}
				for j, text := range []string{"right", "wrong"} {
					if _, err := q.InsertAnswer(ctx, store.Answer{QuestionID: qid, Text: text, IsCorrect: j == 0}); err != nil {
						t.Fatalf("insert answer: %v", err)
					}
				}
				s.QuestionIDs[tier] = append(s.QuestionIDs[tier], qid)
			}
		}
		out = append(out, s)
	}
	return out
}

// Board seeds six categories holding enough questions for games sessions
// and returns their ids.
func Board(t testing.TB, st *store.Store, games int) []int {
	t.Helper()
	names := []string{"History", "Geography", "Science", "Sports", "Music", "Movies"}
	cats := make([]Category, len(names))
	for i, n := range names {
		cats[i] = Full(n, games)
	}
	return IDs(Seed(t, st, cats...))
}

// IDs returns the ids of seeded categories in order.
func IDs(seeded []Seeded) []int {
	ids := make([]int, len(seeded))
	for i, s := range seeded {
		ids[i] = s.ID
	}
	return ids
}

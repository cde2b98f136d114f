package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqgame/internal/gameerr"
	"github.com/abhisek/iqgame/internal/logging"
	"github.com/abhisek/iqgame/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPointsFor(t *testing.T) {
	tests := []struct {
		difficulty int
		want       int
		ok         bool
	}{
		{Easy, 250, true},
		{Medium, 500, true},
		{Hard, 750, true},
		{0, 0, false},
		{4, 0, false},
	}
	for _, tt := range tests {
		got, ok := PointsFor(tt.difficulty)
		assert.Equal(t, tt.want, got, "difficulty %d", tt.difficulty)
		assert.Equal(t, tt.ok, ok, "difficulty %d", tt.difficulty)
	}
}

func TestTierName(t *testing.T) {
	assert.Equal(t, "easy", TierName(Easy))
	assert.Equal(t, "hard", TierName(Hard))
	assert.Equal(t, "unknown", TierName(9))
}

func TestImportFile(t *testing.T) {
	st := openTestStore(t)
	im := NewImporter(st, logging.Discard())
	ctx := context.Background()

	sum, err := im.ImportFile(ctx, "testdata/catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, Summary{Groups: 3, Categories: 7, Questions: 77, Answers: 154}, sum)

	q := st.Queries()
	cats, err := q.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 7)
	assert.Equal(t, "History", cats[0].Name)
	require.NotNil(t, cats[0].GroupID)
	assert.True(t, cats[4].DisableMCQ, "Music disables MCQ")

	questions, err := q.ListQuestions(ctx, cats[6].ID)
	require.NoError(t, err)
	require.Len(t, questions, 5)
	for _, qn := range questions {
		want, _ := PointsFor(qn.Difficulty)
		assert.Equal(t, want, qn.Points)
	}

	answers, err := q.AnswersForQuestions(ctx, []int{questions[0].ID})
	require.NoError(t, err)
	require.Len(t, answers[questions[0].ID], 2)
	assert.True(t, answers[questions[0].ID][0].IsCorrect)
	assert.False(t, answers[questions[0].ID][1].IsCorrect)

	groups, err := q.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "General Knowledge", groups[0].Name)
	assert.True(t, groups[0].Active)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"not yaml", "categories: [\n"},
		{"missing categories", "groups: []\n"},
		{"difficulty four", `
categories:
  - name: Oceans
    questions:
      - text: Deepest trench?
        difficulty: 4
`},
		{"unknown field", `
categories:
  - name: Oceans
    colour: blue
    questions: []
`},
		{"unknown group", `
categories:
  - name: Oceans
    group: nature
    questions: []
`},
		{"duplicate group key", `
groups:
  - key: nature
    name: Nature
  - key: nature
    name: Outdoors
categories: []
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, gameerr.ErrValidation), "err = %v", err)
		})
	}
}

func TestImportRejectsBlankText(t *testing.T) {
	st := openTestStore(t)
	im := NewImporter(st, logging.Discard())
	ctx := context.Background()

	// Valid against the schema, but the second answer is blank after trimming.
	doc := `
categories:
  - name: Oceans
    questions:
      - text: Largest ocean?
        difficulty: 1
        answers:
          - text: Pacific
            correct: true
          - text: "   "
`
	_, err := im.ImportBytes(ctx, []byte(doc))
	require.ErrorIs(t, err, gameerr.ErrValidation)

	cats, err := st.Queries().ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats, "rejected import must not write rows")
}

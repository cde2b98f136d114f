package pool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqgame/internal/store"
	"github.com/abhisek/iqgame/internal/testutil"
)

func TestUsedQuestionIDs(t *testing.T) {
	st := testutil.OpenStore(t)
	cats := testutil.Seed(t, st, testutil.Full("History", 1))
	ctx := context.Background()
	ix := New(st)

	used, err := ix.UsedQuestionIDs(ctx)
	require.NoError(t, err)
	assert.Zero(t, used.Len())

	easy := cats[0].QuestionIDs[1]
	err = st.InTx(ctx, func(q *store.Queries) error {
		sid, err := q.InsertSession(ctx, store.Session{Name: "Friday"})
		if err != nil {
			return err
		}
		return q.MarkQuestionsUsed(ctx, sid, easy, time.Now())
	})
	require.NoError(t, err)

	used, err = ix.UsedQuestionIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, easy, used.Sorted())
	assert.True(t, used.Contains(easy[0]))
	assert.False(t, used.Contains(cats[0].QuestionIDs[3][0]))
}

func TestUsedInSeesUncommittedWrites(t *testing.T) {
	st := testutil.OpenStore(t)
	cats := testutil.Seed(t, st, testutil.Full("Music", 1))
	ctx := context.Background()
	hard := cats[0].QuestionIDs[3]

	err := st.InTx(ctx, func(q *store.Queries) error {
		sid, err := q.InsertSession(ctx, store.Session{Name: "Tx"})
		require.NoError(t, err)
		require.NoError(t, q.MarkQuestionsUsed(ctx, sid, hard[:1], time.Now()))

		used, err := UsedIn(ctx, q)
		require.NoError(t, err)
		assert.True(t, used.Contains(hard[0]))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	used, err := New(st).UsedQuestionIDs(ctx)
	require.NoError(t, err)
	assert.Zero(t, used.Len(), "rolled back usage must not count")
}

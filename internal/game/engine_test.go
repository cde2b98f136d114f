package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqgame/internal/allocator"
	"github.com/abhisek/iqgame/internal/gameerr"
	"github.com/abhisek/iqgame/internal/help"
	"github.com/abhisek/iqgame/internal/logging"
	"github.com/abhisek/iqgame/internal/pool"
	"github.com/abhisek/iqgame/internal/store"
	"github.com/abhisek/iqgame/internal/testutil"
)

type fixture struct {
	st         *store.Store
	engine     *Engine
	ledger     *help.Ledger
	alloc      *allocator.Allocator
	categories []int
	session    *allocator.Created
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	st := testutil.OpenStore(t)
	f := &fixture{
		st:         st,
		engine:     New(st, logging.Discard(), cfg),
		ledger:     help.New(st, logging.Discard()),
		alloc:      allocator.New(st, logging.Discard(), allocator.WithRand(rand.New(rand.NewPCG(3, 4)))),
		categories: testutil.Board(t, st, 2),
	}
	f.session = f.create(t, "Friday")
	return f
}

func (f *fixture) create(t *testing.T, name string) *allocator.Created {
	t.Helper()
	created, err := f.alloc.CreateSession(context.Background(), allocator.Request{
		Name: name, Team1: "Owls", Team2: "Foxes", CategoryIDs: f.categories,
	})
	require.NoError(t, err)
	return created
}

func (f *fixture) sid() int { return f.session.SessionID }

// easy, medium and hard return board questions of the first category.
func (f *fixture) easy(i int) int   { return f.session.QuestionIDs[i] }
func (f *fixture) medium(i int) int { return f.session.QuestionIDs[2+i] }
func (f *fixture) hard(i int) int   { return f.session.QuestionIDs[4+i] }

func (f *fixture) scores(t *testing.T) (int, int) {
	t.Helper()
	st, err := f.engine.Status(context.Background(), f.sid())
	require.NoError(t, err)
	return st.Team1.Score, st.Team2.Score
}

func (f *fixture) use(t *testing.T, team string, typ help.Type) {
	t.Helper()
	require.NoError(t, f.ledger.UseHelp(context.Background(), help.UseRequest{
		SessionID: f.sid(), TeamName: team, HelpType: string(typ),
	}))
}

func TestScoreQuestionCreditsOnce(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	got, err := f.engine.ScoreQuestion(ctx, f.sid(), f.medium(0), "Owls")
	require.NoError(t, err)
	assert.Equal(t, 500, got.Points)
	assert.False(t, got.Doubled)
	assert.Equal(t, 500, got.TeamScore)
	assert.Equal(t, 1, got.TotalScored)
	assert.False(t, got.GameFinished)

	_, err = f.engine.ScoreQuestion(ctx, f.sid(), f.medium(0), "Owls")
	require.ErrorIs(t, err, gameerr.ErrConflict)
	_, err = f.engine.ScoreQuestion(ctx, f.sid(), f.medium(0), "Foxes")
	require.ErrorIs(t, err, gameerr.ErrConflict)

	owls, foxes := f.scores(t)
	assert.Equal(t, 500, owls)
	assert.Zero(t, foxes)
}

func TestScoreQuestionRejectsUnknowns(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	_, err := f.engine.ScoreQuestion(ctx, f.sid()+50, f.easy(0), "Owls")
	assert.ErrorIs(t, err, gameerr.ErrNotFound)

	other := f.create(t, "Saturday")
	_, err = f.engine.ScoreQuestion(ctx, f.sid(), other.QuestionIDs[0], "Owls")
	assert.ErrorIs(t, err, gameerr.ErrNotFound, "question from another board")

	_, err = f.engine.ScoreQuestion(ctx, f.sid(), f.easy(0), "Bears")
	assert.ErrorIs(t, err, gameerr.ErrNotFound)

	// The failed attempt left the question unscored.
	got, err := f.engine.ScoreQuestion(ctx, f.sid(), f.easy(0), "Foxes")
	require.NoError(t, err)
	assert.Equal(t, 250, got.TeamScore)
}

func TestScoreQuestionConcurrentSingleCredit(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.ScoreQuestion(ctx, f.sid(), f.hard(1), "Foxes")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			assert.ErrorIs(t, err, gameerr.ErrConflict)
			conflicts++
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	_, foxes := f.scores(t)
	assert.Equal(t, 750, foxes)
}

func TestDoublePointsSpentWhenNobodyAnswers(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()
	f.use(t, "Owls", help.DoublePoints)

	got, err := f.engine.ScoreQuestion(ctx, f.sid(), f.hard(0), "")
	require.NoError(t, err)
	assert.True(t, got.Doubled)
	assert.Zero(t, got.Points)

	rows, err := f.st.Queries().UsedHelps(ctx, f.sid(), "Owls")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsConsumed)
	require.NotNil(t, rows[0].QuestionID)
	assert.Equal(t, f.hard(0), *rows[0].QuestionID)

	owls, _ := f.scores(t)
	assert.Zero(t, owls)

	got, err = f.engine.ScoreQuestion(ctx, f.sid(), f.hard(1), "Owls")
	require.NoError(t, err)
	assert.False(t, got.Doubled)
	assert.Equal(t, 750, got.Points)

	row, err := f.st.Queries().GetSessionQuestion(ctx, f.sid(), f.hard(0))
	require.NoError(t, err)
	assert.True(t, row.IsScored)
	assert.Empty(t, row.TeamAnswered)
}

func TestDoublePointsAppliesToEitherTeam(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()
	f.use(t, "Owls", help.DoublePoints)

	status, err := f.engine.Status(ctx, f.sid())
	require.NoError(t, err)
	assert.True(t, status.DoublePointsArmed)
	assert.True(t, status.Team1.Help.DoublePointsActive)
	assert.False(t, status.Team2.Help.DoublePointsActive)

	// Foxes answer the next question and collect the doubled value.
	got, err := f.engine.ScoreQuestion(ctx, f.sid(), f.medium(1), "Foxes")
	require.NoError(t, err)
	assert.True(t, got.Doubled)
	assert.Equal(t, 1000, got.Points)

	got, err = f.engine.ScoreQuestion(ctx, f.sid(), f.medium(0), "Foxes")
	require.NoError(t, err)
	assert.False(t, got.Doubled)

	owls, foxes := f.scores(t)
	assert.Zero(t, owls)
	assert.Equal(t, 1500, foxes)

	status, err = f.engine.Status(ctx, f.sid())
	require.NoError(t, err)
	assert.False(t, status.DoublePointsArmed)
	assert.True(t, status.Team1.Help.DoublePointsUsed)
	assert.False(t, status.Team1.Help.DoublePointsActive)

	// Results count face value, not the doubled credit.
	res, err := f.engine.Results(ctx, f.sid())
	require.NoError(t, err)
	require.Len(t, res.Categories, 1)
	assert.Equal(t, 1000, res.Categories[0].Team2Points)
	assert.Equal(t, "Foxes", res.Winner)
}

func TestDoublePointsArmedByBothTeamsDoublesOnce(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()
	f.use(t, "Owls", help.DoublePoints)
	f.use(t, "Foxes", help.DoublePoints)

	status, err := f.engine.Status(ctx, f.sid())
	require.NoError(t, err)
	assert.True(t, status.Team1.Help.DoublePointsActive)
	assert.True(t, status.Team2.Help.DoublePointsActive)

	got, err := f.engine.ScoreQuestion(ctx, f.sid(), f.easy(0), "Owls")
	require.NoError(t, err)
	assert.True(t, got.Doubled)
	assert.Equal(t, 500, got.Points)

	got, err = f.engine.ScoreQuestion(ctx, f.sid(), f.easy(1), "Owls")
	require.NoError(t, err)
	assert.False(t, got.Doubled)
	assert.Equal(t, 250, got.Points)

	owls, foxes := f.scores(t)
	assert.Equal(t, 750, owls)
	assert.Zero(t, foxes)

	// One score spent both entries; neither team may arm again.
	for _, team := range []string{"Owls", "Foxes"} {
		err := f.ledger.UseHelp(ctx, help.UseRequest{SessionID: f.sid(), TeamName: team, HelpType: string(help.DoublePoints)})
		require.ErrorIs(t, err, gameerr.ErrConflict)
		assert.Contains(t, err.Error(), team+" already spent doublePoints")
	}
	status, err = f.engine.Status(ctx, f.sid())
	require.NoError(t, err)
	assert.False(t, status.DoublePointsArmed)
}

func TestDoublePointsRollsBackWithFailedScore(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()
	f.use(t, "Foxes", help.DoublePoints)

	_, err := f.engine.ScoreQuestion(ctx, f.sid(), f.easy(0), "Bears")
	require.ErrorIs(t, err, gameerr.ErrNotFound)

	armed, err := help.DoublePointsArmed(ctx, f.st.Queries(), f.sid())
	require.NoError(t, err)
	assert.True(t, armed, "failed score must not spend double points")
}

func TestGameFinishesAtFullBoard(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	for i, qid := range f.session.QuestionIDs {
		team := "Owls"
		if i%2 == 1 {
			team = "Foxes"
		}
		got, err := f.engine.ScoreQuestion(ctx, f.sid(), qid, team)
		require.NoError(t, err)
		assert.Equal(t, i+1, got.TotalScored)
		assert.Equal(t, i+1 == allocator.QuestionsPerSession, got.GameFinished, "after %d", i+1)
	}

	status, err := f.engine.Status(ctx, f.sid())
	require.NoError(t, err)
	assert.True(t, status.GameFinished)
	assert.Equal(t, allocator.QuestionsPerSession, status.TotalScored)

	res, err := f.engine.Results(ctx, f.sid())
	require.NoError(t, err)
	assert.Equal(t, 18000, res.Team1.Score+res.Team2.Score)
	assert.Len(t, res.Categories, allocator.CategoriesPerSession)
	for i, c := range res.Categories {
		assert.Equal(t, f.categories[i], c.CategoryID)
		assert.Equal(t, 3000, c.Team1Points+c.Team2Points)
	}
}

func TestResultsTie(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	res, err := f.engine.Results(ctx, f.sid())
	require.NoError(t, err)
	assert.Equal(t, Tie, res.Winner)
	assert.True(t, res.IsTie)
	assert.Empty(t, res.Categories)

	_, err = f.engine.ScoreQuestion(ctx, f.sid(), f.easy(0), "Owls")
	require.NoError(t, err)
	_, err = f.engine.ScoreQuestion(ctx, f.sid(), f.easy(1), "Foxes")
	require.NoError(t, err)

	res, err = f.engine.Results(ctx, f.sid())
	require.NoError(t, err)
	assert.True(t, res.IsTie)
	require.Len(t, res.Categories, 1)
	assert.Equal(t, CategoryBreakdown{
		CategoryID: f.categories[0], CategoryName: "History", Team1Points: 250, Team2Points: 250,
	}, res.Categories[0])
}

func TestResetSession(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	for _, qid := range f.session.QuestionIDs[:10] {
		_, err := f.engine.ScoreQuestion(ctx, f.sid(), qid, "Foxes")
		require.NoError(t, err)
	}
	f.use(t, "Owls", help.Options)
	f.use(t, "Foxes", help.TwoAnswers)
	f.use(t, "Foxes", help.DoublePoints)
	_, err := f.engine.ChangeTurn(ctx, f.sid(), "Foxes")
	require.NoError(t, err)

	err = f.engine.Reset(ctx, f.sid(), ResetRequest{SessionName: "Rematch", Team1: "Hawks", Team2: "Wolves"})
	require.NoError(t, err)

	status, err := f.engine.Status(ctx, f.sid())
	require.NoError(t, err)
	assert.Equal(t, "Rematch", status.SessionName)
	assert.Zero(t, status.TotalScored)
	assert.Equal(t, allocator.QuestionsPerSession, status.TotalQuestions)
	assert.Equal(t, "Hawks", status.CurrentTurn)
	assert.False(t, status.DoublePointsArmed)
	assert.Equal(t, TeamStatus{Name: "Hawks"}, status.Team1)
	assert.Equal(t, TeamStatus{Name: "Wolves"}, status.Team2)

	rows, err := f.st.Queries().UsedHelps(ctx, f.sid(), "")
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Same board, still playable.
	board, err := f.st.Queries().ListSessionQuestions(ctx, f.sid())
	require.NoError(t, err)
	require.Len(t, board, allocator.QuestionsPerSession)
	for _, r := range board {
		assert.False(t, r.IsScored)
		assert.Empty(t, r.TeamAnswered)
	}
	_, err = f.engine.ScoreQuestion(ctx, f.sid(), f.easy(0), "Wolves")
	require.NoError(t, err)
}

func TestResetValidation(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	err := f.engine.Reset(ctx, f.sid(), ResetRequest{SessionName: "", Team1: "A", Team2: "B"})
	assert.ErrorIs(t, err, gameerr.ErrValidation)
	err = f.engine.Reset(ctx, f.sid(), ResetRequest{SessionName: "X", Team1: "A", Team2: "A"})
	assert.ErrorIs(t, err, gameerr.ErrValidation)
	err = f.engine.Reset(ctx, f.sid()+9, ResetRequest{SessionName: "X", Team1: "A", Team2: "B"})
	assert.ErrorIs(t, err, gameerr.ErrNotFound)
}

func TestChangeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("lenient", func(t *testing.T) {
		f := newFixture(t, DefaultConfig())
		turn, err := f.engine.CurrentTurn(ctx, f.sid())
		require.NoError(t, err)
		assert.Equal(t, "Owls", turn)

		stored, err := f.engine.ChangeTurn(ctx, f.sid(), "  Referee ")
		require.NoError(t, err)
		assert.Equal(t, "Referee", stored)
		turn, err = f.engine.CurrentTurn(ctx, f.sid())
		require.NoError(t, err)
		assert.Equal(t, "Referee", turn)

		_, err = f.engine.ChangeTurn(ctx, f.sid(), "")
		assert.ErrorIs(t, err, gameerr.ErrValidation)
		_, err = f.engine.ChangeTurn(ctx, f.sid()+1, "Owls")
		assert.ErrorIs(t, err, gameerr.ErrNotFound)
	})

	t.Run("strict", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StrictTurns = true
		f := newFixture(t, cfg)

		_, err := f.engine.ChangeTurn(ctx, f.sid(), "Referee")
		assert.ErrorIs(t, err, gameerr.ErrValidation)
		_, err = f.engine.ChangeTurn(ctx, f.sid(), "Foxes")
		require.NoError(t, err)
		turn, err := f.engine.CurrentTurn(ctx, f.sid())
		require.NoError(t, err)
		assert.Equal(t, "Foxes", turn)
	})
}

func TestAdjustScoreClamps(t *testing.T) {
	cfg := DefaultConfig()
	f := newFixture(t, cfg)
	ctx := context.Background()

	score, err := f.engine.AdjustScore(ctx, f.sid(), "Owls", 400)
	require.NoError(t, err)
	assert.Equal(t, 400, score)

	score, err = f.engine.AdjustScore(ctx, f.sid(), "Owls", -1000)
	require.NoError(t, err)
	assert.Zero(t, score)

	score, err = f.engine.AdjustScore(ctx, f.sid(), "Owls", 20000)
	require.NoError(t, err)
	assert.Equal(t, cfg.ScoreCap, score)

	// Scoring itself is not capped.
	got, err := f.engine.ScoreQuestion(ctx, f.sid(), f.hard(0), "Owls")
	require.NoError(t, err)
	assert.Equal(t, cfg.ScoreCap+750, got.TeamScore)

	_, err = f.engine.AdjustScore(ctx, f.sid(), "Bears", 10)
	assert.ErrorIs(t, err, gameerr.ErrNotFound)
	_, err = f.engine.AdjustScore(ctx, f.sid(), "", 10)
	assert.ErrorIs(t, err, gameerr.ErrValidation)
}

func TestSessionQuestions(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()

	_, err := f.engine.ScoreQuestion(ctx, f.sid(), f.easy(1), "Owls")
	require.NoError(t, err)

	views, err := f.engine.SessionQuestions(ctx, f.sid())
	require.NoError(t, err)
	require.Len(t, views, allocator.CategoriesPerSession)
	for i, cv := range views {
		assert.Equal(t, f.categories[i], cv.CategoryID)
		require.Len(t, cv.Questions, allocator.QuestionsPerCategory)
		for j, qv := range cv.Questions {
			assert.Equal(t, cv.CategoryID, qv.CategoryID)
			assert.Equal(t, j/2+1, qv.Difficulty, "easiest first")
			assert.Len(t, qv.Answers, 2)
		}
	}
	assert.Equal(t, "History", views[0].CategoryName)
	scored := views[0].Questions[1]
	assert.Equal(t, f.easy(1), scored.QuestionID)
	assert.True(t, scored.IsScored)
	assert.Equal(t, "Owls", scored.TeamAnswered)
	assert.Equal(t, 250, scored.Points)

	_, err = f.engine.SessionQuestions(ctx, f.sid()+1)
	assert.ErrorIs(t, err, gameerr.ErrNotFound)
}

func TestListGetValidateSessions(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()
	second := f.create(t, "Saturday")

	list, err := f.engine.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Friday", list[0].SessionName)
	assert.Equal(t, second.SessionID, list[1].SessionID)
	assert.True(t, list[0].IsValid)
	assert.Equal(t, allocator.QuestionsPerSession, list[0].TotalQuestions)
	assert.Len(t, list[0].Categories, allocator.CategoriesPerSession)
	assert.Equal(t, "Owls", list[0].Team1Name)
	assert.Equal(t, "Foxes", list[0].Team2Name)

	info, err := f.engine.GetSession(ctx, f.sid())
	require.NoError(t, err)
	assert.Equal(t, SessionInfo{
		SessionID: f.sid(), SessionName: "Friday", Team1: "Owls", Team2: "Foxes",
		CurrentTurn: "Owls", CreatedAt: info.CreatedAt,
	}, info)
	_, err = f.engine.GetSession(ctx, 999)
	assert.ErrorIs(t, err, gameerr.ErrNotFound)

	v, err := f.engine.ValidateSession(ctx, f.sid())
	require.NoError(t, err)
	assert.True(t, v.IsValid)
	assert.Equal(t, allocator.QuestionsPerSession, v.ExpectedQuestions)
	assert.Contains(t, v.Message, "valid")
}

func TestDeleteSessionKeepsQuestionsUsed(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()
	ix := pool.New(f.st)

	require.NoError(t, f.engine.DeleteSession(ctx, f.sid()))
	_, err := f.engine.Status(ctx, f.sid())
	assert.ErrorIs(t, err, gameerr.ErrNotFound)

	used, err := ix.UsedQuestionIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, allocator.QuestionsPerSession, used.Len())

	// Only one game's worth remains.
	f.create(t, "Second")
	_, err = f.alloc.CreateSession(ctx, allocator.Request{Name: "Third", Team1: "A", Team2: "B", CategoryIDs: f.categories})
	assert.ErrorIs(t, err, gameerr.ErrInsufficientQuestions)

	assert.ErrorIs(t, f.engine.DeleteSession(ctx, f.sid()), gameerr.ErrNotFound)
}

func TestDeleteSessionReleasesWhenConfigured(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReleaseOnDelete = true
	f := newFixture(t, cfg)
	ctx := context.Background()

	require.NoError(t, f.engine.DeleteSession(ctx, f.sid()))
	used, err := pool.New(f.st).UsedQuestionIDs(ctx)
	require.NoError(t, err)
	assert.Zero(t, used.Len())
}

func TestDeleteCategoryRemovesSessions(t *testing.T) {
	f := newFixture(t, DefaultConfig())
	ctx := context.Background()
	f.create(t, "Saturday")

	n, err := f.engine.DeleteCategory(ctx, f.categories[0])
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := f.engine.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.st.Queries().GetCategory(ctx, f.categories[0])
	assert.ErrorIs(t, err, store.ErrNotFound)
	remaining, err := f.st.Queries().ListQuestions(ctx, f.categories[0])
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = f.engine.DeleteCategory(ctx, f.categories[0])
	assert.ErrorIs(t, err, gameerr.ErrNotFound)
}

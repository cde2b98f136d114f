// Package allocator creates game sessions by drawing a fresh board of
// questions from the unused pool.
package allocator

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/iqgame/internal/catalog"
	"github.com/abhisek/iqgame/internal/gameerr"
	"github.com/abhisek/iqgame/internal/logging"
	"github.com/abhisek/iqgame/internal/pool"
	"github.com/abhisek/iqgame/internal/store"
)

const (
	// CategoriesPerSession is the number of categories a session is played over.
	CategoriesPerSession = 6
	// QuestionsPerCategory is what one category contributes to a board.
	QuestionsPerCategory = catalog.PerTier * 3
	// QuestionsPerSession is the size of a full board.
	QuestionsPerSession = CategoriesPerSession * QuestionsPerCategory
)

// Request asks for a new session.
type Request struct {
	Name        string `json:"sessionName"`
	Team1       string `json:"team1Name"`
	Team2       string `json:"team2Name"`
	CategoryIDs []int  `json:"categoryIds"`
}

// Validate rejects malformed requests before anything is written.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return gameerr.Validation("session name is required")
	}
	t1, t2 := strings.TrimSpace(r.Team1), strings.TrimSpace(r.Team2)
	if t1 == "" || t2 == "" {
		return gameerr.Validation("both team names are required")
	}
	if t1 == t2 {
		return gameerr.Validation("team names must differ")
	}
	if len(r.CategoryIDs) != CategoriesPerSession {
		return gameerr.Validation("exactly %d categories are required, got %d", CategoriesPerSession, len(r.CategoryIDs))
	}
	seen := make(map[int]bool, len(r.CategoryIDs))
	for _, id := range r.CategoryIDs {
		if seen[id] {
			return gameerr.Validation("category %d selected twice", id)
		}
		seen[id] = true
	}
	return nil
}

// Created describes a newly allocated session.
type Created struct {
	SessionID   int
	Name        string
	Team1       string
	Team2       string
	QuestionIDs []int
}

// Allocator is the Session Allocator.
type Allocator struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithRand sets the random source used for draws.
func WithRand(r *rand.Rand) Option {
	return func(a *Allocator) { a.rng = r }
}

// WithClock sets the clock used to stamp sessions.
func WithClock(now func() time.Time) Option {
	return func(a *Allocator) { a.now = now }
}

// New returns an Allocator. A nil logger uses slog.Default().
func New(st *store.Store, logger *slog.Logger, opts ...Option) *Allocator {
	a := &Allocator{
		store:  st,
		logger: logging.OrDefault(logger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return a
}

// CreateSession draws two unused questions per difficulty tier from each
// requested category and persists the session, its board and its two team
// scores in one transaction. If any category falls short, nothing is written
// and the returned error lists every short category.
func (a *Allocator) CreateSession(ctx context.Context, req Request) (*Created, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Team1 = strings.TrimSpace(req.Team1)
	req.Team2 = strings.TrimSpace(req.Team2)

	var out *Created
	err := a.store.InTx(ctx, func(q *store.Queries) error {
		board, err := a.drawBoard(ctx, q, req.CategoryIDs)
		if err != nil {
			return err
		}

		sid, err := q.InsertSession(ctx, store.Session{
			Name:            req.Name,
			CurrentTurnTeam: req.Team1,
			CreatedAt:       a.now(),
		})
		if err != nil {
			return err
		}
		if err := q.InsertSessionQuestions(ctx, sid, board); err != nil {
			return err
		}
		if err := q.MarkQuestionsUsed(ctx, sid, board, a.now()); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return gameerr.Conflict("a drawn question was allocated concurrently, retry")
			}
			return err
		}
		if err := q.InsertTeamScores(ctx, sid, req.Team1, req.Team2); err != nil {
			return err
		}

		out = &Created{
			SessionID:   sid,
			Name:        req.Name,
			Team1:       req.Team1,
			Team2:       req.Team2,
			QuestionIDs: board,
		}
		return nil
	})
	if err != nil {
		return nil, gameerr.Persistence("create session", err)
	}

	a.logger.Info("session created",
		"session_id", out.SessionID,
		"name", out.Name,
		"team1", out.Team1,
		"team2", out.Team2,
		"questions", len(out.QuestionIDs))
	return out, nil
}

// drawBoard picks the board for categoryIDs, in request order and easiest
// tier first within each category.
func (a *Allocator) drawBoard(ctx context.Context, q *store.Queries, categoryIDs []int) ([]int, error) {
	cats, err := q.CategoriesByID(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range categoryIDs {
		if _, ok := cats[id]; !ok {
			return nil, gameerr.NotFound("category %d not found", id)
		}
	}

	used, err := pool.UsedIn(ctx, q)
	if err != nil {
		return nil, err
	}
	questions, err := q.ListQuestions(ctx, categoryIDs...)
	if err != nil {
		return nil, err
	}

	// candidates[category][difficulty] holds unused ids in ascending order.
	candidates := make(map[int]map[int][]int, len(categoryIDs))
	for _, qn := range questions {
		if used.Contains(qn.ID) {
			continue
		}
		byTier := candidates[qn.CategoryID]
		if byTier == nil {
			byTier = make(map[int][]int, len(catalog.Tiers))
			candidates[qn.CategoryID] = byTier
		}
		byTier[qn.Difficulty] = append(byTier[qn.Difficulty], qn.ID)
	}

	var short []gameerr.Shortfall
	for _, id := range categoryIDs {
		byTier := candidates[id]
		if len(byTier[catalog.Easy]) < catalog.PerTier ||
			len(byTier[catalog.Medium]) < catalog.PerTier ||
			len(byTier[catalog.Hard]) < catalog.PerTier {
			short = append(short, gameerr.Shortfall{
				CategoryID:   id,
				CategoryName: cats[id].Name,
				Easy:         len(byTier[catalog.Easy]),
				Medium:       len(byTier[catalog.Medium]),
				Hard:         len(byTier[catalog.Hard]),
			})
		}
	}
	if len(short) > 0 {
		return nil, &gameerr.InsufficientQuestionsError{Categories: short}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	board := make([]int, 0, QuestionsPerSession)
	for _, id := range categoryIDs {
		for _, tier := range catalog.Tiers {
			board = append(board, sample(a.rng, candidates[id][tier], catalog.PerTier)...)
		}
	}
	return board, nil
}

// sample returns k distinct elements of ids chosen uniformly at random. It
// runs a partial Fisher-Yates shuffle on a copy, leaving ids untouched.
func sample(r *rand.Rand, ids []int, k int) []int {
	pick := append([]int(nil), ids...)
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(pick)-i)
		pick[i], pick[j] = pick[j], pick[i]
	}
	return pick[:k]
}

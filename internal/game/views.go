package game

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/iqgame/internal/allocator"
	"github.com/abhisek/iqgame/internal/gameerr"
	"github.com/abhisek/iqgame/internal/help"
	"github.com/abhisek/iqgame/internal/store"
)

// Tie is the winner reported when both teams finish level.
const Tie = "tie"

// AnswerView is one answer choice.
type AnswerView struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	ImageURL  string `json:"imageUrl,omitempty"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionView is one board question.
type QuestionView struct {
	QuestionID         int          `json:"questionId"`
	Text               string       `json:"text"`
	Difficulty         int          `json:"difficulty"`
	Points             int          `json:"points"`
	ImageURL           string       `json:"imageUrl,omitempty"`
	IsScored           bool         `json:"isScored"`
	TeamAnswered       string       `json:"teamAnswered,omitempty"`
	CategoryID         int          `json:"categoryId"`
	CategoryDisableMCQ bool         `json:"categoryDisableMCQ"`
	Answers            []AnswerView `json:"answers"`
}

// CategoryView groups board questions by category.
type CategoryView struct {
	CategoryID       int            `json:"categoryId"`
	CategoryName     string         `json:"categoryName"`
	CategoryImageURL string         `json:"categoryImageUrl,omitempty"`
	Questions        []QuestionView `json:"questions"`
}

// board is a session's rows joined with their questions and categories.
type board struct {
	rows       []store.SessionQuestion
	questions  map[int]store.Question
	categories map[int]store.Category
	order      []int // category ids in board order
}

func loadBoard(ctx context.Context, q *store.Queries, sessionID int) (*board, error) {
	rows, err := q.ListSessionQuestions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.QuestionID
	}
	questions, err := q.QuestionsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	b := &board{rows: rows, questions: questions}
	seen := make(map[int]bool)
	for _, r := range rows {
		qn, ok := questions[r.QuestionID]
		if !ok || seen[qn.CategoryID] {
			continue
		}
		seen[qn.CategoryID] = true
		b.order = append(b.order, qn.CategoryID)
	}
	b.categories, err = q.CategoriesByID(ctx, b.order)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// SessionQuestions returns a session's board grouped by category, in the
// order the categories were requested.
func (e *Engine) SessionQuestions(ctx context.Context, sessionID int) ([]CategoryView, error) {
	var out []CategoryView
	err := e.store.InTx(ctx, func(q *store.Queries) error {
		if err := sessionExists(ctx, q, sessionID); err != nil {
			return err
		}
		b, err := loadBoard(ctx, q, sessionID)
		if err != nil {
			return err
		}
		answers, err := q.AnswersForQuestions(ctx, boardQuestionIDs(b))
		if err != nil {
			return err
		}

		index := make(map[int]int, len(b.order))
		for _, id := range b.order {
			cat := b.categories[id]
			index[id] = len(out)
			out = append(out, CategoryView{
				CategoryID:       cat.ID,
				CategoryName:     cat.Name,
				CategoryImageURL: cat.ImageURL,
			})
		}
		for _, r := range b.rows {
			qn, ok := b.questions[r.QuestionID]
			if !ok {
				continue
			}
			view := QuestionView{
				QuestionID:         qn.ID,
				Text:               qn.Text,
				Difficulty:         qn.Difficulty,
				Points:             qn.Points,
				ImageURL:           qn.ImageURL,
				IsScored:           r.IsScored,
				TeamAnswered:       r.TeamAnswered,
				CategoryID:         qn.CategoryID,
				CategoryDisableMCQ: b.categories[qn.CategoryID].DisableMCQ,
				Answers:            []AnswerView{},
			}
			for _, a := range answers[qn.ID] {
				view.Answers = append(view.Answers, AnswerView{
					ID:        a.ID,
					Text:      a.Text,
					ImageURL:  a.ImageURL,
					IsCorrect: a.IsCorrect,
				})
			}
			c := &out[index[qn.CategoryID]]
			c.Questions = append(c.Questions, view)
		}
		return nil
	})
	if err != nil {
		return nil, gameerr.Persistence("session questions", err)
	}
	return out, nil
}

func boardQuestionIDs(b *board) []int {
	ids := make([]int, len(b.rows))
	for i, r := range b.rows {
		ids[i] = r.QuestionID
	}
	return ids
}

// TeamStatus is one team's live standing.
type TeamStatus struct {
	Name  string      `json:"name"`
	Score int         `json:"score"`
	Help  help.Status `json:"helpStatus"`
}

// Status is a snapshot of a running game.
type Status struct {
	SessionID         int        `json:"sessionId"`
	SessionName       string     `json:"sessionName"`
	TotalScored       int        `json:"totalScored"`
	TotalQuestions    int        `json:"totalQuestions"`
	GameFinished      bool       `json:"gameFinished"`
	CurrentTurn       string     `json:"currentTurn,omitempty"`
	DoublePointsArmed bool       `json:"doublePointsArmed"`
	Team1             TeamStatus `json:"team1"`
	Team2             TeamStatus `json:"team2"`
}

// Status returns the scores, turn and power-up state of a session.
func (e *Engine) Status(ctx context.Context, sessionID int) (Status, error) {
	var out Status
	err := e.store.InTx(ctx, func(q *store.Queries) error {
		sess, err := loadSession(ctx, q, sessionID)
		if err != nil {
			return err
		}
		t1, t2, err := teams(ctx, q, sessionID)
		if err != nil {
			return err
		}
		scored, err := q.CountScored(ctx, sessionID)
		if err != nil {
			return err
		}
		total, err := q.CountSessionQuestions(ctx, sessionID)
		if err != nil {
			return err
		}
		helps, err := q.UsedHelps(ctx, sessionID, "")
		if err != nil {
			return err
		}
		out = Status{
			SessionID:         sess.ID,
			SessionName:       sess.Name,
			TotalScored:       scored,
			TotalQuestions:    total,
			GameFinished:      finished(scored),
			CurrentTurn:       sess.CurrentTurnTeam,
			DoublePointsArmed: sess.Modifier == help.ModifierDoublePoints,
			Team1:             TeamStatus{Name: t1.TeamName, Score: t1.Score, Help: help.StatusOf(helps, t1.TeamName)},
			Team2:             TeamStatus{Name: t2.TeamName, Score: t2.Score, Help: help.StatusOf(helps, t2.TeamName)},
		}
		return nil
	})
	if err != nil {
		return Status{}, gameerr.Persistence("game status", err)
	}
	return out, nil
}

// TeamResult is one team's final score.
type TeamResult struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// CategoryBreakdown sums the face value of scored questions per team.
type CategoryBreakdown struct {
	CategoryID   int    `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Team1Points  int    `json:"team1Points"`
	Team2Points  int    `json:"team2Points"`
}

// Results is the outcome of a session.
type Results struct {
	SessionID  int                 `json:"sessionId"`
	Team1      TeamResult          `json:"team1"`
	Team2      TeamResult          `json:"team2"`
	Winner     string              `json:"winner"`
	IsTie      bool                `json:"isTie"`
	Categories []CategoryBreakdown `json:"categories"`
}

// Results returns the standings of a session and its per-category
// breakdown. Breakdown points are the questions' face values; doubling is
// only reflected in the team totals.
func (e *Engine) Results(ctx context.Context, sessionID int) (Results, error) {
	var out Results
	err := e.store.InTx(ctx, func(q *store.Queries) error {
		if err := sessionExists(ctx, q, sessionID); err != nil {
			return err
		}
		t1, t2, err := teams(ctx, q, sessionID)
		if err != nil {
			return err
		}
		b, err := loadBoard(ctx, q, sessionID)
		if err != nil {
			return err
		}

		out = Results{
			SessionID:  sessionID,
			Team1:      TeamResult{Name: t1.TeamName, Score: t1.Score},
			Team2:      TeamResult{Name: t2.TeamName, Score: t2.Score},
			Categories: []CategoryBreakdown{},
		}
		switch {
		case t1.Score > t2.Score:
			out.Winner = t1.TeamName
		case t2.Score > t1.Score:
			out.Winner = t2.TeamName
		default:
			out.Winner = Tie
			out.IsTie = true
		}

		index := make(map[int]int)
		for _, r := range b.rows {
			if !r.IsScored {
				continue
			}
			qn, ok := b.questions[r.QuestionID]
			if !ok {
				continue
			}
			i, ok := index[qn.CategoryID]
			if !ok {
				i = len(out.Categories)
				index[qn.CategoryID] = i
				out.Categories = append(out.Categories, CategoryBreakdown{
					CategoryID:   qn.CategoryID,
					CategoryName: b.categories[qn.CategoryID].Name,
				})
			}
			switch r.TeamAnswered {
			case t1.TeamName:
				out.Categories[i].Team1Points += qn.Points
			case t2.TeamName:
				out.Categories[i].Team2Points += qn.Points
			}
		}
		return nil
	})
	if err != nil {
		return Results{}, gameerr.Persistence("session results", err)
	}
	return out, nil
}

// CategorySummary names one category of a session.
type CategorySummary struct {
	CategoryID       int    `json:"categoryId"`
	CategoryName     string `json:"categoryName"`
	CategoryImageURL string `json:"categoryImageUrl,omitempty"`
}

// SessionSummary is one row of the session list.
type SessionSummary struct {
	SessionID      int               `json:"sessionId"`
	SessionName    string            `json:"sessionName"`
	Categories     []CategorySummary `json:"categories"`
	TotalQuestions int               `json:"totalQuestions"`
	IsValid        bool              `json:"isValid"`
	Team1Name      string            `json:"team1Name"`
	Team2Name      string            `json:"team2Name"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ListSessions summarizes every session.
func (e *Engine) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	out := []SessionSummary{}
	err := e.store.InTx(ctx, func(q *store.Queries) error {
		sessions, err := q.ListSessions(ctx)
		if err != nil {
			return err
		}
		for _, sess := range sessions {
			b, err := loadBoard(ctx, q, sess.ID)
			if err != nil {
				return err
			}
			scores, err := q.TeamScores(ctx, sess.ID)
			if err != nil {
				return err
			}
			sum := SessionSummary{
				SessionID:      sess.ID,
				SessionName:    sess.Name,
				Categories:     []CategorySummary{},
				TotalQuestions: len(b.rows),
				IsValid:        len(b.rows) == allocator.QuestionsPerSession,
				Team1Name:      teamName(scores, 0, "Team 1"),
				Team2Name:      teamName(scores, 1, "Team 2"),
				CreatedAt:      sess.CreatedAt,
			}
			for i, id := range b.order {
				if i == allocator.CategoriesPerSession {
					break
				}
				cat := b.categories[id]
				sum.Categories = append(sum.Categories, CategorySummary{
					CategoryID:       cat.ID,
					CategoryName:     cat.Name,
					CategoryImageURL: cat.ImageURL,
				})
			}
			out = append(out, sum)
		}
		return nil
	})
	if err != nil {
		return nil, gameerr.Persistence("list sessions", err)
	}
	return out, nil
}

// SessionInfo identifies a session and its teams.
type SessionInfo struct {
	SessionID   int       `json:"sessionId"`
	SessionName string    `json:"sessionName"`
	Team1       string    `json:"team1"`
	Team2       string    `json:"team2"`
	CurrentTurn string    `json:"currentTurn,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GetSession returns a session's name and teams.
func (e *Engine) GetSession(ctx context.Context, sessionID int) (SessionInfo, error) {
	q := e.store.Queries()
	sess, err := loadSession(ctx, q, sessionID)
	if err != nil {
		return SessionInfo{}, gameerr.Persistence("get session", err)
	}
	scores, err := q.TeamScores(ctx, sessionID)
	if err != nil {
		return SessionInfo{}, gameerr.Persistence("get session", err)
	}
	return SessionInfo{
		SessionID:   sess.ID,
		SessionName: sess.Name,
		Team1:       teamName(scores, 0, ""),
		Team2:       teamName(scores, 1, ""),
		CurrentTurn: sess.CurrentTurnTeam,
		CreatedAt:   sess.CreatedAt,
	}, nil
}

// Validation reports whether a session holds a full board.
type Validation struct {
	SessionID         int    `json:"sessionId"`
	TotalQuestions    int    `json:"totalQuestions"`
	IsValid           bool   `json:"isValid"`
	ExpectedQuestions int    `json:"expectedQuestions"`
	Message           string `json:"message"`
}

// ValidateSession counts a session's board.
func (e *Engine) ValidateSession(ctx context.Context, sessionID int) (Validation, error) {
	q := e.store.Queries()
	if err := sessionExists(ctx, q, sessionID); err != nil {
		return Validation{}, gameerr.Persistence("validate session", err)
	}
	n, err := q.CountSessionQuestions(ctx, sessionID)
	if err != nil {
		return Validation{}, gameerr.Persistence("validate session", err)
	}
	v := Validation{
		SessionID:         sessionID,
		TotalQuestions:    n,
		IsValid:           n == allocator.QuestionsPerSession,
		ExpectedQuestions: allocator.QuestionsPerSession,
	}
	if v.IsValid {
		v.Message = fmt.Sprintf("session is valid with %d questions", n)
	} else {
		v.Message = fmt.Sprintf("session has %d questions, expected %d", n, allocator.QuestionsPerSession)
	}
	return v, nil
}

// teams returns the two team rows of a session.
func teams(ctx context.Context, q *store.Queries, sessionID int) (store.TeamScore, store.TeamScore, error) {
	scores, err := q.TeamScores(ctx, sessionID)
	if err != nil {
		return store.TeamScore{}, store.TeamScore{}, err
	}
	if len(scores) != 2 {
		return store.TeamScore{}, store.TeamScore{}, fmt.Errorf("session %d has %d teams, want 2", sessionID, len(scores))
	}
	return scores[0], scores[1], nil
}

func teamName(scores []store.TeamScore, i int, fallback string) string {
	if i < len(scores) {
		return scores[i].TeamName
	}
	return fallback
}

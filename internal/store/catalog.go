package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	entsql "entgo.io/ent/dialect/sql"
)

// InsertGroup inserts a category group and returns its id.
func (q *Queries) InsertGroup(ctx context.Context, g Group) (int, error) {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return 0, fmt.Errorf("group name is required")
	}
	res, err := q.exec(ctx, builder.Insert(tableGroups).
		Columns("name", "description", "color", "display_order", "is_active").
		Values(name, nullString(g.Description), nullString(g.Color), g.DisplayOrder, g.Active))
	if err != nil {
		return 0, fmt.Errorf("insert group: %w", err)
	}
	return lastInsertID(res)
}

// ListGroups returns every group ordered for display.
func (q *Queries) ListGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	err := q.each(ctx, builder.Select("id", "name", "description", "color", "display_order", "is_active").
		From(builder.Table(tableGroups)).
		OrderBy("display_order", "id"),
		func(rows entsql.ColumnScanner) error {
			var g Group
			var desc, color entsql.NullString
			if err := rows.Scan(&g.ID, &g.Name, &desc, &color, &g.DisplayOrder, &g.Active); err != nil {
				return err
			}
			g.Description = desc.String
			g.Color = color.String
			groups = append(groups, g)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// InsertCategory inserts a category and returns its id.
func (q *Queries) InsertCategory(ctx context.Context, c Category) (int, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return 0, fmt.Errorf("category name is required")
	}
	res, err := q.exec(ctx, builder.Insert(tableCategories).
		Columns("name", "description", "image_url", "disable_mcq", "group_id").
		Values(name, nullString(c.Description), nullString(c.ImageURL), c.DisableMCQ, nullInt(c.GroupID)))
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return lastInsertID(res)
}

var categoryColumns = []string{"id", "name", "description", "image_url", "disable_mcq", "group_id"}

func scanCategory(rows entsql.ColumnScanner) (Category, error) {
	var c Category
	var desc, image entsql.NullString
	var group entsql.NullInt64
	if err := rows.Scan(&c.ID, &c.Name, &desc, &image, &c.DisableMCQ, &group); err != nil {
		return Category{}, err
	}
	c.Description = desc.String
	c.ImageURL = image.String
	c.GroupID = intPtr(group)
	return c, nil
}

// ListCategories returns every category ordered by id.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	err := q.each(ctx, builder.Select(categoryColumns...).
		From(builder.Table(tableCategories)).
		OrderBy("id"),
		func(rows entsql.ColumnScanner) error {
			c, err := scanCategory(rows)
			if err != nil {
				return err
			}
			cats = append(cats, c)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// GetCategory returns one category by id.
func (q *Queries) GetCategory(ctx context.Context, id int) (Category, error) {
	var c Category
	err := q.one(ctx, builder.Select(categoryColumns...).
		From(builder.Table(tableCategories)).
		Where(entsql.EQ("id", id)),
		func(rows entsql.ColumnScanner) error {
			var err error
			c, err = scanCategory(rows)
			return err
		})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Category{}, err
		}
		return Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// CategoriesByID returns the categories with the given ids, keyed by id.
func (q *Queries) CategoriesByID(ctx context.Context, ids []int) (map[int]Category, error) {
	out := make(map[int]Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	err := q.each(ctx, builder.Select(categoryColumns...).
		From(builder.Table(tableCategories)).
		Where(entsql.In("id", intArgs(ids)...)),
		func(rows entsql.ColumnScanner) error {
			c, err := scanCategory(rows)
			if err != nil {
				return err
			}
			out[c.ID] = c
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("categories by id: %w", err)
	}
	return out, nil
}

// DeleteCategory deletes a category. Its questions and answers cascade.
func (q *Queries) DeleteCategory(ctx context.Context, id int) error {
	res, err := q.exec(ctx, builder.Delete(tableCategories).Where(entsql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertQuestion inserts a question and returns its id.
func (q *Queries) InsertQuestion(ctx context.Context, qn Question) (int, error) {
	text := strings.TrimSpace(qn.Text)
	if text == "" {
		return 0, fmt.Errorf("question text is required")
	}
	res, err := q.exec(ctx, builder.Insert(tableQuestions).
		Columns("text", "image_url", "difficulty", "points", "category_id").
		Values(text, nullString(qn.ImageURL), qn.Difficulty, qn.Points, qn.CategoryID))
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return lastInsertID(res)
}

var questionColumns = []string{"id", "category_id", "text", "image_url", "difficulty", "points"}

func scanQuestion(rows entsql.ColumnScanner) (Question, error) {
	var qn Question
	var image entsql.NullString
	if err := rows.Scan(&qn.ID, &qn.CategoryID, &qn.Text, &image, &qn.Difficulty, &qn.Points); err != nil {
		return Question{}, err
	}
	qn.ImageURL = image.String
	return qn, nil
}

// GetQuestion returns one question by id.
func (q *Queries) GetQuestion(ctx context.Context, id int) (Question, error) {
	var qn Question
	err := q.one(ctx, builder.Select(questionColumns...).
		From(builder.Table(tableQuestions)).
		Where(entsql.EQ("id", id)),
		func(rows entsql.ColumnScanner) error {
			var err error
			qn, err = scanQuestion(rows)
			return err
		})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Question{}, err
		}
		return Question{}, fmt.Errorf("get question: %w", err)
	}
	return qn, nil
}

// ListQuestions returns every question, optionally restricted to categories.
func (q *Queries) ListQuestions(ctx context.Context, categoryIDs ...int) ([]Question, error) {
	sel := builder.Select(questionColumns...).
		From(builder.Table(tableQuestions)).
		OrderBy("id")
	if len(categoryIDs) > 0 {
		sel = sel.Where(entsql.In("category_id", intArgs(categoryIDs)...))
	}
	var out []Question
	err := q.each(ctx, sel, func(rows entsql.ColumnScanner) error {
		qn, err := scanQuestion(rows)
		if err != nil {
			return err
		}
		out = append(out, qn)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return out, nil
}

// QuestionsByID returns the questions with the given ids, keyed by id.
func (q *Queries) QuestionsByID(ctx context.Context, ids []int) (map[int]Question, error) {
	out := make(map[int]Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	err := q.each(ctx, builder.Select(questionColumns...).
		From(builder.Table(tableQuestions)).
		Where(entsql.In("id", intArgs(ids)...)),
		func(rows entsql.ColumnScanner) error {
			qn, err := scanQuestion(rows)
			if err != nil {
				return err
			}
			out[qn.ID] = qn
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("questions by id: %w", err)
	}
	return out, nil
}

// InsertAnswer inserts an answer and returns its id.
func (q *Queries) InsertAnswer(ctx context.Context, a Answer) (int, error) {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return 0, fmt.Errorf("answer text is required")
	}
	res, err := q.exec(ctx, builder.Insert(tableAnswers).
		Columns("text", "image_url", "is_correct", "question_id").
		Values(text, nullString(a.ImageURL), a.IsCorrect, a.QuestionID))
	if err != nil {
		return 0, fmt.Errorf("insert answer: %w", err)
	}
	return lastInsertID(res)
}

// AnswersForQuestions returns answers grouped by question id, in id order.
func (q *Queries) AnswersForQuestions(ctx context.Context, questionIDs []int) (map[int][]Answer, error) {
	out := make(map[int][]Answer, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}
	err := q.each(ctx, builder.Select("id", "question_id", "text", "image_url", "is_correct").
		From(builder.Table(tableAnswers)).
		Where(entsql.In("question_id", intArgs(questionIDs)...)).
		OrderBy("id"),
		func(rows entsql.ColumnScanner) error {
			var a Answer
			var image entsql.NullString
			if err := rows.Scan(&a.ID, &a.QuestionID, &a.Text, &image, &a.IsCorrect); err != nil {
				return err
			}
			a.ImageURL = image.String
			out[a.QuestionID] = append(out[a.QuestionID], a)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("answers for questions: %w", err)
	}
	return out, nil
}

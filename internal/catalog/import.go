// Package catalog loads categories, questions and answers into the store.
//
// The catalog is authored outside the game engine; this package only
// imports it from a YAML document and answers the few catalog lookups the
// engine needs.
package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/iqgame/internal/gameerr"
	"github.com/abhisek/iqgame/internal/logging"
	"github.com/abhisek/iqgame/internal/store"
)

// Document is the YAML catalog format.
type Document struct {
	Groups     []GroupDoc    `yaml:"groups"`
	Categories []CategoryDoc `yaml:"categories"`
}

// GroupDoc describes a category group. Key is referenced by CategoryDoc.Group.
type GroupDoc struct {
	Key          string `yaml:"key"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Color        string `yaml:"color"`
	DisplayOrder int    `yaml:"display_order"`
	Active       *bool  `yaml:"active"`
}

// CategoryDoc describes a category and its questions.
type CategoryDoc struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	ImageURL    string        `yaml:"image_url"`
	Group       string        `yaml:"group"`
	DisableMCQ  bool          `yaml:"disable_mcq"`
	Questions   []QuestionDoc `yaml:"questions"`
}

// QuestionDoc describes one question.
type QuestionDoc struct {
	Text       string      `yaml:"text"`
	ImageURL   string      `yaml:"image_url"`
	Difficulty int         `yaml:"difficulty"`
	Answers    []AnswerDoc `yaml:"answers"`
}

// AnswerDoc describes one answer choice.
type AnswerDoc struct {
	Text     string `yaml:"text"`
	ImageURL string `yaml:"image_url"`
	Correct  bool   `yaml:"correct"`
}

// Summary counts what an import inserted.
type Summary struct {
	Groups     int
	Categories int
	Questions  int
	Answers    int
}

// Importer writes catalog documents into the store.
type Importer struct {
	store  *store.Store
	logger *slog.Logger
}

// NewImporter creates an Importer. A nil logger uses slog.Default().
func NewImporter(st *store.Store, logger *slog.Logger) *Importer {
	return &Importer{store: st, logger: logging.OrDefault(logger)}
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, gameerr.Validation("parse catalog: %v", err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, gameerr.Validation("invalid catalog: %v", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, gameerr.Validation("decode catalog: %v", err)
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// check enforces rules the schema cannot express.
func (d *Document) check() error {
	keys := make(map[string]bool, len(d.Groups))
	for _, g := range d.Groups {
		if keys[g.Key] {
			return gameerr.Validation("duplicate group key %q", g.Key)
		}
		keys[g.Key] = true
	}
	for _, c := range d.Categories {
		if c.Group != "" && !keys[c.Group] {
			return gameerr.Validation("category %q references unknown group %q", c.Name, c.Group)
		}
		if strings.TrimSpace(c.Name) == "" {
			return gameerr.Validation("category name is blank")
		}
		for i, q := range c.Questions {
			if _, ok := PointsFor(q.Difficulty); !ok {
				return gameerr.Validation("category %q: difficulty %d has no point value", c.Name, q.Difficulty)
			}
			if strings.TrimSpace(q.Text) == "" {
				return gameerr.Validation("category %q: question %d has blank text", c.Name, i+1)
			}
			for _, a := range q.Answers {
				if strings.TrimSpace(a.Text) == "" {
					return gameerr.Validation("category %q: question %d has a blank answer", c.Name, i+1)
				}
			}
		}
	}
	return nil
}

// ImportFile reads and imports the catalog at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read catalog: %w", err)
	}
	return im.ImportBytes(ctx, data)
}

// Import reads a catalog document from r and imports it.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Summary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Summary{}, fmt.Errorf("read catalog: %w", err)
	}
	return im.ImportBytes(ctx, data)
}

// ImportBytes validates data and inserts the whole catalog in one transaction.
func (im *Importer) ImportBytes(ctx context.Context, data []byte) (Summary, error) {
	doc, err := Parse(data)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	err = im.store.InTx(ctx, func(q *store.Queries) error {
		sum = Summary{}
		groupIDs := make(map[string]int, len(doc.Groups))
		for _, g := range doc.Groups {
			active := true
			if g.Active != nil {
				active = *g.Active
			}
			id, err := q.InsertGroup(ctx, store.Group{
				Name:         g.Name,
				Description:  g.Description,
				Color:        g.Color,
				DisplayOrder: g.DisplayOrder,
				Active:       active,
			})
			if err != nil {
				return err
			}
			groupIDs[g.Key] = id
			sum.Groups++
		}

		for _, c := range doc.Categories {
			cat := store.Category{
				Name:        c.Name,
				Description: c.Description,
				ImageURL:    c.ImageURL,
				DisableMCQ:  c.DisableMCQ,
			}
			if c.Group != "" {
				id := groupIDs[c.Group]
				cat.GroupID = &id
			}
			catID, err := q.InsertCategory(ctx, cat)
			if err != nil {
				return err
			}
			sum.Categories++

			for _, qd := range c.Questions {
				points, _ := PointsFor(qd.Difficulty)
				qid, err := q.InsertQuestion(ctx, store.Question{
					CategoryID: catID,
					Text:       qd.Text,
					ImageURL:   qd.ImageURL,
					Difficulty: qd.Difficulty,
					Points:     points,
				})
				if err != nil {
					return err
				}
				sum.Questions++

				for _, a := range qd.Answers {
					if _, err := q.InsertAnswer(ctx, store.Answer{
						QuestionID: qid,
						Text:       a.Text,
						ImageURL:   a.ImageURL,
						IsCorrect:  a.Correct,
					}); err != nil {
						return err
					}
					sum.Answers++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, gameerr.Persistence("import catalog", err)
	}

	im.logger.Info("catalog imported",
		"groups", sum.Groups,
		"categories", sum.Categories,
		"questions", sum.Questions,
		"answers", sum.Answers)
	return sum, nil
}

// Package availability reports how many complete games each category can
// still supply.
package availability

import (
	"context"

	"github.com/abhisek/iqgame/internal/catalog"
	"github.com/abhisek/iqgame/internal/gameerr"
	"github.com/abhisek/iqgame/internal/pool"
	"github.com/abhisek/iqgame/internal/store"
)

// Tier counts questions of one difficulty.
type Tier struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

// Category is the availability of one category.
type Category struct {
	CategoryID       int    `json:"categoryId"`
	CategoryName     string `json:"categoryName"`
	CategoryImageURL string `json:"categoryImageUrl,omitempty"`
	GroupID          *int   `json:"groupId,omitempty"`
	GroupName        string `json:"groupName,omitempty"`
	TotalQuestions   int    `json:"totalQuestions"`
	UsedQuestions    int    `json:"usedQuestions"`
	Easy             Tier   `json:"easy"`
	Medium           Tier   `json:"medium"`
	Hard             Tier   `json:"hard"`
	AvailableGames   int    `json:"availableGames"`
}

func (c *Category) tier(difficulty int) *Tier {
	switch difficulty {
	case catalog.Easy:
		return &c.Easy
	case catalog.Medium:
		return &c.Medium
	case catalog.Hard:
		return &c.Hard
	}
	return nil
}

// Games returns how many full boards the category can still contribute to.
func (c Category) Games() int {
	return min(c.Easy.Available, c.Medium.Available, c.Hard.Available) / catalog.PerTier
}

// Calculator is the Category Availability Calculator.
type Calculator struct {
	store *store.Store
}

// New returns a Calculator over st.
func New(st *store.Store) *Calculator {
	return &Calculator{store: st}
}

// GetAvailability returns one entry per catalog category. It reads the
// usage index and the catalog in one transaction so the report matches
// what an allocation started right after it would see.
func (c *Calculator) GetAvailability(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.store.InTx(ctx, func(q *store.Queries) error {
		var err error
		out, err = compute(ctx, q)
		return err
	})
	if err != nil {
		return nil, gameerr.Persistence("category availability", err)
	}
	return out, nil
}

func compute(ctx context.Context, q *store.Queries) ([]Category, error) {
	cats, err := q.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := q.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	groupNames := make(map[int]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.Name
	}
	used, err := pool.UsedIn(ctx, q)
	if err != nil {
		return nil, err
	}
	questions, err := q.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Category, len(cats))
	index := make(map[int]int, len(cats))
	for i, cat := range cats {
		out[i] = Category{
			CategoryID:       cat.ID,
			CategoryName:     cat.Name,
			CategoryImageURL: cat.ImageURL,
			GroupID:          cat.GroupID,
		}
		if cat.GroupID != nil {
			out[i].GroupName = groupNames[*cat.GroupID]
		}
		index[cat.ID] = i
	}

	for _, qn := range questions {
		i, ok := index[qn.CategoryID]
		if !ok {
			continue
		}
		entry := &out[i]
		entry.TotalQuestions++
		isUsed := used.Contains(qn.ID)
		if isUsed {
			entry.UsedQuestions++
		}
		if t := entry.tier(qn.Difficulty); t != nil {
			t.Total++
			if !isUsed {
				t.Available++
			}
		}
	}
	for i := range out {
		out[i].AvailableGames = out[i].Games()
	}
	return out, nil
}

package gameerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"plain", errors.New("boom"), nil},
		{"validation", Validation("team name is required"), ErrValidation},
		{"not found", NotFound("session %d", 4), ErrNotFound},
		{"conflict wrapped", fmt.Errorf("score: %w", Conflict("already scored")), ErrConflict},
		{"insufficient", &InsufficientQuestionsError{}, ErrInsufficientQuestions},
		{"persistence", Persistence("insert", errors.New("disk full")), ErrPersistence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestPersistenceKeepsKind(t *testing.T) {
	err := Persistence("score question", NotFound("question 9"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrPersistence)
	assert.Nil(t, Persistence("noop", nil))
}

func TestPersistenceUnwrapsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := Persistence("create session", cause)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "create session: database is locked", err.Error())
}

func TestInsufficientQuestionsErrorMessage(t *testing.T) {
	err := &InsufficientQuestionsError{Categories: []Shortfall{
		{CategoryID: 3, CategoryName: "Space", Easy: 2, Medium: 1, Hard: 2},
		{CategoryID: 7, Easy: 0, Medium: 4, Hard: 4},
	}}
	assert.Equal(t,
		"categories without enough available questions: Space (easy 2, medium 1, hard 2), #7 (easy 0, medium 4, hard 4)",
		err.Error())
}

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqgame/internal/app"
	"github.com/abhisek/iqgame/internal/config"
	"github.com/abhisek/iqgame/internal/logging"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLIGameFlow(t *testing.T) {
	t.Setenv("IQGAME_DB", "")
	db := filepath.Join(t.TempDir(), "iqgame.db")
	base := []string{"--db", db, "--log-level", "error"}
	run := func(args ...string) string {
		t.Helper()
		out, err := runCLI(t, append(args, base...)...)
		require.NoError(t, err, out)
		return out
	}

	out := run("seed", "../internal/catalog/testdata/catalog.yaml")
	assert.Contains(t, out, "Imported 3 groups, 7 categories, 77 questions, 154 answers")

	out = run("availability")
	assert.Contains(t, out, "History")
	assert.Contains(t, out, "Space")

	out = run("session", "create", "--name", "Friday", "--team1", "Owls", "--team2", "Foxes",
		"--categories", "1,2,3,4,5,6")
	assert.Contains(t, out, `Created session 1 "Friday" with 36 questions`)

	out = run("powerup", "use", "1", "Owls", "doublePoints")
	assert.Contains(t, out, "Owls used doublePoints")
	out = run("powerup", "status", "1", "Owls")
	assert.Contains(t, out, "doublePoints: armed")

	a, err := app.New(config.Config{DBPath: db}, logging.Discard())
	require.NoError(t, err)
	views, err := a.Engine.SessionQuestions(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.Len(t, views, 6)
	q := views[0].Questions[0]
	qid := strconv.Itoa(q.QuestionID)

	out = run("session", "score", "1", qid, "Owls")
	want := q.Points * 2
	assert.Contains(t, out, fmt.Sprintf("Owls scores %d (double points), total %d", want, want))

	_, err = runCLI(t, append([]string{"session", "score", "1", qid, "Foxes"}, base...)...)
	assert.Error(t, err)

	out = run("session", "turn", "1", "Foxes")
	assert.Contains(t, out, "Turn: Foxes")

	out = run("session", "status", "1")
	assert.Contains(t, out, "Owls")

	out = run("session", "board", "1")
	assert.Contains(t, out, "Tier")
	assert.Contains(t, out, views[0].CategoryName)
	assert.Contains(t, out, "Owls")

	out = run("session", "delete", "1")
	assert.Contains(t, out, "Session 1 deleted")

	_, err = runCLI(t, append([]string{"session", "status", "1"}, base...)...)
	assert.Error(t, err)

	_, err = runCLI(t, append([]string{"play", "1"}, base...)...)
	assert.ErrorContains(t, err, "session 1 not found")
}

func TestPlayRejectsBadSessionID(t *testing.T) {
	_, err := runCLI(t, "play", "abc", "--db", filepath.Join(t.TempDir(), "iqgame.db"))
	assert.ErrorContains(t, err, `invalid session id "abc"`)

	_, err = runCLI(t, "play", "1", "2")
	assert.Error(t, err)
}

func TestSessionIDRejectsNonNumbers(t *testing.T) {
	_, err := sessionID("abc")
	assert.Error(t, err)

	id, err := sessionID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

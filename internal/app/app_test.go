package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/iqgame/internal/config"
	"github.com/abhisek/iqgame/internal/logging"
)

func TestNewWiresServices(t *testing.T) {
	cfg := config.Config{
		DBPath:   filepath.Join(t.TempDir(), "iqgame.db"),
		ScoreCap: config.DefaultScoreCap,
	}
	a, err := New(cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	sum, err := a.Importer.ImportFile(context.Background(), "../catalog/testdata/catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, 7, sum.Categories)

	cats, err := a.Availability.GetAvailability(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 7)
	assert.Equal(t, 2, cats[0].AvailableGames)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

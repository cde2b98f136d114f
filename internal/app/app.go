// Package app wires the store and engine services together for the CLI and
// the HTTP server.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abhisek/iqgame/internal/allocator"
	"github.com/abhisek/iqgame/internal/api"
	"github.com/abhisek/iqgame/internal/availability"
	"github.com/abhisek/iqgame/internal/catalog"
	"github.com/abhisek/iqgame/internal/config"
	"github.com/abhisek/iqgame/internal/game"
	"github.com/abhisek/iqgame/internal/help"
	"github.com/abhisek/iqgame/internal/logging"
	"github.com/abhisek/iqgame/internal/store"
)

// App holds the process-wide dependencies.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Store  *store.Store

	Allocator    *allocator.Allocator
	Engine       *game.Engine
	Ledger       *help.Ledger
	Availability *availability.Calculator
	Importer     *catalog.Importer
}

// New opens the database named by cfg.DBPath, falling back to the default
// location, and builds every service on top of it.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	logger = logging.OrDefault(logger)

	dsn := cfg.DBPath
	if dsn == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		dsn = p
	}
	st, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dsn)

	return &App{
		Config:       cfg,
		Logger:       logger,
		Store:        st,
		Allocator:    allocator.New(st, logger),
		Engine:       game.New(st, logger, game.ConfigFrom(cfg)),
		Ledger:       help.New(st, logger),
		Availability: availability.New(st),
		Importer:     catalog.NewImporter(st, logger),
	}, nil
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	return api.NewServer(api.Services{
		Allocator:    a.Allocator,
		Engine:       a.Engine,
		Ledger:       a.Ledger,
		Availability: a.Availability,
	}, a.Logger, a.Config.CORSOrigins).Routes()
}

// Close releases the database.
func (a *App) Close() error {
	return a.Store.Close()
}

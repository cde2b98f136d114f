// Package api exposes the game engine over HTTP as JSON.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/iqgame/internal/allocator"
	"github.com/abhisek/iqgame/internal/availability"
	"github.com/abhisek/iqgame/internal/game"
	"github.com/abhisek/iqgame/internal/help"
	"github.com/abhisek/iqgame/internal/logging"
)

// Services are the engine components served over HTTP.
type Services struct {
	Allocator    *allocator.Allocator
	Engine       *game.Engine
	Ledger       *help.Ledger
	Availability *availability.Calculator
}

// Server routes HTTP requests to the engine.
type Server struct {
	svc         Services
	logger      *slog.Logger
	corsOrigins []string
}

// NewServer returns a Server. Empty corsOrigins allows every origin.
func NewServer(svc Services, logger *slog.Logger, corsOrigins []string) *Server {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	return &Server{svc: svc, logger: logging.OrDefault(logger), corsOrigins: corsOrigins}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(withRequestID)
	mux.Use(logRequests(s.logger))
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	mux.Get("/healthz", s.health)

	mux.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/all", s.listSessions)

		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Get("/questions", s.sessionQuestions)
			r.Post("/score-question", s.scoreQuestion)
			r.Get("/results", s.results)
			r.Get("/status", s.status)
			r.Get("/current-turn", s.currentTurn)
			r.Post("/change-turn", s.changeTurn)
			r.Get("/validate", s.validate)
			r.Post("/update-score", s.updateScore)
			r.Post("/reset", s.reset)
		})
	})

	mux.Route("/api/categories", func(r chi.Router) {
		r.Get("/availability", s.availability)
		r.Delete("/{categoryId}", s.deleteCategory)
	})

	mux.Route("/api/help", func(r chi.Router) {
		r.Post("/use", s.useHelp)
		r.Get("/status", s.helpStatus)
	})

	return mux
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]string{"status": "ok"})
}

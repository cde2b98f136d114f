package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/iqgame/internal/allocator"
	"github.com/abhisek/iqgame/internal/game"
	"github.com/abhisek/iqgame/internal/help"
)

const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		raw = r.URL.Query().Get(name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(w, fmt.Sprintf("%s must be an integer, got %q", name, raw))
		return 0, false
	}
	return v, true
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req allocator.Request
	if !decode(w, r, &req) {
		return
	}
	created, err := s.svc.Allocator.CreateSession(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"sessionId": created.SessionID}, false, "session created")
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Engine.ListSessions(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, list)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	info, err := s.svc.Engine.GetSession(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, info)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	if err := s.svc.Engine.DeleteSession(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, false, "session deleted")
}

func (s *Server) sessionQuestions(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	views, err := s.svc.Engine.SessionQuestions(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, views)
}

type scoreRequest struct {
	QuestionID int    `json:"questionId"`
	TeamName   string `json:"teamName"`
}

func (s *Server) scoreQuestion(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	var req scoreRequest
	if !decode(w, r, &req) {
		return
	}
	scored, err := s.svc.Engine.ScoreQuestion(r.Context(), id, req.QuestionID, req.TeamName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, scored)
}

func (s *Server) results(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	res, err := s.svc.Engine.Results(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, res)
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	st, err := s.svc.Engine.Status(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, st)
}

func (s *Server) currentTurn(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	team, err := s.svc.Engine.CurrentTurn(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, map[string]string{"currentTurn": team})
}

func (s *Server) changeTurn(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	team, err := s.svc.Engine.ChangeTurn(r.Context(), id, r.URL.Query().Get("teamName"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, map[string]string{"currentTurn": team})
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	v, err := s.svc.Engine.ValidateSession(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, v)
}

type updateScoreRequest struct {
	Team        string `json:"team"`
	ScoreChange int    `json:"scoreChange"`
}

func (s *Server) updateScore(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	var req updateScoreRequest
	if !decode(w, r, &req) {
		return
	}
	score, err := s.svc.Engine.AdjustScore(r.Context(), id, req.Team, req.ScoreChange)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, map[string]any{"team": req.Team, "score": score})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	var req game.ResetRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.svc.Engine.Reset(r.Context(), id, req); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, false, "session reset")
}

func (s *Server) availability(w http.ResponseWriter, r *http.Request) {
	cats, err := s.svc.Availability.GetAvailability(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, cats)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "categoryId")
	if !valid {
		return
	}
	n, err := s.svc.Engine.DeleteCategory(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"sessionsDeleted": n}, false, "category deleted")
}

func (s *Server) useHelp(w http.ResponseWriter, r *http.Request) {
	var req help.UseRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.svc.Ledger.UseHelp(r.Context(), req); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, false, "help used")
}

func (s *Server) helpStatus(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(w, r, "sessionId")
	if !valid {
		return
	}
	team := r.URL.Query().Get("teamName")
	if team == "" {
		badRequest(w, "teamName is required")
		return
	}
	st, err := s.svc.Ledger.Status(r.Context(), id, team)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, st)
}

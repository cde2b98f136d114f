package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhisek/iqgame/internal/gameerr"
)

// envelope is the body of every API response.
type envelope struct {
	Error   bool   `json:"error"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any, isErr bool, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&envelope{Error: isErr, Data: data, Message: msg})
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data, false, "")
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch gameerr.Kind(err) {
	case gameerr.ErrValidation:
		return http.StatusBadRequest
	case gameerr.ErrNotFound:
		return http.StatusNotFound
	case gameerr.ErrInsufficientQuestions:
		return http.StatusUnprocessableEntity
	case gameerr.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	var data any
	var insufficient *gameerr.InsufficientQuestionsError
	if errors.As(err, &insufficient) {
		data = insufficient.Categories
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", requestID(r.Context()),
			"path", r.URL.Path,
			"err", err)
		msg = "internal server error"
	}
	writeJSON(w, status, data, true, msg)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, nil, true, msg)
}

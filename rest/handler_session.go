package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/session"
	"go.uber.org/zap"
)

type queryRequest struct {
	Query     string `json:"query"`
	SessionId string `json:"session_id,omitempty"`
}

type inputRequest struct {
	Value string `json:"value"`
}

func (s *Server) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()
	if len(req.Query) == 0 {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}
	result, err := s.orchestrator.SubmitQuery(r.Context(), req.Query, req.SessionId)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) HandleInput(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()
	if len(req.Value) == 0 {
		respondWithError(w, http.StatusBadRequest, "value is required")
		return
	}
	result, err := s.orchestrator.SubmitInput(r.Context(), vars["id"], req.Value)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	history, err := s.orchestrator.History(r.Context(), vars["id"])
	if err != nil {
		respondSessionError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, history)
}

func respondSessionError(w http.ResponseWriter, err error) {
	var notFound session.SessionNotFoundError
	if errors.As(err, &notFound) {
		respondWithError(w, http.StatusNotFound, "session not found, please start over")
		return
	}
	logger.Error("error processing session request", zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, "internal error")
}

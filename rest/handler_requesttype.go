package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/skydeskhq/skydesk/catalog"
	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/model"
	"go.uber.org/zap"
)

func (s *Server) HandleSaveRequestType(w http.ResponseWriter, r *http.Request) {
	var rt model.RequestType
	if err := json.NewDecoder(r.Body).Decode(&rt); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()
	if err := s.catalog.Save(rt); err != nil {
		var invalid catalog.InvalidWorkflowDefinitionError
		if errors.As(err, &invalid) {
			respondWithError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		logger.Error("error saving request type", zap.String("requestType", rt.Id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error saving request type")
		return
	}
	respondOK(w, "request type saved")
}

func (s *Server) HandleListRequestTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalog.GetActive()
	if err != nil {
		logger.Error("error listing request types", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing request types")
		return
	}
	respondWithJSON(w, http.StatusOK, types)
}

func (s *Server) HandleGetRequestType(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rt, err := s.catalog.Get(vars["id"])
	if err != nil {
		var notFound catalog.RequestTypeNotFoundError
		if errors.As(err, &notFound) {
			respondWithError(w, http.StatusNotFound, notFound.Error())
			return
		}
		logger.Error("error getting request type", zap.String("requestType", vars["id"]), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error getting request type")
		return
	}
	respondWithJSON(w, http.StatusOK, rt)
}

func (s *Server) HandleDeleteRequestType(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.catalog.Delete(vars["id"]); err != nil {
		logger.Error("error deleting request type", zap.String("requestType", vars["id"]), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error deleting request type")
		return
	}
	respondOK(w, "request type deleted")
}

package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/skydeskhq/skydesk/catalog"
	"github.com/skydeskhq/skydesk/logger"
	"github.com/skydeskhq/skydesk/orchestrator"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port         int
	orchestrator *orchestrator.Orchestrator
	catalog      *catalog.Service
}

func NewServer(httpPort int, orch *orchestrator.Orchestrator, cat *catalog.Service) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr: fmt.Sprintf(":%d", httpPort),
		},
		Port:         httpPort,
		orchestrator: orch,
		catalog:      cat,
	}

	router := mux.NewRouter()
	router.HandleFunc("/query", s.HandleQuery).Methods(http.MethodPost)
	router.HandleFunc("/session/{id}/input", s.HandleInput).Methods(http.MethodPost)
	router.HandleFunc("/session/{id}/history", s.HandleHistory).Methods(http.MethodGet)
	router.HandleFunc("/requesttype", s.HandleSaveRequestType).Methods(http.MethodPost)
	router.HandleFunc("/requesttype", s.HandleListRequestTypes).Methods(http.MethodGet)
	router.HandleFunc("/requesttype/{id}", s.HandleGetRequestType).Methods(http.MethodGet)
	router.HandleFunc("/requesttype/{id}", s.HandleDeleteRequestType).Methods(http.MethodDelete)
	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

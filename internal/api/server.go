// Package api exposes the tracker over HTTP and WebSocket.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	apperrors "fxtracker/internal/errors"
	"fxtracker/internal/service"
	"fxtracker/internal/stream"
)

// Server wires the HTTP routes to the service layer.
type Server struct {
	tracker *service.Tracker
	hub     *stream.Hub
	log     zerolog.Logger
	http    *http.Server
}

// Config holds server timeouts and the listen address.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewServer creates a Server with its router configured.
func NewServer(cfg Config, tracker *service.Tracker, hub *stream.Hub, log zerolog.Logger) *Server {
	s := &Server{
		tracker: tracker,
		hub:     hub,
		log:     log,
	}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket)

	api := r.PathPrefix("/api").Subrouter()

	// Accounts
	api.HandleFunc("/accounts", s.handleListAccounts).Methods("GET")
	api.HandleFunc("/accounts", s.handleCreateAccount).Methods("POST")
	api.HandleFunc("/accounts/{id}", s.handleGetAccount).Methods("GET")

	// Trades
	api.HandleFunc("/trades", s.handleListTrades).Methods("GET")
	api.HandleFunc("/trades", s.handleCreateTrade).Methods("POST")

	// Plans
	api.HandleFunc("/accounts/{id}/trading-plan", s.handleTradingPlan).Methods("GET")
	api.HandleFunc("/accounts/{id}/growth-plan", s.handleGrowthPlan).Methods("GET")
	api.HandleFunc("/accounts/{id}/growth-plan", s.handleStartGrowthPlan).Methods("POST")
	api.HandleFunc("/accounts/{id}/growth-plan/analyze", s.handleAnalyzeGrowthPlan).Methods("POST")
	api.HandleFunc("/accounts/{id}/daily-plans", s.handleDailyPlans).Methods("GET")

	// Analytics
	api.HandleFunc("/accounts/{id}/performance", s.handlePerformance).Methods("GET")

	// Reference data
	api.HandleFunc("/constants", s.handleConstants).Methods("GET")

	return r
}

// ListenAndServe starts the HTTP server. It blocks until the server
// stops.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encoding response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"message": message})
}

// respondServiceError maps domain errors onto HTTP status codes.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case apperrors.Is(err, apperrors.ErrAccountNotFound),
		apperrors.Is(err, apperrors.ErrTradeNotFound),
		apperrors.Is(err, apperrors.ErrPlanNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case apperrors.Is(err, apperrors.ErrAccountInactive):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

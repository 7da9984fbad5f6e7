package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fxtracker/internal/models"
	"fxtracker/internal/service"
	"fxtracker/internal/store"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	accounts, err := s.tracker.Accounts(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	s.respondJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var in service.CreateAccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := s.tracker.CreateAccount(r.Context(), in)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, acct)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := s.tracker.Account(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, acct)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.TradeFilter{
		UserID:    q.Get("userId"),
		AccountID: q.Get("accountId"),
		Pair:      q.Get("pair"),
	}

	trades, err := s.tracker.Trades(r.Context(), filter)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	s.respondJSON(w, http.StatusOK, trades)
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var in service.RecordTradeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trade, err := s.tracker.RecordTrade(r.Context(), in)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, trade)
}

func (s *Server) handleTradingPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.tracker.TradingPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleGrowthPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.tracker.GrowthPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleStartGrowthPlan(w http.ResponseWriter, r *http.Request) {
	var in service.StartGrowthPlanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.AccountID = mux.Vars(r)["id"]

	plan, err := s.tracker.StartGrowthPlan(r.Context(), in)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleAnalyzeGrowthPlan(w http.ResponseWriter, r *http.Request) {
	var in struct {
		TargetAmount float64 `json:"targetAmount"`
		HorizonDays  int     `json:"horizonDays"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	analysis, err := s.tracker.AnalyzeGrowthPlan(r.Context(), mux.Vars(r)["id"], in.TargetAmount, in.HorizonDays)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleDailyPlans(w http.ResponseWriter, r *http.Request) {
	var date time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
		date = parsed
	}

	plans, err := s.tracker.DailyPlans(r.Context(), mux.Vars(r)["id"], date)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if plans == nil {
		plans = []models.DailyTradePlan{}
	}
	s.respondJSON(w, http.StatusOK, plans)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := s.tracker.Performance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, perf)
}

func (s *Server) handleConstants(w http.ResponseWriter, r *http.Request) {
	pips := s.tracker.Engine().Pips()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"dollarPerPip":  pips,
		"currencyPairs": pips.Pairs(),
	})
}

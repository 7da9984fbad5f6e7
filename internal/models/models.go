// Package models provides domain models for the account tracker.
package models

import (
	"time"
)

// Outcome represents the result of a closed trade.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// Valid reports whether the outcome is one of the known values.
func (o Outcome) Valid() bool {
	return o == OutcomeWin || o == OutcomeLoss
}

// Account tracks a single trading account against its drawdown and
// profit-target rules. CurrentBalance is the running sum of starting
// capital plus all settled trade P&L.
type Account struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Name            string    `json:"name"`
	StartingCapital float64   `json:"startingCapital"`
	CurrentBalance  float64   `json:"currentBalance"`
	MaxDailyLoss    float64   `json:"maxDailyLoss"`   // percent of starting capital
	MaxOverallLoss  float64   `json:"maxOverallLoss"` // percent of starting capital
	ProfitTarget    float64   `json:"profitTarget"`   // percent of starting capital
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Trade is a settled trade. Immutable once created; ProfitLoss is
// computed at creation time from the price delta, lot size and the
// instrument's pip value, signed by the outcome.
type Trade struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	AccountID      string    `json:"accountId"`
	Pair           string    `json:"pair"`
	Outcome        Outcome   `json:"outcome"`
	LotSize        float64   `json:"lotSize"`
	EntryPrice     float64   `json:"entryPrice"`
	ExitPrice      float64   `json:"exitPrice"`
	StopLossPips   float64   `json:"stopLossPips"`
	TakeProfitPips float64   `json:"takeProfitPips"`
	ProfitLoss     float64   `json:"profitLoss"`
	TradeTime      time.Time `json:"tradeTime"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TradingPlan is the always-current recommendation snapshot for an
// account, rebuilt after every settled trade.
type TradingPlan struct {
	ID                  string    `json:"id"`
	AccountID           string    `json:"accountId"`
	RecommendedLotSize  float64   `json:"recommendedLotSize"`
	MaxOpenPositions    int       `json:"maxOpenPositions"`
	StopLossPips        float64   `json:"stopLossPips"`
	TakeProfitPips      float64   `json:"takeProfitPips"`
	SuggestedTradesWeek int       `json:"suggestedTradesWeek"`
	RiskPercentage      float64   `json:"riskPercentage"`
	LastUpdated         time.Time `json:"lastUpdated"`
}

package models

import "time"

// DayClosedSlot is the sentinel CurrentTrade value marking a trading day
// as closed after the daily risk budget is exhausted. It is one past the
// last valid slot index.
const DayClosedSlot = 4

// SlotsPerDay is the number of trade slots generated for each plan day.
const SlotsPerDay = 3

// GrowthPlan is the multi-day schedule converting a profit target into
// daily trade quotas. One active plan per account; mutated only by
// settlement.
type GrowthPlan struct {
	ID                   string     `json:"id"`
	AccountID            string     `json:"accountId"`
	TargetAmount         float64    `json:"targetAmount"`
	TargetTrades         int        `json:"targetTrades"`
	CurrentTrade         int        `json:"currentTrade"`   // 1..3, or DayClosedSlot once the day is exhausted
	RiskPerTrade         float64    `json:"riskPerTrade"`   // percent of balance, adapted by settlement
	DailyRiskLimit       float64    `json:"dailyRiskLimit"` // currency
	DailyLossUsed        float64    `json:"dailyLossUsed"`  // currency, resets on day rollover
	TotalTradesCompleted int        `json:"totalTradesCompleted"`
	RemainingDays        int        `json:"remainingDays"`
	LastTradeDate        *time.Time `json:"lastTradeDate"`
	IsCompleted          bool       `json:"isCompleted"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// DayOpen reports whether another slot may be taken today.
func (p *GrowthPlan) DayOpen() bool {
	return !p.IsCompleted && p.CurrentTrade >= 1 && p.CurrentTrade <= SlotsPerDay
}

// DailyTradePlan is one slot (1..3) of a growth plan's trading day.
// Created by the daily generator, mutated exactly once by execution.
type DailyTradePlan struct {
	ID             string     `json:"id"`
	GrowthPlanID   string     `json:"growthPlanId"`
	Pair           string     `json:"pair"`
	SlotIndex      int        `json:"slotIndex"`     // 1, 2 or 3
	AllocatedRisk  float64    `json:"allocatedRisk"` // percent of the daily risk budget
	LotSize        float64    `json:"lotSize"`
	StopLossPips   float64    `json:"stopLossPips"`
	TakeProfitPips float64    `json:"takeProfitPips"`
	ExpectedProfit float64    `json:"expectedProfit"`
	ActualResult   *float64   `json:"actualResult"` // nil until executed
	IsExecuted     bool       `json:"isExecuted"`
	ExecutedAt     *time.Time `json:"executedAt"`
	TradeDate      time.Time  `json:"tradeDate"`
}

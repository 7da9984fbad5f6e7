package engine

import (
	"math"
	"time"

	"fxtracker/internal/models"
)

// Risk adaptation bounds, in percent of balance.
const (
	riskFloorPct   = 0.1
	riskCeilingPct = 1.0
)

// GrowthPlanUpdate is the state transition produced by settling one
// trade against a growth plan. The caller persists it atomically with
// the trade and the balance change.
type GrowthPlanUpdate struct {
	RiskPerTrade         float64
	CurrentTrade         int
	DailyLossUsed        float64
	TotalTradesCompleted int
	LastTradeDate        time.Time
	IsCompleted          bool
	// DayClosed is set when this settlement exhausted the daily risk
	// budget and no further slots may run today.
	DayClosed bool
}

// SettleTrade folds a realized trade result into the growth plan.
// result is the trade's signed P&L, isNewDay tells whether this is the
// first settlement of a new calendar day, now is the settlement time and
// balance the account balance after applying the result. history is the
// full trade list including the settled trade.
//
// The computation is total: bad inputs degrade to the policy floors and
// ceilings rather than failing.
func (e *Engine) SettleTrade(plan *models.GrowthPlan, result float64, isNewDay bool, now time.Time, balance float64, history []models.Trade) GrowthPlanUpdate {
	stats := Analyze(history)

	risk := plan.RiskPerTrade
	switch {
	case result < 0 && stats.ConsecutiveLosses >= 2:
		risk = math.Max(riskFloorPct, risk*0.8)
	case result > 0 && stats.WinRate > 0.7:
		risk = math.Min(riskCeilingPct, risk*1.1)
	}

	loss := math.Max(0, -result)
	var lossUsed float64
	var current int
	if isNewDay {
		lossUsed = loss
		current = 1
	} else {
		lossUsed = plan.DailyLossUsed + loss
		current = plan.CurrentTrade + 1
	}

	dayClosed := false
	if lossUsed >= plan.DailyRiskLimit {
		current = models.DayClosedSlot
		dayClosed = true
	}

	total := plan.TotalTradesCompleted + 1
	completed := plan.IsCompleted ||
		total >= plan.TargetTrades ||
		(plan.TargetAmount > 0 && balance >= plan.TargetAmount)

	update := GrowthPlanUpdate{
		RiskPerTrade:         risk,
		CurrentTrade:         current,
		DailyLossUsed:        lossUsed,
		TotalTradesCompleted: total,
		LastTradeDate:        now,
		IsCompleted:          completed,
		DayClosed:            dayClosed,
	}

	e.log.Debug().
		Str("plan", plan.ID).
		Float64("result", result).
		Bool("new_day", isNewDay).
		Int("current_trade", current).
		Bool("completed", completed).
		Msg("trade settled against growth plan")

	return update
}

// IsNewTradingDay reports whether now falls on a later calendar day than
// the plan's last settlement. A plan with no settlements yet is treated
// as starting a new day.
func IsNewTradingDay(plan *models.GrowthPlan, now time.Time) bool {
	if plan.LastTradeDate == nil {
		return true
	}
	last := *plan.LastTradeDate
	y1, m1, d1 := last.Date()
	y2, m2, d2 := now.Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}

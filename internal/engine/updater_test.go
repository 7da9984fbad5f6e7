package engine

import (
	"math"
	"testing"
	"time"

	"fxtracker/internal/models"
)

func settledPlan() *models.GrowthPlan {
	last := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return &models.GrowthPlan{
		ID:                   "plan-1",
		AccountID:            "acct-1",
		TargetAmount:         11000,
		TargetTrades:         90,
		CurrentTrade:         2,
		RiskPerTrade:         0.5,
		DailyRiskLimit:       100,
		DailyLossUsed:        30,
		TotalTradesCompleted: 10,
		LastTradeDate:        &last,
	}
}

func TestSettleTradeRiskReduction(t *testing.T) {
	e := NewDefault()
	plan := settledPlan()

	// Two trailing losses including the settled trade trigger the cut.
	history := []models.Trade{tradeWithPnL(100), tradeWithPnL(-10), tradeWithPnL(-10)}
	update := e.SettleTrade(plan, -10, false, time.Now(), 9900, history)

	if math.Abs(update.RiskPerTrade-0.4) > 1e-9 {
		t.Errorf("RiskPerTrade = %v, want 0.4", update.RiskPerTrade)
	}
}

func TestSettleTradeRiskFloor(t *testing.T) {
	e := NewDefault()
	plan := settledPlan()
	plan.RiskPerTrade = 0.1

	history := []models.Trade{tradeWithPnL(-10), tradeWithPnL(-10)}
	update := e.SettleTrade(plan, -10, false, time.Now(), 9900, history)

	if update.RiskPerTrade != 0.1 {
		t.Errorf("RiskPerTrade = %v, want floor 0.1", update.RiskPerTrade)
	}
}

func TestSettleTradeRiskIncrease(t *testing.T) {
	e := NewDefault()
	plan := settledPlan()

	// 75% win rate with a winning settlement grows the stake.
	history := []models.Trade{tradeWithPnL(100), tradeWithPnL(-50), tradeWithPnL(100), tradeWithPnL(100)}
	update := e.SettleTrade(plan, 100, false, time.Now(), 10100, history)

	if math.Abs(update.RiskPerTrade-0.55) > 1e-9 {
		t.Errorf("RiskPerTrade = %v, want 0.55", update.RiskPerTrade)
	}
}

func TestSettleTradeRiskCeiling(t *testing.T) {
	e := NewDefault()
	plan := settledPlan()
	plan.RiskPerTrade = 0.95

	history := []models.Trade{tradeWithPnL(100), tradeWithPnL(-50), tradeWithPnL(100), tradeWithPnL(100)}
	update := e.SettleTrade(plan, 100, false, time.Now(), 10100, history)

	if update.RiskPerTrade != 1.0 {
		t.Errorf("RiskPerTrade = %v, want ceiling 1.0", update.RiskPerTrade)
	}
}

func TestSettleTradeRiskUnchangedOnSingleLoss(t *testing.T) {
	e := NewDefault()
	plan := settledPlan()

	// One loss after a win is not a streak.
	history := []models.Trade{tradeWithPnL(100), tradeWithPnL(-10)}
	update := e.SettleTrade(plan, -10, false, time.Now(), 9990, history)

	if update.RiskPerTrade != 0.5 {
		t.Errorf("RiskPerTrade = %v, want unchanged 0.5", update.RiskPerTrade)
	}
}

func TestSettleTradeDailyAccounting(t *testing.T) {
	e := NewDefault()

	t.Run("same day accumulates", func(t *testing.T) {
		plan := settledPlan()
		update := e.SettleTrade(plan, -20, false, time.Now(), 9980, nil)

		if update.DailyLossUsed != 50 {
			t.Errorf("DailyLossUsed = %v, want 50", update.DailyLossUsed)
		}
		if update.CurrentTrade != 3 {
			t.Errorf("CurrentTrade = %v, want 3", update.CurrentTrade)
		}
		if update.DayClosed {
			t.Error("day closed with budget remaining")
		}
	})

	t.Run("new day resets", func(t *testing.T) {
		plan := settledPlan()
		update := e.SettleTrade(plan, -20, true, time.Now(), 9980, nil)

		if update.DailyLossUsed != 20 {
			t.Errorf("DailyLossUsed = %v, want 20", update.DailyLossUsed)
		}
		if update.CurrentTrade != 1 {
			t.Errorf("CurrentTrade = %v, want 1", update.CurrentTrade)
		}
	})

	t.Run("wins do not consume budget", func(t *testing.T) {
		plan := settledPlan()
		update := e.SettleTrade(plan, 80, false, time.Now(), 10080, nil)

		if update.DailyLossUsed != 30 {
			t.Errorf("DailyLossUsed = %v, want 30", update.DailyLossUsed)
		}
	})
}

func TestSettleTradeDayClosure(t *testing.T) {
	e := NewDefault()
	plan := settledPlan()

	// 30 used + 70 loss hits the 100 limit exactly.
	update := e.SettleTrade(plan, -70, false, time.Now(), 9930, nil)

	if !update.DayClosed {
		t.Fatal("expected day closed")
	}
	if update.CurrentTrade != models.DayClosedSlot {
		t.Errorf("CurrentTrade = %v, want %v", update.CurrentTrade, models.DayClosedSlot)
	}
}

func TestSettleTradeCompletion(t *testing.T) {
	e := NewDefault()

	t.Run("by trade count", func(t *testing.T) {
		plan := settledPlan()
		plan.TotalTradesCompleted = 89

		update := e.SettleTrade(plan, 10, false, time.Now(), 10500, nil)
		if !update.IsCompleted {
			t.Error("expected completion at target trade count")
		}
		if update.TotalTradesCompleted != 90 {
			t.Errorf("TotalTradesCompleted = %v, want 90", update.TotalTradesCompleted)
		}
	})

	t.Run("by balance target", func(t *testing.T) {
		plan := settledPlan()

		update := e.SettleTrade(plan, 200, false, time.Now(), 11000, nil)
		if !update.IsCompleted {
			t.Error("expected completion at balance target")
		}
	})

	t.Run("not yet", func(t *testing.T) {
		plan := settledPlan()

		update := e.SettleTrade(plan, 10, false, time.Now(), 10010, nil)
		if update.IsCompleted {
			t.Error("unexpected completion")
		}
	})
}

func TestIsNewTradingDay(t *testing.T) {
	noon := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	plan := &models.GrowthPlan{}
	if !IsNewTradingDay(plan, noon) {
		t.Error("plan with no settlements should start a new day")
	}

	morning := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	plan.LastTradeDate = &morning
	if IsNewTradingDay(plan, noon) {
		t.Error("same calendar day reported as new")
	}

	nextDay := time.Date(2026, 3, 3, 0, 30, 0, 0, time.UTC)
	if !IsNewTradingDay(plan, nextDay) {
		t.Error("next calendar day not reported as new")
	}
}

package engine

import (
	"math"
	"testing"
	"time"

	"fxtracker/internal/models"
)

func TestBuildTradingPlanSnapshot(t *testing.T) {
	e := NewDefault()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	acct := testAccount(1000)
	plan := e.BuildTradingPlan(acct, now)

	if plan.AccountID != acct.ID {
		t.Errorf("AccountID = %s", plan.AccountID)
	}
	// 2% of 1000 = 20, 20/(20*10) = 0.1 lots
	if math.Abs(plan.RecommendedLotSize-0.1) > 1e-9 {
		t.Errorf("RecommendedLotSize = %v, want 0.1", plan.RecommendedLotSize)
	}
	if plan.RiskPercentage != 2.0 {
		t.Errorf("RiskPercentage = %v, want 2.0", plan.RiskPercentage)
	}
	if plan.StopLossPips != 20 || plan.TakeProfitPips != 40 {
		t.Errorf("stop/target = %v/%v, want 20/40", plan.StopLossPips, plan.TakeProfitPips)
	}
	if plan.MaxOpenPositions != 3 {
		t.Errorf("MaxOpenPositions = %v, want 3", plan.MaxOpenPositions)
	}
	if plan.SuggestedTradesWeek != 4 {
		t.Errorf("SuggestedTradesWeek = %v, want 4", plan.SuggestedTradesWeek)
	}
	if !plan.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v", plan.LastUpdated)
	}
}

func TestBuildTradingPlanLotCap(t *testing.T) {
	e := NewDefault()

	// 2% of 100k = 2000, uncapped lot would be 10.
	plan := e.BuildTradingPlan(testAccount(100000), time.Now())
	if plan.RecommendedLotSize != 0.5 {
		t.Errorf("RecommendedLotSize = %v, want cap 0.5", plan.RecommendedLotSize)
	}
}

func TestProfitLoss(t *testing.T) {
	e := NewDefault()

	tests := []struct {
		name    string
		pair    string
		lot     float64
		entry   float64
		exit    float64
		outcome models.Outcome
		want    float64
	}{
		// 50 pips * 0.1 lots * $10/pip
		{"eurusd win", "EURUSD", 0.1, 1.1000, 1.1050, models.OutcomeWin, 50},
		{"eurusd loss signed", "EURUSD", 0.1, 1.1000, 1.1050, models.OutcomeLoss, -50},
		// 50 pips * 0.1 lots * $0.91/pip
		{"jpy pair", "USDJPY", 0.1, 150.00, 150.50, models.OutcomeWin, 4.55},
		// unknown pair uses the fallback pip value
		{"fallback pip", "XAUUSD", 0.1, 1.0000, 1.0050, models.OutcomeWin, 50},
		{"flat exit", "EURUSD", 0.1, 1.1000, 1.1000, models.OutcomeWin, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ProfitLoss(tt.pair, tt.lot, tt.entry, tt.exit, tt.outcome)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ProfitLoss = %v, want %v", got, tt.want)
			}
		})
	}
}

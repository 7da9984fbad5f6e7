package engine

import (
	"math"
	"time"

	"fxtracker/internal/models"
)

// Trading-plan snapshot constants. The snapshot is deliberately more
// conservative than the adaptive growth plan: a flat 2% risk with a 1:2
// target and a hard lot cap.
const (
	snapshotRiskPct    = 2.0
	snapshotStopPips   = 20.0
	snapshotTargetPips = 40.0
	snapshotMaxLot     = 0.5
	snapshotPositions  = 3
	snapshotPerWeek    = 4
)

// BuildTradingPlan computes the always-current recommendation snapshot
// for an account. It is rebuilt after every settled trade.
func (e *Engine) BuildTradingPlan(acct *models.Account, now time.Time) models.TradingPlan {
	riskAmount := acct.CurrentBalance * (snapshotRiskPct / 100)
	lot := math.Min(snapshotMaxLot, riskAmount/(snapshotStopPips*10))

	return models.TradingPlan{
		AccountID:           acct.ID,
		RecommendedLotSize:  roundLot(lot),
		MaxOpenPositions:    snapshotPositions,
		StopLossPips:        snapshotStopPips,
		TakeProfitPips:      snapshotTargetPips,
		SuggestedTradesWeek: snapshotPerWeek,
		RiskPercentage:      snapshotRiskPct,
		LastUpdated:         now,
	}
}

// ProfitLoss computes a trade's realized P&L from the price delta, lot
// size and the pair's pip value, signed by the outcome. Pairs outside
// the table fall back to the policy pip value so a settlement never
// records zero for a mistyped symbol.
func (e *Engine) ProfitLoss(pair string, lot, entry, exit float64, outcome models.Outcome) float64 {
	pip, ok := e.cfg.Pips.ValuePerPip(pair)
	if !ok {
		pip = e.cfg.Policy.FallbackPipValue
	}
	pl := lot * PipsBetween(pair, entry, exit) * pip
	if outcome == models.OutcomeLoss {
		return -pl
	}
	return pl
}

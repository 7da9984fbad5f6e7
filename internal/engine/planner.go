package engine

import (
	"math"

	apperrors "fxtracker/internal/errors"
	"fxtracker/internal/models"
)

// Recommendation is one ranked trade suggestion within a growth-plan
// analysis.
type Recommendation struct {
	Pair            string  `json:"pair"`
	LotSize         float64 `json:"lotSize"`
	RiskAmount      float64 `json:"riskAmount"`
	PotentialProfit float64 `json:"potentialProfit"`
	RiskRewardRatio float64 `json:"riskRewardRatio"`
	StopLossPips    float64 `json:"stopLossPips"`
	TakeProfitPips  float64 `json:"takeProfitPips"`
	Confidence      float64 `json:"confidence"`
}

// GrowthPlanAnalysis is the planner's output: the derived return target,
// the adapted per-trade risk and a ranked slate of recommendations.
type GrowthPlanAnalysis struct {
	CurrentProgress     float64          `json:"currentProgress"`     // percent of target reached
	DaysToTarget        int              `json:"daysToTarget"`
	RequiredDailyReturn float64          `json:"requiredDailyReturn"` // percent
	OptimalRiskPerTrade float64          `json:"optimalRiskPerTrade"` // percent of balance
	RecommendedTrades   []Recommendation `json:"recommendedTrades"`
	AdjustmentReason    string           `json:"adjustmentReason"`
}

// Adjustment rationales, chosen first-match-wins in this order.
const (
	reasonSparseHistory = "Conservative approach recommended due to limited trading history"
	reasonLossStreak    = "Reduced risk allocation due to recent consecutive losses"
	reasonHighTarget    = "High target requires aggressive approach - consider extending timeframe"
	reasonStrongRecord  = "Increased confidence based on strong historical performance"
	reasonBalanced      = "Balanced approach based on current market conditions and your trading history"
)

// riskAllocation is the fixed intraday risk split across the day's slots.
var riskAllocation = [models.SlotsPerDay]float64{0.50, 0.25, 0.25}

// BuildGrowthPlan derives the compounding return needed to grow the
// account to targetAmount within horizonDays and translates it into a
// per-trade risk budget and up to three ranked recommendations.
//
// Degenerate inputs (non-positive balance or horizon, target at or below
// the current balance) are rejected with a ValidationError instead of
// propagating NaN through the power formula.
func (e *Engine) BuildGrowthPlan(acct *models.Account, targetAmount float64, horizonDays int, history []models.Trade) (*GrowthPlanAnalysis, error) {
	balance := acct.CurrentBalance
	if balance <= 0 {
		return nil, apperrors.NewValidationError("currentBalance", balance, "must be positive")
	}
	if horizonDays <= 0 {
		return nil, apperrors.NewValidationError("horizonDays", horizonDays, "must be positive")
	}
	if targetAmount <= balance {
		return nil, apperrors.NewValidationError("targetAmount", targetAmount, "must exceed the current balance")
	}

	stats := Analyze(history)
	requiredDaily := math.Pow(targetAmount/balance, 1/float64(horizonDays)) - 1

	analysis := &GrowthPlanAnalysis{
		CurrentProgress:     balance / targetAmount * 100,
		DaysToTarget:        horizonDays,
		RequiredDailyReturn: requiredDaily * 100,
		OptimalRiskPerTrade: e.optimalRiskPerTrade(stats),
		RecommendedTrades:   e.recommend(balance, requiredDaily, stats),
		AdjustmentReason:    adjustmentReason(stats, requiredDaily),
	}

	e.log.Debug().
		Str("account", acct.ID).
		Float64("required_daily_return", analysis.RequiredDailyReturn).
		Float64("risk_per_trade", analysis.OptimalRiskPerTrade).
		Int("recommendations", len(analysis.RecommendedTrades)).
		Msg("growth plan built")

	return analysis, nil
}

// optimalRiskPerTrade estimates per-trade risk as a quarter-Kelly
// fraction, clamped to the policy floor and ceiling, returned in percent.
func (e *Engine) optimalRiskPerTrade(stats Stats) float64 {
	p := e.cfg.Policy
	kelly := stats.WinRate - (1-stats.WinRate)/p.MinRiskReward
	risk := math.Min(kelly*p.KellyFraction, p.MaxTradeRisk)
	risk = math.Max(p.MinTradeRisk, risk)
	return risk * 100
}

// recommend builds up to three ranked recommendations from the priority
// list, splitting the bounded daily risk 50/25/25 across them.
func (e *Engine) recommend(balance, requiredDaily float64, stats Stats) []Recommendation {
	p := e.cfg.Policy
	maxDailyRisk := math.Min(p.MaxDailyRisk, requiredDaily*0.5)

	n := models.SlotsPerDay
	if len(e.cfg.Priority) < n {
		n = len(e.cfg.Priority)
	}

	recs := make([]Recommendation, 0, n)
	for i := 0; i < n; i++ {
		pair := e.cfg.Priority[i]
		riskFrac := maxDailyRisk * riskAllocation[i]
		stop := e.stopDistance(pair, stats)
		target := stop * p.MinRiskReward
		lot := e.OptimalLotSize(balance, riskFrac*100, stop, pair)

		pip, _ := e.cfg.Pips.ValuePerPip(pair)
		recs = append(recs, Recommendation{
			Pair:            pair,
			LotSize:         lot,
			RiskAmount:      balance * riskFrac,
			PotentialProfit: target * lot * pip,
			RiskRewardRatio: p.MinRiskReward,
			StopLossPips:    stop,
			TakeProfitPips:  target,
			Confidence:      confidence(stats),
		})
	}
	return recs
}

// stopDistance derives a stop from the pair's base volatility, tightened
// 20% during a losing streak and widened 20% for a strong win rate.
func (e *Engine) stopDistance(pair string, stats Stats) float64 {
	base, ok := e.cfg.Volatility[pair]
	if !ok {
		base = e.cfg.Policy.DefaultStopPips
	}
	if stats.ConsecutiveLosses > 2 {
		return base * 0.8
	}
	if stats.WinRate > 0.7 {
		return base * 1.2
	}
	return base
}

// confidence scores a recommendation from the trader's record, clamped
// to [0.30, 0.95].
func confidence(stats Stats) float64 {
	c := 0.70
	if stats.WinRate > 0.6 {
		c += 0.1
	}
	if stats.AverageRiskReward > 2.0 {
		c += 0.1
	}
	if stats.ConsecutiveLosses > 3 {
		c -= 0.2
	}
	return math.Max(0.30, math.Min(0.95, c))
}

// adjustmentReason picks the single rationale shown with an analysis.
// Rules overlap; the first match wins, evaluated in this order.
func adjustmentReason(stats Stats, requiredDaily float64) string {
	switch {
	case stats.TotalTrades < 10:
		return reasonSparseHistory
	case stats.ConsecutiveLosses > 3:
		return reasonLossStreak
	case requiredDaily > 0.02:
		return reasonHighTarget
	case stats.WinRate > 0.7:
		return reasonStrongRecord
	default:
		return reasonBalanced
	}
}

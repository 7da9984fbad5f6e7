package engine

import "math"

// OptimalLotSize converts a risk budget into a position size:
// riskAmount = balance * riskPct/100, lot = riskAmount / (stopPips * pipValue),
// rounded to two decimals (standard lot granularity). Returns 0 for an
// unsupported pair or a non-positive stop distance; callers that need a
// non-zero slot apply their own 0.01 floor.
func (e *Engine) OptimalLotSize(balance, riskPct, stopPips float64, pair string) float64 {
	pip, ok := e.cfg.Pips.ValuePerPip(pair)
	if !ok || pip <= 0 || stopPips <= 0 {
		return 0
	}

	riskAmount := balance * (riskPct / 100)
	lot := riskAmount / (stopPips * pip)
	return roundLot(lot)
}

// roundLot rounds to two decimal places.
func roundLot(lot float64) float64 {
	return math.Round(lot*100) / 100
}

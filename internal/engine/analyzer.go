package engine

import (
	"fxtracker/internal/models"
)

// Stats summarizes an account's trade history.
type Stats struct {
	WinRate           float64
	AverageRiskReward float64
	AverageTradeSize  float64
	ConsecutiveLosses int
	TotalTrades       int
}

// DefaultStats is the conservative baseline assumed for an empty history.
func DefaultStats() Stats {
	return Stats{
		WinRate:           0.6,
		AverageRiskReward: 2.5,
		AverageTradeSize:  0.01,
		ConsecutiveLosses: 0,
		TotalTrades:       0,
	}
}

// Analyze reduces a chronological trade history into summary statistics.
// An empty history yields DefaultStats. The aggregate pass and the streak
// scan are two independent traversals over the same slice.
func Analyze(trades []models.Trade) Stats {
	if len(trades) == 0 {
		return DefaultStats()
	}

	var wins, losses int
	var winTotal, lossTotal, sizeTotal float64
	for _, t := range trades {
		sizeTotal += t.LotSize
		switch {
		case t.ProfitLoss > 0:
			wins++
			winTotal += t.ProfitLoss
		case t.ProfitLoss < 0:
			losses++
			lossTotal += -t.ProfitLoss
		}
	}

	// Mean win over mean loss; a history with no losers yet divides by
	// an assumed single losing trade.
	avgWin := winTotal / float64(max(wins, 1))
	avgLoss := lossTotal / float64(max(losses, 1))
	rr := avgWin
	if avgLoss > 0 {
		rr = avgWin / avgLoss
	}

	return Stats{
		WinRate:           float64(wins) / float64(len(trades)),
		AverageRiskReward: rr,
		AverageTradeSize:  sizeTotal / float64(len(trades)),
		ConsecutiveLosses: currentLossStreak(trades),
		TotalTrades:       len(trades),
	}
}

// currentLossStreak counts losing trades from the most recent backward,
// stopping at the first non-loss. This is the current streak, not the
// historical maximum.
func currentLossStreak(trades []models.Trade) int {
	streak := 0
	for i := len(trades) - 1; i >= 0; i-- {
		if trades[i].ProfitLoss >= 0 {
			break
		}
		streak++
	}
	return streak
}

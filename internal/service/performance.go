package service

import (
	"context"
	"math"

	"fxtracker/internal/models"
	"fxtracker/internal/store"
)

// PairPerformance aggregates results for one instrument.
type PairPerformance struct {
	Trades int     `json:"trades"`
	PnL    float64 `json:"pnl"`
}

// Performance is the account-level analytics summary.
type Performance struct {
	TotalTrades     int                        `json:"totalTrades"`
	WinningTrades   int                        `json:"winningTrades"`
	LosingTrades    int                        `json:"losingTrades"`
	WinRate         float64                    `json:"winRate"` // percent
	TotalPnL        float64                    `json:"totalPnL"`
	AvgWin          float64                    `json:"avgWin"`
	AvgLoss         float64                    `json:"avgLoss"` // reported positive
	PairPerformance map[string]PairPerformance `json:"pairPerformance"`
}

// Performance computes analytics over an account's full trade history.
// Win/loss classification follows the recorded outcome, not the P&L
// sign, so a scratch trade logged as a win counts as one.
func (t *Tracker) Performance(ctx context.Context, accountID string) (*Performance, error) {
	if _, err := t.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	trades, err := t.store.GetTrades(ctx, store.TradeFilter{AccountID: accountID})
	if err != nil {
		return nil, err
	}

	perf := &Performance{
		TotalTrades:     len(trades),
		PairPerformance: make(map[string]PairPerformance),
	}

	var winTotal, lossTotal float64
	for _, tr := range trades {
		perf.TotalPnL += tr.ProfitLoss
		switch tr.Outcome {
		case models.OutcomeWin:
			perf.WinningTrades++
			winTotal += tr.ProfitLoss
		case models.OutcomeLoss:
			perf.LosingTrades++
			lossTotal += math.Abs(tr.ProfitLoss)
		}

		pp := perf.PairPerformance[tr.Pair]
		pp.Trades++
		pp.PnL += tr.ProfitLoss
		perf.PairPerformance[tr.Pair] = pp
	}

	if perf.TotalTrades > 0 {
		perf.WinRate = float64(perf.WinningTrades) / float64(perf.TotalTrades) * 100
	}
	if perf.WinningTrades > 0 {
		perf.AvgWin = winTotal / float64(perf.WinningTrades)
	}
	if perf.LosingTrades > 0 {
		perf.AvgLoss = lossTotal / float64(perf.LosingTrades)
	}

	return perf, nil
}

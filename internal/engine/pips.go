// Package engine implements the capital-growth planning core: performance
// analysis over trade history, position sizing, growth-plan construction,
// daily slot generation and post-settlement plan updates. Everything in
// this package is a pure computation over the values passed in; instrument
// tables and policy constants are injected configuration.
package engine

import (
	"math"
	"strings"
)

// PipTable maps a currency pair to the account-currency value of one pip
// for a standard lot.
type PipTable map[string]float64

// ValuePerPip returns the per-pip value for a pair. The second return is
// false for pairs outside the supported set; callers treat that as an
// "unknown instrument" sentinel rather than an error.
func (t PipTable) ValuePerPip(pair string) (float64, bool) {
	v, ok := t[pair]
	return v, ok
}

// Pairs returns the supported pair names in unspecified order.
func (t PipTable) Pairs() []string {
	pairs := make([]string, 0, len(t))
	for p := range t {
		pairs = append(pairs, p)
	}
	return pairs
}

// DefaultPipTable returns the dollar-per-pip values for the supported
// pairs, quoted for a USD account and a standard lot.
func DefaultPipTable() PipTable {
	return PipTable{
		"EURUSD": 10.0,
		"GBPUSD": 10.0,
		"USDJPY": 0.91,
		"USDCHF": 11.0,
		"AUDUSD": 10.0,
		"USDCAD": 7.5,
		"NZDUSD": 10.0,
		"EURJPY": 0.91,
		"GBPJPY": 0.91,
		"EURGBP": 12.5,
		"AUDCAD": 7.5,
		"AUDCHF": 11.0,
		"AUDJPY": 0.91,
		"CADJPY": 0.91,
		"CHFJPY": 0.91,
		"EURAUD": 6.7,
		"EURCAD": 7.5,
		"EURCHF": 11.0,
		"GBPAUD": 6.7,
		"GBPCAD": 7.5,
		"GBPCHF": 11.0,
		"GBPNZD": 6.2,
		"NZDCAD": 7.5,
		"NZDCHF": 11.0,
		"NZDJPY": 0.91,
	}
}

// DefaultVolatility returns the base stop-loss distance in pips for the
// priority pairs, derived from typical intraday ranges.
func DefaultVolatility() map[string]float64 {
	return map[string]float64{
		"GBPUSD": 30,
		"GBPJPY": 40,
		"EURJPY": 35,
		"EURUSD": 25,
		"USDJPY": 30,
	}
}

// DefaultPriority returns the fixed instrument priority list used when
// ranking recommendations and filling daily slots.
func DefaultPriority() []string {
	return []string{"GBPUSD", "GBPJPY", "EURJPY", "EURUSD", "USDJPY"}
}

// jpyQuoted reports whether the pair is quoted in yen, where one pip is
// 0.01 instead of 0.0001.
func jpyQuoted(pair string) bool {
	return strings.HasSuffix(pair, "JPY")
}

// PipsBetween converts a raw price difference into pips for the given
// pair: yen-quoted pairs use a x100 multiplier, all others x10000.
func PipsBetween(pair string, entry, exit float64) float64 {
	mult := 10000.0
	if jpyQuoted(pair) {
		mult = 100.0
	}
	return math.Abs(exit-entry) * mult
}

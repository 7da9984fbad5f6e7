package engine

import (
	"github.com/rs/zerolog"
)

// Policy holds the fixed risk-policy constants. They are configuration,
// not runtime input; tests may override them alongside synthetic
// instrument tables.
type Policy struct {
	// MinRiskReward is the stop:target floor enforced on every
	// recommendation (1:3 by default).
	MinRiskReward float64
	// MaxDailyRisk is the ceiling on total daily risk as a fraction of
	// balance.
	MaxDailyRisk float64
	// MaxTradeRisk and MinTradeRisk bound single-trade risk as a
	// fraction of balance.
	MaxTradeRisk float64
	MinTradeRisk float64
	// KellyFraction scales the raw Kelly estimate (quarter-Kelly).
	KellyFraction float64
	// DefaultStopPips is the stop distance used when a pair has no
	// volatility entry, and for daily slots.
	DefaultStopPips float64
	// FallbackPipValue is used for P&L on pairs outside the table, so a
	// settlement never silently records zero.
	FallbackPipValue float64
}

// DefaultPolicy returns the standard policy constants.
func DefaultPolicy() Policy {
	return Policy{
		MinRiskReward:    3.0,
		MaxDailyRisk:     0.01,
		MaxTradeRisk:     0.005,
		MinTradeRisk:     0.001,
		KellyFraction:    0.25,
		DefaultStopPips:  30,
		FallbackPipValue: 10.0,
	}
}

// Config bundles the injected tables and policy for an Engine.
type Config struct {
	Pips       PipTable
	Volatility map[string]float64
	Priority   []string
	Policy     Policy
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		Pips:       DefaultPipTable(),
		Volatility: DefaultVolatility(),
		Priority:   DefaultPriority(),
		Policy:     DefaultPolicy(),
	}
}

// Engine computes growth plans, daily slots and settlement updates. It
// holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// New creates an Engine with the given configuration.
func New(cfg Config, log zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, log: log}
}

// NewDefault creates an Engine with DefaultConfig and a no-op logger.
func NewDefault() *Engine {
	return New(DefaultConfig(), zerolog.Nop())
}

// Pips exposes the configured pip table.
func (e *Engine) Pips() PipTable {
	return e.cfg.Pips
}

// Priority exposes the configured instrument priority list.
func (e *Engine) Priority() []string {
	return e.cfg.Priority
}

// MaxDailyRisk exposes the policy's daily risk ceiling as a fraction of
// balance.
func (e *Engine) MaxDailyRisk() float64 {
	return e.cfg.Policy.MaxDailyRisk
}

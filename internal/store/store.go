// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"fxtracker/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Accounts
	CreateAccount(ctx context.Context, acct *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountsByUser(ctx context.Context, userID string) ([]models.Account, error)
	UpdateAccount(ctx context.Context, acct *models.Account) error

	// Trades
	GetTrade(ctx context.Context, id string) (*models.Trade, error)
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)

	// Trading plan snapshot (one per account)
	SaveTradingPlan(ctx context.Context, plan *models.TradingPlan) error
	GetTradingPlan(ctx context.Context, accountID string) (*models.TradingPlan, error)

	// Growth plans
	CreateGrowthPlan(ctx context.Context, plan *models.GrowthPlan) error
	GetGrowthPlan(ctx context.Context, accountID string) (*models.GrowthPlan, error)
	UpdateGrowthPlan(ctx context.Context, plan *models.GrowthPlan) error

	// Daily trade slots
	SaveDailyPlans(ctx context.Context, plans []models.DailyTradePlan) error
	GetDailyPlans(ctx context.Context, filter DailyPlanFilter) ([]models.DailyTradePlan, error)

	// Settlement applies a trade and all of its downstream state changes
	// in a single transaction.
	ApplySettlement(ctx context.Context, st *Settlement) error

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	UserID    string
	AccountID string
	Pair      string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

// DailyPlanFilter represents filters for querying daily trade slots.
type DailyPlanFilter struct {
	GrowthPlanID string
	Date         time.Time // matched by calendar day when non-zero
	OnlyPending  bool
}

// Settlement is the unit of work produced by settling one trade. All
// fields that are set are persisted together; a failure anywhere rolls
// the whole settlement back.
type Settlement struct {
	// Trade is the settled trade to insert.
	Trade *models.Trade

	// AccountID and NewBalance update the account's running balance.
	AccountID  string
	NewBalance float64

	// TradingPlan is the rebuilt recommendation snapshot, upserted by
	// account.
	TradingPlan *models.TradingPlan

	// GrowthPlan is the plan row after the settlement transition, written
	// in full. Nil when the account has no active plan.
	GrowthPlan *models.GrowthPlan

	// ReplaceSlots, when non-nil, replaces the growth plan's slots for
	// the trade date with the given set. Used on day rollover.
	ReplaceSlots []models.DailyTradePlan

	// ExecutedSlotID, when set, marks that slot executed with the trade's
	// realized result.
	ExecutedSlotID string
	SlotResult     float64
	ExecutedAt     time.Time
}

// Package service implements the application's use cases on top of the
// engine and the store.
package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fxtracker/internal/engine"
	apperrors "fxtracker/internal/errors"
	"fxtracker/internal/logging"
	"fxtracker/internal/models"
	"fxtracker/internal/notify"
	"fxtracker/internal/store"
	"fxtracker/internal/stream"
)

// DefaultHorizonDays is the plan horizon assumed when an account is
// created without an explicit one.
const DefaultHorizonDays = 30

const lockStripes = 32

// Tracker coordinates accounts, trades and plans. All settlement paths
// for one account are serialized through a striped lock so concurrent
// trades cannot interleave their read-compute-write cycles.
type Tracker struct {
	store    store.DataStore
	engine   *engine.Engine
	hub      *stream.Hub
	notifier notify.Notifier
	log      zerolog.Logger
	now      func() time.Time
	locks    [lockStripes]sync.Mutex
}

// New creates a Tracker.
func New(st store.DataStore, eng *engine.Engine, hub *stream.Hub, notifier notify.Notifier, log zerolog.Logger) *Tracker {
	if notifier == nil {
		notifier = notify.NoOpNotifier{}
	}
	return &Tracker{
		store:    st,
		engine:   eng,
		hub:      hub,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// SetClock overrides the tracker's time source.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// Engine exposes the planning engine for read-only reference data.
func (t *Tracker) Engine() *engine.Engine {
	return t.engine
}

func (t *Tracker) lockAccount(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &t.locks[h.Sum32()%lockStripes]
}

// CreateAccountInput holds the fields needed to open a new account.
type CreateAccountInput struct {
	UserID          string  `json:"userId"`
	Name            string  `json:"name"`
	StartingCapital float64 `json:"startingCapital"`
	MaxDailyLoss    float64 `json:"maxDailyLoss"`   // percent
	MaxOverallLoss  float64 `json:"maxOverallLoss"` // percent
	ProfitTarget    float64 `json:"profitTarget"`   // percent
	HorizonDays     int     `json:"horizonDays"`
}

// CreateAccount opens an account and seeds its plans: the recommendation
// snapshot, a growth plan sized from the profit target, and the first
// day's trade slots.
func (t *Tracker) CreateAccount(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	if in.Name == "" {
		return nil, apperrors.NewValidationError("name", in.Name, "must not be empty")
	}
	if in.StartingCapital <= 0 {
		return nil, apperrors.NewValidationError("startingCapital", in.StartingCapital, "must be positive")
	}
	if in.ProfitTarget <= 0 {
		return nil, apperrors.NewValidationError("profitTarget", in.ProfitTarget, "must be positive")
	}
	if in.HorizonDays < 0 {
		return nil, apperrors.NewValidationError("horizonDays", in.HorizonDays, "must not be negative")
	}
	if in.HorizonDays == 0 {
		in.HorizonDays = DefaultHorizonDays
	}

	now := t.now()
	acct := &models.Account{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Name:            in.Name,
		StartingCapital: in.StartingCapital,
		CurrentBalance:  in.StartingCapital,
		MaxDailyLoss:    in.MaxDailyLoss,
		MaxOverallLoss:  in.MaxOverallLoss,
		ProfitTarget:    in.ProfitTarget,
		IsActive:        true,
		CreatedAt:       now,
	}

	if err := t.store.CreateAccount(ctx, acct); err != nil {
		return nil, err
	}

	snapshot := t.engine.BuildTradingPlan(acct, now)
	snapshot.ID = uuid.NewString()
	if err := t.store.SaveTradingPlan(ctx, &snapshot); err != nil {
		return nil, err
	}

	target := acct.StartingCapital * (1 + acct.ProfitTarget/100)
	if _, err := t.startGrowthPlan(ctx, acct, target, in.HorizonDays, now); err != nil {
		return nil, err
	}

	t.hub.Publish(stream.Event{Type: stream.EventAccountCreated, AccountID: acct.ID, Payload: acct})
	t.log.Info().Str("account_id", acct.ID).Str("name", acct.Name).Msg("Account created")
	return acct, nil
}

// Account retrieves an account by ID.
func (t *Tracker) Account(ctx context.Context, id string) (*models.Account, error) {
	return t.store.GetAccount(ctx, id)
}

// Accounts retrieves all accounts for a user.
func (t *Tracker) Accounts(ctx context.Context, userID string) ([]models.Account, error) {
	return t.store.GetAccountsByUser(ctx, userID)
}

// Trades retrieves trades matching the filter.
func (t *Tracker) Trades(ctx context.Context, filter store.TradeFilter) ([]models.Trade, error) {
	return t.store.GetTrades(ctx, filter)
}

// TradingPlan retrieves the recommendation snapshot for an account.
func (t *Tracker) TradingPlan(ctx context.Context, accountID string) (*models.TradingPlan, error) {
	return t.store.GetTradingPlan(ctx, accountID)
}

// GrowthPlan retrieves the active growth plan for an account.
func (t *Tracker) GrowthPlan(ctx context.Context, accountID string) (*models.GrowthPlan, error) {
	return t.store.GetGrowthPlan(ctx, accountID)
}

// DailyPlans retrieves an account's daily trade slots. A zero date
// returns all days.
func (t *Tracker) DailyPlans(ctx context.Context, accountID string, date time.Time) ([]models.DailyTradePlan, error) {
	plan, err := t.store.GetGrowthPlan(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return t.store.GetDailyPlans(ctx, store.DailyPlanFilter{GrowthPlanID: plan.ID, Date: date})
}

// StartGrowthPlanInput holds the fields for starting a new growth plan.
type StartGrowthPlanInput struct {
	AccountID    string  `json:"accountId"`
	TargetAmount float64 `json:"targetAmount"`
	HorizonDays  int     `json:"horizonDays"`
}

// StartGrowthPlan creates a fresh growth plan for an account, replacing
// the active one as the most recent, and generates the first day's slots.
func (t *Tracker) StartGrowthPlan(ctx context.Context, in StartGrowthPlanInput) (*models.GrowthPlan, error) {
	mu := t.lockAccount(in.AccountID)
	mu.Lock()
	defer mu.Unlock()

	acct, err := t.store.GetAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}
	if !acct.IsActive {
		return nil, apperrors.ErrAccountInactive
	}
	return t.startGrowthPlan(ctx, acct, in.TargetAmount, in.HorizonDays, t.now())
}

func (t *Tracker) startGrowthPlan(ctx context.Context, acct *models.Account, targetAmount float64, horizonDays int, now time.Time) (*models.GrowthPlan, error) {
	history, err := t.store.GetTrades(ctx, store.TradeFilter{AccountID: acct.ID})
	if err != nil {
		return nil, err
	}
	chronological(history)

	analysis, err := t.engine.BuildGrowthPlan(acct, targetAmount, horizonDays, history)
	if err != nil {
		return nil, err
	}

	plan := &models.GrowthPlan{
		ID:             uuid.NewString(),
		AccountID:      acct.ID,
		TargetAmount:   targetAmount,
		TargetTrades:   horizonDays * models.SlotsPerDay,
		CurrentTrade:   1,
		RiskPerTrade:   analysis.OptimalRiskPerTrade,
		DailyRiskLimit: acct.CurrentBalance * t.engine.MaxDailyRisk(),
		RemainingDays:  horizonDays,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := t.store.CreateGrowthPlan(ctx, plan); err != nil {
		return nil, err
	}

	slots := t.engine.GenerateDailySlots(plan, acct.CurrentBalance, dateOnly(now))
	for i := range slots {
		slots[i].ID = uuid.NewString()
	}
	if err := t.store.SaveDailyPlans(ctx, slots); err != nil {
		return nil, err
	}

	t.hub.Publish(stream.Event{Type: stream.EventSlotsGenerated, AccountID: acct.ID, Payload: slots})
	return plan, nil
}

// AnalyzeGrowthPlan runs the planner against an account's history
// without persisting anything.
func (t *Tracker) AnalyzeGrowthPlan(ctx context.Context, accountID string, targetAmount float64, horizonDays int) (*engine.GrowthPlanAnalysis, error) {
	acct, err := t.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	history, err := t.store.GetTrades(ctx, store.TradeFilter{AccountID: accountID})
	if err != nil {
		return nil, err
	}
	chronological(history)
	return t.engine.BuildGrowthPlan(acct, targetAmount, horizonDays, history)
}

// RecordTradeInput holds the fields needed to settle a trade.
type RecordTradeInput struct {
	UserID         string         `json:"userId"`
	AccountID      string         `json:"accountId"`
	Pair           string         `json:"pair"`
	Outcome        models.Outcome `json:"outcome"`
	LotSize        float64        `json:"lotSize"`
	EntryPrice     float64        `json:"entryPrice"`
	ExitPrice      float64        `json:"exitPrice"`
	StopLossPips   float64        `json:"stopLossPips"`
	TakeProfitPips float64        `json:"takeProfitPips"`
	TradeTime      time.Time      `json:"tradeTime"`
	Notes          string         `json:"notes"`
}

// RecordTrade settles a trade: computes its P&L, updates the account
// balance, rebuilds the recommendation snapshot, folds the result into
// the growth plan and marks the executed slot. All of it is persisted in
// a single settlement.
func (t *Tracker) RecordTrade(ctx context.Context, in RecordTradeInput) (*models.Trade, error) {
	if !in.Outcome.Valid() {
		return nil, apperrors.NewValidationError("outcome", in.Outcome, "must be win or loss")
	}
	if in.Pair == "" {
		return nil, apperrors.NewValidationError("pair", in.Pair, "must not be empty")
	}
	if in.LotSize <= 0 {
		return nil, apperrors.NewValidationError("lotSize", in.LotSize, "must be positive")
	}

	mu := t.lockAccount(in.AccountID)
	mu.Lock()
	defer mu.Unlock()

	acct, err := t.store.GetAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}
	if !acct.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	now := t.now()
	tradeTime := in.TradeTime
	if tradeTime.IsZero() {
		tradeTime = now
	}

	pnl := t.engine.ProfitLoss(in.Pair, in.LotSize, in.EntryPrice, in.ExitPrice, in.Outcome)
	trade := &models.Trade{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		AccountID:      in.AccountID,
		Pair:           in.Pair,
		Outcome:        in.Outcome,
		LotSize:        in.LotSize,
		EntryPrice:     in.EntryPrice,
		ExitPrice:      in.ExitPrice,
		StopLossPips:   in.StopLossPips,
		TakeProfitPips: in.TakeProfitPips,
		ProfitLoss:     pnl,
		TradeTime:      tradeTime,
		Notes:          in.Notes,
		CreatedAt:      now,
	}

	newBalance := acct.CurrentBalance + pnl
	acct.CurrentBalance = newBalance

	snapshot := t.engine.BuildTradingPlan(acct, now)
	snapshot.ID = uuid.NewString()

	settlement := &store.Settlement{
		Trade:       trade,
		AccountID:   acct.ID,
		NewBalance:  newBalance,
		TradingPlan: &snapshot,
	}

	plan, err := t.store.GetGrowthPlan(ctx, in.AccountID)
	if err != nil && !apperrors.Is(err, apperrors.ErrPlanNotFound) {
		return nil, err
	}

	var completed bool
	if plan != nil && !plan.IsCompleted {
		history, err := t.store.GetTrades(ctx, store.TradeFilter{AccountID: in.AccountID})
		if err != nil {
			return nil, err
		}
		chronological(history)
		history = append(history, *trade)

		isNewDay := engine.IsNewTradingDay(plan, tradeTime)
		update := t.engine.SettleTrade(plan, pnl, isNewDay, tradeTime, newBalance, history)

		plan.RiskPerTrade = update.RiskPerTrade
		plan.CurrentTrade = update.CurrentTrade
		plan.DailyLossUsed = update.DailyLossUsed
		plan.TotalTradesCompleted = update.TotalTradesCompleted
		last := update.LastTradeDate
		plan.LastTradeDate = &last
		plan.IsCompleted = update.IsCompleted
		if isNewDay && plan.RemainingDays > 0 {
			plan.RemainingDays--
		}
		plan.UpdatedAt = now
		settlement.GrowthPlan = plan
		completed = update.IsCompleted

		if isNewDay && !update.IsCompleted {
			slots := t.engine.GenerateDailySlots(plan, newBalance, dateOnly(tradeTime))
			for i := range slots {
				slots[i].ID = uuid.NewString()
			}
			settlement.ReplaceSlots = slots
		}

		if slotID, err := t.pendingSlot(ctx, plan.ID, tradeTime, settlement.ReplaceSlots); err == nil && slotID != "" {
			settlement.ExecutedSlotID = slotID
			settlement.SlotResult = pnl
			settlement.ExecutedAt = now
		}
	}

	if err := t.store.ApplySettlement(ctx, settlement); err != nil {
		return nil, err
	}

	t.hub.Publish(stream.Event{Type: stream.EventTradeCreated, AccountID: acct.ID, Payload: trade})
	if settlement.GrowthPlan != nil {
		t.hub.Publish(stream.Event{Type: stream.EventPlanUpdated, AccountID: acct.ID, Payload: settlement.GrowthPlan})
	}
	if settlement.ReplaceSlots != nil {
		t.hub.Publish(stream.Event{Type: stream.EventSlotsGenerated, AccountID: acct.ID, Payload: settlement.ReplaceSlots})
	}

	logging.LogTrade(t.log, acct.ID, trade.Pair, trade.LotSize, trade.ProfitLoss)
	if settlement.GrowthPlan != nil {
		logging.LogPlanUpdate(t.log, acct.ID, settlement.GrowthPlan.CurrentTrade, settlement.GrowthPlan.TotalTradesCompleted, completed)
	}

	if err := t.notifier.SendTrade(ctx, trade); err != nil {
		t.log.Warn().Err(err).Msg("trade notification failed")
	}
	if completed {
		t.hub.Publish(stream.Event{Type: stream.EventPlanCompleted, AccountID: acct.ID, Payload: settlement.GrowthPlan})
		if err := t.notifier.SendPlanCompleted(ctx, settlement.GrowthPlan); err != nil {
			t.log.Warn().Err(err).Msg("plan completion notification failed")
		}
	}

	return trade, nil
}

// pendingSlot finds the lowest-index unexecuted slot for the trade's
// day. Freshly generated replacement slots take precedence over stored
// ones because the stored set is about to be replaced.
func (t *Tracker) pendingSlot(ctx context.Context, planID string, tradeTime time.Time, replacement []models.DailyTradePlan) (string, error) {
	if replacement != nil {
		for _, s := range replacement {
			if !s.IsExecuted {
				return s.ID, nil
			}
		}
		return "", nil
	}
	slots, err := t.store.GetDailyPlans(ctx, store.DailyPlanFilter{GrowthPlanID: planID, Date: tradeTime, OnlyPending: true})
	if err != nil {
		return "", err
	}
	if len(slots) == 0 {
		return "", nil
	}
	return slots[0].ID, nil
}

// chronological orders trades oldest first. The store returns newest
// first; the analyzer's streak scan needs the opposite.
func chronological(trades []models.Trade) {
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

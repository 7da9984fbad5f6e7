package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"fxtracker/internal/engine"
	apperrors "fxtracker/internal/errors"
	"fxtracker/internal/models"
	"fxtracker/internal/store"
	"fxtracker/internal/stream"
)

func newTestTracker(t *testing.T) (*Tracker, *store.MemStore, func(time.Time)) {
	t.Helper()

	st := store.NewMemStore()
	hub := stream.NewHub()
	tracker := New(st, engine.NewDefault(), hub, nil, zerolog.Nop())

	clock := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tracker.SetClock(func() time.Time { return clock })
	setClock := func(now time.Time) {
		clock = now
		tracker.SetClock(func() time.Time { return clock })
	}
	return tracker, st, setClock
}

func createTestAccount(t *testing.T, tracker *Tracker) *models.Account {
	t.Helper()
	acct, err := tracker.CreateAccount(context.Background(), CreateAccountInput{
		UserID:          "user-1",
		Name:            "growth account",
		StartingCapital: 10000,
		MaxDailyLoss:    5,
		MaxOverallLoss:  10,
		ProfitTarget:    10,
	})
	if err != nil {
		t.Fatal(err)
	}
	return acct
}

func TestCreateAccountSeedsPlans(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	acct := createTestAccount(t, tracker)
	if acct.CurrentBalance != 10000 || !acct.IsActive {
		t.Errorf("account = %+v", acct)
	}

	snapshot, err := tracker.TradingPlan(ctx, acct.ID)
	if err != nil {
		t.Fatalf("snapshot not seeded: %v", err)
	}
	if snapshot.RiskPercentage != 2.0 {
		t.Errorf("snapshot risk = %v", snapshot.RiskPercentage)
	}

	plan, err := tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatalf("growth plan not seeded: %v", err)
	}
	if plan.TargetAmount != 11000 {
		t.Errorf("TargetAmount = %v, want 11000 (10%% over capital)", plan.TargetAmount)
	}
	if plan.TargetTrades != DefaultHorizonDays*models.SlotsPerDay {
		t.Errorf("TargetTrades = %v, want %v", plan.TargetTrades, DefaultHorizonDays*models.SlotsPerDay)
	}
	if plan.DailyRiskLimit != 100 {
		t.Errorf("DailyRiskLimit = %v, want 100 (1%% of balance)", plan.DailyRiskLimit)
	}
	if plan.RiskPerTrade != 0.5 {
		t.Errorf("RiskPerTrade = %v, want 0.5 for an empty history", plan.RiskPerTrade)
	}
	if plan.RemainingDays != DefaultHorizonDays {
		t.Errorf("RemainingDays = %v", plan.RemainingDays)
	}

	slots, err := tracker.DailyPlans(ctx, acct.ID, tracker.now())
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != models.SlotsPerDay {
		t.Fatalf("seeded %d slots, want %d", len(slots), models.SlotsPerDay)
	}
	for _, s := range slots {
		if s.ID == "" {
			t.Error("slot without an ID")
		}
		if s.IsExecuted {
			t.Error("slot seeded as executed")
		}
	}
}

func TestCreateAccountValidation(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateAccountInput
	}{
		{"empty name", CreateAccountInput{StartingCapital: 1000, ProfitTarget: 10}},
		{"zero capital", CreateAccountInput{Name: "a", ProfitTarget: 10}},
		{"negative capital", CreateAccountInput{Name: "a", StartingCapital: -1, ProfitTarget: 10}},
		{"zero target", CreateAccountInput{Name: "a", StartingCapital: 1000}},
		{"negative horizon", CreateAccountInput{Name: "a", StartingCapital: 1000, ProfitTarget: 10, HorizonDays: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tracker.CreateAccount(ctx, tt.in); !apperrors.IsValidation(err) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestRecordTradeSettlement(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()
	acct := createTestAccount(t, tracker)

	// 50 pips on 0.1 lots of GBPUSD = +$50
	trade, err := tracker.RecordTrade(ctx, RecordTradeInput{
		UserID:     "user-1",
		AccountID:  acct.ID,
		Pair:       "GBPUSD",
		Outcome:    models.OutcomeWin,
		LotSize:    0.1,
		EntryPrice: 1.2500,
		ExitPrice:  1.2550,
	})
	if err != nil {
		t.Fatal(err)
	}
	if trade.ProfitLoss != 50 {
		t.Errorf("ProfitLoss = %v, want 50", trade.ProfitLoss)
	}

	got, err := tracker.Account(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentBalance != 10050 {
		t.Errorf("balance = %v, want 10050", got.CurrentBalance)
	}

	plan, err := tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if plan.TotalTradesCompleted != 1 {
		t.Errorf("TotalTradesCompleted = %v, want 1", plan.TotalTradesCompleted)
	}
	if plan.LastTradeDate == nil {
		t.Fatal("LastTradeDate not set")
	}
	if plan.IsCompleted {
		t.Error("plan completed prematurely")
	}

	// One slot carries the realized result.
	slots, err := tracker.DailyPlans(ctx, acct.ID, tracker.now())
	if err != nil {
		t.Fatal(err)
	}
	var executed int
	for _, s := range slots {
		if s.IsExecuted {
			executed++
			if s.ActualResult == nil || *s.ActualResult != 50 {
				t.Errorf("executed slot result = %v", s.ActualResult)
			}
		}
	}
	if executed != 1 {
		t.Errorf("%d slots executed, want 1", executed)
	}
}

func TestRecordTradeSameDayAdvancesSlot(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()
	acct := createTestAccount(t, tracker)

	record := func() {
		t.Helper()
		_, err := tracker.RecordTrade(ctx, RecordTradeInput{
			AccountID:  acct.ID,
			Pair:       "GBPUSD",
			Outcome:    models.OutcomeWin,
			LotSize:    0.1,
			EntryPrice: 1.2500,
			ExitPrice:  1.2550,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	record()
	record()

	plan, err := tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if plan.CurrentTrade != 2 {
		t.Errorf("CurrentTrade = %v, want 2 after two same-day trades", plan.CurrentTrade)
	}
	if plan.TotalTradesCompleted != 2 {
		t.Errorf("TotalTradesCompleted = %v, want 2", plan.TotalTradesCompleted)
	}

	slots, err := tracker.DailyPlans(ctx, acct.ID, tracker.now())
	if err != nil {
		t.Fatal(err)
	}
	var executed int
	for _, s := range slots {
		if s.IsExecuted {
			executed++
		}
	}
	if executed != 2 {
		t.Errorf("%d slots executed, want 2", executed)
	}
}

func TestRecordTradeDayRollover(t *testing.T) {
	tracker, _, setClock := newTestTracker(t)
	ctx := context.Background()
	acct := createTestAccount(t, tracker)

	_, err := tracker.RecordTrade(ctx, RecordTradeInput{
		AccountID:  acct.ID,
		Pair:       "GBPUSD",
		Outcome:    models.OutcomeWin,
		LotSize:    0.1,
		EntryPrice: 1.2500,
		ExitPrice:  1.2550,
	})
	if err != nil {
		t.Fatal(err)
	}

	plan, err := tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	daysAfterFirst := plan.RemainingDays

	nextDay := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	setClock(nextDay)

	_, err = tracker.RecordTrade(ctx, RecordTradeInput{
		AccountID:  acct.ID,
		Pair:       "GBPUSD",
		Outcome:    models.OutcomeLoss,
		LotSize:    0.1,
		EntryPrice: 1.2550,
		ExitPrice:  1.2530,
	})
	if err != nil {
		t.Fatal(err)
	}

	plan, err = tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if plan.RemainingDays != daysAfterFirst-1 {
		t.Errorf("RemainingDays = %v, want %v", plan.RemainingDays, daysAfterFirst-1)
	}
	if plan.CurrentTrade != 1 {
		t.Errorf("CurrentTrade = %v, want reset to 1", plan.CurrentTrade)
	}
	// 20 pips on 0.1 lots = $20 of the daily budget
	if plan.DailyLossUsed != 20 {
		t.Errorf("DailyLossUsed = %v, want 20", plan.DailyLossUsed)
	}

	slots, err := tracker.DailyPlans(ctx, acct.ID, nextDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != models.SlotsPerDay {
		t.Fatalf("new day has %d slots, want %d", len(slots), models.SlotsPerDay)
	}
}

func TestRecordTradeDayClosure(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()
	acct := createTestAccount(t, tracker)

	// A $150 loss exceeds the $100 daily budget outright.
	_, err := tracker.RecordTrade(ctx, RecordTradeInput{
		AccountID:  acct.ID,
		Pair:       "GBPUSD",
		Outcome:    models.OutcomeLoss,
		LotSize:    0.1,
		EntryPrice: 1.2650,
		ExitPrice:  1.2500,
	})
	if err != nil {
		t.Fatal(err)
	}

	plan, err := tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if plan.CurrentTrade != models.DayClosedSlot {
		t.Errorf("CurrentTrade = %v, want %v", plan.CurrentTrade, models.DayClosedSlot)
	}
	if plan.DayOpen() {
		t.Error("day reported open after budget exhaustion")
	}
}

func TestRecordTradeCompletesOnBalanceTarget(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()
	acct := createTestAccount(t, tracker)

	// 100 pips on a full lot = +$1000, pushing the balance to the target.
	_, err := tracker.RecordTrade(ctx, RecordTradeInput{
		AccountID:  acct.ID,
		Pair:       "GBPUSD",
		Outcome:    models.OutcomeWin,
		LotSize:    1.0,
		EntryPrice: 1.2500,
		ExitPrice:  1.2600,
	})
	if err != nil {
		t.Fatal(err)
	}

	plan, err := tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !plan.IsCompleted {
		t.Errorf("plan not completed at balance %v >= target %v", 11000.0, plan.TargetAmount)
	}

	// A settled plan no longer absorbs trades.
	_, err = tracker.RecordTrade(ctx, RecordTradeInput{
		AccountID:  acct.ID,
		Pair:       "GBPUSD",
		Outcome:    models.OutcomeWin,
		LotSize:    0.1,
		EntryPrice: 1.2600,
		ExitPrice:  1.2650,
	})
	if err != nil {
		t.Fatal(err)
	}
	plan, err = tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if plan.TotalTradesCompleted != 1 {
		t.Errorf("completed plan advanced to %v trades", plan.TotalTradesCompleted)
	}
}

func TestRecordTradeValidation(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RecordTradeInput
	}{
		{"bad outcome", RecordTradeInput{AccountID: "a", Pair: "GBPUSD", Outcome: "draw", LotSize: 0.1}},
		{"empty pair", RecordTradeInput{AccountID: "a", Outcome: models.OutcomeWin, LotSize: 0.1}},
		{"zero lots", RecordTradeInput{AccountID: "a", Pair: "GBPUSD", Outcome: models.OutcomeWin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tracker.RecordTrade(ctx, tt.in); !apperrors.IsValidation(err) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestRecordTradeInactiveAccount(t *testing.T) {
	tracker, st, _ := newTestTracker(t)
	ctx := context.Background()
	acct := createTestAccount(t, tracker)

	acct.IsActive = false
	if err := st.UpdateAccount(ctx, acct); err != nil {
		t.Fatal(err)
	}

	_, err := tracker.RecordTrade(ctx, RecordTradeInput{
		AccountID:  acct.ID,
		Pair:       "GBPUSD",
		Outcome:    models.OutcomeWin,
		LotSize:    0.1,
		EntryPrice: 1.2500,
		ExitPrice:  1.2550,
	})
	if !errors.Is(err, apperrors.ErrAccountInactive) {
		t.Errorf("got %v, want ErrAccountInactive", err)
	}
}

func TestStartGrowthPlanReplacesActive(t *testing.T) {
	tracker, _, setClock := newTestTracker(t)
	ctx := context.Background()
	acct := createTestAccount(t, tracker)

	first, err := tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}

	// The fresh plan must sort as most recent.
	setClock(time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC))

	plan, err := tracker.StartGrowthPlan(ctx, StartGrowthPlanInput{
		AccountID:    acct.ID,
		TargetAmount: 12000,
		HorizonDays:  60,
	})
	if err != nil {
		t.Fatal(err)
	}
	if plan.ID == first.ID {
		t.Error("StartGrowthPlan reused the existing plan")
	}
	if plan.TargetTrades != 60*models.SlotsPerDay {
		t.Errorf("TargetTrades = %v, want %v", plan.TargetTrades, 60*models.SlotsPerDay)
	}

	active, err := tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if active.ID != plan.ID {
		t.Errorf("active plan = %s, want the new plan %s", active.ID, plan.ID)
	}
}

func TestAnalyzeGrowthPlanDoesNotPersist(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()
	acct := createTestAccount(t, tracker)

	before, err := tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}

	analysis, err := tracker.AnalyzeGrowthPlan(ctx, acct.ID, 15000, 90)
	if err != nil {
		t.Fatal(err)
	}
	if len(analysis.RecommendedTrades) != models.SlotsPerDay {
		t.Errorf("got %d recommendations", len(analysis.RecommendedTrades))
	}

	after, err := tracker.GrowthPlan(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if after.ID != before.ID || after.TargetAmount != before.TargetAmount {
		t.Error("analysis mutated the stored plan")
	}
}

func TestPerformance(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	ctx := context.Background()
	acct := createTestAccount(t, tracker)

	inputs := []RecordTradeInput{
		{AccountID: acct.ID, Pair: "GBPUSD", Outcome: models.OutcomeWin, LotSize: 0.1, EntryPrice: 1.2500, ExitPrice: 1.2550},  // +50
		{AccountID: acct.ID, Pair: "GBPUSD", Outcome: models.OutcomeLoss, LotSize: 0.1, EntryPrice: 1.2550, ExitPrice: 1.2530}, // -20
		{AccountID: acct.ID, Pair: "EURUSD", Outcome: models.OutcomeWin, LotSize: 0.1, EntryPrice: 1.1000, ExitPrice: 1.1030},  // +30
	}
	for _, in := range inputs {
		if _, err := tracker.RecordTrade(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	perf, err := tracker.Performance(ctx, acct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if perf.TotalTrades != 3 || perf.WinningTrades != 2 || perf.LosingTrades != 1 {
		t.Errorf("counts = %d/%d/%d", perf.TotalTrades, perf.WinningTrades, perf.LosingTrades)
	}
	if perf.TotalPnL != 60 {
		t.Errorf("TotalPnL = %v, want 60", perf.TotalPnL)
	}
	if perf.WinRate < 66.6 || perf.WinRate > 66.7 {
		t.Errorf("WinRate = %v", perf.WinRate)
	}
	if perf.AvgWin != 40 {
		t.Errorf("AvgWin = %v, want 40", perf.AvgWin)
	}
	if perf.AvgLoss != 20 {
		t.Errorf("AvgLoss = %v, want 20 (reported positive)", perf.AvgLoss)
	}
	if pp := perf.PairPerformance["GBPUSD"]; pp.Trades != 2 || pp.PnL != 30 {
		t.Errorf("GBPUSD pair perf = %+v", pp)
	}

	if _, err := tracker.Performance(ctx, "missing"); !errors.Is(err, apperrors.ErrAccountNotFound) {
		t.Errorf("got %v, want ErrAccountNotFound", err)
	}
}

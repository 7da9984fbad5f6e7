package engine

import (
	"time"

	"fxtracker/internal/models"
)

const (
	slotStopPips   = 30.0
	slotTargetPips = 90.0 // stop x 3, the policy risk:reward floor
	minLotSize     = 0.01
)

// GenerateDailySlots expands a growth plan's daily risk budget into
// exactly three concrete trade slots for the given date, one per slot
// index, following the fixed 50/25/25 allocation curve over the priority
// pairs. Slot IDs are assigned by the caller when persisting.
func (e *Engine) GenerateDailySlots(plan *models.GrowthPlan, balance float64, date time.Time) []models.DailyTradePlan {
	slots := make([]models.DailyTradePlan, 0, models.SlotsPerDay)
	for i := 1; i <= models.SlotsPerDay; i++ {
		pair := e.cfg.Priority[(i-1)%len(e.cfg.Priority)]
		slots = append(slots, e.GenerateSlot(plan, balance, i, pair, date))
	}
	return slots
}

// GenerateSlot builds a single slot. Callers regenerating a slot for a
// different instrument pass the override pair; the risk and size math is
// unchanged, only the instrument label (and its pip value) differs.
func (e *Engine) GenerateSlot(plan *models.GrowthPlan, balance float64, index int, pair string, date time.Time) models.DailyTradePlan {
	share := riskAllocation[(index-1)%models.SlotsPerDay]
	allocated := plan.DailyRiskLimit * share

	riskPct := 0.0
	if balance > 0 {
		riskPct = allocated / balance * 100
	}
	lot := e.OptimalLotSize(balance, riskPct, slotStopPips, pair)
	if lot < minLotSize {
		lot = minLotSize
	}

	pip, _ := e.cfg.Pips.ValuePerPip(pair)
	return models.DailyTradePlan{
		GrowthPlanID:   plan.ID,
		Pair:           pair,
		SlotIndex:      index,
		AllocatedRisk:  share * 100,
		LotSize:        lot,
		StopLossPips:   slotStopPips,
		TakeProfitPips: slotTargetPips,
		ExpectedProfit: slotTargetPips * lot * pip,
		TradeDate:      date,
	}
}
